package bot

import (
	"testing"
	"time"

	"starsbot/service"

	"github.com/stretchr/testify/assert"
)

func TestFormatStars(t *testing.T) {
	assert.Equal(t, "0", formatStars(0))
	assert.Equal(t, "0.2", formatStars(20))
	assert.Equal(t, "1", formatStars(100))
	assert.Equal(t, "2.5", formatStars(250))
	assert.Equal(t, "15", formatStars(1500))
	assert.Equal(t, "1.03", formatStars(103))
	assert.Equal(t, "-3.5", formatStars(-350))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "59m 59s", formatDuration(3599*time.Second))
	assert.Equal(t, "1h 0m", formatDuration(time.Hour))
	assert.Equal(t, "0s", formatDuration(-time.Second))
}

func TestRenderError(t *testing.T) {
	assert.Contains(t, renderError(&service.CooldownError{Remaining: 3599 * time.Second}), "59m 59s")
	assert.Contains(t, renderError(&service.BelowMinimumBetError{Min: 100}), "1 STAR")
	assert.Contains(t, renderError(&service.ReferralRequirementError{Active: 2, Required: 3}), "3 active referrals")
	assert.Contains(t, renderError(service.ErrInsufficientFunds), "Not enough")
	assert.Contains(t, renderError(service.ErrSponsorGateBlocked), "sponsors")
}
