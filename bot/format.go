package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"starsbot/service"
)

// formatStars renders a minor-unit amount as STAR text, trimming trailing
// zeros ("1.5" not "1.50", "2" not "2.00").
func formatStars(amount int64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	whole := amount / 100
	frac := amount % 100
	if frac == 0 {
		return fmt.Sprintf("%s%d", neg, whole)
	}
	s := fmt.Sprintf("%s%d.%02d", neg, whole, frac)
	return strings.TrimSuffix(s, "0")
}

// formatDuration renders a remaining time as "59m 59s" or "45s".
func formatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// renderError maps service errors to short user-facing messages.
func renderError(err error) string {
	var cooldown *service.CooldownError
	if errors.As(err, &cooldown) {
		return fmt.Sprintf("⏰ Not yet! Come back in %s", formatDuration(cooldown.Remaining))
	}

	var minBet *service.BelowMinimumBetError
	if errors.As(err, &minBet) {
		return fmt.Sprintf("⚠️ The minimum bet is %s STAR", formatStars(minBet.Min))
	}

	var refReq *service.ReferralRequirementError
	if errors.As(err, &refReq) {
		return fmt.Sprintf("👥 You need %d active referrals to withdraw (you have %d). An active referral has confirmed the sponsor subscriptions.", refReq.Required, refReq.Active)
	}

	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return "💸 Not enough STARS for that"
	case errors.Is(err, service.ErrInvalidInput):
		return "⚠️ That doesn't look right. Send a positive amount like 1 or 2.5"
	case errors.Is(err, service.ErrNoActiveSession):
		return "🎮 Pick a game first"
	case errors.Is(err, service.ErrSponsorGateBlocked):
		return "📢 Subscribe to our sponsors first"
	case errors.Is(err, service.ErrUserNotFound):
		return "🤔 Send /start to register first"
	default:
		return "😿 Something went wrong, try again later"
	}
}
