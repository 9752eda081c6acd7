package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for conditions transports branch on. Validation failures
// never mutate state; callers render them as short user-facing messages.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSponsorGateBlocked = errors.New("sponsor subscription required")
	ErrNoActiveSession    = errors.New("no active game session")
)

// BelowMinimumBetError reports a bet under the game's minimum. Min is in
// minor units.
type BelowMinimumBetError struct {
	Min int64
}

func (e *BelowMinimumBetError) Error() string {
	return fmt.Sprintf("bet is below the minimum of %d", e.Min)
}

// CooldownError reports a click attempted before the cooldown elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: %d seconds remaining", int64(e.Remaining.Seconds()))
}

// RemainingSeconds returns the remaining cooldown in whole seconds.
func (e *CooldownError) RemainingSeconds() int64 {
	return int64(e.Remaining.Seconds())
}

// ReferralRequirementError reports a withdrawal attempt with too few active
// referrals.
type ReferralRequirementError struct {
	Active   int
	Required int
}

func (e *ReferralRequirementError) Error() string {
	return fmt.Sprintf("need %d active referrals, have %d", e.Required, e.Active)
}
