package models

import (
	"time"
)

// User represents a platform user with a STAR balance.
// Balance and TotalWagered are stored in minor units (1 STAR = 100 units)
// to avoid floating point drift in money arithmetic.
type User struct {
	ID           int64      `db:"user_id"`
	Username     string     `db:"username"`
	Balance      int64      `db:"balance"`
	ReferrerID   *int64     `db:"referrer_id"`
	LastClick    *time.Time `db:"last_click"`
	CreatedAt    time.Time  `db:"created_at"`
	TotalWagered int64      `db:"total_wagered"`
	GamesPlayed  int        `db:"games_played"`
	GamesWon     int        `db:"games_won"`
}

// ReferralStats holds referral counters for a single user.
// Active counts referrals with at least one confirmed sponsor subscription.
type ReferralStats struct {
	Total  int
	Active int
}
