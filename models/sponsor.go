package models

import (
	"time"
)

// Sponsor is a channel users must be subscribed to before the bot unlocks.
type Sponsor struct {
	ID          int64  `db:"id"`
	ChannelName string `db:"channel_name"`
	ChannelID   string `db:"channel_id"`
	ChannelURL  string `db:"channel_url"`
}

// SponsorSubscription is one (user, sponsor) row, upserted on every check.
type SponsorSubscription struct {
	UserID     int64     `db:"user_id"`
	SponsorID  int64     `db:"sponsor_id"`
	Subscribed bool      `db:"subscribed"`
	CheckedAt  time.Time `db:"checked_at"`
}

// SponsorStatus pairs a sponsor with one user's subscription state.
type SponsorStatus struct {
	Sponsor
	Subscribed bool
}
