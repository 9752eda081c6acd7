package repository

import (
	"context"
	"fmt"

	"starsbot/database"
	"starsbot/models"
)

// SponsorRepository implements the SponsorRepository interface
type SponsorRepository struct {
	q queryable
}

// NewSponsorRepository creates a new sponsor repository
func NewSponsorRepository(db *database.DB) *SponsorRepository {
	return &SponsorRepository{q: db.Pool}
}

// newSponsorRepositoryWithTx creates a new sponsor repository with a transaction
func newSponsorRepositoryWithTx(tx queryable) *SponsorRepository {
	return &SponsorRepository{q: tx}
}

// List returns all configured sponsors in id order
func (r *SponsorRepository) List(ctx context.Context) ([]*models.Sponsor, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, channel_name, channel_id, channel_url FROM sponsors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	var sponsors []*models.Sponsor
	for rows.Next() {
		var s models.Sponsor
		if err := rows.Scan(&s.ID, &s.ChannelName, &s.ChannelID, &s.ChannelURL); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		sponsors = append(sponsors, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sponsors: %w", err)
	}
	return sponsors, nil
}

// Add registers a new sponsor channel
func (r *SponsorRepository) Add(ctx context.Context, channelName, channelID, channelURL string) (*models.Sponsor, error) {
	query := `
		INSERT INTO sponsors (channel_name, channel_id, channel_url)
		VALUES ($1, $2, $3)
		RETURNING id, channel_name, channel_id, channel_url
	`

	var s models.Sponsor
	err := r.q.QueryRow(ctx, query, channelName, channelID, channelURL).Scan(
		&s.ID, &s.ChannelName, &s.ChannelID, &s.ChannelURL)
	if err != nil {
		return nil, fmt.Errorf("failed to add sponsor %s: %w", channelName, err)
	}
	return &s, nil
}

// Remove deletes a sponsor; subscription rows go with it via the cascade
func (r *SponsorRepository) Remove(ctx context.Context, sponsorID int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM sponsors WHERE id = $1`, sponsorID)
	if err != nil {
		return fmt.Errorf("failed to remove sponsor %d: %w", sponsorID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("sponsor %d not found", sponsorID)
	}
	return nil
}

// StatusForUser returns every sponsor with the user's subscription state
func (r *SponsorRepository) StatusForUser(ctx context.Context, userID int64) ([]*models.SponsorStatus, error) {
	query := `
		SELECT s.id, s.channel_name, s.channel_id, s.channel_url,
		       COALESCE(ss.subscribed, FALSE)
		FROM sponsors s
		LEFT JOIN sponsor_subscriptions ss ON ss.sponsor_id = s.id AND ss.user_id = $1
		ORDER BY s.id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor status for user %d: %w", userID, err)
	}
	defer rows.Close()

	var statuses []*models.SponsorStatus
	for rows.Next() {
		var st models.SponsorStatus
		err := rows.Scan(&st.ID, &st.ChannelName, &st.ChannelID, &st.ChannelURL, &st.Subscribed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sponsor status: %w", err)
		}
		statuses = append(statuses, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sponsor statuses: %w", err)
	}
	return statuses, nil
}

// Upsert creates or refreshes one (user, sponsor) subscription row
func (r *SponsorRepository) Upsert(ctx context.Context, sub *models.SponsorSubscription) error {
	query := `
		INSERT INTO sponsor_subscriptions (user_id, sponsor_id, subscribed, checked_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, sponsor_id)
		DO UPDATE SET subscribed = EXCLUDED.subscribed, checked_at = NOW()
	`

	_, err := r.q.Exec(ctx, query, sub.UserID, sub.SponsorID, sub.Subscribed)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription (%d, %d): %w", sub.UserID, sub.SponsorID, err)
	}
	return nil
}
