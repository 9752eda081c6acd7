package service

import (
	"context"
	"fmt"

	"starsbot/models"
)

// sponsorService implements the SponsorService interface
type sponsorService struct {
	uowFactory UnitOfWorkFactory
}

// NewSponsorService creates a new sponsor service
func NewSponsorService(uowFactory UnitOfWorkFactory) SponsorService {
	return &sponsorService{uowFactory: uowFactory}
}

// CheckAccess reports whether the user passes the sponsor gate. An empty
// sponsor set passes unconditionally; otherwise every configured sponsor
// needs a confirmed subscription row.
func (s *sponsorService) CheckAccess(ctx context.Context, userID int64) (bool, error) {
	statuses, err := s.ListWithStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, status := range statuses {
		if !status.Subscribed {
			return false, nil
		}
	}
	return true, nil
}

// RequireAccess fails with ErrSponsorGateBlocked when the gate is closed.
func (s *sponsorService) RequireAccess(ctx context.Context, userID int64) error {
	ok, err := s.CheckAccess(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSponsorGateBlocked
	}
	return nil
}

// ListWithStatus returns all sponsors with the user's subscription state.
func (s *sponsorService) ListWithStatus(ctx context.Context, userID int64) ([]*models.SponsorStatus, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	statuses, err := uow.SponsorRepository().StatusForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor status for user %d: %w", userID, err)
	}
	return statuses, nil
}

// ConfirmAll marks the user subscribed to every configured sponsor in one
// transaction. Membership is self-reported; there is no check against the
// messaging platform.
func (s *sponsorService) ConfirmAll(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sponsors, err := uow.SponsorRepository().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sponsors: %w", err)
	}
	for _, sponsor := range sponsors {
		sub := &models.SponsorSubscription{
			UserID:     userID,
			SponsorID:  sponsor.ID,
			Subscribed: true,
		}
		if err := uow.SponsorRepository().Upsert(ctx, sub); err != nil {
			return fmt.Errorf("failed to confirm subscription to sponsor %d: %w", sponsor.ID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddSponsor registers a sponsor channel (admin)
func (s *sponsorService) AddSponsor(ctx context.Context, channelName, channelID, channelURL string) (*models.Sponsor, error) {
	if channelName == "" || channelURL == "" {
		return nil, ErrInvalidInput
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sponsor, err := uow.SponsorRepository().Add(ctx, channelName, channelID, channelURL)
	if err != nil {
		return nil, fmt.Errorf("failed to add sponsor %s: %w", channelName, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return sponsor, nil
}

// RemoveSponsor deletes a sponsor channel and its subscription rows (admin)
func (s *sponsorService) RemoveSponsor(ctx context.Context, sponsorID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SponsorRepository().Remove(ctx, sponsorID); err != nil {
		return fmt.Errorf("failed to remove sponsor %d: %w", sponsorID, err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
