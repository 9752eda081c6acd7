package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"starsbot/config"
	"starsbot/events"
	"starsbot/models"
)

// withdrawalService implements the WithdrawalService interface
type withdrawalService struct {
	uowFactory UnitOfWorkFactory
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory) WithdrawalService {
	return &withdrawalService{uowFactory: uowFactory}
}

// RequestWithdrawal debits the user and records a pending withdrawal.
// Eligibility is checked against a snapshot taken inside the same
// transaction that performs the debit, so the balance cannot change
// between the check and the deduction.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, userID, amount int64) (*models.Withdrawal, error) {
	cfg := config.Get()
	if !cfg.IsWithdrawalTier(amount) {
		return nil, ErrInvalidInput
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	stats, err := uow.UserRepository().ReferralStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral stats for user %d: %w", userID, err)
	}
	if stats.Active < cfg.MinActiveReferrals {
		return nil, &ReferralRequirementError{Active: stats.Active, Required: cfg.MinActiveReferrals}
	}

	withdrawal, err := uow.WithdrawalRepository().Create(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	_, err = ApplyBalanceDelta(ctx, uow, userID, -amount, models.TransactionTypeWithdrawal,
		fmt.Sprintf("Withdrawal #%d", withdrawal.ID))
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		WithdrawalID: withdrawal.ID,
		UserID:       userID,
		Amount:       amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":       userID,
		"withdrawalID": withdrawal.ID,
		"amount":       amount,
	}).Info("Withdrawal requested")

	return withdrawal, nil
}

// ListWithdrawals returns withdrawals, optionally filtered by status (admin)
func (s *withdrawalService) ListWithdrawals(ctx context.Context, status *models.WithdrawalStatus) ([]*models.Withdrawal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawals, err := uow.WithdrawalRepository().List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}

// UpdateStatus resolves a pending withdrawal (admin). A rejection refunds
// the debited amount; approval is terminal with no further balance change.
func (s *withdrawalService) UpdateStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) error {
	if status != models.WithdrawalStatusApproved && status != models.WithdrawalStatusRejected {
		return ErrInvalidInput
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawal, err := uow.WithdrawalRepository().UpdateStatus(ctx, withdrawalID, status)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %d: %w", withdrawalID, err)
	}
	if withdrawal == nil {
		return ErrInvalidInput
	}

	if status == models.WithdrawalStatusRejected {
		if _, err := lockUsers(ctx, uow.UserRepository(), withdrawal.UserID); err != nil {
			return err
		}
		_, err = ApplyBalanceDelta(ctx, uow, withdrawal.UserID, withdrawal.Amount, models.TransactionTypeWithdrawal,
			fmt.Sprintf("Refund for rejected withdrawal #%d", withdrawal.ID))
		if err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"withdrawalID": withdrawalID,
		"status":       status,
	}).Info("Withdrawal resolved")

	return nil
}
