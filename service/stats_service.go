package service

import (
	"context"
	"fmt"

	"starsbot/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{uowFactory: uowFactory}
}

// GetGlobalStats aggregates platform totals (admin)
func (s *statsService) GetGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	totalUsers, totalBalance, totalWagered, err := uow.UserRepository().Aggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate users: %w", err)
	}
	pending, err := uow.WithdrawalRepository().CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending withdrawals: %w", err)
	}
	totalIncome, err := uow.TransactionRepository().TotalLost(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum game losses: %w", err)
	}

	return &models.GlobalStats{
		TotalUsers:         totalUsers,
		TotalBalance:       totalBalance,
		TotalWagered:       totalWagered,
		PendingWithdrawals: pending,
		TotalIncome:        totalIncome,
	}, nil
}

// ListUserIDs returns every registered user id, for admin broadcast
func (s *statsService) ListUserIDs(ctx context.Context) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ids, err := uow.UserRepository().ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}

// RecentTransactions returns the latest ledger entries for a user
func (s *statsService) RecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transactions, err := uow.TransactionRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %d: %w", userID, err)
	}
	return transactions, nil
}
