package repository

import (
	"context"
	"fmt"

	"starsbot/database"
	"starsbot/models"

	"github.com/jackc/pgx/v5"
)

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create inserts a pending withdrawal
func (r *WithdrawalRepository) Create(ctx context.Context, userID int64, amount int64) (*models.Withdrawal, error) {
	query := `
		INSERT INTO withdrawals (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, user_id, amount, status, created_at
	`

	var w models.Withdrawal
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create withdrawal for user %d: %w", userID, err)
	}
	return &w, nil
}

// List returns withdrawals, optionally filtered by status, newest first. The
// username of each requester is joined in for admin views.
func (r *WithdrawalRepository) List(ctx context.Context, status *models.WithdrawalStatus) ([]*models.Withdrawal, error) {
	query := `
		SELECT w.id, w.user_id, w.amount, w.status, w.created_at, u.username
		FROM withdrawals w
		JOIN users u ON u.user_id = w.user_id
		WHERE $1::text IS NULL OR w.status = $1
		ORDER BY w.created_at DESC, w.id DESC
	`

	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.CreatedAt, &w.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}
	return withdrawals, nil
}

// UpdateStatus transitions a pending withdrawal and returns the updated row,
// or nil when the withdrawal does not exist or was already resolved.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) (*models.Withdrawal, error) {
	query := `
		UPDATE withdrawals
		SET status = $1
		WHERE id = $2 AND status = 'pending'
		RETURNING id, user_id, amount, status, created_at
	`

	var w models.Withdrawal
	err := r.q.QueryRow(ctx, query, status, withdrawalID).Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update withdrawal %d: %w", withdrawalID, err)
	}
	return &w, nil
}

// CountPending returns the number of pending withdrawals
func (r *WithdrawalRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending withdrawals: %w", err)
	}
	return count, nil
}
