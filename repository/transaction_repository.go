package repository

import (
	"context"
	"fmt"

	"starsbot/database"
	"starsbot/models"
)

// TransactionRepository implements the TransactionRepository interface over
// the append-only transactions table.
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append records one ledger entry, filling in its ID and CreatedAt
func (r *TransactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, amount, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, tx.UserID, tx.Amount, tx.Type, tx.Description).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append transaction for user %d: %w", tx.UserID, err)
	}
	return nil
}

// GetByUser returns a user's most recent transactions
func (r *TransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.Description, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// SumByUser returns the sum of all transaction amounts for a user
func (r *TransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %d: %w", userID, err)
	}
	return sum, nil
}

// TotalLost returns the absolute sum of all negative amounts across users
func (r *TransactionRepository) TotalLost(ctx context.Context) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(-amount), 0) FROM transactions WHERE amount < 0`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum losses: %w", err)
	}
	return total, nil
}
