package repository

import (
	"context"
	"fmt"
	"time"

	"starsbot/database"
	"starsbot/models"
	"starsbot/service"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `user_id, username, balance, referrer_id, last_click, created_at, total_wagered, games_played, games_won`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Balance,
		&user.ReferrerID,
		&user.LastClick,
		&user.CreatedAt,
		&user.TotalWagered,
		&user.GamesPlayed,
		&user.GamesWon,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their platform ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1
	`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

// GetForUpdate retrieves a user and locks their row until the surrounding
// transaction ends
func (r *UserRepository) GetForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1
		FOR UPDATE
	`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	return user, nil
}

// Create creates a new user with a zero balance
func (r *UserRepository) Create(ctx context.Context, userID int64, username string, referrerID *int64) (*models.User, error) {
	query := `
		INSERT INTO users (user_id, username, referrer_id)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns + `
	`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID, username, referrerID))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	return user, nil
}

// AddBalance adds to a user's balance atomically and returns the new balance
func (r *UserRepository) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1
		WHERE user_id = $2
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, service.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", userID, err)
	}
	return newBalance, nil
}

// DeductBalance deducts from a user's balance atomically and returns the new
// balance. The update matches only when the balance covers the amount, so a
// concurrent debit can never take the balance negative.
func (r *UserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance - $1
		WHERE user_id = $2 AND balance >= $1
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Distinguish a missing user from a short balance
		exists, checkErr := r.exists(ctx, userID)
		if checkErr != nil {
			return 0, checkErr
		}
		if !exists {
			return 0, service.ErrUserNotFound
		}
		return 0, service.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}
	return newBalance, nil
}

func (r *UserRepository) exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	return exists, nil
}

// SetLastClick records the time of a successful click
func (r *UserRepository) SetLastClick(ctx context.Context, userID int64, at time.Time) error {
	result, err := r.q.Exec(ctx, `UPDATE users SET last_click = $1 WHERE user_id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to set last click for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// UpdateGameStats bumps wagered/played counters, and the won counter on a win
func (r *UserRepository) UpdateGameStats(ctx context.Context, userID int64, wagered int64, won bool) error {
	query := `
		UPDATE users
		SET total_wagered = total_wagered + $1,
		    games_played = games_played + 1,
		    games_won = games_won + CASE WHEN $2 THEN 1 ELSE 0 END
		WHERE user_id = $3
	`

	result, err := r.q.Exec(ctx, query, wagered, won, userID)
	if err != nil {
		return fmt.Errorf("failed to update game stats for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// ReferralStats counts a user's referrals. A referral is active once it has
// at least one confirmed sponsor subscription.
func (r *UserRepository) ReferralStats(ctx context.Context, userID int64) (*models.ReferralStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM sponsor_subscriptions ss
				WHERE ss.user_id = u.user_id AND ss.subscribed = TRUE
			))
		FROM users u
		WHERE u.referrer_id = $1
	`

	var stats models.ReferralStats
	err := r.q.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals for user %d: %w", userID, err)
	}
	return &stats, nil
}

// ListIDs returns every user id
func (r *UserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ids: %w", err)
	}
	return ids, nil
}

// Aggregates returns the user count and the balance/wagered totals
func (r *UserRepository) Aggregates(ctx context.Context) (int, int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(balance), 0), COALESCE(SUM(total_wagered), 0)
		FROM users
	`

	var totalUsers int
	var totalBalance, totalWagered int64
	err := r.q.QueryRow(ctx, query).Scan(&totalUsers, &totalBalance, &totalWagered)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to aggregate users: %w", err)
	}
	return totalUsers, totalBalance, totalWagered, nil
}
