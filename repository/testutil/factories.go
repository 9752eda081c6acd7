package testutil

import (
	"context"
	"testing"

	"starsbot/database"
	"starsbot/models"

	"github.com/stretchr/testify/require"
)

// InsertUser creates a user row directly, bypassing the service layer
func InsertUser(t *testing.T, db *database.DB, userID int64, username string, balance int64) *models.User {
	t.Helper()

	var user models.User
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (user_id, username, balance)
		VALUES ($1, $2, $3)
		RETURNING user_id, username, balance, referrer_id, last_click, created_at, total_wagered, games_played, games_won
	`, userID, username, balance).Scan(
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
	require.NoError(t, err)
	return &user
}

// InsertReferredUser creates a user row with a referrer set
func InsertReferredUser(t *testing.T, db *database.DB, userID, referrerID int64, username string) *models.User {
	t.Helper()

	user := InsertUser(t, db, userID, username, 0)
	_, err := db.Pool.Exec(context.Background(),
		`UPDATE users SET referrer_id = $1 WHERE user_id = $2`, referrerID, userID)
	require.NoError(t, err)
	user.ReferrerID = &referrerID
	return user
}

// InsertTransaction appends a ledger row directly
func InsertTransaction(t *testing.T, db *database.DB, userID, amount int64, txType models.TransactionType) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO transactions (user_id, amount, type, description)
		VALUES ($1, $2, $3, '')
	`, userID, amount, txType)
	require.NoError(t, err)
}
