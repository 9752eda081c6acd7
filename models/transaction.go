package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeClick          TransactionType = "click"
	TransactionTypeReferralBonus  TransactionType = "referral_bonus"
	TransactionTypeReferralIncome TransactionType = "referral_income"
	TransactionTypeGameWin        TransactionType = "game_win"
	TransactionTypeGameLose       TransactionType = "game_lose"
	TransactionTypeWithdrawal     TransactionType = "withdrawal"
)

// Transaction is one append-only ledger entry. Amount is signed and in minor
// units; the sum of a user's transaction amounts always equals their balance.
type Transaction struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	Amount      int64           `db:"amount"`
	Type        TransactionType `db:"type"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}
