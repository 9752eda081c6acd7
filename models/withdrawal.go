package models

import (
	"time"
)

// WithdrawalStatus represents the state of a payout request
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a payout request. It is created together with the balance
// debit in one transaction; only the status field ever changes afterwards.
type Withdrawal struct {
	ID        int64            `db:"id"`
	UserID    int64            `db:"user_id"`
	Amount    int64            `db:"amount"`
	Status    WithdrawalStatus `db:"status"`
	CreatedAt time.Time        `db:"created_at"`

	// Username is populated by list queries that join users, for admin views.
	Username string `db:"-"`
}
