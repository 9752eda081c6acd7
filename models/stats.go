package models

// GlobalStats holds the aggregate numbers shown in the admin panel.
// Money fields are in minor units.
type GlobalStats struct {
	TotalUsers         int
	TotalBalance       int64
	TotalWagered       int64
	PendingWithdrawals int
	TotalIncome        int64 // sum of all negative transaction amounts, as a positive number
}
