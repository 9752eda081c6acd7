package service

import (
	"context"
	"time"

	"starsbot/events"
	"starsbot/games"
	"starsbot/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their platform ID, or nil if absent
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetForUpdate retrieves a user and locks their row for the duration of
	// the surrounding transaction, or nil if absent
	GetForUpdate(ctx context.Context, userID int64) (*models.User, error)

	// Create creates a new user with a zero balance
	Create(ctx context.Context, userID int64, username string, referrerID *int64) (*models.User, error)

	// AddBalance adds to a user's balance atomically and returns the new balance
	AddBalance(ctx context.Context, userID int64, amount int64) (int64, error)

	// DeductBalance deducts from a user's balance atomically and returns the
	// new balance; fails with ErrInsufficientFunds rather than going negative
	DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error)

	// SetLastClick records the time of a successful click
	SetLastClick(ctx context.Context, userID int64, at time.Time) error

	// UpdateGameStats bumps wagered/played counters, and the won counter on a win
	UpdateGameStats(ctx context.Context, userID int64, wagered int64, won bool) error

	// ReferralStats counts a user's referrals, total and active. Active means
	// the referral has at least one confirmed sponsor subscription.
	ReferralStats(ctx context.Context, userID int64) (*models.ReferralStats, error)

	// ListIDs returns every user id, for broadcast-style consumers
	ListIDs(ctx context.Context) ([]int64, error)

	// Aggregates returns the user count and the balance/wagered totals
	Aggregates(ctx context.Context) (totalUsers int, totalBalance int64, totalWagered int64, err error)
}

// TransactionRepository defines the interface for the append-only ledger log
type TransactionRepository interface {
	// Append records one ledger entry, filling in its ID and CreatedAt
	Append(ctx context.Context, tx *models.Transaction) error

	// GetByUser returns a user's most recent transactions
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)

	// SumByUser returns the sum of all transaction amounts for a user
	SumByUser(ctx context.Context, userID int64) (int64, error)

	// TotalLost returns the absolute sum of all negative amounts across users
	TotalLost(ctx context.Context) (int64, error)
}

// WithdrawalRepository defines the interface for payout request data access
type WithdrawalRepository interface {
	// Create inserts a pending withdrawal and returns it with ID and CreatedAt set
	Create(ctx context.Context, userID int64, amount int64) (*models.Withdrawal, error)

	// List returns withdrawals, optionally filtered by status, newest first
	List(ctx context.Context, status *models.WithdrawalStatus) ([]*models.Withdrawal, error)

	// UpdateStatus transitions a pending withdrawal's status and returns the
	// updated row, or nil if no pending withdrawal matched
	UpdateStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) (*models.Withdrawal, error)

	// CountPending returns the number of pending withdrawals
	CountPending(ctx context.Context) (int, error)
}

// SponsorRepository defines the interface for sponsor and subscription data access
type SponsorRepository interface {
	// List returns all configured sponsors in id order
	List(ctx context.Context) ([]*models.Sponsor, error)

	// Add registers a new sponsor channel
	Add(ctx context.Context, channelName, channelID, channelURL string) (*models.Sponsor, error)

	// Remove deletes a sponsor and its subscription rows
	Remove(ctx context.Context, sponsorID int64) error

	// StatusForUser returns every sponsor with the user's subscription state
	StatusForUser(ctx context.Context, userID int64) ([]*models.SponsorStatus, error)

	// Upsert creates or updates one (user, sponsor) subscription row
	Upsert(ctx context.Context, sub *models.SponsorSubscription) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	TransactionRepository() TransactionRepository
	WithdrawalRepository() WithdrawalRepository
	SponsorRepository() SponsorRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// ClickResult reports a successful click reward.
type ClickResult struct {
	Reward      int64
	NewBalance  int64
	NextClickAt time.Time
}

// Profile bundles everything the profile view renders.
type Profile struct {
	User        *models.User
	Referrals   *models.ReferralStats
	NextClickIn time.Duration // zero when a click is available now
}

// PlayResult reports a resolved bet.
type PlayResult struct {
	Game       games.Type
	Bet        int64
	Outcome    *games.Outcome
	Net        int64 // signed ledger delta: payout - bet on a win, -bet on a loss
	NewBalance int64
}

// UserService defines the interface for admission, clicks and profile reads
type UserService interface {
	// AdmitUser creates the user on first contact, paying signup bonuses when
	// a valid referrer is given. Re-admission of an existing id is a no-op;
	// the returned flag reports whether the user was created.
	AdmitUser(ctx context.Context, userID int64, username string, referrerID *int64) (*models.User, bool, error)

	// GetUser retrieves a user, failing with ErrUserNotFound if absent
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// Click grants the periodic click reward, subject to the cooldown, and
	// propagates referral income to the user's referrer
	Click(ctx context.Context, userID int64) (*ClickResult, error)

	// GetProfile returns the user with referral stats and cooldown state
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
}

// GameService drives the per-user bet session machine and resolves bets
type GameService interface {
	// SelectGame opens (or silently replaces) the user's bet session
	SelectGame(userID int64, game games.Type, choice int) error

	// CancelSession discards the user's session without side effects
	CancelSession(userID int64)

	// ActiveSession returns the user's current session, if any
	ActiveSession(userID int64) (*GameSession, bool)

	// SubmitBet validates the typed bet amount and, when valid, resolves the
	// session's game and settles the net result through the ledger. The
	// session survives validation failures and ends on resolution.
	SubmitBet(ctx context.Context, userID int64, input string) (*PlayResult, error)

	// SweepSessions drops expired sessions; called periodically
	SweepSessions()
}

// SponsorService is the access gate over configured sponsor channels
type SponsorService interface {
	// CheckAccess reports whether the user passes the sponsor gate. An empty
	// sponsor set always passes.
	CheckAccess(ctx context.Context, userID int64) (bool, error)

	// RequireAccess fails with ErrSponsorGateBlocked when the gate is closed
	RequireAccess(ctx context.Context, userID int64) error

	// ListWithStatus returns all sponsors with the user's subscription state
	ListWithStatus(ctx context.Context, userID int64) ([]*models.SponsorStatus, error)

	// ConfirmAll marks the user subscribed to every configured sponsor
	ConfirmAll(ctx context.Context, userID int64) error

	// AddSponsor registers a sponsor channel (admin)
	AddSponsor(ctx context.Context, channelName, channelID, channelURL string) (*models.Sponsor, error)

	// RemoveSponsor deletes a sponsor channel (admin)
	RemoveSponsor(ctx context.Context, sponsorID int64) error
}

// WithdrawalService gates and records payout requests
type WithdrawalService interface {
	// RequestWithdrawal checks eligibility and, in one transaction, debits
	// the balance and creates a pending withdrawal
	RequestWithdrawal(ctx context.Context, userID int64, amount int64) (*models.Withdrawal, error)

	// ListWithdrawals returns withdrawals for the admin console
	ListWithdrawals(ctx context.Context, status *models.WithdrawalStatus) ([]*models.Withdrawal, error)

	// UpdateStatus applies an admin approval or rejection
	UpdateStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) error
}

// StatsService serves the admin console's aggregate reads
type StatsService interface {
	// GetGlobalStats returns platform-wide totals
	GetGlobalStats(ctx context.Context) (*models.GlobalStats, error)

	// ListUserIDs enumerates user ids for broadcasts
	ListUserIDs(ctx context.Context) ([]int64, error)

	// RecentTransactions returns a user's latest ledger entries
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}
