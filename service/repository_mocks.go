package service

import (
	"context"
	"time"

	"starsbot/events"
	"starsbot/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userID int64, username string, referrerID *int64) (*models.User, error) {
	args := m.Called(ctx, userID, username, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetLastClick(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateGameStats(ctx context.Context, userID int64, wagered int64, won bool) error {
	args := m.Called(ctx, userID, wagered, won)
	return args.Error(0)
}

func (m *MockUserRepository) ReferralStats(ctx context.Context, userID int64) (*models.ReferralStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferralStats), args.Error(1)
}

func (m *MockUserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) Aggregates(ctx context.Context) (int, int64, int64, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) TotalLost(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, userID int64, amount int64) (*models.Withdrawal, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) List(ctx context.Context, status *models.WithdrawalStatus) ([]*models.Withdrawal, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) (*models.Withdrawal, error) {
	args := m.Called(ctx, withdrawalID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockSponsorRepository is a mock implementation of SponsorRepository
type MockSponsorRepository struct {
	mock.Mock
}

func (m *MockSponsorRepository) List(ctx context.Context) ([]*models.Sponsor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sponsor), args.Error(1)
}

func (m *MockSponsorRepository) Add(ctx context.Context, channelName, channelID, channelURL string) (*models.Sponsor, error) {
	args := m.Called(ctx, channelName, channelID, channelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sponsor), args.Error(1)
}

func (m *MockSponsorRepository) Remove(ctx context.Context, sponsorID int64) error {
	args := m.Called(ctx, sponsorID)
	return args.Error(0)
}

func (m *MockSponsorRepository) StatusForUser(ctx context.Context, userID int64) ([]*models.SponsorStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SponsorStatus), args.Error(1)
}

func (m *MockSponsorRepository) Upsert(ctx context.Context, sub *models.SponsorSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the instances installed via SetRepositories without expectations.
type MockUnitOfWork struct {
	mock.Mock

	userRepo        UserRepository
	transactionRepo TransactionRepository
	withdrawalRepo  WithdrawalRepository
	sponsorRepo     SponsorRepository
	eventBus        EventPublisher
}

// SetRepositories installs the repositories the getters will return
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, transactionRepo TransactionRepository, withdrawalRepo WithdrawalRepository, sponsorRepo SponsorRepository, eventBus EventPublisher) {
	m.userRepo = userRepo
	m.transactionRepo = transactionRepo
	m.withdrawalRepo = withdrawalRepo
	m.sponsorRepo = sponsorRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository {
	return m.withdrawalRepo
}

func (m *MockUnitOfWork) SponsorRepository() SponsorRepository {
	return m.sponsorRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
