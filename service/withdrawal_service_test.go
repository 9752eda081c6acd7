package service

import (
	"context"
	"errors"
	"testing"

	"starsbot/config"
	"starsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupWithdrawalServiceMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, *MockTransactionRepository, *MockWithdrawalRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockWithdrawalRepo := new(MockWithdrawalRepository)
	mockEventBus := new(MockEventPublisher)

	mockUoW.SetRepositories(mockUserRepo, mockTxRepo, mockWithdrawalRepo, nil, mockEventBus)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockFactory, mockUserRepo, mockTxRepo, mockWithdrawalRepo, mockEventBus
}

func TestWithdrawalService_RequestWithdrawal_Success(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, mockTxRepo, mockWithdrawalRepo, mockEventBus := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	user := &models.User{ID: 123, Username: "testuser", Balance: 2000}
	withdrawal := &models.Withdrawal{ID: 7, UserID: 123, Amount: 1500, Status: models.WithdrawalStatusPending}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetForUpdate", ctx, int64(123)).Return(user, nil)
	mockUserRepo.On("ReferralStats", ctx, int64(123)).Return(&models.ReferralStats{Total: 5, Active: 3}, nil)
	mockWithdrawalRepo.On("Create", ctx, int64(123), int64(1500)).Return(withdrawal, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(123), int64(1500)).Return(int64(500), nil)

	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == int64(123) && tx.Amount == -1500 && tx.Type == models.TransactionTypeWithdrawal
	})).Return(nil).Once()

	mockEventBus.On("Publish", mock.Anything).Return()

	result, err := service.RequestWithdrawal(ctx, 123, 1500)

	assert.NoError(t, err)
	assert.Equal(t, withdrawal, result)

	mockUserRepo.AssertExpectations(t)
	mockWithdrawalRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestWithdrawalService_RequestWithdrawal_NonTierAmount(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	_, mockFactory, mockUserRepo, _, mockWithdrawalRepo, _ := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	_, err := service.RequestWithdrawal(context.Background(), 123, 1700)

	assert.ErrorIs(t, err, ErrInvalidInput)
	mockUserRepo.AssertNotCalled(t, "GetForUpdate")
	mockWithdrawalRepo.AssertNotCalled(t, "Create")
}

func TestWithdrawalService_RequestWithdrawal_InsufficientFunds(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, _, mockWithdrawalRepo, _ := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	user := &models.User{ID: 123, Username: "testuser", Balance: 1000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetForUpdate", ctx, int64(123)).Return(user, nil)

	_, err := service.RequestWithdrawal(ctx, 123, 1500)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	mockWithdrawalRepo.AssertNotCalled(t, "Create")
	mockUserRepo.AssertNotCalled(t, "DeductBalance")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWithdrawalService_RequestWithdrawal_TooFewActiveReferrals(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, _, mockWithdrawalRepo, _ := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	user := &models.User{ID: 123, Username: "testuser", Balance: 5000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetForUpdate", ctx, int64(123)).Return(user, nil)
	mockUserRepo.On("ReferralStats", ctx, int64(123)).Return(&models.ReferralStats{Total: 5, Active: 2}, nil)

	_, err := service.RequestWithdrawal(ctx, 123, 1500)

	var refErr *ReferralRequirementError
	assert.True(t, errors.As(err, &refErr))
	assert.Equal(t, 2, refErr.Active)
	assert.Equal(t, 3, refErr.Required)

	mockWithdrawalRepo.AssertNotCalled(t, "Create")
	mockUserRepo.AssertNotCalled(t, "DeductBalance")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWithdrawalService_UpdateStatus_RejectionRefunds(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, mockTxRepo, mockWithdrawalRepo, mockEventBus := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	rejected := &models.Withdrawal{ID: 7, UserID: 123, Amount: 1500, Status: models.WithdrawalStatusRejected}
	user := &models.User{ID: 123, Username: "testuser", Balance: 500}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWithdrawalRepo.On("UpdateStatus", ctx, int64(7), models.WithdrawalStatusRejected).Return(rejected, nil)
	mockUserRepo.On("GetForUpdate", ctx, int64(123)).Return(user, nil)
	mockUserRepo.On("AddBalance", ctx, int64(123), int64(1500)).Return(int64(2000), nil)

	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == int64(123) && tx.Amount == 1500 && tx.Type == models.TransactionTypeWithdrawal
	})).Return(nil).Once()

	mockEventBus.On("Publish", mock.Anything).Return()

	err := service.UpdateStatus(ctx, 7, models.WithdrawalStatusRejected)

	assert.NoError(t, err)
	mockWithdrawalRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}

func TestWithdrawalService_UpdateStatus_ApprovalNoRefund(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, mockTxRepo, mockWithdrawalRepo, _ := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	approved := &models.Withdrawal{ID: 7, UserID: 123, Amount: 1500, Status: models.WithdrawalStatusApproved}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWithdrawalRepo.On("UpdateStatus", ctx, int64(7), models.WithdrawalStatusApproved).Return(approved, nil)

	err := service.UpdateStatus(ctx, 7, models.WithdrawalStatusApproved)

	assert.NoError(t, err)
	mockUserRepo.AssertNotCalled(t, "AddBalance")
	mockTxRepo.AssertNotCalled(t, "Append")
}

func TestWithdrawalService_UpdateStatus_InvalidTarget(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	_, mockFactory, _, _, _, _ := setupWithdrawalServiceMocks()

	service := NewWithdrawalService(mockFactory)

	err := service.UpdateStatus(context.Background(), 7, models.WithdrawalStatusPending)

	assert.ErrorIs(t, err, ErrInvalidInput)
}
