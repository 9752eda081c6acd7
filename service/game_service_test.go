package service

import (
	"context"
	"errors"
	"testing"

	"starsbot/config"
	"starsbot/games"
	"starsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fixedRand replays scripted values into the engine so a test can force a
// specific game outcome.
type fixedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *fixedRand) Float64() float64 {
	v := r.floats[r.fi]
	r.fi++
	return v
}

func (r *fixedRand) Intn(n int) int {
	v := r.ints[r.ii]
	r.ii++
	return v % n
}

func setupGameService(rng games.Rand) (GameService, *MockUnitOfWork, *MockUserRepository, *MockTransactionRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockEventBus := new(MockEventPublisher)

	mockUoW.SetRepositories(mockUserRepo, mockTxRepo, nil, nil, mockEventBus)
	mockFactory.On("Create").Return(mockUoW)

	engine := games.NewEngine(games.DefaultConfig(), rng)
	return NewGameService(mockFactory, engine), mockUoW, mockUserRepo, mockTxRepo, mockEventBus
}

func TestGameService_SubmitBet_NoSession(t *testing.T) {
	service, _, _, _, _ := setupGameService(&fixedRand{})

	_, err := service.SubmitBet(context.Background(), 123, "5")

	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestGameService_SelectGame_ReplacesSession(t *testing.T) {
	service, _, _, _, _ := setupGameService(&fixedRand{})

	assert.NoError(t, service.SelectGame(123, games.TypeFlip, FlipChoiceHeads))
	assert.NoError(t, service.SelectGame(123, games.TypeDice, 4))

	sess, ok := service.ActiveSession(123)
	assert.True(t, ok)
	assert.Equal(t, games.TypeDice, sess.Game)
	assert.Equal(t, 4, sess.Choice)
}

func TestGameService_SelectGame_InvalidChoice(t *testing.T) {
	service, _, _, _, _ := setupGameService(&fixedRand{})

	assert.ErrorIs(t, service.SelectGame(123, games.TypeFlip, 2), ErrInvalidInput)
	assert.ErrorIs(t, service.SelectGame(123, games.TypeDice, 0), ErrInvalidInput)
	assert.ErrorIs(t, service.SelectGame(123, games.TypeDice, 7), ErrInvalidInput)
	assert.ErrorIs(t, service.SelectGame(123, games.Type("roulette"), 0), ErrInvalidInput)
}

func TestGameService_CancelSession(t *testing.T) {
	service, _, _, _, _ := setupGameService(&fixedRand{})

	assert.NoError(t, service.SelectGame(123, games.TypeSlot, 0))
	service.CancelSession(123)

	_, ok := service.ActiveSession(123)
	assert.False(t, ok)
}

func TestGameService_SubmitBet_InvalidAmountKeepsSession(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	service, _, _, _, _ := setupGameService(&fixedRand{})

	assert.NoError(t, service.SelectGame(123, games.TypeSlot, 0))

	for _, input := range []string{"abc", "-5", "0", "NaN", "Inf", ""} {
		_, err := service.SubmitBet(context.Background(), 123, input)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", input)
	}

	_, ok := service.ActiveSession(123)
	assert.True(t, ok)
}

func TestGameService_SubmitBet_BelowMinimumKeepsSession(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	service, _, _, _, _ := setupGameService(&fixedRand{})

	assert.NoError(t, service.SelectGame(123, games.TypeSlot, 0))

	// 0.5 STAR is 50 minor units, below the 100 minimum
	_, err := service.SubmitBet(context.Background(), 123, "0.5")

	var minErr *BelowMinimumBetError
	assert.True(t, errors.As(err, &minErr))
	assert.Equal(t, int64(100), minErr.Min)

	_, ok := service.ActiveSession(123)
	assert.True(t, ok)
}

func TestGameService_SubmitBet_InsufficientFundsKeepsSession(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	service, mockUoW, mockUserRepo, mockTxRepo, _ := setupGameService(&fixedRand{})

	user := &models.User{ID: 123, Username: "testuser", Balance: 50}

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetForUpdate", mock.Anything, int64(123)).Return(user, nil)

	assert.NoError(t, service.SelectGame(123, games.TypeFlip, FlipChoiceHeads))

	_, err := service.SubmitBet(context.Background(), 123, "1")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	mockTxRepo.AssertNotCalled(t, "Append")
	mockUoW.AssertNotCalled(t, "Commit")

	_, ok := service.ActiveSession(123)
	assert.True(t, ok)
}

func TestGameService_SubmitBet_FlipWinSettlesAndEndsSession(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	// First draw clears the 1.5% special loss, second lands in the 49% win
	// band, third matches the chosen side.
	rng := &fixedRand{floats: []float64{0.5, 0.10}, ints: []int{0}}
	service, mockUoW, mockUserRepo, mockTxRepo, mockEventBus := setupGameService(rng)

	user := &models.User{ID: 123, Username: "testuser", Balance: 500}

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetForUpdate", mock.Anything, int64(123)).Return(user, nil)
	// Win nets payout - bet: 200 - 100 = +100
	mockUserRepo.On("AddBalance", mock.Anything, int64(123), int64(100)).Return(int64(600), nil)
	mockUserRepo.On("UpdateGameStats", mock.Anything, int64(123), int64(100), true).Return(nil)

	mockTxRepo.On("Append", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Amount == 100 && tx.Type == models.TransactionTypeGameWin
	})).Return(nil).Once()

	mockEventBus.On("Publish", mock.Anything).Return()

	assert.NoError(t, service.SelectGame(123, games.TypeFlip, FlipChoiceHeads))

	result, err := service.SubmitBet(context.Background(), 123, "1")

	assert.NoError(t, err)
	assert.True(t, result.Outcome.Won)
	assert.Equal(t, int64(100), result.Net)
	assert.Equal(t, int64(600), result.NewBalance)

	_, ok := service.ActiveSession(123)
	assert.False(t, ok, "session should end once the bet resolves")

	mockUserRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestGameService_SubmitBet_LossDebitsBet(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	// Special loss branch fires immediately.
	rng := &fixedRand{floats: []float64{0.001}}
	service, mockUoW, mockUserRepo, mockTxRepo, mockEventBus := setupGameService(rng)

	user := &models.User{ID: 123, Username: "testuser", Balance: 500}

	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetForUpdate", mock.Anything, int64(123)).Return(user, nil)
	mockUserRepo.On("DeductBalance", mock.Anything, int64(123), int64(100)).Return(int64(400), nil)
	mockUserRepo.On("UpdateGameStats", mock.Anything, int64(123), int64(100), false).Return(nil)

	mockTxRepo.On("Append", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Amount == -100 && tx.Type == models.TransactionTypeGameLose
	})).Return(nil).Once()

	mockEventBus.On("Publish", mock.Anything).Return()

	assert.NoError(t, service.SelectGame(123, games.TypeFlip, FlipChoiceHeads))

	result, err := service.SubmitBet(context.Background(), 123, "1")

	assert.NoError(t, err)
	assert.False(t, result.Outcome.Won)
	assert.Equal(t, int64(-100), result.Net)
	assert.Equal(t, int64(400), result.NewBalance)

	mockUserRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}
