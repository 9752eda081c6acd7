package repository

import (
	"context"
	"testing"

	"starsbot/events"
	"starsbot/models"
	"starsbot/repository/testutil"
	"starsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 100, "alice", 1000)

	t.Run("rollback discards all changes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		_, err := uow.UserRepository().AddBalance(ctx, 100, 500)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback())

		user, err := NewUserRepository(testDB.DB).GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
	})

	t.Run("commit makes changes durable", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		_, err := uow.UserRepository().AddBalance(ctx, 100, 500)
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		user, err := NewUserRepository(testDB.DB).GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), user.Balance)
	})

	t.Run("double begin fails", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()
		assert.Error(t, uow.Begin(ctx))
	})
}

// The ledger invariant: after any run of balance movements through
// ApplyBalanceDelta, a user's balance equals the sum of their transactions.
func TestUnitOfWork_LedgerInvariant(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 200, "bob", 0)

	apply := func(amount int64, txType models.TransactionType) error {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		if _, err := service.ApplyBalanceDelta(ctx, uow, 200, amount, txType, "test"); err != nil {
			return err
		}
		return uow.Commit()
	}

	require.NoError(t, apply(20, models.TransactionTypeClick))
	require.NoError(t, apply(300, models.TransactionTypeReferralBonus))
	require.NoError(t, apply(-150, models.TransactionTypeGameLose))
	require.NoError(t, apply(0, models.TransactionTypeGameWin))

	// A refused debit must leave both sides untouched
	err := apply(-1000, models.TransactionTypeWithdrawal)
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)

	user, err := NewUserRepository(testDB.DB).GetByID(ctx, 200)
	require.NoError(t, err)

	sum, err := NewTransactionRepository(testDB.DB).SumByUser(ctx, 200)
	require.NoError(t, err)

	assert.Equal(t, int64(170), user.Balance)
	assert.Equal(t, user.Balance, sum)

	transactions, err := NewTransactionRepository(testDB.DB).GetByUser(ctx, 200, 10)
	require.NoError(t, err)
	assert.Len(t, transactions, 4, "the refused debit must not leave a ledger entry")
}

// A failed step anywhere inside a withdrawal request rolls the whole thing
// back: no withdrawal row without its matching debit.
func TestUnitOfWork_WithdrawalAtomicity(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 300, "carol", 1000)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.WithdrawalRepository().Create(ctx, 300, 1500)
	require.NoError(t, err)

	// The debit fails, simulating the service's failure path
	_, err = service.ApplyBalanceDelta(ctx, uow, 300, -1500, models.TransactionTypeWithdrawal, "Withdrawal #1")
	require.ErrorIs(t, err, service.ErrInsufficientFunds)
	require.NoError(t, uow.Rollback())

	withdrawals, err := NewWithdrawalRepository(testDB.DB).List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, withdrawals)

	user, err := NewUserRepository(testDB.DB).GetByID(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Balance)
}
