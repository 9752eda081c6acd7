package repository

import (
	"context"
	"testing"
	"time"

	"starsbot/models"
	"starsbot/repository/testutil"
	"starsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing user returns nil", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("existing user", func(t *testing.T) {
		testutil.InsertUser(t, testDB.DB, 100, "alice", 5000)

		user, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, int64(5000), user.Balance)
		assert.Nil(t, user.ReferrerID)
		assert.Nil(t, user.LastClick)
	})
}

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	referrer := testutil.InsertUser(t, testDB.DB, 200, "inviter", 0)

	user, err := repo.Create(ctx, 201, "newbie", &referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(201), user.ID)
	assert.Equal(t, int64(0), user.Balance)
	require.NotNil(t, user.ReferrerID)
	assert.Equal(t, referrer.ID, *user.ReferrerID)

	t.Run("duplicate id fails", func(t *testing.T) {
		_, err := repo.Create(ctx, 201, "newbie", nil)
		assert.Error(t, err)
	})
}

func TestUserRepository_DeductBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 300, "bob", 1000)

	t.Run("sufficient balance", func(t *testing.T) {
		newBalance, err := repo.DeductBalance(ctx, 300, 400)
		require.NoError(t, err)
		assert.Equal(t, int64(600), newBalance)
	})

	t.Run("insufficient balance is refused and changes nothing", func(t *testing.T) {
		_, err := repo.DeductBalance(ctx, 300, 601)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)

		user, err := repo.GetByID(ctx, 300)
		require.NoError(t, err)
		assert.Equal(t, int64(600), user.Balance)
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		newBalance, err := repo.DeductBalance(ctx, 300, 600)
		require.NoError(t, err)
		assert.Equal(t, int64(0), newBalance)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.DeductBalance(ctx, 404, 100)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserRepository_AddBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 310, "carol", 100)

	newBalance, err := repo.AddBalance(ctx, 310, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(120), newBalance)

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.AddBalance(ctx, 404, 20)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserRepository_SetLastClick(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 320, "dave", 0)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SetLastClick(ctx, 320, at))

	user, err := repo.GetByID(ctx, 320)
	require.NoError(t, err)
	require.NotNil(t, user.LastClick)
	assert.True(t, user.LastClick.Equal(at))
}

func TestUserRepository_UpdateGameStats(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 330, "eve", 0)

	require.NoError(t, repo.UpdateGameStats(ctx, 330, 100, true))
	require.NoError(t, repo.UpdateGameStats(ctx, 330, 250, false))

	user, err := repo.GetByID(ctx, 330)
	require.NoError(t, err)
	assert.Equal(t, int64(350), user.TotalWagered)
	assert.Equal(t, 2, user.GamesPlayed)
	assert.Equal(t, 1, user.GamesWon)
}

func TestUserRepository_ReferralStats(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	sponsorRepo := NewSponsorRepository(testDB.DB)
	ctx := context.Background()

	inviter := testutil.InsertUser(t, testDB.DB, 400, "inviter", 0)
	testutil.InsertReferredUser(t, testDB.DB, 401, inviter.ID, "ref1")
	active := testutil.InsertReferredUser(t, testDB.DB, 402, inviter.ID, "ref2")
	testutil.InsertReferredUser(t, testDB.DB, 403, inviter.ID, "ref3")

	sponsor, err := sponsorRepo.Add(ctx, "News", "@news", "https://t.me/news")
	require.NoError(t, err)

	// Only ref2 confirms a sponsor subscription
	err = sponsorRepo.Upsert(ctx, &models.SponsorSubscription{
		UserID:     active.ID,
		SponsorID:  sponsor.ID,
		Subscribed: true,
	})
	require.NoError(t, err)

	stats, err := repo.ReferralStats(ctx, inviter.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Active)

	t.Run("unsubscribing drops the active count", func(t *testing.T) {
		err := sponsorRepo.Upsert(ctx, &models.SponsorSubscription{
			UserID:     active.ID,
			SponsorID:  sponsor.ID,
			Subscribed: false,
		})
		require.NoError(t, err)

		stats, err := repo.ReferralStats(ctx, inviter.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 0, stats.Active)
	})
}

func TestUserRepository_Aggregates(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 500, "a", 100)
	testutil.InsertUser(t, testDB.DB, 501, "b", 250)
	require.NoError(t, repo.UpdateGameStats(ctx, 500, 1000, false))

	totalUsers, totalBalance, totalWagered, err := repo.Aggregates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, totalUsers)
	assert.Equal(t, int64(350), totalBalance)
	assert.Equal(t, int64(1000), totalWagered)
}
