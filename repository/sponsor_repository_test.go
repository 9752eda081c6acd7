package repository

import (
	"context"
	"testing"

	"starsbot/models"
	"starsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSponsorRepository_AddListRemove(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSponsorRepository(testDB.DB)
	ctx := context.Background()

	news, err := repo.Add(ctx, "News", "@news", "https://t.me/news")
	require.NoError(t, err)
	deals, err := repo.Add(ctx, "Deals", "@deals", "https://t.me/deals")
	require.NoError(t, err)

	sponsors, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sponsors, 2)
	assert.Equal(t, news.ID, sponsors[0].ID)
	assert.Equal(t, deals.ID, sponsors[1].ID)

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, news.ID))

		sponsors, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, sponsors, 1)
		assert.Equal(t, deals.ID, sponsors[0].ID)
	})

	t.Run("remove unknown id", func(t *testing.T) {
		assert.Error(t, repo.Remove(ctx, 9999))
	})
}

func TestSponsorRepository_StatusForUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSponsorRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 100, "alice", 0)

	news, err := repo.Add(ctx, "News", "@news", "https://t.me/news")
	require.NoError(t, err)
	_, err = repo.Add(ctx, "Deals", "@deals", "https://t.me/deals")
	require.NoError(t, err)

	t.Run("no subscriptions yet", func(t *testing.T) {
		statuses, err := repo.StatusForUser(ctx, 100)
		require.NoError(t, err)
		require.Len(t, statuses, 2)
		assert.False(t, statuses[0].Subscribed)
		assert.False(t, statuses[1].Subscribed)
	})

	t.Run("one confirmed", func(t *testing.T) {
		err := repo.Upsert(ctx, &models.SponsorSubscription{
			UserID:     100,
			SponsorID:  news.ID,
			Subscribed: true,
		})
		require.NoError(t, err)

		statuses, err := repo.StatusForUser(ctx, 100)
		require.NoError(t, err)
		require.Len(t, statuses, 2)
		assert.True(t, statuses[0].Subscribed)
		assert.False(t, statuses[1].Subscribed)
	})

	t.Run("upsert flips an existing row", func(t *testing.T) {
		err := repo.Upsert(ctx, &models.SponsorSubscription{
			UserID:     100,
			SponsorID:  news.ID,
			Subscribed: false,
		})
		require.NoError(t, err)

		statuses, err := repo.StatusForUser(ctx, 100)
		require.NoError(t, err)
		assert.False(t, statuses[0].Subscribed)
	})

	t.Run("removing a sponsor cascades its subscriptions", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, news.ID))

		statuses, err := repo.StatusForUser(ctx, 100)
		require.NoError(t, err)
		require.Len(t, statuses, 1)
	})
}
