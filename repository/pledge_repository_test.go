package repository

import (
	"context"
	"testing"

	"github.com/link360/pool-api/models"
	testhelpers "github.com/link360/pool-api/testing"
	"github.com/link360/pool-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRepoTest provisions a throwaway database or skips when none is reachable
func setupRepoTest(t *testing.T) *testhelpers.TestDB {
	t.Helper()

	db, err := testhelpers.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := db.TeardownTestDB(); err != nil {
			t.Logf("teardown: %v", err)
		}
	})
	return db
}

func TestPledgeRepository(t *testing.T) {
	db := setupRepoTest(t)
	ctx := context.Background()

	repo := NewPledgeRepository(db.DB)
	fixtures := testhelpers.NewTestFixtures(db)

	t.Run("SaveAndLookupByNormalizedEmail", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)

		pledge := &models.Pledge{
			PoolID:          pool.ID,
			UserEmail:       "Kofi@Example.COM",
			UserName:        "Kofi Boateng",
			PickupZone:      models.PickupZoneInCity,
			ItemMode:        models.ItemModeStandardBox,
			StandardBoxCode: utils.ToPtr("S"),
			Quantity:        1,
			ComputedIn3:     5832,
			ComputedFt3:     3.375,
			EstShippingCost: 84.56,
			EstPickupFee:    25,
			EstTotal:        109.56,
		}
		require.NoError(t, repo.Save(ctx, pledge))
		assert.NotZero(t, pledge.ID)
		assert.NotEmpty(t, pledge.UUID)

		// Lookup with different casing and whitespace still finds it
		found, err := repo.ByPoolAndEmail(ctx, pool.ID, "  kofi@example.com ")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, pledge.ID, found.ID)
		assert.Equal(t, "kofi@example.com", found.EmailNormalized)
	})

	t.Run("DuplicateInsertHitsUniqueIndex", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)

		first, err := fixtures.CreateTestPledge(pool)
		require.NoError(t, err)

		dup := &models.Pledge{
			PoolID:          pool.ID,
			UserEmail:       first.UserEmail,
			UserName:        "Someone Else",
			PickupZone:      models.PickupZoneInCity,
			ItemMode:        models.ItemModeStandardBox,
			StandardBoxCode: utils.ToPtr("M"),
			Quantity:        1,
			ComputedIn3:     13824,
			ComputedFt3:     8,
			EstShippingCost: 200.45,
			EstPickupFee:    25,
			EstTotal:        225.45,
		}
		err = repo.Save(ctx, dup)
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("SameEmailDifferentPoolIsAllowed", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		poolA, err := fixtures.CreateTestPool()
		require.NoError(t, err)
		poolB, err := fixtures.CreateTestPool()
		require.NoError(t, err)

		first, err := fixtures.CreateTestPledge(poolA)
		require.NoError(t, err)

		second := &models.Pledge{
			PoolID:          poolB.ID,
			UserEmail:       first.UserEmail,
			UserName:        first.UserName,
			PickupZone:      models.PickupZoneInCity,
			ItemMode:        models.ItemModeStandardBox,
			StandardBoxCode: utils.ToPtr("M"),
			Quantity:        1,
			ComputedIn3:     13824,
			ComputedFt3:     8,
			EstShippingCost: 200.45,
			EstPickupFee:    25,
			EstTotal:        225.45,
		}
		require.NoError(t, repo.Save(ctx, second))
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)
		pledge, err := fixtures.CreateTestPledge(pool)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStatus(ctx, pledge.ID, models.PledgeStatusConfirmed))

		reloaded, err := repo.ByUUID(ctx, pledge.UUID.String())
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, models.PledgeStatusConfirmed, reloaded.Status)
		assert.NotNil(t, reloaded.UpdatedAt)
	})

	t.Run("StatsByPoolExcludesWithdrawn", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)

		active, err := fixtures.CreateTestPledge(pool)
		require.NoError(t, err)
		withdrawn, err := fixtures.CreateTestPledge(pool)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, withdrawn.ID, models.PledgeStatusWithdrawn))

		stats, err := repo.StatsByPool(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.PledgeCount)
		assert.Equal(t, active.ComputedFt3, stats.PledgedFt3)
		assert.Equal(t, 0.0, stats.InternalFt3)
		assert.Equal(t, active.ComputedFt3, stats.PaidFt3)
		assert.Equal(t, active.EstTotal, stats.EstRevenue)
		assert.Equal(t, pool.UsableFt3-active.ComputedFt3, stats.RemainingFt3)
		assert.False(t, stats.AnnounceReady)
	})

	t.Run("ByFilterStatusAndPool", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)

		pledge, err := fixtures.CreateTestPledge(pool)
		require.NoError(t, err)
		other, err := fixtures.CreateTestPledge(pool)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, other.ID, models.PledgeStatusWithdrawn))

		status := models.PledgeStatusPledged
		rows, err := repo.ByFilter(ctx, models.PledgeFilter{PoolID: &pool.ID, Status: &status}, "created_at DESC", 10, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, pledge.ID, rows[0].ID)
	})
}

func TestPoolRepository(t *testing.T) {
	db := setupRepoTest(t)
	ctx := context.Background()

	repo := NewPoolRepository(db.DB)
	fixtures := testhelpers.NewTestFixtures(db)

	t.Run("BySlug", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)

		found, err := repo.BySlug(ctx, pool.Slug)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, pool.ID, found.ID)

		missing, err := repo.BySlug(ctx, "no-such-pool")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("ByFilterStatus", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		pool, err := fixtures.CreateTestPool()
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, pool.ID, models.PoolStatusAnnounced))

		collecting := models.PoolStatusCollecting
		rows, err := repo.ByFilter(ctx, models.PoolFilter{Status: &collecting}, "created_at DESC", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, rows)

		announced := models.PoolStatusAnnounced
		rows, err = repo.ByFilter(ctx, models.PoolFilter{Status: &announced}, "created_at DESC", 10, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, pool.ID, rows[0].ID)
	})
}

func TestAdminSettingsRepository(t *testing.T) {
	db := setupRepoTest(t)
	ctx := context.Background()

	repo := NewAdminSettingsRepository(db.DB)

	t.Run("LatestOnEmptyTable", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())
		row, err := repo.Latest(ctx)
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("SaveAndReload", func(t *testing.T) {
		require.NoError(t, db.ClearAllTables())

		cfg := models.DefaultPricingConfig()
		cfg.RatePerIn3 = 0.02
		row := &models.AdminSettings{}
		row.FromPricingConfig(cfg)
		require.NoError(t, repo.Save(ctx, row))

		latest, err := repo.Latest(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 0.02, latest.ToPricingConfig().RatePerIn3)
	})
}
