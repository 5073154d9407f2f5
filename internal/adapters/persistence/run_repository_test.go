package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railempire-go/internal/adapters/persistence"
	"github.com/andrescamacho/railempire-go/internal/application/bot"
	"github.com/andrescamacho/railempire-go/test/helpers"
)

func TestRunRepository_FullLifecycle(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunRepository(db)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.StartRun(ctx, "p1", "Boris", "localhost:2000"))
	require.NoError(t, repo.RecordTick(ctx, bot.TickStats{
		Tick: 1, Rating: 40, Population: 3, Product: 30, Armor: 5, MovesIssued: 2,
	}))
	require.NoError(t, repo.RecordTick(ctx, bot.TickStats{
		Tick: 2, Rating: 45, Population: 3, Product: 28, Armor: 6, CollisionStops: 1,
	}))
	require.NoError(t, repo.RecordUpgrade(ctx, 2, "train", 1, 40))
	require.NoError(t, repo.FinishRun(ctx, 45, "game over"))

	// Assert
	var runs []persistence.RunModel
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, "p1", runs[0].PlayerIdx)
	assert.Equal(t, "game over", runs[0].ExitReason)
	require.NotNil(t, runs[0].FinalRating)
	assert.Equal(t, 45, *runs[0].FinalRating)
	assert.NotNil(t, runs[0].FinishedAt)

	run, ticks, err := repo.GetRun(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, runs[0].ID, run.ID)
	require.Len(t, ticks, 2)
	assert.Equal(t, 1, ticks[0].Tick)
	assert.Equal(t, 1, ticks[1].CollisionStops)

	var upgrades []persistence.UpgradeModel
	require.NoError(t, db.Find(&upgrades).Error)
	require.Len(t, upgrades, 1)
	assert.Equal(t, "train", upgrades[0].Entity)
	assert.Equal(t, 40, upgrades[0].Price)
}

func TestRunRepository_RequiresActiveRun(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunRepository(db)
	ctx := context.Background()

	// Act / Assert
	assert.Error(t, repo.RecordTick(ctx, bot.TickStats{Tick: 1}))
	assert.Error(t, repo.RecordUpgrade(ctx, 1, "post", 5, 100))
	assert.Error(t, repo.FinishRun(ctx, 0, "stopped"))
}

func TestRunRepository_DistinctRunIDs(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	ctx := context.Background()

	// Act
	first := persistence.NewGormRunRepository(db)
	require.NoError(t, first.StartRun(ctx, "p1", "Boris", "localhost:2000"))
	second := persistence.NewGormRunRepository(db)
	require.NoError(t, second.StartRun(ctx, "p1", "Boris", "localhost:2000"))

	// Assert
	var runs []persistence.RunModel
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 2)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)
}
