package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

func newTestState(t *testing.T) *world.State {
	state := world.NewState("p1")
	static := &world.MapStatic{
		Idx:  1,
		Name: "map01",
		Points: []world.Point{
			{Idx: 1}, {Idx: 2}, {Idx: 3},
		},
		Lines: []world.Line{
			{Idx: 1, Length: 4, Points: [2]int{1, 2}},
			{Idx: 2, Length: 3, Points: [2]int{2, 3}},
		},
	}
	require.NoError(t, state.ApplyStatic(static))
	return state
}

func testSnapshot() *world.MapDynamic {
	return &world.MapDynamic{
		Idx: 1,
		Ratings: map[string]world.Rating{
			"p1": {Idx: "p1", Name: "Boris", Rating: 42},
		},
		Posts: []world.PostRecord{
			{
				Idx: 10, Name: "Minsk", Type: world.PostTown, PointIdx: 1,
				PlayerIdx: "p1", Population: 3, Product: 30, ProductCapacity: 60,
				Armor: 5, ArmorCapacity: 40,
			},
			{
				Idx: 11, Name: "market-big", Type: world.PostMarket, PointIdx: 3,
				Product: 20, ProductCapacity: 20, Replenishment: 1,
			},
		},
		Trains: []world.TrainRecord{
			{Idx: 1, PlayerIdx: "p1", LineIdx: 1, Position: 0, GoodsCapacity: 40},
		},
	}
}

func TestApplyStatic_RejectsUnknownEndpoint(t *testing.T) {
	// Arrange
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 1}},
		Lines:  []world.Line{{Idx: 1, Length: 4, Points: [2]int{1, 9}}},
	}

	// Act
	err := state.ApplyStatic(static)

	// Assert
	assert.Error(t, err)
}

func TestApplyStatic_RejectsZeroLength(t *testing.T) {
	// Arrange
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 1}, {Idx: 2}},
		Lines:  []world.Line{{Idx: 1, Length: 0, Points: [2]int{1, 2}}},
	}

	// Act
	err := state.ApplyStatic(static)

	// Assert
	assert.Error(t, err)
}

func TestApplyDynamic_MergesInPlace(t *testing.T) {
	// Arrange
	state := newTestState(t)
	require.NoError(t, state.ApplyDynamic(testSnapshot()))

	// References held across ticks must survive the merge
	train := state.Trains[1]
	town := state.OwnTown()
	require.NotNil(t, town)

	// Act: next snapshot moves the train and raises the rating
	next := testSnapshot()
	next.Trains[0].Position = 2
	next.Trains[0].Speed = 1
	next.Ratings["p1"] = world.Rating{Idx: "p1", Name: "Boris", Rating: 50}
	require.NoError(t, state.ApplyDynamic(next))

	// Assert
	assert.Equal(t, 2, train.Position)
	assert.Equal(t, 1, train.Speed)
	assert.Equal(t, 2, state.Tick)
	rating, ok := state.OwnRating()
	require.True(t, ok)
	assert.Equal(t, 50, rating.Rating)
}

func TestOwnTown_FindsPlayerTown(t *testing.T) {
	// Arrange
	state := newTestState(t)
	require.NoError(t, state.ApplyDynamic(testSnapshot()))

	// Act
	town := state.OwnTown()

	// Assert
	require.NotNil(t, town)
	assert.Equal(t, 1, town.PointIdx)
	require.NotNil(t, town.Town)
	assert.Equal(t, 3, town.Town.Population)
}

func TestGameOver_DetectedFromTownEvent(t *testing.T) {
	// Arrange
	state := newTestState(t)
	snapshot := testSnapshot()
	snapshot.Posts[0].Events = []world.Event{
		{Type: world.EventGameOver, Tick: 77},
	}
	require.NoError(t, state.ApplyDynamic(snapshot))

	// Act
	tick, over := state.GameOver()

	// Assert
	assert.True(t, over)
	assert.Equal(t, 77, tick)
}

func TestPostsOfType_SortedByPoint(t *testing.T) {
	// Arrange
	state := newTestState(t)
	snapshot := testSnapshot()
	snapshot.Posts = append(snapshot.Posts, world.PostRecord{
		Idx: 12, Name: "storage", Type: world.PostStorage, PointIdx: 2,
		Armor: 10, ArmorCapacity: 10, Replenishment: 1,
	})
	require.NoError(t, state.ApplyDynamic(snapshot))

	// Act
	markets := state.PostsOfType(world.PostMarket)
	storages := state.PostsOfType(world.PostStorage)

	// Assert
	require.Len(t, markets, 1)
	assert.Equal(t, 3, markets[0].PointIdx)
	require.Len(t, storages, 1)
	assert.NotNil(t, storages[0].Storage)
}

func TestTrain_AtPointAndNearestEndpoint(t *testing.T) {
	// Arrange
	line := &world.Line{Idx: 1, Length: 4, Points: [2]int{1, 2}}
	train := &world.Train{Idx: 1, LineIdx: 1, Position: 0}

	// Act / Assert: at the start endpoint
	point, ok := train.AtPoint(line)
	assert.True(t, ok)
	assert.Equal(t, 1, point)

	// Mid-line
	train.Position = 2
	_, ok = train.AtPoint(line)
	assert.False(t, ok)
	assert.Equal(t, 1, train.NearestEndpoint(line))

	// At the far endpoint
	train.Position = 4
	point, ok = train.AtPoint(line)
	assert.True(t, ok)
	assert.Equal(t, 2, point)
	assert.Equal(t, 2, train.NearestEndpoint(line))
}
