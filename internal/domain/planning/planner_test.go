package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/planning"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// twoMarketState builds a star around the town at point 1: a market at
// point 2 over a length-2 line and a market at point 3 over a length-3
// line. Both markets hold 10 product; the town population is 1.
func twoMarketState(t *testing.T) *world.State {
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 1}, {Idx: 2}, {Idx: 3}},
		Lines: []world.Line{
			{Idx: 1, Length: 2, Points: [2]int{1, 2}},
			{Idx: 2, Length: 3, Points: [2]int{1, 3}},
		},
	}
	require.NoError(t, state.ApplyStatic(static))
	snapshot := &world.MapDynamic{
		Posts: []world.PostRecord{
			{Idx: 10, Name: "town", Type: world.PostTown, PointIdx: 1, PlayerIdx: "p1", Population: 1, ProductCapacity: 60, ArmorCapacity: 40},
			{Idx: 11, Name: "near", Type: world.PostMarket, PointIdx: 2, Product: 10, ProductCapacity: 20},
			{Idx: 12, Name: "far", Type: world.PostMarket, PointIdx: 3, Product: 10, ProductCapacity: 20},
		},
		Trains: []world.TrainRecord{
			{Idx: 1, PlayerIdx: "p1", LineIdx: 1, Position: 0, GoodsCapacity: 10},
			{Idx: 2, PlayerIdx: "p1", LineIdx: 1, Position: 0, GoodsCapacity: 10},
		},
	}
	require.NoError(t, state.ApplyDynamic(snapshot))
	return state
}

func TestPlan_PrefersCloserMarket(t *testing.T) {
	// Arrange: near market nets 10 - 4*1 = 6, far nets 10 - 6*1 = 4
	state := twoMarketState(t)
	planner := planning.NewPlanner(state, graph.NewEngine(state))

	// Act
	res := planner.Plan(state.Trains[1], graph.Exclusions{})

	// Assert
	require.NotNil(t, res)
	assert.Equal(t, world.GoodsProduct, res.GoodsType)
	assert.Equal(t, 2, res.TargetPoint)
	assert.Equal(t, 10, res.ExpectedAmount)
	assert.Equal(t, 4, res.TripRemaining)
	assert.Equal(t, []int{1, 2}, res.Route)
}

func TestPlan_DepletedReservationStealsStock(t *testing.T) {
	// Arrange: train 1 reserves all 10 units of the near market and is
	// about to arrive there
	state := twoMarketState(t)
	planner := planning.NewPlanner(state, graph.NewEngine(state))
	first := planner.Plan(state.Trains[1], graph.Exclusions{})
	require.NotNil(t, first)
	require.Equal(t, 2, first.TargetPoint)
	for i := 0; i < 3; i++ {
		planner.TickDown(1)
	}

	// Act
	second := planner.Plan(state.Trains[2], graph.Exclusions{})

	// Assert: the near market is spoken for, the far one still pays
	require.NotNil(t, second)
	assert.Equal(t, 3, second.TargetPoint)
	assert.Equal(t, 10, second.ExpectedAmount)
}

func TestPlan_FullTrainRoutesHome(t *testing.T) {
	// Arrange: a full train standing at the near market
	state := twoMarketState(t)
	planner := planning.NewPlanner(state, graph.NewEngine(state))
	train := state.Trains[1]
	train.Position = 2
	train.Goods = 10
	train.GoodsType = world.GoodsProduct

	// Act
	res := planner.Plan(train, graph.Exclusions{})

	// Assert
	require.NotNil(t, res)
	assert.Equal(t, 1, res.TargetPoint)
	assert.True(t, res.TargetsTown(1))
	assert.Equal(t, []int{2, 1}, res.Route)
	assert.Equal(t, 2, res.TripRemaining)
}

func TestPlan_LoadedTrainKeepsGoodsType(t *testing.T) {
	// Arrange: a half-loaded armor train with a tempting market nearby
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 1}, {Idx: 2}, {Idx: 3}},
		Lines: []world.Line{
			{Idx: 1, Length: 2, Points: [2]int{1, 2}},
			{Idx: 2, Length: 3, Points: [2]int{1, 3}},
		},
	}
	require.NoError(t, state.ApplyStatic(static))
	snapshot := &world.MapDynamic{
		Posts: []world.PostRecord{
			{Idx: 10, Name: "town", Type: world.PostTown, PointIdx: 1, PlayerIdx: "p1", Population: 1, ArmorCapacity: 40},
			{Idx: 11, Name: "market", Type: world.PostMarket, PointIdx: 2, Product: 20, ProductCapacity: 20},
			{Idx: 12, Name: "storage", Type: world.PostStorage, PointIdx: 3, Armor: 10, ArmorCapacity: 10},
		},
		Trains: []world.TrainRecord{
			{Idx: 1, PlayerIdx: "p1", LineIdx: 2, Position: 0, Goods: 5, GoodsType: world.GoodsArmor, GoodsCapacity: 10},
		},
	}
	require.NoError(t, state.ApplyDynamic(snapshot))
	planner := planning.NewPlanner(state, graph.NewEngine(state))

	// Act
	res := planner.Plan(state.Trains[1], graph.Exclusions{})

	// Assert
	require.NotNil(t, res)
	assert.Equal(t, world.GoodsArmor, res.GoodsType)
	assert.Equal(t, 3, res.TargetPoint)
}

func TestPlan_BalancesGoodsAcrossTrains(t *testing.T) {
	// Arrange: both goods types on offer
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 1}, {Idx: 2}, {Idx: 3}},
		Lines: []world.Line{
			{Idx: 1, Length: 2, Points: [2]int{1, 2}},
			{Idx: 2, Length: 2, Points: [2]int{1, 3}},
		},
	}
	require.NoError(t, state.ApplyStatic(static))
	snapshot := &world.MapDynamic{
		Posts: []world.PostRecord{
			{Idx: 10, Name: "town", Type: world.PostTown, PointIdx: 1, PlayerIdx: "p1", Population: 1, ProductCapacity: 60, ArmorCapacity: 40},
			{Idx: 11, Name: "market", Type: world.PostMarket, PointIdx: 2, Product: 20, ProductCapacity: 20},
			{Idx: 12, Name: "storage", Type: world.PostStorage, PointIdx: 3, Armor: 20, ArmorCapacity: 20},
		},
		Trains: []world.TrainRecord{
			{Idx: 1, PlayerIdx: "p1", LineIdx: 1, Position: 0, GoodsCapacity: 10},
			{Idx: 2, PlayerIdx: "p1", LineIdx: 1, Position: 0, GoodsCapacity: 10},
		},
	}
	require.NoError(t, state.ApplyDynamic(snapshot))
	planner := planning.NewPlanner(state, graph.NewEngine(state))

	// Act
	first := planner.Plan(state.Trains[1], graph.Exclusions{})
	second := planner.Plan(state.Trains[2], graph.Exclusions{})

	// Assert: once product is covered the next train hauls armor
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, world.GoodsProduct, first.GoodsType)
	assert.Equal(t, world.GoodsArmor, second.GoodsType)
}

func TestPlan_MidLineRouteCoversBothEndpoints(t *testing.T) {
	// Arrange: train mid-way on the line to the far market, re-planned
	// toward the near one; the route must start with the current line's
	// endpoints so the executor can join at either end
	state := twoMarketState(t)
	planner := planning.NewPlanner(state, graph.NewEngine(state))
	train := state.Trains[1]
	train.LineIdx = 2
	train.Position = 1

	// Act
	res := planner.Plan(train, graph.Exclusions{})

	// Assert
	require.NotNil(t, res)
	assert.Equal(t, 2, res.TargetPoint)
	assert.Equal(t, []int{3, 1, 2}, res.Route)
}

func TestPlan_UnloadsAtTownFromDepletedPost(t *testing.T) {
	// Arrange: loaded train standing at a market with nothing left to take
	state := twoMarketState(t)
	planner := planning.NewPlanner(state, graph.NewEngine(state))
	depleted := state.Posts[2]
	depleted.Market.Product = 0
	train := state.Trains[1]
	train.Position = 2
	train.Goods = 5
	train.GoodsType = world.GoodsProduct

	// Act
	res := planner.Plan(train, graph.Exclusions{})

	// Assert: nothing to load here, so carry the 5 units home
	require.NotNil(t, res)
	assert.Equal(t, 1, res.TargetPoint)
	assert.Equal(t, 5, res.ExpectedAmount)
}

func TestPlan_ClearDropsReservation(t *testing.T) {
	// Arrange
	state := twoMarketState(t)
	planner := planning.NewPlanner(state, graph.NewEngine(state))
	require.NotNil(t, planner.Plan(state.Trains[1], graph.Exclusions{}))

	// Act
	planner.Clear(1)

	// Assert
	assert.Nil(t, planner.Reservation(1))
	assert.Empty(t, planner.Assignments())
}
