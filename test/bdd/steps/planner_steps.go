package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/planning"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

type plannerContext struct {
	townPoint  int
	population int
	points     map[int]bool
	lines      []world.Line
	posts      []world.PostRecord
	train      world.TrainRecord

	reservation *planning.Reservation
}

func (ctx *plannerContext) reset() {
	ctx.townPoint = 0
	ctx.population = 0
	ctx.points = make(map[int]bool)
	ctx.lines = nil
	ctx.posts = nil
	ctx.train = world.TrainRecord{}
	ctx.reservation = nil
}

func (ctx *plannerContext) aTownAtPointWithPopulation(point, population int) error {
	ctx.townPoint = point
	ctx.population = population
	ctx.points[point] = true
	ctx.posts = append(ctx.posts, world.PostRecord{
		Idx: 100 + point, Name: "town", Type: world.PostTown, PointIdx: point,
		PlayerIdx: "p1", Population: population, ProductCapacity: 60, ArmorCapacity: 40,
	})
	return nil
}

func (ctx *plannerContext) addLine(from, to, length int) int {
	idx := len(ctx.lines) + 1
	ctx.points[from] = true
	ctx.points[to] = true
	ctx.lines = append(ctx.lines, world.Line{Idx: idx, Length: length, Points: [2]int{from, to}})
	return idx
}

func (ctx *plannerContext) aMarketConnectedByLine(point, length, product int) error {
	ctx.addLine(ctx.townPoint, point, length)
	ctx.posts = append(ctx.posts, world.PostRecord{
		Idx: 100 + point, Name: "market", Type: world.PostMarket, PointIdx: point,
		Product: product, ProductCapacity: product * 2,
	})
	return nil
}

func (ctx *plannerContext) aStorageConnectedByLine(point, length, armor int) error {
	ctx.addLine(ctx.townPoint, point, length)
	ctx.posts = append(ctx.posts, world.PostRecord{
		Idx: 100 + point, Name: "storage", Type: world.PostStorage, PointIdx: point,
		Armor: armor, ArmorCapacity: armor * 2,
	})
	return nil
}

func (ctx *plannerContext) anEmptyTrainParkedAtTheTown(capacity int) error {
	ctx.train = world.TrainRecord{
		Idx: 1, PlayerIdx: "p1", LineIdx: 1, Position: 0, GoodsCapacity: capacity,
	}
	return nil
}

func (ctx *plannerContext) aTrainCarryingParkedAtTheTown(goods int, goodsName string, capacity int) error {
	goodsType, err := parseGoodsType(goodsName)
	if err != nil {
		return err
	}
	ctx.train = world.TrainRecord{
		Idx: 1, PlayerIdx: "p1", LineIdx: 1, Position: 0,
		Goods: goods, GoodsType: goodsType, GoodsCapacity: capacity,
	}
	return nil
}

func (ctx *plannerContext) aFullTrainParkedAtPoint(goods int, goodsName string, point int) error {
	goodsType, err := parseGoodsType(goodsName)
	if err != nil {
		return err
	}
	for _, line := range ctx.lines {
		if line.HasEnd(point) {
			position := 0
			if line.Points[1] == point {
				position = line.Length
			}
			ctx.train = world.TrainRecord{
				Idx: 1, PlayerIdx: "p1", LineIdx: line.Idx, Position: position,
				Goods: goods, GoodsType: goodsType, GoodsCapacity: goods,
			}
			return nil
		}
	}
	return fmt.Errorf("no line reaches point %d", point)
}

func (ctx *plannerContext) theTrainIsPlanned() error {
	state := world.NewState("p1")
	static := &world.MapStatic{Lines: ctx.lines}
	for idx := range ctx.points {
		static.Points = append(static.Points, world.Point{Idx: idx})
	}
	if err := state.ApplyStatic(static); err != nil {
		return err
	}
	snapshot := &world.MapDynamic{
		Posts:  ctx.posts,
		Trains: []world.TrainRecord{ctx.train},
	}
	if err := state.ApplyDynamic(snapshot); err != nil {
		return err
	}
	planner := planning.NewPlanner(state, graph.NewEngine(state))
	ctx.reservation = planner.Plan(state.Trains[ctx.train.Idx], graph.Exclusions{})
	return nil
}

func (ctx *plannerContext) theTrainIsRoutedToPoint(point int) error {
	if ctx.reservation == nil {
		return fmt.Errorf("no reservation was made")
	}
	if ctx.reservation.TargetPoint != point {
		return fmt.Errorf("expected target point %d, got %d", point, ctx.reservation.TargetPoint)
	}
	return nil
}

func (ctx *plannerContext) theReservedGoodsTypeIs(goodsName string) error {
	goodsType, err := parseGoodsType(goodsName)
	if err != nil {
		return err
	}
	if ctx.reservation == nil {
		return fmt.Errorf("no reservation was made")
	}
	if ctx.reservation.GoodsType != goodsType {
		return fmt.Errorf("expected goods type %s, got %d", goodsName, ctx.reservation.GoodsType)
	}
	return nil
}

func (ctx *plannerContext) theExpectedLoadIs(amount int) error {
	if ctx.reservation == nil {
		return fmt.Errorf("no reservation was made")
	}
	if ctx.reservation.ExpectedAmount != amount {
		return fmt.Errorf("expected load %d, got %d", amount, ctx.reservation.ExpectedAmount)
	}
	return nil
}

func parseGoodsType(name string) (world.GoodsType, error) {
	switch name {
	case "product":
		return world.GoodsProduct, nil
	case "armor":
		return world.GoodsArmor, nil
	}
	return world.GoodsNone, fmt.Errorf("unknown goods type %q", name)
}

// InitializePlannerScenario registers the route selection steps
func InitializePlannerScenario(sc *godog.ScenarioContext) {
	ctx := &plannerContext{}
	sc.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a town at point (\d+) with population (\d+)$`, ctx.aTownAtPointWithPopulation)
	sc.Step(`^a market at point (\d+) connected by a line of length (\d+) holding (\d+) product$`, ctx.aMarketConnectedByLine)
	sc.Step(`^a storage at point (\d+) connected by a line of length (\d+) holding (\d+) armor$`, ctx.aStorageConnectedByLine)
	sc.Step(`^an empty train with capacity (\d+) parked at the town$`, ctx.anEmptyTrainParkedAtTheTown)
	sc.Step(`^a train carrying (\d+) (product|armor) with capacity (\d+) parked at the town$`, ctx.aTrainCarryingParkedAtTheTown)
	sc.Step(`^a full train carrying (\d+) (product|armor) parked at point (\d+)$`, ctx.aFullTrainParkedAtPoint)
	sc.Step(`^the train is planned$`, ctx.theTrainIsPlanned)
	sc.Step(`^the train is routed to point (\d+)$`, ctx.theTrainIsRoutedToPoint)
	sc.Step(`^the reserved goods type is "(product|armor)"$`, ctx.theReservedGoodsTypeIs)
	sc.Step(`^the expected load is (\d+)$`, ctx.theExpectedLoadIs)
}
