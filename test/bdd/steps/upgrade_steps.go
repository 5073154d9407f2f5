package steps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/railempire-go/internal/adapters/bridge"
	"github.com/andrescamacho/railempire-go/internal/application/bot"
	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/planning"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// scriptedClient ends the game right after the first tick and records
// the upgrade commands
type scriptedClient struct {
	endSnapshot *world.MapDynamic
	upgrades    [][]int
}

func (c *scriptedClient) MoveTrain(context.Context, int, int, int) error { return nil }

func (c *scriptedClient) Upgrade(_ context.Context, posts, trains []int) error {
	c.upgrades = append(c.upgrades, trains)
	return nil
}

func (c *scriptedClient) Turn(context.Context) error { return nil }

func (c *scriptedClient) MapDynamic(context.Context) (*world.MapDynamic, json.RawMessage, error) {
	return c.endSnapshot, json.RawMessage(`{}`), nil
}

func (c *scriptedClient) Logout(context.Context) error { return nil }

type upgradeContext struct {
	armor  int
	trains []world.TrainRecord
	client *scriptedClient
}

func (ctx *upgradeContext) reset() {
	ctx.armor = 0
	ctx.trains = nil
	ctx.client = nil
}

func (ctx *upgradeContext) aTownHoldingArmor(armor int) error {
	ctx.armor = armor
	return nil
}

func (ctx *upgradeContext) aParkedTrainWithNextLevelPrice(idx, price int) error {
	p := price
	ctx.trains = append(ctx.trains, world.TrainRecord{
		Idx: idx, PlayerIdx: "p1", LineIdx: 1, Position: 0,
		GoodsCapacity: 10, NextLevelPrice: &p,
	})
	return nil
}

func (ctx *upgradeContext) aTickIsExecuted() error {
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 1}, {Idx: 2}},
		Lines:  []world.Line{{Idx: 1, Length: 2, Points: [2]int{1, 2}}},
	}
	if err := state.ApplyStatic(static); err != nil {
		return err
	}
	town := world.PostRecord{
		Idx: 10, Name: "town", Type: world.PostTown, PointIdx: 1,
		PlayerIdx: "p1", Population: 1, Armor: ctx.armor, ArmorCapacity: 100,
	}
	first := &world.MapDynamic{
		Ratings: map[string]world.Rating{"p1": {Idx: "p1", Name: "Boris", Rating: 1}},
		Posts:   []world.PostRecord{town},
		Trains:  ctx.trains,
	}
	if err := state.ApplyDynamic(first); err != nil {
		return err
	}

	over := town
	over.Events = []world.Event{{Type: world.EventGameOver, Tick: 1}}
	ctx.client = &scriptedClient{endSnapshot: &world.MapDynamic{
		Ratings: map[string]world.Rating{"p1": {Idx: "p1", Name: "Boris", Rating: 1}},
		Posts:   []world.PostRecord{over},
		Trains:  ctx.trains,
	}}

	engine := graph.NewEngine(state)
	planner := planning.NewPlanner(state, engine)
	executor := bot.NewExecutor(ctx.client, state, engine, planner, bridge.NewQueue(), nil, nil)
	return executor.Run(context.Background())
}

func (ctx *upgradeContext) onlyTrainIsUpgraded(idx int) error {
	if len(ctx.client.upgrades) != 1 {
		return fmt.Errorf("expected exactly one upgrade command, got %d", len(ctx.client.upgrades))
	}
	trains := ctx.client.upgrades[0]
	if len(trains) != 1 || trains[0] != idx {
		return fmt.Errorf("expected only train %d upgraded, got %v", idx, trains)
	}
	return nil
}

func (ctx *upgradeContext) noUpgradesArePurchased() error {
	if len(ctx.client.upgrades) != 0 {
		return fmt.Errorf("expected no upgrade commands, got %v", ctx.client.upgrades)
	}
	return nil
}

// InitializeUpgradeScenario registers the upgrade budget steps
func InitializeUpgradeScenario(sc *godog.ScenarioContext) {
	ctx := &upgradeContext{}
	sc.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a town holding (\d+) armor$`, ctx.aTownHoldingArmor)
	sc.Step(`^a parked train (\d+) with next level price (\d+)$`, ctx.aParkedTrainWithNextLevelPrice)
	sc.Step(`^a tick is executed$`, ctx.aTickIsExecuted)
	sc.Step(`^only train (\d+) is upgraded$`, ctx.onlyTrainIsUpgraded)
	sc.Step(`^no upgrades are purchased$`, ctx.noUpgradesArePurchased)
}
