package bot

import (
	"context"
	"log"

	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// defaultUpgradeBudgetRatio caps how much of the town's armor may be
// spent on upgrades in one tick; the rest is kept as a refugee reserve
const defaultUpgradeBudgetRatio = 0.5

// applyUpgrades spends part of the stored armor on levelling up trains
// parked at the town. The town itself is only levelled on ticks when no
// own train stands at the town point. Returns the number of upgrades
// purchased.
func (e *Executor) applyUpgrades(ctx context.Context, town *world.Post, occ *occupancy) (int, error) {
	budget := int(float64(town.Town.Armor) * e.upgradeRatio)
	if budget <= 0 {
		return 0, nil
	}

	var trains []int
	trainAtTown := false
	for _, train := range e.state.OwnTrains() {
		if !occ.atTown(train.Idx) {
			continue
		}
		trainAtTown = true
		price := train.NextLevelPrice
		if price == nil || *price > budget {
			continue
		}
		budget -= *price
		trains = append(trains, train.Idx)
	}

	var posts []int
	if !trainAtTown {
		if price := town.Town.NextLevelPrice; price != nil && *price <= budget {
			posts = append(posts, town.Idx)
		}
	}

	if len(trains) == 0 && len(posts) == 0 {
		return 0, nil
	}
	if err := e.client.Upgrade(ctx, posts, trains); err != nil {
		return 0, err
	}

	for _, idx := range trains {
		if e.observer != nil {
			e.observer.UpgradePurchased()
		}
		e.recordUpgrade(ctx, "train", idx, trainPrice(e.state, idx))
	}
	for _, idx := range posts {
		if e.observer != nil {
			e.observer.UpgradePurchased()
		}
		price := 0
		if town.Town.NextLevelPrice != nil {
			price = *town.Town.NextLevelPrice
		}
		e.recordUpgrade(ctx, "post", idx, price)
	}
	return len(trains) + len(posts), nil
}

func (e *Executor) recordUpgrade(ctx context.Context, entity string, idx, price int) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordUpgrade(ctx, e.state.Tick, entity, idx, price); err != nil {
		log.Printf("Failed to record %s upgrade %d: %v", entity, idx, err)
	}
}

func trainPrice(state *world.State, idx int) int {
	if train, ok := state.Trains[idx]; ok && train.NextLevelPrice != nil {
		return *train.NextLevelPrice
	}
	return 0
}
