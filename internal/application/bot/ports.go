package bot

import (
	"context"
	"encoding/json"

	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// GameClient is the slice of the protocol client the executor drives
// each tick
type GameClient interface {
	MoveTrain(ctx context.Context, lineIdx, speed, trainIdx int) error
	Upgrade(ctx context.Context, posts, trains []int) error
	Turn(ctx context.Context) error
	MapDynamic(ctx context.Context) (*world.MapDynamic, json.RawMessage, error)
	Logout(ctx context.Context) error
}

// TickStats is one tick's worth of run telemetry
type TickStats struct {
	Tick           int
	Rating         int
	Population     int
	Product        int
	Armor          int
	MovesIssued    int
	CollisionStops int
}

// RunRecorder persists the lifecycle of one game run. A nil recorder
// disables persistence.
type RunRecorder interface {
	StartRun(ctx context.Context, playerIdx, playerName, server string) error
	RecordTick(ctx context.Context, stats TickStats) error
	RecordUpgrade(ctx context.Context, tick int, entity string, entityIdx, price int) error
	FinishRun(ctx context.Context, finalRating int, reason string) error
}

// Observer receives loop events for metrics. A nil observer disables
// collection.
type Observer interface {
	TickCompleted(rating int)
	MoveIssued()
	CollisionStop()
	UpgradePurchased()
	RequestDuration(operation string, seconds float64)
}
