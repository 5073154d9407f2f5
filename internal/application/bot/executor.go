package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/andrescamacho/railempire-go/internal/adapters/bridge"
	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/planning"
	"github.com/andrescamacho/railempire-go/internal/domain/shared"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// move is a resolved MOVE command plus the position it projects to
type move struct {
	line     *world.Line
	speed    int
	position int
}

// Executor owns the tick loop: it advances every own train along its
// planned route, resolves collisions, spends armor on upgrades, calls
// TURN and folds the next snapshot into the state.
type Executor struct {
	client   GameClient
	state    *world.State
	engine   *graph.Engine
	planner  *planning.Planner
	queue    *bridge.Queue
	recorder RunRecorder
	observer Observer
	stopped  atomic.Bool

	upgradeRatio float64
}

// NewExecutor wires the executor. Recorder and observer may be nil.
func NewExecutor(
	client GameClient,
	state *world.State,
	engine *graph.Engine,
	planner *planning.Planner,
	queue *bridge.Queue,
	recorder RunRecorder,
	observer Observer,
) *Executor {
	return &Executor{
		client:       client,
		state:        state,
		engine:       engine,
		planner:      planner,
		queue:        queue,
		recorder:     recorder,
		observer:     observer,
		upgradeRatio: defaultUpgradeBudgetRatio,
	}
}

// SetUpgradeBudgetRatio overrides the armor fraction spendable on
// upgrades per tick
func (e *Executor) SetUpgradeBudgetRatio(ratio float64) {
	if ratio >= 0 && ratio <= 1 {
		e.upgradeRatio = ratio
	}
}

// Stop requests a clean exit; checked at the top of each tick
func (e *Executor) Stop() {
	e.stopped.Store(true)
}

// Run drives ticks until stop, GAME_OVER or a fatal error. The state
// must already hold the static map and the first dynamic snapshot. On
// exit the session is logged out; fatal errors are reported to the
// bridge before unwinding.
func (e *Executor) Run(ctx context.Context) error {
	err := e.loop(ctx)

	if err != nil && !errorIsGameOver(err) {
		e.queue.PublishStatus(fmt.Sprintf("Error: %v", err))
	}
	e.queue.Publish(bridge.TagGameOver, nil)
	e.queue.Close()

	if e.recorder != nil {
		rating, _ := e.state.OwnRating()
		reason := "stopped"
		switch {
		case errorIsGameOver(err):
			reason = "game over"
		case err != nil:
			reason = fmt.Sprintf("error: %v", err)
		}
		if recErr := e.recorder.FinishRun(ctx, rating.Rating, reason); recErr != nil {
			log.Printf("Failed to record run result: %v", recErr)
		}
	}

	logoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if logoutErr := e.client.Logout(logoutCtx); logoutErr != nil {
		log.Printf("Logout failed: %v", logoutErr)
	}

	if errorIsGameOver(err) {
		return nil
	}
	return err
}

func (e *Executor) loop(ctx context.Context) error {
	for {
		if e.stopped.Load() || ctx.Err() != nil {
			return ctx.Err()
		}
		if tick, over := e.state.GameOver(); over {
			log.Printf("Game over at tick %d", tick)
			return shared.NewGameOverError(tick)
		}
		if err := e.tick(ctx); err != nil {
			return err
		}
	}
}

func (e *Executor) tick(ctx context.Context) error {
	town := e.state.OwnTown()
	if town == nil {
		return fmt.Errorf("no town found for player %s", e.state.PlayerIdx)
	}

	occ := newOccupancy(e.state, town.PointIdx)
	moved := make(map[int]bool)
	movesIssued, collisionStops := 0, 0

	for _, train := range e.state.OwnTrains() {
		if train.Cooldown > 0 {
			continue
		}
		line, err := e.state.Line(train.LineIdx)
		if err != nil {
			return err
		}

		mv, dispatch, wasStopped := e.resolveMove(train, line, occ)
		if wasStopped {
			collisionStops++
			if e.observer != nil {
				e.observer.CollisionStop()
			}
		}
		if mv == nil {
			// no route this tick; hold position and retry next tick
			occ.recordOwn(train.Idx, line, train.Position)
			continue
		}
		if !dispatch {
			// rolling mid-line with a clear track: the server keeps the
			// train moving without a new command
			occ.recordOwn(train.Idx, mv.line, mv.position)
			moved[train.Idx] = true
			continue
		}

		if err := e.moveTrain(ctx, mv.line.Idx, mv.speed, train.Idx); err != nil {
			return err
		}
		occ.recordOwn(train.Idx, mv.line, mv.position)
		moved[train.Idx] = mv.speed != 0
		movesIssued++
		if e.observer != nil {
			e.observer.MoveIssued()
		}
	}

	if _, err := e.applyUpgrades(ctx, town, occ); err != nil {
		return err
	}

	start := time.Now()
	if err := e.client.Turn(ctx); err != nil {
		return fmt.Errorf("turn failed: %w", err)
	}
	if e.observer != nil {
		e.observer.RequestDuration("turn", time.Since(start).Seconds())
	}

	snapshot, raw, err := e.client.MapDynamic(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch dynamic map: %w", err)
	}
	if err := e.state.ApplyDynamic(snapshot); err != nil {
		return fmt.Errorf("failed to merge snapshot: %w", err)
	}
	e.queue.Publish(bridge.TagMapDynamic, raw)

	for idx, didMove := range moved {
		if didMove {
			e.planner.TickDown(idx)
		}
	}
	e.clearFinishedTrips(town.PointIdx)

	if rating, ok := e.state.OwnRating(); ok {
		e.queue.PublishStatus(fmt.Sprintf("%s: %d", rating.Name, rating.Rating))
		if e.observer != nil {
			e.observer.TickCompleted(rating.Rating)
		}
	}
	if e.recorder != nil {
		rating, _ := e.state.OwnRating()
		stats := TickStats{
			Tick:           e.state.Tick,
			Rating:         rating.Rating,
			Population:     town.Town.Population,
			Product:        town.Town.Product,
			Armor:          town.Town.Armor,
			MovesIssued:    movesIssued,
			CollisionStops: collisionStops,
		}
		if err := e.recorder.RecordTick(ctx, stats); err != nil {
			log.Printf("Failed to record tick %d: %v", stats.Tick, err)
		}
	}
	return nil
}

func (e *Executor) moveTrain(ctx context.Context, lineIdx, speed, trainIdx int) error {
	start := time.Now()
	if err := e.client.MoveTrain(ctx, lineIdx, speed, trainIdx); err != nil {
		return fmt.Errorf("move failed for train %d: %w", trainIdx, err)
	}
	if e.observer != nil {
		e.observer.RequestDuration("move", time.Since(start).Seconds())
	}
	return nil
}

// resolveMove produces the MOVE for one train, re-planning around
// collisions. The dispatch return is false when the train keeps rolling
// on its own and no command is needed; the last return reports a
// collision-induced stop.
func (e *Executor) resolveMove(train *world.Train, line *world.Line, occ *occupancy) (mv *move, dispatch, stopped bool) {
	atPoint, isAtPoint := train.AtPoint(line)
	atDecisionPoint := isAtPoint || train.Speed == 0

	if !atDecisionPoint {
		// mid-line and rolling: keep going unless blocked
		mv = &move{line: line, speed: train.Speed, position: train.Position + train.Speed}
		if !occ.conflicts(line, mv.position) {
			return mv, false, false
		}
		// stop in place for this tick
		return &move{line: line, speed: 0, position: train.Position}, true, true
	}

	res := e.currentReservation(train, line, atPoint, isAtPoint, graph.Exclusions{})
	mv = e.deriveMove(train, line, res)
	if mv == nil {
		return nil, false, false
	}
	if !occ.conflicts(mv.line, mv.position) {
		return mv, true, false
	}

	if !isAtPoint {
		// stopped mid-line with a conflicting first step: hold position
		return &move{line: line, speed: 0, position: train.Position}, true, true
	}

	// At an endpoint: retry with the conflicting lines excluded until a
	// free route is found or no alternative remains
	exclude := graph.Exclusions{Lines: map[int]bool{mv.line.Idx: true}}
	for attempts := 0; attempts < len(e.state.Lines); attempts++ {
		res = e.planner.Plan(train, exclude)
		mv = e.deriveMove(train, line, res)
		if mv == nil {
			return nil, false, true
		}
		if !occ.conflicts(mv.line, mv.position) {
			return mv, true, true
		}
		exclude.Lines[mv.line.Idx] = true
	}
	return nil, false, true
}

// currentReservation returns the train's reservation, re-planning at
// the decision points the route no longer covers: no route, an empty
// pickup leg, arrival anywhere but town, or arrival at town (trip done)
func (e *Executor) currentReservation(train *world.Train, line *world.Line, atPoint int, isAtPoint bool, exclude graph.Exclusions) *planning.Reservation {
	res := e.planner.Reservation(train.Idx)
	town := e.state.OwnTown()

	replan := res == nil || len(res.Route) == 0
	if !replan {
		last, _ := res.LastPoint()
		switch {
		case isAtPoint && atPoint == town.PointIdx && last == town.PointIdx:
			// trip complete; reservation cleared, plan the next haul
			e.planner.Clear(train.Idx)
			replan = true
		case last != town.PointIdx && train.Goods == 0:
			replan = true
		case isAtPoint && atPoint == last && last != town.PointIdx:
			replan = true
		}
	}
	if replan {
		res = e.planner.Plan(train, exclude)
	}
	return res
}

// deriveMove turns the head of a route into a concrete MOVE
func (e *Executor) deriveMove(train *world.Train, line *world.Line, res *planning.Reservation) *move {
	if res == nil || len(res.Route) < 2 {
		return nil
	}
	route := res.Route

	if atPoint, ok := train.AtPoint(line); ok {
		// at an endpoint: join the next line of the route
		i := indexOf(route, atPoint)
		if i < 0 || i == len(route)-1 {
			return nil
		}
		next := route[i+1]
		adjacency := e.engine.Adjacency(graph.Full, graph.Exclusions{})
		lineIdx, ok := adjacency[atPoint][next]
		if !ok {
			return nil
		}
		nextLine, err := e.state.Line(lineIdx)
		if err != nil {
			return nil
		}
		if atPoint == nextLine.Points[0] {
			return &move{line: nextLine, speed: 1, position: 1}
		}
		return &move{line: nextLine, speed: -1, position: nextLine.Length - 1}
	}

	// mid-line: the normalized route holds both endpoints of the current
	// line as a consecutive pair; move toward the later one
	for j := 0; j+1 < len(route); j++ {
		if line.HasEnd(route[j]) && line.HasEnd(route[j+1]) && route[j] != route[j+1] {
			speed := -1
			if route[j+1] == line.Points[1] {
				speed = 1
			}
			return &move{line: line, speed: speed, position: train.Position + speed}
		}
	}
	return nil
}

func (e *Executor) clearFinishedTrips(townPoint int) {
	for _, train := range e.state.OwnTrains() {
		res := e.planner.Reservation(train.Idx)
		if res == nil || !res.TargetsTown(townPoint) {
			continue
		}
		line, err := e.state.Line(train.LineIdx)
		if err != nil {
			continue
		}
		if at, ok := train.AtPoint(line); ok && at == townPoint {
			e.planner.Clear(train.Idx)
		}
	}
}

func indexOf(route []int, point int) int {
	for i, p := range route {
		if p == point {
			return i
		}
	}
	return -1
}

func errorIsGameOver(err error) bool {
	var gameOver *shared.GameOverError
	return errors.As(err, &gameOver)
}
