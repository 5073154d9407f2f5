package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrescamacho/railempire-go/internal/application/bot"
)

// GormRunRepository persists game runs and their per-tick statistics.
// It implements the executor's run recorder port; one repository tracks
// one run at a time.
type GormRunRepository struct {
	db    *gorm.DB
	runID string
}

// NewGormRunRepository creates a new GORM-based run repository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// StartRun opens a new run row and remembers its id for the rest of the
// session
func (r *GormRunRepository) StartRun(ctx context.Context, playerIdx, playerName, server string) error {
	run := RunModel{
		ID:         uuid.New().String(),
		PlayerIdx:  playerIdx,
		PlayerName: playerName,
		Server:     server,
		StartedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	r.runID = run.ID
	return nil
}

// RecordTick appends one tick's statistics to the current run
func (r *GormRunRepository) RecordTick(ctx context.Context, stats bot.TickStats) error {
	if r.runID == "" {
		return fmt.Errorf("no active run")
	}
	row := TickStatModel{
		RunID:          r.runID,
		Tick:           stats.Tick,
		Rating:         stats.Rating,
		Population:     stats.Population,
		Product:        stats.Product,
		Armor:          stats.Armor,
		MovesIssued:    stats.MovesIssued,
		CollisionStops: stats.CollisionStops,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record tick %d: %w", stats.Tick, err)
	}
	return nil
}

// RecordUpgrade appends one purchased upgrade to the current run
func (r *GormRunRepository) RecordUpgrade(ctx context.Context, tick int, entity string, entityIdx, price int) error {
	if r.runID == "" {
		return fmt.Errorf("no active run")
	}
	row := UpgradeModel{
		RunID:     r.runID,
		Tick:      tick,
		Entity:    entity,
		EntityIdx: entityIdx,
		Price:     price,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record upgrade: %w", err)
	}
	return nil
}

// FinishRun closes the current run with its final rating and exit reason
func (r *GormRunRepository) FinishRun(ctx context.Context, finalRating int, reason string) error {
	if r.runID == "" {
		return fmt.Errorf("no active run")
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"finished_at":  &now,
		"final_rating": finalRating,
		"exit_reason":  reason,
	}
	if err := r.db.WithContext(ctx).Model(&RunModel{}).Where("id = ?", r.runID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// GetRun loads a run with its tick statistics
func (r *GormRunRepository) GetRun(ctx context.Context, runID string) (*RunModel, []TickStatModel, error) {
	var run RunModel
	if err := r.db.WithContext(ctx).First(&run, "id = ?", runID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	var ticks []TickStatModel
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("tick").Find(&ticks).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load tick stats for run %s: %w", runID, err)
	}
	return &run, ticks, nil
}
