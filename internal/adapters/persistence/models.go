package persistence

import (
	"time"
)

// RunModel represents the runs table: one row per game session
type RunModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	PlayerIdx   string     `gorm:"column:player_idx;not null"`
	PlayerName  string     `gorm:"column:player_name;not null"`
	Server      string     `gorm:"column:server;not null"`
	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	FinishedAt  *time.Time `gorm:"column:finished_at"`
	FinalRating *int       `gorm:"column:final_rating"`
	ExitReason  string     `gorm:"column:exit_reason"`
}

func (RunModel) TableName() string {
	return "runs"
}

// TickStatModel represents the tick_stats table
type TickStatModel struct {
	ID             int    `gorm:"column:id;primaryKey;autoIncrement"`
	RunID          string `gorm:"column:run_id;not null;index"`
	Run            *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnDelete:CASCADE;"`
	Tick           int    `gorm:"column:tick;not null"`
	Rating         int    `gorm:"column:rating;not null"`
	Population     int    `gorm:"column:population;not null"`
	Product        int    `gorm:"column:product;not null"`
	Armor          int    `gorm:"column:armor;not null"`
	MovesIssued    int    `gorm:"column:moves_issued;not null;default:0"`
	CollisionStops int    `gorm:"column:collision_stops;not null;default:0"`
}

func (TickStatModel) TableName() string {
	return "tick_stats"
}

// UpgradeModel represents the upgrades table
type UpgradeModel struct {
	ID        int    `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string `gorm:"column:run_id;not null;index"`
	Run       *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnDelete:CASCADE;"`
	Tick      int    `gorm:"column:tick;not null"`
	Entity    string `gorm:"column:entity;not null"` // "train" or "post"
	EntityIdx int    `gorm:"column:entity_idx;not null"`
	Price     int    `gorm:"column:price;not null"`
}

func (UpgradeModel) TableName() string {
	return "upgrades"
}
