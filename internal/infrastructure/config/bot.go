package config

// BotConfig holds the tick loop tuning knobs
type BotConfig struct {
	// Fraction of stored armor that may be spent on upgrades per tick
	UpgradeBudgetRatio float64 `mapstructure:"upgrade_budget_ratio" validate:"min=0,max=1"`

	// Persist run statistics to the database
	RecordRuns bool `mapstructure:"record_runs"`
}
