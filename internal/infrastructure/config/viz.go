package config

// VizConfig holds the visualizer bridge settings
type VizConfig struct {
	// Serve the websocket feed and /metrics endpoint
	Enabled bool `mapstructure:"enabled"`

	// Listen address, e.g. ":8080"
	Address string `mapstructure:"address"`

	// Expose Prometheus metrics on /metrics
	Metrics bool `mapstructure:"metrics"`
}
