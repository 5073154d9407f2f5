package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BotMetricsCollector records tick loop events: ticks, moves, collision
// stops, upgrades and request latencies. It implements the executor's
// observer port.
type BotMetricsCollector struct {
	ticksTotal      prometheus.Counter
	rating          prometheus.Gauge
	movesTotal      prometheus.Counter
	collisionStops  prometheus.Counter
	upgradesTotal   prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewBotMetricsCollector creates a new bot metrics collector
func NewBotMetricsCollector() *BotMetricsCollector {
	return &BotMetricsCollector{
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of completed game ticks",
			},
		),
		rating: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rating",
				Help:      "Current player rating",
			},
		),
		movesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "moves_total",
				Help:      "Total number of MOVE commands issued",
			},
		),
		collisionStops: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "collision_stops_total",
				Help:      "Total number of trains stopped or re-routed to avoid a collision",
			},
		),
		upgradesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upgrades_total",
				Help:      "Total number of purchased upgrades",
			},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Server request duration distribution per operation",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"operation"},
		),
	}
}

// Register registers all bot metrics with the Prometheus registry
func (c *BotMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.rating,
		c.movesTotal,
		c.collisionStops,
		c.upgradesTotal,
		c.requestDuration,
	}
	for _, m := range metrics {
		if err := Registry.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *BotMetricsCollector) TickCompleted(rating int) {
	c.ticksTotal.Inc()
	c.rating.Set(float64(rating))
}

func (c *BotMetricsCollector) MoveIssued() {
	c.movesTotal.Inc()
}

func (c *BotMetricsCollector) CollisionStop() {
	c.collisionStops.Inc()
}

func (c *BotMetricsCollector) UpgradePurchased() {
	c.upgradesTotal.Inc()
}

func (c *BotMetricsCollector) RequestDuration(operation string, seconds float64) {
	c.requestDuration.WithLabelValues(operation).Observe(seconds)
}
