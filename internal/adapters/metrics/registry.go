package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "railempire"
	// Subsystem for bot metrics
	subsystem = "bot"
)

// Registry is the global Prometheus registry; nil when metrics are
// disabled
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}
