// Package metrics holds the Prometheus collectors of the media engine.
//
// Collectors are registered on Registry rather than the global default
// registry so tests and embedders can expose them explicitly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registry every collector below is registered with.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ActiveViews tracks views that are open and not yet released.
	ActiveViews = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "media",
		Name:      "active_views",
		Help:      "Number of open media views",
	})

	// ItemsApplied counts items added to or removed from views.
	ItemsApplied = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "view_items_total",
		Help:      "Items applied to views by kind of change",
	}, []string{"change"})

	// RefreshCycles counts debounced or explicit change handling cycles.
	RefreshCycles = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "refresh_cycles_total",
		Help:      "Change handling cycles run by media sets",
	})

	// CoalescedChanges counts store notifications absorbed by a pending debounce.
	CoalescedChanges = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "coalesced_changes_total",
		Help:      "Store change notifications ignored while a refresh was already scheduled",
	})

	// StaleResults counts async results dropped because their token was closed or superseded.
	StaleResults = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "stale_results_total",
		Help:      "Async results discarded at apply time",
	})

	// QueryFailures counts background gateway jobs that returned an error.
	QueryFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "query_failures_total",
		Help:      "Background gateway jobs that failed",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
