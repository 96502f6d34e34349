// Package metrics exposes the Prometheus instruments of the toolkit.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ModelsLoaded counts successfully built model descriptors by source
	// format.
	ModelsLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annet_models_loaded_total",
			Help: "Total number of models loaded, by source format",
		},
		[]string{"format"},
	)

	// Fetches counts remote model downloads (cache hits excluded).
	Fetches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "annet_fetches_total",
			Help: "Total number of remote model downloads",
		},
	)

	// Conversions counts foreign-to-native conversion passes.
	Conversions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "annet_conversions_total",
			Help: "Total number of foreign-format conversions",
		},
	)

	// Simplifications counts post-conversion simplification passes.
	Simplifications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "annet_simplifications_total",
			Help: "Total number of simplification passes",
		},
	)
)

func init() {
	prometheus.MustRegister(ModelsLoaded, Fetches, Conversions, Simplifications)
}
