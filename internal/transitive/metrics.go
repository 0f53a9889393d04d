package transitive

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quellgraph/quell/internal/build"
)

const (
	phaseMapBuild  = "map_build"
	phaseHull      = "hull"
	phaseTableFill = "table_fill"
)

var pathPhaseDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: build.ProjectName,
	Name:      "transitive_path_phase_duration_ms",
	Help:      "The duration (in ms) of one phase of a transitive path evaluation.",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
}, []string{"phase"})
