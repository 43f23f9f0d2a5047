// Package metrics holds prometheus collectors for the analysis pipeline.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"evidenceapi/internal/model"
)

// Analysis records status transitions and confirmed batch costs.
type Analysis struct {
	transitions *prometheus.CounterVec
	batches     prometheus.Counter
	batchFiles  prometheus.Histogram
	batchCost   prometheus.Histogram
}

// NewAnalysis creates the collectors and registers them with reg.
func NewAnalysis(reg prometheus.Registerer) (*Analysis, error) {
	m := &Analysis{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evidence_status_transitions_total",
				Help: "Evidence analysis status transitions, by target status.",
			},
			[]string{"status"},
		),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analysis_batches_total",
			Help: "Confirmed analysis batches.",
		}),
		batchFiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analysis_batch_files",
			Help:    "Files per confirmed analysis batch.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		batchCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analysis_batch_estimated_cost",
			Help:    "Estimated cost of confirmed analysis batches.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.batches, m.batchFiles, m.batchCost} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Analysis) StatusChanged(_ context.Context, _ string, ev model.EvidenceFile) {
	m.transitions.WithLabelValues(string(ev.Status)).Inc()
}

func (m *Analysis) BatchConfirmed(_ context.Context, _ string, files int, cost float64) {
	m.batches.Inc()
	m.batchFiles.Observe(float64(files))
	m.batchCost.Observe(cost)
}
