package scaleconv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "scaleconv"

// Metrics contains the processor's Prometheus collectors.
type Metrics struct {
	// Reconciliation
	Reconciles        prometheus.Counter
	FilterSets        prometheus.Gauge
	FilterSetsCreated prometheus.Counter
	FilterSetsRebuilt prometheus.Counter
	FilterSetsRemoved prometheus.Counter

	// Parameter changes
	CoefficientUpdates   prometheus.Counter
	UnknownStreamUpdates prometheus.Counter

	// Processing
	BlocksProcessed   prometheus.Counter
	ChannelsProcessed prometheus.Counter
	SamplesProcessed  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Reconciles: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reconciles_total",
			Help:      "Total number of stream reconciliation passes",
		}),
		FilterSets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "filter_sets",
			Help:      "Current number of per-stream filter sets",
		}),
		FilterSetsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "filter_sets_created_total",
			Help:      "Total number of filter sets created for new streams",
		}),
		FilterSetsRebuilt: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "filter_sets_rebuilt_total",
			Help:      "Total number of filter sets rebuilt after a channel count change",
		}),
		FilterSetsRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "filter_sets_removed_total",
			Help:      "Total number of filter sets removed with their stream",
		}),
		CoefficientUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "coefficient_updates_total",
			Help:      "Total number of scaling/offset updates applied to a stream",
		}),
		UnknownStreamUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unknown_stream_updates_total",
			Help:      "Total number of parameter changes for streams without a filter set",
		}),
		BlocksProcessed: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blocks_processed_total",
			Help:      "Total number of sample blocks processed",
		}),
		ChannelsProcessed: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "channels_processed_total",
			Help:      "Total number of channel rows transformed",
		}),
		SamplesProcessed: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "samples_processed_total",
			Help:      "Total number of samples transformed",
		}),
	}
}

func (m *Metrics) observeReconcile(stats ReconcileStats, sets int) {
	if m == nil {
		return
	}

	m.Reconciles.Inc()
	m.FilterSets.Set(float64(sets))
	m.FilterSetsCreated.Add(float64(len(stats.Created)))
	m.FilterSetsRebuilt.Add(float64(len(stats.Rebuilt)))
	m.FilterSetsRemoved.Add(float64(len(stats.Removed)))
}

func (m *Metrics) observeCoefficientUpdate(known bool) {
	if m == nil {
		return
	}

	if known {
		m.CoefficientUpdates.Inc()
	} else {
		m.UnknownStreamUpdates.Inc()
	}
}

func (m *Metrics) observeBlock(channels, samples int) {
	if m == nil {
		return
	}

	m.BlocksProcessed.Inc()
	m.ChannelsProcessed.Add(float64(channels))
	m.SamplesProcessed.Add(float64(samples))
}
