package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "fleet_"

// Metrics covers the evaluation pipeline. Register once per process.
type Metrics struct {
	SamplesProcessed prometheus.Counter
	SamplesRejected  prometheus.Counter
	AlertsPublished  *prometheus.CounterVec
	TripsOpened      prometheus.Counter
	TripsClosed      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "samples_processed_total",
			Help: "Location samples accepted by the pipeline",
		}),
		SamplesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "samples_rejected_total",
			Help: "Location samples dropped as stale or invalid",
		}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "alerts_published_total",
			Help: "Alerts handed to the publisher, by type",
		}, []string{"type"}),
		TripsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "trips_opened_total",
			Help: "Trips opened by the segmenter",
		}),
		TripsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "trips_closed_total",
			Help: "Trips closed and persisted",
		}),
	}
	reg.MustRegister(m.SamplesProcessed, m.SamplesRejected, m.AlertsPublished, m.TripsOpened, m.TripsClosed)
	return m
}
