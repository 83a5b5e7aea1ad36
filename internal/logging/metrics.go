package logging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the adapters write.
//
// Metrics:
//   - ctxlog_records_total{adapter,level} - records that passed the level check
type Metrics struct {
	Records *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Records: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxlog_records_total",
				Help: "Total number of log records written, by adapter and native level",
			},
			[]string{"adapter", "level"},
		),
	}
}

func (m *Metrics) record(adapter, level string) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(adapter, level).Inc()
}
