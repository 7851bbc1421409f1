// metrics — метрики portal-gateway (prometheus) и служебные HTTP-ручки.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/news-portal/internal/segment"
)

const namespace = "portal"

// Metrics — метрики загрузок сегментов и сессий.
// Реализует synchronizer.Observer; SessionsActive подходит как session.Gauge.
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	SessionsActive prometheus.Gauge
}

// New создаёт и регистрирует метрики в reg.
// Для тестов передаётся собственный prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_fetch_total",
			Help:      "Segment fetches by segment and outcome.",
		}, []string{"segment", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_fetch_duration_seconds",
			Help:      "Segment fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"segment"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Reader sessions currently held in memory.",
		}),
	}

	reg.MustRegister(m.fetchTotal, m.fetchDuration, m.SessionsActive)

	return m
}

// ObserveFetch учитывает завершённую загрузку сегмента.
func (m *Metrics) ObserveFetch(key segment.Key, outcome string, took time.Duration) {
	m.fetchTotal.WithLabelValues(string(key), outcome).Inc()
	m.fetchDuration.WithLabelValues(string(key)).Observe(took.Seconds())
}
