package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Probe — флаг готовности для /healthz.
type Probe struct {
	ready atomic.Bool
}

// SetReady переключает готовность.
func (p *Probe) SetReady(v bool) { p.ready.Store(v) }

// Ready сообщает текущую готовность.
func (p *Probe) Ready() bool { return p.ready.Load() }

// Mux — служебный HTTP-мультиплексор: /livez, /healthz, /metrics.
func Mux(probe *Probe, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if probe.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}
