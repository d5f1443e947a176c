package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kb4yz/sstvdemod/internal/decoder"
)

// decoderMetrics mirrors decoder.Stats as Prometheus gauges, one plain
// Gauge per counter.
type decoderMetrics struct {
	candidatesEvaluated prometheus.Gauge
	imagesCompleted     prometheus.Gauge
	visParityFailures   prometheus.Gauge
	modeNotImplemented  prometheus.Gauge
}

func newDecoderMetrics() *decoderMetrics {
	return &decoderMetrics{
		candidatesEvaluated: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sstvdemod_candidates_evaluated_total",
			Help: "Sync/VIS candidate windows scored.",
		}),
		imagesCompleted: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sstvdemod_images_completed_total",
			Help: "Images fully scanned.",
		}),
		visParityFailures: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sstvdemod_vis_parity_failures_total",
			Help: "Candidates that reached VIS decode but failed parity or the tile-deviation check.",
		}),
		modeNotImplemented: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sstvdemod_mode_not_implemented_total",
			Help: "Candidates whose decoded VIS code has no known mode.",
		}),
	}
}

func (m *decoderMetrics) update(s decoder.Stats) {
	m.candidatesEvaluated.Set(float64(s.CandidatesEvaluated))
	m.imagesCompleted.Set(float64(s.ImagesCompleted))
	m.visParityFailures.Set(float64(s.VISParityFailures))
	m.modeNotImplemented.Set(float64(s.ModeNotImplemented))
}

// servePrometheus runs a background /metrics endpoint, polling d.Stats()
// at a fixed interval until stop is closed.
func servePrometheus(listen string, d *decoder.Decoder, logger *log.Logger, stop <-chan struct{}) {
	m := newDecoderMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listen, Handler: mux}

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.update(d.Stats())
			}
		}
	}()

	logger.Printf("[SSTV] metrics listening on %s", listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Printf("[SSTV] metrics server error: %v", err)
	}
}
