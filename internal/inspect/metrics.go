package inspect

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/playforge/internal/engine"
)

// Metrics holds the server's collectors. Each server registers them on its
// own registry so several can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	frameDuration prometheus.Histogram
	steps         prometheus.Counter
	frames        *prometheus.CounterVec
	bodies        prometheus.Gauge
	score         prometheus.Gauge
	wsClients     prometheus.Gauge
	wsMessages    prometheus.Counter
	rejected      *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "playforge_frame_duration_seconds",
			Help:    "Time spent inside an engine frame",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0167, 0.033},
		}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "playforge_physics_steps_total",
			Help: "Fixed physics steps taken",
		}),
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Name: "playforge_frames_total",
			Help: "Engine frames by loop status",
		}, []string{"status"}), // Bounded: "running", "paused", "stopped"
		bodies: f.NewGauge(prometheus.GaugeOpts{
			Name: "playforge_bodies",
			Help: "Live bodies in the world",
		}),
		score: f.NewGauge(prometheus.GaugeOpts{
			Name: "playforge_score",
			Help: "Current game score",
		}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "playforge_websocket_clients",
			Help: "Connected snapshot stream clients",
		}),
		wsMessages: f.NewCounter(prometheus.CounterOpts{
			Name: "playforge_websocket_messages_total",
			Help: "Snapshot messages queued to stream clients",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "playforge_requests_rejected_total",
			Help: "Requests rejected by the rate limiter or connection cap",
		}, []string{"reason"}), // Bounded: "rate_limit", "ws_limit"
	}
}

// ObserveFrame records one engine frame.
func (m *Metrics) ObserveFrame(f engine.Frame) {
	m.frameDuration.Observe(f.Elapsed.Seconds())
	m.steps.Add(float64(f.Steps))
	m.frames.WithLabelValues(f.Status.String()).Inc()
	m.score.Set(float64(f.State.Score))
}

// SetBodies updates the body gauge.
func (m *Metrics) SetBodies(n int) {
	m.bodies.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
