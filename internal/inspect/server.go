// Package inspect serves a running session over HTTP: health, Prometheus
// metrics, the latest snapshot as JSON and a WebSocket snapshot stream.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/registry"
	"github.com/vovakirdan/playforge/internal/session"
)

// Config configures the inspection server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	MaxClients     int
	RateLimit      RateLimitConfig
}

// DefaultConfig listens on localhost only.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:7070",
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		MaxClients:     32,
		RateLimit:      DefaultRateLimitConfig,
	}
}

// Server publishes session snapshots. Publish and ObserveFrame are called
// from the simulation goroutine; handlers read under the lock.
type Server struct {
	config  Config
	logger  *log.Logger
	metrics *Metrics
	limiter *IPRateLimiter
	hub     *Hub
	router  chi.Router
	started time.Time

	mu     sync.RWMutex
	latest []byte
	scene  string
	status string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer builds the server and its router. It does not listen.
func NewServer(cfg Config, opts ...Option) *Server {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = def.AllowedOrigins
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = def.MaxClients
	}

	s := &Server{
		config:  cfg,
		logger:  log.New(io.Discard),
		metrics: NewMetrics(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = NewIPRateLimiter(cfg.RateLimit)
	s.limiter.onReject = func() { s.metrics.rejected.WithLabelValues("rate_limit").Inc() }
	s.hub = NewHub(cfg.MaxClients, s.logger, s.metrics)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/scenes", s.handleScenes)
		r.Get("/ws", s.hub.ServeHTTP)
	})

	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

// Router returns the HTTP handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Hub returns the stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ObserveFrame records an engine frame. It satisfies engine.FrameObserver.
func (s *Server) ObserveFrame(f engine.Frame) {
	s.metrics.ObserveFrame(f)
}

// Publish makes snap the latest snapshot and streams it to subscribers.
func (s *Server) Publish(snap session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("inspect: encode snapshot: %w", err)
	}

	s.mu.Lock()
	s.latest = data
	s.scene = snap.Scene
	s.status = snap.Status
	s.mu.Unlock()

	s.metrics.SetBodies(len(snap.World.Bodies))
	s.hub.Broadcast(data)
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"status":  "ok",
		"scene":   s.scene,
		"engine":  s.status,
		"clients": s.hub.ClientCount(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	data := s.latest
	s.mu.RUnlock()

	if data == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot yet"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Client may have gone away
	w.Write(data)
}

type sceneInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Genre string `json:"genre"`
}

func (s *Server) handleScenes(w http.ResponseWriter, _ *http.Request) {
	list := registry.List()
	out := make([]sceneInfo, 0, len(list))
	for _, info := range list {
		out = append(out, sceneInfo{ID: info.ID, Title: info.Title, Genre: info.Genre.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	//nolint:errcheck // Client may have gone away
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspect server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("inspect: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("inspect server stopping")
	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspect: shutdown: %w", err)
	}
	return nil
}
