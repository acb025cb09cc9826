package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig contains configuration for the metrics HTTP server.
type ServerConfig struct {
	// ListenAddress is the address for the metrics HTTP server.
	ListenAddress string

	// Path is the HTTP path for the metrics endpoint.
	Path string
}

// Server exposes the default Prometheus registry over HTTP.
type Server struct {
	cfg    ServerConfig
	logger *slog.Logger
	srv    *http.Server
}

// NewServer creates a metrics server. Start must be called to begin
// serving.
func NewServer(cfg ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger.With("component", "telemetry.metrics"),
	}
}

// Handler returns the HTTP handler for the metrics endpoint. It exposes
// all metrics registered with the default registry in the standard
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// Start begins serving the metrics endpoint in a background goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, Handler())

	s.srv = &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("metrics server listening",
			"address", s.cfg.ListenAddress,
			"path", s.cfg.Path,
		)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
