package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/device"
	"github.com/Guliveer/simhub/internal/metrics"
)

const (
	// gracefulShutdownTimeout is the maximum time to wait for in-flight
	// requests to complete during shutdown.
	gracefulShutdownTimeout = 10 * time.Second

	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second

	maxBodyBytes = 1 << 20
)

// Server is the HTTP facade over a device store.
type Server struct {
	addr    string
	store   *device.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
	version string
	handler http.Handler

	now func() time.Time
}

// New creates a Server listening on addr. m is required; it backs both the
// request instrumentation and the /metrics endpoint.
func New(addr string, store *device.Store, logger *zap.Logger, m *metrics.Metrics, version string) *Server {
	s := &Server{
		addr:    addr,
		store:   store,
		logger:  logger,
		metrics: m,
		version: version,
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.handler = s.buildRouter()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	return Serve(ctx, s.logger, s.addr, s.handler)
}

// Serve runs an HTTP server for h on addr until ctx is cancelled. In-flight
// requests get gracefulShutdownTimeout to complete. A listener failure is
// returned immediately.
func Serve(ctx context.Context, logger *zap.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	logger.Info("HTTP server shutting down", zap.String("address", addr))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down %s: %w", addr, err)
	}
	return nil
}
