// Package server provides the HTTP server implementation
package server

// @title           MilkRoute API
// @version         1.0
// @description     Delivery zones, subscriptions and delivery calendars for a daily grocery service.
// @x-skip-model-definitions true
//
// @description.markdown
// All API endpoints except the documentation and metrics are subject to rate limiting:
// * Tokens refill at RATE_LIMIT_REQUESTS per RATE_LIMIT_WINDOW seconds
// * Up to RATE_LIMIT_BURST requests may arrive at once
// * Rate limits are applied per IP address
//
// When rate limit is exceeded:
// * Status code 429 (Too Many Requests) is returned
// * Headers:
//   - X-RateLimit-Limit: Maximum requests allowed
//   - X-RateLimit-Reset: Unix timestamp when the rate limit resets
//   - Retry-After: Seconds to wait before retrying
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"context"
	"fmt"
	"milkroute/internal/config"
	"milkroute/internal/logger"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultShutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg     config.APIConfig
	handler http.Handler
	ready   chan net.Addr
}

// New creates a new server instance
func New(cfg config.APIConfig, handler http.Handler) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		ready:   make(chan net.Addr, 1),
	}
}

// Ready delivers the listening address once the server accepts connections
func (s *Server) Ready() <-chan net.Addr {
	return s.ready
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout
func (s *Server) Run(ctx context.Context) error {
	// Convert port string to int
	port, err := strconv.Atoi(s.cfg.Port)
	if err != nil {
		return errors.Wrap(err, "invalid port number")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := logger.WithComponent("server")
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", listener.Addr().String()).Info("Starting server")
		errCh <- srv.Serve(listener)
	}()
	s.ready <- listener.Addr()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	log.WithField("timeout", timeout.String()).Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	return nil
}
