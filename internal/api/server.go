// Package api exposes the wellness service over HTTP and WebSocket.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/app"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/config"
)

// Server handles HTTP API and WebSocket
type Server struct {
	app     *fiber.App
	config  *config.Config
	wellapp *app.App
	hub     *Hub
	logger  *zap.Logger

	metricsServer *http.Server
}

// New creates a new API server
func New(cfg *config.Config, wellapp *app.App, logger *zap.Logger) *Server {
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:     fiberApp,
		config:  cfg,
		wellapp: wellapp,
		hub:     NewHub(logger),
		logger:  logger,
	}
	wellapp.SetBroadcaster(s.hub)

	s.setupRoutes()
	return s
}

// Hub returns the WebSocket broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start starts the API server and, when configured, the metrics listener.
func (s *Server) Start() error {
	if s.config.Server.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(s.wellapp.Metrics.Registry, promhttp.HandlerOpts{}))
		s.metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", s.config.Server.Address, s.config.Server.MetricsPort),
			Handler: mux,
		}
		go func() {
			if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Address, s.config.Server.Port)
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			s.logger.Warn("metrics listener shutdown failed", zap.Error(err))
		}
	}
	s.hub.Close()
	return s.app.ShutdownWithContext(ctx)
}
