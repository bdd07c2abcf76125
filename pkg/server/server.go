// Package server implements the pnpgraph HTTP API: it parses performance
// data, selects a template for the check command and returns the chart
// descriptions or the charts drawn by rrdtool.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kylerisse/pnpgraph/pkg/config"
	"github.com/kylerisse/pnpgraph/pkg/hostname"
	"github.com/kylerisse/pnpgraph/pkg/rrd"
	"github.com/kylerisse/pnpgraph/pkg/template"
	"github.com/sirupsen/logrus"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server serves chart descriptions and drawn charts over HTTP.
type Server struct {
	cfg      *config.Config
	registry *template.Registry
	renderer *rrd.Renderer
	resolver *hostname.Resolver
	logger   *logrus.Logger
	stats    *requestStats

	drawMu     sync.Mutex
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New creates a Server for cfg. Templates are selected from reg.
func New(cfg *config.Config, reg *template.Registry, logger *logrus.Logger) (*Server, error) {
	renderer, err := rrd.NewRenderer(logger, rrd.WithBinary(cfg.RRDTool))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	var opts []hostname.Option
	if cfg.DNSServer != "" {
		opts = append(opts, hostname.WithServer(cfg.DNSServer))
	}
	resolver, err := hostname.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create host name resolver: %w", err)
	}

	return &Server{
		cfg:      cfg,
		registry: reg,
		renderer: renderer,
		resolver: resolver,
		logger:   logger,
		stats:    newRequestStats(),
	}, nil
}

// Start starts the HTTP API in a goroutine.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.ListenPort,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Infof("Starting API server on port %v...", s.cfg.ListenPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatalf("Failed to start API server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the HTTP API.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("API server shutdown: %v", err)
	}
	s.wg.Wait()
	s.logger.Info("API server stopped.")
}
