package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/audio-sentinel/internal/config"
	"github.com/nguyentantai21042004/audio-sentinel/internal/logger"
	"github.com/nguyentantai21042004/audio-sentinel/internal/pipeline"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

// Server is the HTTP surface over the record store and the ingestion
// pipeline.
type Server struct {
	cfg      *config.Config
	logger   logger.Logger
	store    store.Store
	pipeline pipeline.Pipeline
	engine   *gin.Engine
}

// New creates a new Server instance with all routes registered
func New(cfg *config.Config, st store.Store, p pipeline.Pipeline, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		logger:   log,
		store:    st,
		pipeline: p,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()

	return s
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	s.logger.Info(ctx, "HTTP server listening on :%d", s.cfg.Server.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("serve http: %w", err)
	}
}
