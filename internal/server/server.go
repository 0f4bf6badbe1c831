// Package server exposes the analysis pipeline over HTTP
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/history"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
)

// Pipeline is the subset of pipeline.Service used by the handlers
type Pipeline interface {
	HandleAnalysisRequest(ctx context.Context, rawInput string) (*pipeline.ResultEnvelope, error)
	Squash(ctx context.Context, userInput string) (*pipeline.Run, error)
}

// History is the subset of history.Store used by the handlers
type History interface {
	List(ctx context.Context) ([]history.Item, error)
	Clear(ctx context.Context) error
}

// Server is the BugSquash HTTP API
type Server struct {
	config   config.ServerConfig
	pipeline Pipeline
	history  History
	logger   *loggy.Logger
	engine   *gin.Engine
}

// New creates a server and registers its routes. A non-empty cfg.Mode sets
// the process-wide gin mode.
func New(cfg config.ServerConfig, p Pipeline, h History, logger *loggy.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		config:   cfg,
		pipeline: p,
		history:  h,
		logger:   logger,
	}
	s.engine = s.setupRouter()
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		loggy.FromContext(c.Request.Context()).Error("Handler panicked", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))
	router.Use(s.requestContext())
	router.Use(requestLogger())
	router.Use(cors.New(corsConfig(s.config.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/analyze", s.handleAnalyze)
	router.POST("/squash", s.handleSquash)
	router.GET("/history", s.handleListHistory)
	router.DELETE("/history", s.handleClearHistory)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "addr", s.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
