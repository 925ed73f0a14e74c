package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/topster/internal/config"
	"github.com/youruser/topster/internal/topster"
)

// Server is the poster HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewEngine builds the gin engine with middleware and routes.
func NewEngine(renderer *topster.Renderer, playerBaseURL string, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(logger), recovery(logger))
	RegisterRoutes(r, NewHandlers(renderer, playerBaseURL))
	return r
}

func NewServer(cfg config.Config, renderer *topster.Renderer, logger *log.Logger) *Server {
	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      NewEngine(renderer, cfg.Player.BaseURL, logger),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
