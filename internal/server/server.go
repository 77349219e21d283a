// Package server exposes the thresholding pipeline over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bilevel/internal/config"
	"bilevel/internal/logger"
	"bilevel/internal/pipeline"
)

type Server struct {
	cfg    *config.Config
	http   *http.Server
	logger logger.Logger
}

func New(cfg *config.Config, coordinator *pipeline.Coordinator, cache *ResultCache, log logger.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	handler := NewThresholdHandler(cfg, coordinator, cache, log)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/threshold", handler.Compute)
		api.GET("/algorithms", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"algorithms": coordinator.Manager().GetAvailableAlgorithms(),
			})
		})
	}

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:         cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run blocks serving requests until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("server", "listening", map[string]interface{}{
		"addr": s.cfg.Server.Port,
	})

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server", "shutting down", nil)
	return s.http.Shutdown(ctx)
}
