// Package httpapi exposes the query pipeline over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/yatra/internal/orchestrator"
)

// QueryProcessor runs the pipeline for one query.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, req orchestrator.Request) orchestrator.Response
}

// InteractionRecorder records user/item interactions for the
// recommendation engine.
type InteractionRecorder interface {
	RecordInteraction(userID, itemID string)
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server provides the HTTP endpoints.
type Server struct {
	echo      *echo.Echo
	processor QueryProcessor
	recorder  InteractionRecorder
	metrics   *Metrics
	logger    *zap.Logger
	config    Config
}

// NewServer creates the HTTP server. A nil registry uses the default
// Prometheus registerer.
func NewServer(processor QueryProcessor, recorder InteractionRecorder, logger *zap.Logger, cfg Config, reg *prometheus.Registry) (*Server, error) {
	if processor == nil {
		return nil, fmt.Errorf("httpapi: query processor is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("httpapi: interaction recorder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8085
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:      e,
		processor: processor,
		recorder:  recorder,
		logger:    logger,
		config:    cfg,
	}
	if reg != nil {
		s.metrics = NewMetrics(reg)
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	} else {
		s.metrics = NewMetrics(nil)
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/query", s.handleQuery)
	v1.POST("/interactions", s.handleInteraction)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// InteractionRequest is the request body for POST /api/v1/interactions.
type InteractionRequest struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleQuery(c echo.Context) error {
	var req orchestrator.Request
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid query request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	start := time.Now()
	resp := s.processor.ProcessQuery(c.Request().Context(), req)
	s.metrics.queryDuration.Observe(time.Since(start).Seconds())
	s.metrics.queriesTotal.WithLabelValues(string(resp.Intent)).Inc()
	if resp.UsedExternalModel {
		s.metrics.modelCalls.Inc()
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleInteraction(c echo.Context) error {
	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.ItemID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and item_id are required")
	}

	s.recorder.RecordInteraction(req.UserID, req.ItemID)
	return c.NoContent(http.StatusNoContent)
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
