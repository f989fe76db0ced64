// Package api assembles the HTTP server exposed to the host application.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/jackbridge/jackbridge/internal/catalog"
	"github.com/jackbridge/jackbridge/internal/history"
	"github.com/jackbridge/jackbridge/internal/jackett"
	"github.com/jackbridge/jackbridge/internal/search"
)

// Server handles HTTP requests for the jackbridge API.
type Server struct {
	echo   *echo.Echo
	logger zerolog.Logger

	jackettClient  *jackett.Client
	catalogService *catalog.Service
	searchService  *search.Service
	historyService *history.Service
}

// NewServer creates a new API server instance.
func NewServer(
	jackettClient *jackett.Client,
	catalogService *catalog.Service,
	searchService *search.Service,
	historyService *history.Service,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:           e,
		logger:         logger,
		jackettClient:  jackettClient,
		catalogService: catalogService,
		searchService:  searchService,
		historyService: historyService,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")

	searchHandlers := search.NewHandlers(s.searchService)
	searchHandlers.RegisterRoutes(api)

	if s.historyService != nil {
		historyHandlers := history.NewHandlers(s.historyService)
		historyHandlers.RegisterRoutes(api)
	}
}

// healthStatus is the health check response body.
type healthStatus struct {
	Status           string `json:"status"`
	JackettReachable bool   `json:"jackettReachable"`
	CatalogAgeSec    int64  `json:"catalogAgeSec"`
	CatalogIndexers  int    `json:"catalogIndexers"`
}

// healthCheck reports Jackett reachability and catalog snapshot freshness.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	snap := s.catalogService.Snapshot()
	status := healthStatus{
		Status:           "ok",
		JackettReachable: true,
		CatalogAgeSec:    int64(s.catalogService.Age().Seconds()),
		CatalogIndexers:  len(snap.Indexers),
	}

	if err := s.jackettClient.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.JackettReachable = false
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
