package ui

import (
	"context"
	"net/http"

	"covidash/domain/dataset"
	"covidash/internal"
	"covidash/internal/charts"
	"covidash/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Dashboard is the application surface the HTTP API exposes
type Dashboard interface {
	Reload(ctx context.Context) ([]dataset.Summary, error)
	Datasets() []dataset.Summary
	Charts() []charts.Definition
	Chart(id string, filter charts.Filter) (*charts.Chart, error)
	ReportHTML(filter charts.Filter) ([]byte, error)
}

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	dashboard Dashboard
	metrics   *metrics.Manager
	logger    *internal.Logger
}

// NewServer creates a server and registers its routes. metrics may be nil.
func NewServer(dashboard Dashboard, metricsManager *metrics.Manager, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:    gin.New(),
		dashboard: dashboard,
		metrics:   metricsManager,
		logger:    logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	api.GET("/datasets", s.handleDatasets)
	api.POST("/datasets/reload", s.handleReload)
	api.GET("/charts", s.handleChartList)
	api.GET("/charts/:id", s.handleChart)

	s.router.GET("/report", s.handleReport)
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns a server listening on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{Addr: addr, Handler: s.router}
}
