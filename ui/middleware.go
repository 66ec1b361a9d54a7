package ui

import (
	"covidash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))
	if s.metrics != nil {
		s.router.Use(middleware.RecordRequests(s.metrics))
	}
}
