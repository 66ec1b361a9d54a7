package ui

import (
	"net/http"

	"covidash/domain/dataset"
	"covidash/internal/charts"

	"github.com/gin-gonic/gin"
)

// chartQuery binds the chart filter query parameters
type chartQuery struct {
	Continent string `form:"continent" binding:"omitempty,max=64"`
	Metric    string `form:"metric" binding:"omitempty,max=64"`
}

func (q chartQuery) filter() charts.Filter {
	return charts.Filter{Continent: q.Continent, Metric: q.Metric}
}

func (s *Server) handleHealth(c *gin.Context) {
	ready := 0
	summaries := s.dashboard.Datasets()
	for _, summary := range summaries {
		if summary.Status == dataset.StatusReady {
			ready++
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "datasets_ready": ready, "datasets": len(summaries)})
}

func (s *Server) handleDatasets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasets": s.dashboard.Datasets()})
}

func (s *Server) handleReload(c *gin.Context) {
	summaries, err := s.dashboard.Reload(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": summaries})
}

func (s *Server) handleChartList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"charts": s.dashboard.Charts()})
}

func (s *Server) handleChart(c *gin.Context) {
	var query chartQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.respondError(c, invalidQuery(err))
		return
	}
	chart, err := s.dashboard.Chart(c.Param("id"), query.filter())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (s *Server) handleReport(c *gin.Context) {
	var query chartQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.respondError(c, invalidQuery(err))
		return
	}
	page, err := s.dashboard.ReportHTML(charts.Filter{Continent: query.Continent})
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderHTML(c, page)
}
