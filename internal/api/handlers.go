package api

import (
	"net/http"
	"strings"

	"powerplants/domain/core"
	"powerplants/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Power Plants API!"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

func (s *Server) handleReady(c *gin.Context) {
	q := s.getQueries()
	if q == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "dataset not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ready", "dataset": q.DatasetInfo()})
}

func (s *Server) requireQueries(c *gin.Context) {
	if s.getQueries() == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
		return
	}
	c.Next()
}

func (s *Server) handleTopPlants(c *gin.Context) {
	var req TopPlantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if req.Metric == "" {
		req.Metric = s.defaultMetric
	}

	result, err := s.getQueries().TopNPlants(req.TopNumber, req.Metric)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleStateSummary(c *gin.Context) {
	var req StateSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := s.getQueries().PlantMetricSummaryByState(req.Metric)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDataByState(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := s.getQueries().DataByState(strings.ToUpper(req.State))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.getQueries().NumericMetrics())
}

func (s *Server) handleMetricProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if req.Metric == "" {
		req.Metric = s.defaultMetric
	}

	result, err := s.getQueries().MetricProfile(req.Metric)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeError maps domain errors to HTTP statuses; unknown errors are 500
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case core.IsBadMetric(err):
		s.countError("bad_metric")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsDataNotFound(err):
		s.countError("data_not_found")
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case core.IsInvalidInput(err):
		s.countError("invalid_input")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.countError("internal")
		s.logger.Error("[API] %s %s (request %s) %s: %v", c.Request.Method, c.Request.URL.Path, c.GetString("requestID"), errors.GetCode(err), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (s *Server) countError(kind string) {
	if s.metrics != nil {
		s.metrics.QueryErrors.WithLabelValues(kind).Inc()
	}
}
