package api

import (
	"strconv"
	"time"

	"powerplants/domain/core"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// requestID reuses a valid incoming X-Request-ID or assigns a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseID(c.GetHeader(RequestIDHeader))
		if err != nil {
			id = core.NewID()
		}
		c.Set("requestID", id.String())
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

// instrument records request counts and latency by route template
func instrument(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
