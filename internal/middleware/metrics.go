package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"trellone-sync/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics returns a middleware that records local API request metrics by route pattern
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
