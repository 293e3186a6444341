package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/itigeeks/itigeeks-backend/internal/observability"
)

// Metrics records API request counts and latency by route pattern. Scrapes
// of /metrics itself are not counted.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
