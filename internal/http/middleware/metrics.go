package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/metrics"
)

// Metrics records count, latency and response size of every request,
// labelled by route template. Requests that matched no route share the
// "unmatched" label.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := metrics.TrackInFlight()
		defer done()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = metrics.UnmatchedRoute
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
