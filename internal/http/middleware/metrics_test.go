package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-booking-backend/internal/metrics"
)

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/sconto/:codice", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"codice": c.Param("codice")}) })
	r.DELETE("/sconto/:codice", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	get := metrics.HTTPRequests.WithLabelValues("GET", "/sconto/:codice", "200")
	del := metrics.HTTPRequests.WithLabelValues("DELETE", "/sconto/:codice", "204")
	miss := metrics.HTTPRequests.WithLabelValues("GET", metrics.UnmatchedRoute, "404")
	g0, d0, m0 := testutil.ToFloat64(get), testutil.ToFloat64(del), testutil.ToFloat64(miss)

	for _, rq := range []struct{ method, path string }{
		{http.MethodGet, "/sconto/ESTATE10"},
		{http.MethodGet, "/sconto/NATALE"},
		{http.MethodDelete, "/sconto/ESTATE10"},
		{http.MethodGet, "/wp-admin/install.php"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(rq.method, rq.path, nil))
	}

	if got := testutil.ToFloat64(get) - g0; got != 2 {
		t.Fatalf("GET delta = %v; want 2", got)
	}
	if got := testutil.ToFloat64(del) - d0; got != 1 {
		t.Fatalf("DELETE delta = %v; want 1", got)
	}
	if got := testutil.ToFloat64(miss) - m0; got != 1 {
		t.Fatalf("unmatched delta = %v; want 1", got)
	}
	if v := testutil.ToFloat64(metrics.HTTPInFlight); v != 0 {
		t.Fatalf("in flight = %v; want 0", v)
	}
}
