package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newPanicRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late kaboom")
	})
	return r
}

func TestRecovery_WritesEnvelope(t *testing.T) {
	buf := captureLogs(t)
	r := newPanicRouter()

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "rid-panic")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body["code"] != "internal_error" || body["request_id"] != "rid-panic" || body["message"] == "" {
		t.Fatalf("unexpected body %v", body)
	}

	lines := logLines(t, buf, "panic recovered")
	if len(lines) != 1 || lines[0]["panic"] != "kaboom" || lines[0]["request_id"] != "rid-panic" {
		t.Fatalf("panic not logged with scope: %v", lines)
	}
	if lines[0]["stack"] == nil {
		t.Fatalf("stack missing")
	}
	if access := logLines(t, buf, "http_request"); len(access) != 1 || access[0]["status"] != float64(500) {
		t.Fatalf("access line should record 500: %v", access)
	}
}

func TestRecovery_AfterWriteKeepsBody(t *testing.T) {
	buf := captureLogs(t)
	r := newPanicRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("envelope appended after a write: %q", w.Body.String())
	}
	if len(logLines(t, buf, "panic recovered")) != 1 {
		t.Fatalf("late panic not logged")
	}
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/abort", func(c *gin.Context) { panic(http.ErrAbortHandler) })

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("recovered %v; want ErrAbortHandler", rec)
		}
	}()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
}
