package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLogs points the global logger at a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig, lvl := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = orig
		zerolog.SetGlobalLevel(lvl)
	})
	return &buf
}

// logLines decodes every JSON line in buf whose message is msg.
func logLines(t *testing.T, buf *bytes.Buffer, msg string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("bad log line %q: %v", ln, err)
		}
		if m["message"] == msg {
			out = append(out, m)
		}
	}
	return out
}

func TestRedactor_Text(t *testing.T) {
	red := newRedactor(RedactOptions{})
	cases := map[string]string{
		"email=mario.rossi@example.it":                "email=[REDACTED:email]",
		"tel=333 123 4567":                            "tel=[REDACTED:phone]",
		"id=3f2504e0-4f89-41d3-9a0c-0305e82c3301":     "id=[REDACTED:id]",
		"cs=pi_3NabcDEF_secret_XyZ123":                "cs=[REDACTED:secret]",
		"data_inizio=2025-07-10&data_fine=2025-07-12": "data_inizio=2025-07-10&data_fine=2025-07-12",
		"":                                            "",
	}
	for in, want := range cases {
		if got := red.text(in); got != want {
			t.Fatalf("text(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestRedactor_HeadersAndQueryCap(t *testing.T) {
	red := newRedactor(RedactOptions{MaskHeaders: []string{" stripe-signature ", ""}})
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Stripe-Signature", "t=1,v1=deadbeef")
	h.Set("X-Guest", "anna@example.com")
	h.Set("Accept", "application/json")

	got := red.headers(h)
	if got["Authorization"] != redactedValue || got["Stripe-Signature"] != redactedValue {
		t.Fatalf("masked headers leaked: %v", got)
	}
	if got["X-Guest"] != "[REDACTED:email]" || got["Accept"] != "application/json" {
		t.Fatalf("unexpected headers: %v", got)
	}

	long := strings.Repeat("a", maxLoggedQuery+10)
	if q := red.query(long); !strings.HasSuffix(q, "…") || len(q) != maxLoggedQuery+len("…") {
		t.Fatalf("query not capped: len=%d", len(q))
	}
}

func TestRedactingLogger_AccessLine(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/prenotazioni/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"id": c.Param("id")}) })

	req := httptest.NewRequest(http.MethodGet, "/prenotazioni/7?email=guest@example.com", nil)
	req.Header.Set(RequestIDHeader, "rid-access")
	req.Header.Set("Cookie", "session=1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, buf, "http_request")
	if len(lines) != 1 {
		t.Fatalf("want one access line, got %d:\n%s", len(lines), buf.String())
	}
	ln := lines[0]
	if ln["level"] != "info" || ln["request_id"] != "rid-access" || ln["route"] != "/prenotazioni/:id" {
		t.Fatalf("unexpected fields: %v", ln)
	}
	if ln["query"] != "email=[REDACTED:email]" || ln["status"] != float64(200) {
		t.Fatalf("unexpected query/status: %v", ln)
	}
	headers, _ := ln["headers"].(map[string]any)
	if headers["Cookie"] != redactedValue {
		t.Fatalf("cookie not masked: %v", headers)
	}
	if strings.Contains(buf.String(), "guest@example.com") {
		t.Fatalf("email leaked into logs")
	}
}

func TestRedactingLogger_LevelsFollowStatus(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.GET("/err", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	r.GET("/ginerr", func(c *gin.Context) {
		_ = c.Error(http.ErrHandlerTimeout)
		c.Status(http.StatusOK)
	})

	for _, p := range []string{"/warn", "/err", "/ginerr"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	lines := logLines(t, buf, "http_request")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d", len(lines))
	}
	want := []string{"warn", "error", "error"}
	for i, ln := range lines {
		if ln["level"] != want[i] {
			t.Fatalf("line %d level = %v; want %s", i, ln["level"], want[i])
		}
	}
	if lines[2]["errors"] == nil {
		t.Fatalf("gin errors not logged: %v", lines[2])
	}
}

func TestLoggerFrom_ScopedAndFallback(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.POST("/contact", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("from handler")
		zerolog.Ctx(c.Request.Context()).Info().Msg("from service")
		c.Status(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set(RequestIDHeader, "rid-scoped")
	r.ServeHTTP(httptest.NewRecorder(), req)

	for _, msg := range []string{"from handler", "from service"} {
		lines := logLines(t, buf, msg)
		if len(lines) != 1 || lines[0]["request_id"] != "rid-scoped" || lines[0]["route"] != "/contact" {
			t.Fatalf("%s: scoped fields missing: %v", msg, lines)
		}
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if LoggerFrom(c) == nil {
		t.Fatalf("fallback logger must not be nil")
	}
}
