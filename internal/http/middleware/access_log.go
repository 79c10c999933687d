package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	redactedValue  = "[REDACTED]"
	maxLoggedQuery = 1024
)

// RedactOptions adds header names whose values are never logged, on top of
// Authorization, Cookie and Set-Cookie.
type RedactOptions struct {
	MaskHeaders []string
}

// scrubRule replaces one family of sensitive substrings. Rules run in order:
// payment secrets and ids before emails, and phone numbers last because
// their pattern is the loosest and would otherwise eat UUID digit groups.
type scrubRule struct {
	re   *regexp.Regexp
	repl string
}

var scrubRules = []scrubRule{
	{regexp.MustCompile(`\b(?:pi|seti)_[A-Za-z0-9]+_secret_[A-Za-z0-9]+\b`), "[REDACTED:secret]"},
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// redactor scrubs personal data out of request metadata. Guests send their
// names, emails and phone numbers to the booking endpoints, and clients echo
// Stripe client secrets back, so none of it may reach the logs verbatim.
type redactor struct {
	masked map[string]struct{}
}

func newRedactor(opts RedactOptions) *redactor {
	m := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			m[h] = struct{}{}
		}
	}
	return &redactor{masked: m}
}

func (r *redactor) text(s string) string {
	for _, rule := range scrubRules {
		if s == "" {
			break
		}
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	return s
}

func (r *redactor) query(raw string) string {
	if len(raw) > maxLoggedQuery {
		raw = raw[:maxLoggedQuery] + "…"
	}
	return r.text(raw)
}

func (r *redactor) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.masked[strings.ToLower(k)]; ok {
			out[k] = redactedValue
			continue
		}
		out[k] = r.text(strings.Join(vv, ", "))
	}
	return out
}

// RedactingLogger emits one "http_request" line per request with the query
// string and headers scrubbed. Bodies are never logged.
//
// It also attaches a logger carrying request_id, method and route to the Gin
// context (see LoggerFrom) and to the request context, where services pick
// it up through zerolog.Ctx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	red := newRedactor(opts)

	return func(c *gin.Context) {
		start := time.Now()
		route := routeOf(c)

		scoped := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("route", route).
			Logger()
		c.Set(loggerKey, &scoped)
		c.Request = c.Request.WithContext(scoped.WithContext(c.Request.Context()))

		query := red.query(c.Request.URL.RawQuery)
		headers := red.headers(c.Request.Header)

		c.Next()

		status := c.Writer.Status()
		ev := levelFor(status, len(c.Errors) > 0)
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", red.text(c.Errors.String()))
		}
		ev.Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("query", query).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

// LoggerFrom returns the request-scoped logger installed by RedactingLogger,
// or the global logger when there is none.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	return &log.Logger
}

func levelFor(status int, hasErrors bool) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError || hasErrors:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	default:
		return log.Info()
	}
}

// routeOf returns the matched route template, or the raw path when no route
// matched.
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	if c.Request != nil && c.Request.URL != nil {
		return c.Request.URL.Path
	}
	return ""
}
