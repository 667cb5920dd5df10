package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/idx"
)

// Transport is an http.RoundTripper that logs every outgoing request and its
// outcome. A logger already on the request context wins over Logger, so
// attributes added with With show up on the request lines too.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil) with request logging.
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = idx.New().String()
		r = r.Clone(r.Context())
		r.Header.Set("X-Request-ID", reqID)
	}

	logger := Or(r.Context(), t.Logger).With(
		"req_id", reqID,
		"method", r.Method,
		"url", r.URL.Redacted(),
	)
	r = r.WithContext(WithContext(r.Context(), logger))

	logger.Debug("http_request_start", "request_bytes", r.ContentLength)

	resp, err := t.Base.RoundTrip(r)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		logger.Warn("http_request_failed", "duration_ms", duration, "error", err)
		return nil, err
	}

	level := slog.LevelInfo
	if resp.StatusCode >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	logger.Log(r.Context(), level, "http_request",
		"status", resp.StatusCode,
		"duration_ms", duration,
		"content_type", resp.Header.Get("Content-Type"),
		"response_bytes", resp.ContentLength,
	)

	return resp, nil
}
