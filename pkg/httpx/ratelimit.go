package httpx

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// DefaultLimit keeps a single console from hammering the API, e.g. when a
// script pages through every quotation.
// Override with: RATELIMIT_API_REQUESTS, RATELIMIT_API_WINDOW_SEC, RATELIMIT_API_BURST
var DefaultLimit = RateLimitConfig{
	RequestsPerWindow: 600,
	Window:            time.Minute,
	Burst:             20,
}

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_API_REQUESTS, RATELIMIT_API_WINDOW_SEC, RATELIMIT_API_BURST
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// KeyExtractor groups outgoing requests for rate limiting purposes.
type KeyExtractor func(*http.Request) string

// HostKeyExtractor limits per destination host.
func HostKeyExtractor(r *http.Request) string {
	return r.URL.Host
}

// RateLimitTransport is an http.RoundTripper that blocks until the limiter for
// the request's key grants a token, or the request context is done.
type RateLimitTransport struct {
	Base   http.RoundTripper
	Config RateLimitConfig
	Key    KeyExtractor

	limiters sync.Map // map[string]*rate.Limiter
}

// NewRateLimitTransport wraps base (http.DefaultTransport when nil).
func NewRateLimitTransport(base http.RoundTripper, config RateLimitConfig, key KeyExtractor) *RateLimitTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if key == nil {
		key = HostKeyExtractor
	}
	return &RateLimitTransport{Base: base, Config: config, Key: key}
}

func (t *RateLimitTransport) limiter(key string) *rate.Limiter {
	if l, ok := t.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	ratePerSecond := float64(t.Config.RequestsPerWindow) / t.Config.Window.Seconds()
	l := rate.NewLimiter(rate.Limit(ratePerSecond), max(t.Config.Burst, 1))
	actual, _ := t.limiters.LoadOrStore(key, l)
	return actual.(*rate.Limiter)
}

func (t *RateLimitTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.Config.RequestsPerWindow <= 0 || t.Config.Window <= 0 {
		return t.Base.RoundTrip(r)
	}

	l := t.limiter(t.Key(r))
	if !l.Allow() {
		log := slogx.FromContext(r.Context())
		log.Debug("rate limit: waiting for token", "key", t.Key(r))

		if err := l.Wait(r.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	return t.Base.RoundTrip(r)
}
