package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "50")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "10")
	t.Setenv("RATELIMIT_TEST_BURST", "5")

	cfg := httpx.ParseRateLimitFromEnv("TEST", httpx.DefaultLimit)
	require.Equal(t, 50, cfg.RequestsPerWindow)
	require.Equal(t, 10*time.Second, cfg.Window)
	require.Equal(t, 5, cfg.Burst)
}

func TestParseRateLimitIgnoresInvalid(t *testing.T) {
	t.Setenv("RATELIMIT_BAD_REQUESTS", "-1")
	t.Setenv("RATELIMIT_BAD_WINDOW_SEC", "abc")

	cfg := httpx.ParseRateLimitFromEnv("BAD", httpx.DefaultLimit)
	require.Equal(t, httpx.DefaultLimit, cfg)
}

func TestRateLimitTransportAllowsBurst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rt := httpx.NewRateLimitTransport(nil, httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Hour,
		Burst:             3,
	}, nil)
	client := &http.Client{Transport: rt}

	for range 3 {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
}

func TestRateLimitTransportHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rt := httpx.NewRateLimitTransport(nil, httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Hour,
		Burst:             1,
	}, nil)
	client := &http.Client{Transport: rt}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
}
