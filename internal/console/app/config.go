package app

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/httpx"
)

type Config struct {
	APIURL        string        // Base URL of the CRM API (default: http://localhost:5000)
	CMSURL        string        // Base URL uploaded files are served from (default: APIURL)
	StateDir      string        // Directory holding the credential database and mirror (default: <user config dir>/backoffice)
	CredentialKey string        // Optional: passphrase sealing the mirror file; plain JSON when empty
	Env           string        // Environment (dev, staging, prod) (default: prod)
	LogLevel      string        // Log level (debug, info, warn, error) (default: warn)
	LogFormat     string        // Log format (json, text) (default: text)
	HTTPTimeout   time.Duration // Per-request timeout (default: 30s)
	SweepInterval time.Duration // Expired credential purge interval (default: 1h)
	RateLimit     httpx.RateLimitConfig
}

func LoadConfig() Config {
	cfg := Config{
		APIURL:        strings.TrimSuffix(getEnvOrDefault("BACKOFFICE_API_URL", "http://localhost:5000"), "/"),
		CMSURL:        strings.TrimSuffix(os.Getenv("BACKOFFICE_CMS_URL"), "/"),
		StateDir:      os.Getenv("BACKOFFICE_STATE_DIR"),
		CredentialKey: os.Getenv("BACKOFFICE_CREDENTIAL_KEY"),
		Env:           getEnvOrDefault("ENV", "prod"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
		HTTPTimeout:   getEnvDurationOrDefault("HTTP_TIMEOUT", 30*time.Second),
		SweepInterval: getEnvDurationOrDefault("SWEEP_INTERVAL", time.Hour),
		RateLimit:     httpx.ParseRateLimitFromEnv("API", httpx.DefaultLimit),
	}

	if cfg.CMSURL == "" {
		cfg.CMSURL = cfg.APIURL
	}

	if cfg.StateDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.StateDir = filepath.Join(dir, "backoffice")
		} else {
			cfg.StateDir = ".backoffice"
		}
	}

	return cfg
}

// Origin returns scheme://host of raw, lowercased. Credentials are stored
// per origin so tokens issued by one deployment are never sent to another.
func Origin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid API URL %q: scheme and host are required", raw)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
