// Package config holds the server settings and their validation rules.
// Settings are bound from flags and environment variables by the CLI layer;
// sensitive values may be secret references resolved through the secret
// package before validation.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/projectmcp/bigquery-mcp/secret"
)

// placeholderBearerToken is the sample value shipped in .env.example; it
// must never authenticate anything.
const placeholderBearerToken = "your-secure-bearer-token-here-at-least-32-characters"

// minBearerTokenLength is the minimum accepted pre-shared secret length.
const minBearerTokenLength = 32

// Settings is the full server configuration. Construct once at startup,
// validate, then treat as read-only.
type Settings struct {
	// BearerToken is the legacy pre-shared secret. Optional: empty disables
	// the fallback path and leaves JWT as the only credential.
	BearerToken string

	// GoogleApplicationCredentials is the service account JSON key path.
	GoogleApplicationCredentials string

	// GCPProjectID is the BigQuery project queried by every tool.
	GCPProjectID string

	// JWTPublicKeyPath is the PEM file holding the token verification key.
	JWTPublicKeyPath string

	// JWTIssuer and JWTAudience are the claims every token must match.
	JWTIssuer   string
	JWTAudience string

	// Host and Port are the HTTP listen address.
	Host string
	Port int

	// LogLevel is one of debug|info|warn|error.
	LogLevel string

	// MetricExporter and TraceExporter select telemetry backends.
	MetricExporter  string
	TraceExporter   string
	TraceSampleRate float64

	// QueryConcurrency caps simultaneous BigQuery queries.
	QueryConcurrency int

	// MetadataCacheTTL is how long dataset/table metadata results are
	// served from cache. Zero disables caching.
	MetadataCacheTTL time.Duration
}

// Defaults returns settings with the documented default values applied.
func Defaults() Settings {
	return Settings{
		Host:             "0.0.0.0",
		Port:             8080,
		LogLevel:         "info",
		MetricExporter:   "prometheus",
		TraceExporter:    "none",
		TraceSampleRate:  1.0,
		QueryConcurrency: 8,
		MetadataCacheTTL: 30 * time.Second,
		JWTPublicKeyPath: filepath.Join("credentials", "public_key.pem"),
	}
}

// Resolve expands secret references in sensitive fields. Runs before
// Validate so validation sees the real values.
func (s *Settings) Resolve(ctx context.Context, resolver *secret.Resolver) error {
	if resolver == nil {
		resolver = secret.NewResolver()
	}

	token, err := resolver.Resolve(ctx, s.BearerToken)
	if err != nil {
		return fmt.Errorf("config: resolve bearer token: %w", err)
	}
	s.BearerToken = token
	return nil
}

// Validate checks the settings. It mirrors the constraints the previous
// deployment enforced at startup: weak or placeholder bearer secrets,
// unusable credential files, and out-of-range basics all fail fast.
func (s *Settings) Validate() error {
	if s.BearerToken != "" {
		if len(s.BearerToken) < minBearerTokenLength {
			return fmt.Errorf("config: bearer token must be at least %d characters", minBearerTokenLength)
		}
		if s.BearerToken == placeholderBearerToken {
			return fmt.Errorf("config: bearer token is the example placeholder; set a real secret")
		}
	}

	if s.GCPProjectID == "" {
		return fmt.Errorf("config: GCP project ID is required")
	}

	if s.GoogleApplicationCredentials != "" {
		info, err := os.Stat(s.GoogleApplicationCredentials)
		if err != nil {
			return fmt.Errorf("config: credentials file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("config: credentials path %s is not a file", s.GoogleApplicationCredentials)
		}
		if filepath.Ext(s.GoogleApplicationCredentials) != ".json" {
			return fmt.Errorf("config: credentials file %s must be a JSON file", s.GoogleApplicationCredentials)
		}
	}

	if s.JWTIssuer == "" {
		return fmt.Errorf("config: JWT issuer is required")
	}
	if s.JWTAudience == "" {
		return fmt.Errorf("config: JWT audience is required")
	}

	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", s.Port)
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", s.LogLevel)
	}

	if s.QueryConcurrency < 1 {
		return fmt.Errorf("config: query concurrency must be at least 1")
	}
	return nil
}

// ReadPublicKey loads the verification key PEM from JWTPublicKeyPath.
// An empty file is as fatal as a missing one.
func (s *Settings) ReadPublicKey() (string, error) {
	data, err := os.ReadFile(s.JWTPublicKeyPath)
	if err != nil {
		return "", fmt.Errorf("config: read public key: %w", err)
	}
	pemText := strings.TrimSpace(string(data))
	if pemText == "" {
		return "", fmt.Errorf("config: public key file %s is empty", s.JWTPublicKeyPath)
	}
	return pemText, nil
}

// Addr returns the host:port listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
