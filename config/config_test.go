package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validSettings(t *testing.T) Settings {
	t.Helper()
	credsPath := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(credsPath, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := Defaults()
	s.GCPProjectID = "demo-project"
	s.GoogleApplicationCredentials = credsPath
	s.JWTIssuer = "bigquery-mcp"
	s.JWTAudience = "bigquery-mcp-clients"
	s.BearerToken = "a-perfectly-reasonable-secret-of-32-chars"
	return s
}

func TestValidateOK(t *testing.T) {
	s := validSettings(t)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateNoBearerIsOK(t *testing.T) {
	s := validSettings(t)
	s.BearerToken = ""
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate without bearer token: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantSub string
	}{
		{"short bearer token", func(s *Settings) { s.BearerToken = "too-short" }, "at least 32"},
		{"placeholder bearer token", func(s *Settings) { s.BearerToken = placeholderBearerToken }, "placeholder"},
		{"missing project", func(s *Settings) { s.GCPProjectID = "" }, "project"},
		{"missing credentials file", func(s *Settings) { s.GoogleApplicationCredentials = "/does/not/exist.json" }, "credentials"},
		{"credentials not json", func(s *Settings) {
			path := filepath.Join(filepath.Dir(s.GoogleApplicationCredentials), "sa.txt")
			os.WriteFile(path, []byte("x"), 0o600)
			s.GoogleApplicationCredentials = path
		}, "JSON"},
		{"missing issuer", func(s *Settings) { s.JWTIssuer = "" }, "issuer"},
		{"missing audience", func(s *Settings) { s.JWTAudience = "" }, "audience"},
		{"port zero", func(s *Settings) { s.Port = 0 }, "port"},
		{"port too high", func(s *Settings) { s.Port = 70000 }, "port"},
		{"bad log level", func(s *Settings) { s.LogLevel = "verbose" }, "log level"},
		{"zero concurrency", func(s *Settings) { s.QueryConcurrency = 0 }, "concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings(t)
			tt.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestResolveBearerSecretRef(t *testing.T) {
	t.Setenv("TEST_CFG_BEARER", "resolved-secret-long-enough-for-checks")

	s := validSettings(t)
	s.BearerToken = "secretref:env:TEST_CFG_BEARER"
	if err := s.Resolve(context.Background(), nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.BearerToken != "resolved-secret-long-enough-for-checks" {
		t.Errorf("BearerToken = %q, want resolved value", s.BearerToken)
	}
}

func TestReadPublicKey(t *testing.T) {
	dir := t.TempDir()

	s := validSettings(t)
	s.JWTPublicKeyPath = filepath.Join(dir, "missing.pem")
	if _, err := s.ReadPublicKey(); err == nil {
		t.Error("ReadPublicKey succeeded for missing file")
	}

	empty := filepath.Join(dir, "empty.pem")
	os.WriteFile(empty, []byte("  \n"), 0o644)
	s.JWTPublicKeyPath = empty
	if _, err := s.ReadPublicKey(); err == nil {
		t.Error("ReadPublicKey succeeded for empty file")
	}

	good := filepath.Join(dir, "key.pem")
	os.WriteFile(good, []byte("-----BEGIN PUBLIC KEY-----\nxx\n-----END PUBLIC KEY-----\n"), 0o644)
	s.JWTPublicKeyPath = good
	pemText, err := s.ReadPublicKey()
	if err != nil {
		t.Fatalf("ReadPublicKey: %v", err)
	}
	if !strings.HasPrefix(pemText, "-----BEGIN PUBLIC KEY-----") {
		t.Errorf("unexpected key content %q", pemText)
	}
}

func TestAddr(t *testing.T) {
	s := Defaults()
	if got := s.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr = %q, want 0.0.0.0:8080", got)
	}
	s.Host, s.Port = "127.0.0.1", 9090
	if got := s.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr = %q, want 127.0.0.1:9090", got)
	}
}
