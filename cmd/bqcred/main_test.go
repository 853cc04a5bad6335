package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/projectmcp/bigquery-mcp/auth"
)

func TestGenerateKeysWritesPair(t *testing.T) {
	dir := t.TempDir()
	cmd := &generateKeysCmd{
		PublicKeyFile:  filepath.Join(dir, "keys", "public_key.pem"),
		PrivateKeyFile: filepath.Join(dir, "keys", "private_key.pem"),
	}

	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	pub, err := os.ReadFile(cmd.PublicKeyFile)
	if err != nil {
		t.Fatalf("read public key: %v", err)
	}
	priv, err := os.ReadFile(cmd.PrivateKeyFile)
	if err != nil {
		t.Fatalf("read private key: %v", err)
	}

	derived, err := auth.PublicPEMFromPrivate(string(priv))
	if err != nil {
		t.Fatalf("PublicPEMFromPrivate: %v", err)
	}
	if derived != string(pub) {
		t.Error("written public key does not match the private key")
	}
}

func TestGenerateKeysRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cmd := &generateKeysCmd{
		PublicKeyFile:  filepath.Join(dir, "public_key.pem"),
		PrivateKeyFile: filepath.Join(dir, "private_key.pem"),
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	err := cmd.Run()
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("second Run error = %v, want overwrite refusal", err)
	}

	cmd.Force = true
	if err := cmd.Run(); err != nil {
		t.Fatalf("forced Run: %v", err)
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	keys := &generateKeysCmd{
		PublicKeyFile:  filepath.Join(dir, "public_key.pem"),
		PrivateKeyFile: filepath.Join(dir, "private_key.pem"),
	}
	if err := keys.Run(); err != nil {
		t.Fatalf("generate keys: %v", err)
	}

	tokenFile := filepath.Join(dir, "token.jwt")
	cmd := &generateTokenCmd{
		PrivateKey: keys.PrivateKeyFile,
		Issuer:     "bigquery-mcp",
		Audience:   "bigquery-mcp-clients",
		Subject:    "ProjectMCP",
		Scopes:     "read,write,admin",
		Lifetime:   time.Hour,
		TokenFile:  tokenFile,
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("generate token: %v", err)
	}

	token, err := os.ReadFile(tokenFile)
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}

	pub, err := os.ReadFile(keys.PublicKeyFile)
	if err != nil {
		t.Fatalf("read public key: %v", err)
	}
	v, err := auth.NewVerifier(auth.VerifierConfig{
		Issuer:   "bigquery-mcp",
		Audience: "bigquery-mcp-clients",
	}, string(pub))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	claims, err := v.Verify(string(token))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "ProjectMCP" {
		t.Errorf("Subject = %q, want ProjectMCP", claims.Subject)
	}
	if !claims.HasScope("admin") {
		t.Errorf("Scopes = %v, want admin included", claims.Scopes)
	}
}
