package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL = %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Fatalf("RefreshTTL = %v", cfg.RefreshTTL)
	}
	if !cfg.CookieSecure {
		t.Fatal("CookieSecure default should be true")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "JWT_SECRET=file-secret\nHTTP_ADDR=:9090\nACCESS_TTL=5m\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("AccessTTL = %v", cfg.AccessTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=file-secret\nHTTP_ADDR=:9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("HTTPAddr = %q, want env to win", cfg.HTTPAddr)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}
