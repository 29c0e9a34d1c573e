package config

import "testing"

func TestLoadDefaultsPort(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":5002" {
		t.Fatalf("expected :5002, got %q", cfg.Server.Addr)
	}
}

func TestLoadAcceptsBarePort(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Server.Addr)
	}
}

func TestLoadAcceptsFullAddress(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Fatalf("expected passthrough address, got %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsMalformedPort(t *testing.T) {
	t.Setenv("PORT", "80 80")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed PORT")
	}
}
