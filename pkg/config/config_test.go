package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: test
gateway:
  url: wss://broker.example/ws
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout == 0 || cfg.Server.ShutdownTimeout == 0 {
		t.Fatalf("expected default server timeouts, got %+v", cfg.Server)
	}
	if cfg.Journal.Backend != "none" {
		t.Fatalf("expected journal backend none, got %q", cfg.Journal.Backend)
	}
	if cfg.Gateway.BalanceType != "PRACTICE" {
		t.Fatalf("expected PRACTICE account, got %q", cfg.Gateway.BalanceType)
	}
	if cfg.Trading.StrengthThreshold != 60 || cfg.Trading.MinTradeAmount != 1 {
		t.Fatalf("unexpected trading defaults: %+v", cfg.Trading)
	}
	if cfg.Indicators.RSIPeriod != 14 || cfg.Indicators.MACDSlow != 26 {
		t.Fatalf("unexpected indicator defaults: %+v", cfg.Indicators)
	}
}

func TestLoadExplicitPortKept(t *testing.T) {
	path := writeConfig(t, `
environment: test
server:
  port: 9100
gateway:
  url: wss://broker.example/ws
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected configured port 9100, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	path := writeConfig(t, `
gateway:
  url: wss://broker.example/ws
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for missing environment")
	}
}

func TestLoadRejectsUnknownJournalBackend(t *testing.T) {
	path := writeConfig(t, `
environment: test
gateway:
  url: wss://broker.example/ws
journal:
  backend: postgres
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown journal backend")
	}
}
