package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_PATH", "DB_MAX_OPEN_CONNS", "DB_PING_TIMEOUT", "CURRENCY",
		"EXCHANGE_BASIS_POLICY", "SCHEDULER_POLLING_INTERVAL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != "ledger.db" || cfg.Database.MaxOpenConns != 1 {
		t.Errorf("Unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Database.PingTimeout != 5*time.Second {
		t.Errorf("Expected 5s ping timeout, got %v", cfg.Database.PingTimeout)
	}
	if cfg.Ledger.Currency != "USD" || cfg.Ledger.ExchangeBasisPolicy != "keep" {
		t.Errorf("Unexpected ledger defaults: %+v", cfg.Ledger)
	}
	if cfg.Scheduler.PollingInterval != time.Hour {
		t.Errorf("Expected hourly polling, got %v", cfg.Scheduler.PollingInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("CURRENCY", "eur")
	t.Setenv("EXCHANGE_BASIS_POLICY", "transfer")
	t.Setenv("SCHEDULER_POLLING_INTERVAL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("Expected overridden path, got %s", cfg.Database.Path)
	}
	if cfg.Ledger.Currency != "EUR" {
		t.Errorf("Expected EUR, got %s", cfg.Ledger.Currency)
	}
	if cfg.Ledger.ExchangeBasisPolicy != "transfer" {
		t.Errorf("Expected transfer policy, got %s", cfg.Ledger.ExchangeBasisPolicy)
	}
	if cfg.Scheduler.PollingInterval != 15*time.Minute {
		t.Errorf("Expected 15m polling, got %v", cfg.Scheduler.PollingInterval)
	}
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DB_PING_TIMEOUT", "soon"},
		{"SCHEDULER_POLLING_INTERVAL", "hourly"},
		{"EXCHANGE_BASIS_POLICY", "fifo"},
		{"CURRENCY", "ZZZ"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
