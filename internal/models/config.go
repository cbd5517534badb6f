package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Ledger    LedgerConfig
	Scheduler SchedulerConfig
	LogLevel  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// LedgerConfig holds the bookkeeping policies and seed settings
type LedgerConfig struct {
	SeedFile            string
	Currency            string
	ExchangeBasisPolicy string
}

// SchedulerConfig holds the recurring scheduler settings
type SchedulerConfig struct {
	PollingInterval time.Duration
	ShutdownTimeout time.Duration
}
