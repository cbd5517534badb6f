package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/database"
	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/position"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine, variables can come from the shell
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService *database.Service
	Ledger    *api.LedgerService
	Currency  string
}

// InitializeLogger builds the production logger at the given level and
// installs it as the zap global. An unknown level falls back to info.
func InitializeLogger(level string) (*zap.Logger, func()) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	basis, err := position.ParseExchangeBasisPolicy(cfg.Ledger.ExchangeBasisPolicy)
	if err != nil {
		return nil, err
	}

	dbService, err := InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ledgerService := api.NewLedgerService(dbService, basis)
	if err := ledgerService.HealthCheck(ctx); err != nil {
		dbService.Close()
		return nil, err
	}

	zap.L().Info("Ledger services ready",
		zap.String("database", cfg.Database.Path),
		zap.String("currency", cfg.Ledger.Currency),
		zap.String("exchange_basis_policy", basis.String()))

	return &Services{
		DbService: dbService,
		Ledger:    ledgerService,
		Currency:  cfg.Ledger.Currency,
	}, nil
}

// InitializeDatabaseOnly opens the database without building the ledger
// service on top of it.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
