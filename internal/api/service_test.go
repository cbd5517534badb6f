package api

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"personal-ledger-go/internal/database"
	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/position"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

func setupTestService(t *testing.T) (*LedgerService, func()) {
	t.Helper()
	cfg := models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
	db, err := database.NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := NewLedgerService(db, position.KeepBasis)
	service.now = func() time.Time { return testNow }

	cleanup := func() {
		db.Close()
	}
	return service, cleanup
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustWallet(t *testing.T, s *LedgerService, name, balance string) *models.Wallet {
	t.Helper()
	w, err := s.CreateWallet(context.Background(), name, "checking", dec(balance))
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	return w
}

func mustCategory(t *testing.T, s *LedgerService, name string) *models.Category {
	t.Helper()
	c, err := s.AddCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	return c
}

func assertBalance(t *testing.T, s *LedgerService, walletId, want string) {
	t.Helper()
	w, err := s.GetWallet(context.Background(), walletId)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !w.Balance.Equal(dec(want)) {
		t.Errorf("Expected balance %s, got %s", want, w.Balance.String())
	}
}

func TestHealthCheck(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	if err := service.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
