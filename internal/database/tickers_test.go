package database

import (
	"context"
	"errors"
	"testing"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestUpdateTicker_OptimisticLock(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	ticker := &models.Ticker{Name: "Bitcoin", Symbol: "BTC", Type: models.TickerTypeCryptocurrency}
	if err := service.InsertTicker(ctx, ticker); err != nil {
		t.Fatalf("InsertTicker failed: %v", err)
	}

	stale, _ := service.GetTicker(ctx, ticker.Id)

	ticker.CurrentQuantity = decimal.RequireFromString("0.12345678")
	ticker.AveragePrice = decimal.RequireFromString("65000.5")
	if err := service.UpdateTicker(ctx, ticker); err != nil {
		t.Fatalf("UpdateTicker failed: %v", err)
	}

	stale.CurrentQuantity = decimal.NewFromInt(1)
	if err := service.UpdateTicker(ctx, stale); !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("Expected ErrConcurrentModification, got %v", err)
	}

	stored, err := service.GetTicker(ctx, ticker.Id)
	if err != nil {
		t.Fatalf("GetTicker failed: %v", err)
	}
	if !stored.CurrentQuantity.Equal(decimal.RequireFromString("0.12345678")) {
		t.Errorf("Expected quantity 0.12345678, got %s", stored.CurrentQuantity.String())
	}
	if stored.Version != 2 {
		t.Errorf("Expected version 2, got %d", stored.Version)
	}
}

func TestInsertTicker_DuplicateSymbol(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.InsertTicker(ctx, &models.Ticker{Name: "Acme", Symbol: "ACME", Type: models.TickerTypeStock}); err != nil {
		t.Fatalf("InsertTicker failed: %v", err)
	}
	err := service.InsertTicker(ctx, &models.Ticker{Name: "Acme 2", Symbol: "ACME", Type: models.TickerTypeStock})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}
