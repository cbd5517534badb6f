package database

import (
	"context"
	"errors"
	"testing"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestInsertWallet_RoundTrip(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	wallet := seedWallet(t, service, "Checking", "1234.56")

	if wallet.Id == "" {
		t.Fatal("Expected an id to be assigned")
	}

	stored, err := service.GetWallet(ctx, wallet.Id)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if stored.Name != "Checking" {
		t.Errorf("Expected name Checking, got %s", stored.Name)
	}
	if !stored.Balance.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("Expected balance 1234.56, got %s", stored.Balance.String())
	}
	if stored.Version != 1 {
		t.Errorf("Expected version 1, got %d", stored.Version)
	}
}

func TestInsertWallet_DuplicateName(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	seedWallet(t, service, "Checking", "0")
	err := service.InsertWallet(context.Background(), &models.Wallet{Name: "Checking"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestGetWallet_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.GetWallet(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateWallet_OptimisticLock(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	wallet := seedWallet(t, service, "Checking", "10")

	first, _ := service.GetWallet(ctx, wallet.Id)
	second, _ := service.GetWallet(ctx, wallet.Id)

	first.Balance = decimal.NewFromInt(20)
	if err := service.UpdateWallet(ctx, first); err != nil {
		t.Fatalf("UpdateWallet failed: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("Expected version bumped to 2, got %d", first.Version)
	}

	second.Balance = decimal.NewFromInt(30)
	err := service.UpdateWallet(ctx, second)
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("Expected ErrConcurrentModification, got %v", err)
	}

	stored, _ := service.GetWallet(ctx, wallet.Id)
	if !stored.Balance.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected balance 20, got %s", stored.Balance.String())
	}
}

func TestListWallets_OrderedByName(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	seedWallet(t, service, "Savings", "0")
	seedWallet(t, service, "Cash", "0")

	wallets, err := service.ListWallets(context.Background())
	if err != nil {
		t.Fatalf("ListWallets failed: %v", err)
	}
	if len(wallets) != 2 || wallets[0].Name != "Cash" || wallets[1].Name != "Savings" {
		t.Errorf("Unexpected wallets: %+v", wallets)
	}
}

func TestDeleteWallet_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	err := service.DeleteWallet(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
