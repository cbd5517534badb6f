package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestTransaction_Lifecycle(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	wallet := seedWallet(t, service, "Checking", "0")
	category := seedCategory(t, service, "Food")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tx := &models.WalletTransaction{
		WalletId:   wallet.Id,
		CategoryId: category.Id,
		Type:       models.TransactionTypeExpense,
		Status:     models.TransactionStatusPending,
		Amount:     decimal.RequireFromString("42.10"),
		Date:       date,
	}
	if err := service.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}

	stored, err := service.GetTransaction(ctx, tx.Id)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if stored.Type != models.TransactionTypeExpense || stored.Status != models.TransactionStatusPending {
		t.Errorf("Unexpected type/status: %s/%s", stored.Type, stored.Status)
	}
	if !stored.Date.Equal(date) {
		t.Errorf("Expected date %v, got %v", date, stored.Date)
	}

	stored.Status = models.TransactionStatusConfirmed
	if err := service.UpdateTransaction(ctx, stored); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	list, err := service.ListTransactionsByWallet(ctx, wallet.Id)
	if err != nil {
		t.Fatalf("ListTransactionsByWallet failed: %v", err)
	}
	if len(list) != 1 || list[0].Status != models.TransactionStatusConfirmed {
		t.Fatalf("Unexpected transactions: %+v", list)
	}

	if err := service.DeleteTransaction(ctx, tx.Id); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := service.GetTransaction(ctx, tx.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestCountTransactionLinks(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	wallet := seedWallet(t, service, "Broker", "0")
	category := seedCategory(t, service, "Investments")

	tx := &models.WalletTransaction{
		WalletId: wallet.Id, CategoryId: category.Id,
		Type: models.TransactionTypeIncome, Status: models.TransactionStatusConfirmed,
		Amount: decimal.NewFromInt(5), Date: time.Now().UTC(),
	}
	if err := service.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}

	count, err := service.CountTransactionLinks(ctx, tx.Id)
	if err != nil {
		t.Fatalf("CountTransactionLinks failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 links, got %d", count)
	}

	ticker := &models.Ticker{Name: "Acme", Symbol: "ACME", Type: models.TickerTypeStock}
	if err := service.InsertTicker(ctx, ticker); err != nil {
		t.Fatalf("InsertTicker failed: %v", err)
	}
	if err := service.InsertDividend(ctx, &models.Dividend{TickerId: ticker.Id, WalletTransactionId: tx.Id}); err != nil {
		t.Fatalf("InsertDividend failed: %v", err)
	}

	count, err = service.CountTransactionLinks(ctx, tx.Id)
	if err != nil {
		t.Fatalf("CountTransactionLinks failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 link, got %d", count)
	}
}

func TestListTransfersByWallet_BothSides(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	a := seedWallet(t, service, "A", "0")
	b := seedWallet(t, service, "B", "0")
	c := seedWallet(t, service, "C", "0")

	transfers := []*models.Transfer{
		{SenderWalletId: a.Id, ReceiverWalletId: b.Id, Amount: decimal.NewFromInt(1), Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{SenderWalletId: b.Id, ReceiverWalletId: a.Id, Amount: decimal.NewFromInt(2), Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{SenderWalletId: b.Id, ReceiverWalletId: c.Id, Amount: decimal.NewFromInt(3), Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tr := range transfers {
		if err := service.InsertTransfer(ctx, tr); err != nil {
			t.Fatalf("InsertTransfer failed: %v", err)
		}
	}

	list, err := service.ListTransfersByWallet(ctx, a.Id)
	if err != nil {
		t.Fatalf("ListTransfersByWallet failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 transfers for A, got %d", len(list))
	}
	if !list[0].Amount.Equal(decimal.NewFromInt(1)) || !list[1].Amount.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Unexpected transfer order: %s, %s", list[0].Amount.String(), list[1].Amount.String())
	}
}
