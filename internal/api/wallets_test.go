package api

import (
	"context"
	"errors"
	"testing"
)

func TestCreateWallet_RoundsAndRecordsOpeningBalance(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	w := mustWallet(t, service, "Checking", "100.005")
	if !w.Balance.Equal(dec("100.01")) || !w.OpeningBalance.Equal(dec("100.01")) {
		t.Errorf("Expected 100.01/100.01, got %s/%s", w.Balance.String(), w.OpeningBalance.String())
	}

	if _, err := service.CreateWallet(context.Background(), "  ", "", dec("0")); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty name, got %v", err)
	}
}

func TestTransferMoney(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	a := mustWallet(t, service, "A", "100")
	b := mustWallet(t, service, "B", "0")

	if _, err := service.TransferMoney(ctx, a.Id, a.Id, "", dec("10"), testNow, ""); !errors.Is(err, ErrSameSourceDestination) {
		t.Errorf("Expected ErrSameSourceDestination, got %v", err)
	}
	if _, err := service.TransferMoney(ctx, a.Id, b.Id, "", dec("0"), testNow, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	if _, err := service.TransferMoney(ctx, a.Id, b.Id, "", dec("100.01"), testNow, ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}

	transfer, err := service.TransferMoney(ctx, a.Id, b.Id, "", dec("40"), testNow, "savings")
	if err != nil {
		t.Fatalf("TransferMoney failed: %v", err)
	}
	assertBalance(t, service, a.Id, "60")
	assertBalance(t, service, b.Id, "40")

	transfer.Amount = dec("25")
	if _, err := service.UpdateTransfer(ctx, *transfer); err != nil {
		t.Fatalf("UpdateTransfer failed: %v", err)
	}
	assertBalance(t, service, a.Id, "75")
	assertBalance(t, service, b.Id, "25")

	for _, id := range []string{a.Id, b.Id} {
		if _, err := service.ReconcileWallet(ctx, id); err != nil {
			t.Errorf("ReconcileWallet(%s) failed: %v", id, err)
		}
	}

	if err := service.DeleteTransfer(ctx, transfer.Id); err != nil {
		t.Fatalf("DeleteTransfer failed: %v", err)
	}
	assertBalance(t, service, a.Id, "100")
	assertBalance(t, service, b.Id, "0")
}

func TestUpdateWalletBalance_KeepsReconciliation(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	w := mustWallet(t, service, "Cash", "50")
	food := mustCategory(t, service, "Food")

	if _, err := service.AddExpense(ctx, w.Id, food.Id, testNow, dec("20"), "lunch", "CONFIRMED"); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	updated, err := service.UpdateWalletBalance(ctx, w.Id, dec("100"))
	if err != nil {
		t.Fatalf("UpdateWalletBalance failed: %v", err)
	}
	if !updated.OpeningBalance.Equal(dec("120")) {
		t.Errorf("Expected opening balance 120, got %s", updated.OpeningBalance.String())
	}

	rec, err := service.ReconcileWallet(ctx, w.Id)
	if err != nil {
		t.Fatalf("ReconcileWallet failed: %v", err)
	}
	if !rec.Expected.Equal(dec("100")) {
		t.Errorf("Expected reconciled balance 100, got %s", rec.Expected.String())
	}
}

func TestDeleteWallet_WithTransactions(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	w := mustWallet(t, service, "Cash", "0")
	empty := mustWallet(t, service, "Empty", "0")
	food := mustCategory(t, service, "Food")

	if _, err := service.AddIncome(ctx, w.Id, food.Id, testNow, dec("1"), "", "PENDING"); err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}

	if err := service.DeleteWallet(ctx, w.Id); !errors.Is(err, ErrHasDependents) {
		t.Errorf("Expected ErrHasDependents, got %v", err)
	}
	if err := service.DeleteWallet(ctx, empty.Id); err != nil {
		t.Errorf("DeleteWallet failed: %v", err)
	}
}
