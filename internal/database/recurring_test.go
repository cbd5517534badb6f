package database

import (
	"context"
	"testing"
	"time"

	"personal-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestRecurring_NullableEndDate(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	wallet := seedWallet(t, service, "Checking", "0")
	category := seedCategory(t, service, "Rent")
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	rt := &models.RecurringTransaction{
		WalletId: wallet.Id, CategoryId: category.Id, Type: models.TransactionTypeExpense,
		Amount: decimal.NewFromInt(900), Frequency: models.FrequencyMonthly,
		StartDate: start, NextDueDate: start, Status: models.RecurringStatusActive,
	}
	if err := service.InsertRecurring(ctx, rt); err != nil {
		t.Fatalf("InsertRecurring failed: %v", err)
	}

	stored, err := service.GetRecurring(ctx, rt.Id)
	if err != nil {
		t.Fatalf("GetRecurring failed: %v", err)
	}
	if stored.EndDate != nil {
		t.Errorf("Expected no end date, got %v", stored.EndDate)
	}

	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	stored.EndDate = &end
	stored.Status = models.RecurringStatusInactive
	if err := service.UpdateRecurring(ctx, stored); err != nil {
		t.Fatalf("UpdateRecurring failed: %v", err)
	}

	stored, err = service.GetRecurring(ctx, rt.Id)
	if err != nil {
		t.Fatalf("GetRecurring failed: %v", err)
	}
	if stored.EndDate == nil || !stored.EndDate.Equal(end) {
		t.Errorf("Expected end date %v, got %v", end, stored.EndDate)
	}

	active, err := service.ListRecurringByStatus(ctx, models.RecurringStatusActive)
	if err != nil {
		t.Fatalf("ListRecurringByStatus failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active templates, got %d", len(active))
	}
}
