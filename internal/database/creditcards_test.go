package database

import (
	"context"
	"testing"
	"time"

	"personal-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestPayments_InvoiceAndUnpaidQueries(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	category := seedCategory(t, service, "Shopping")
	card := &models.CreditCard{Name: "Visa", MaxDebt: decimal.NewFromInt(1000), ClosingDay: 5, BillingDueDay: 10, LastFourDigits: "1234"}
	if err := service.InsertCreditCard(ctx, card); err != nil {
		t.Fatalf("InsertCreditCard failed: %v", err)
	}

	debt := &models.CreditCardDebt{
		CreditCardId: card.Id, CategoryId: category.Id, Amount: decimal.NewFromInt(90),
		Installments: 3, Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	if err := service.InsertDebt(ctx, debt); err != nil {
		t.Fatalf("InsertDebt failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		p := &models.CreditCardPayment{
			DebtId: debt.Id, CreditCardId: card.Id, Installment: i, Amount: decimal.NewFromInt(30),
			InvoiceYear: 2025, InvoiceMonth: time.Month(i),
			DueDate: time.Date(2025, time.Month(i), 10, 23, 59, 0, 0, time.UTC),
		}
		if err := service.InsertPayment(ctx, p); err != nil {
			t.Fatalf("InsertPayment failed: %v", err)
		}
	}

	invoice, err := service.ListInvoicePayments(ctx, card.Id, 2025, 2)
	if err != nil {
		t.Fatalf("ListInvoicePayments failed: %v", err)
	}
	if len(invoice) != 1 || invoice[0].Installment != 2 || invoice[0].InvoiceMonth != time.February {
		t.Fatalf("Unexpected invoice payments: %+v", invoice)
	}

	invoice[0].Paid = true
	if err := service.UpdatePayment(ctx, &invoice[0]); err != nil {
		t.Fatalf("UpdatePayment failed: %v", err)
	}

	unpaid, err := service.ListUnpaidPaymentsByCard(ctx, card.Id)
	if err != nil {
		t.Fatalf("ListUnpaidPaymentsByCard failed: %v", err)
	}
	if len(unpaid) != 2 {
		t.Errorf("Expected 2 unpaid payments, got %d", len(unpaid))
	}

	count, err := service.CountDebtsByCard(ctx, card.Id)
	if err != nil || count != 1 {
		t.Errorf("Expected 1 debt, got %d (%v)", count, err)
	}

	if err := service.DeletePaymentsByDebt(ctx, debt.Id); err != nil {
		t.Fatalf("DeletePaymentsByDebt failed: %v", err)
	}
	all, err := service.ListPaymentsByDebt(ctx, debt.Id)
	if err != nil {
		t.Fatalf("ListPaymentsByDebt failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected no payments left, got %d", len(all))
	}
}
