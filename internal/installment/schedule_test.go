package installment

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSplit_FirstInstallmentAbsorbsRemainder(t *testing.T) {
	amounts, err := Split(decimal.RequireFromString("100.00"), 3)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	expected := []string{"33.34", "33.33", "33.33"}
	if len(amounts) != len(expected) {
		t.Fatalf("Expected %d amounts, got %d", len(expected), len(amounts))
	}
	for i, want := range expected {
		if !amounts[i].Equal(decimal.RequireFromString(want)) {
			t.Errorf("Installment %d: expected %s, got %s", i+1, want, amounts[i].String())
		}
	}
}

func TestSplit_SumEqualsTotal(t *testing.T) {
	tests := []struct {
		total string
		n     int
	}{
		{"100.00", 3},
		{"0.05", 5},
		{"10.01", 7},
		{"1999.99", 12},
		{"123456.78", 999},
		{"50", 1},
		{"0.10", 3},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			amounts, err := Split(total, tt.n)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			sum := decimal.Zero
			for i, a := range amounts {
				if i > 0 && !a.Equal(amounts[1]) {
					t.Errorf("Installment %d differs from the base amount: %s", i+1, a.String())
				}
				sum = sum.Add(a)
			}
			if !sum.Equal(total) {
				t.Errorf("Expected sum %s, got %s", total.String(), sum.String())
			}
		})
	}
}

func TestSplit_RoundsTotalToCents(t *testing.T) {
	amounts, err := Split(decimal.RequireFromString("10.005"), 2)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if !amounts[0].Equal(decimal.RequireFromString("5.01")) || !amounts[1].Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("Expected [5.01 5.00], got [%s %s]", amounts[0].String(), amounts[1].String())
	}
}

func TestSplit_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		total string
		n     int
		want  error
	}{
		{"zero installments", "10.00", 0, ErrInvalidInstallments},
		{"too many installments", "10000.00", MaxInstallments + 1, ErrInvalidInstallments},
		{"zero amount", "0", 1, ErrInvalidAmount},
		{"negative amount", "-5.00", 1, ErrInvalidAmount},
		{"below cent resolution", "0.05", 6, ErrInstallmentResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(decimal.RequireFromString(tt.total), tt.n)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSchedule_InvoiceMonthsAndDueDates(t *testing.T) {
	start := YearMonth{Year: 2025, Month: time.November}
	installments, err := Schedule(decimal.RequireFromString("300.00"), 4, start, 10)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	expected := []YearMonth{
		{2025, time.November},
		{2025, time.December},
		{2026, time.January},
		{2026, time.February},
	}
	for i, inst := range installments {
		if inst.Index != i+1 {
			t.Errorf("Expected index %d, got %d", i+1, inst.Index)
		}
		if inst.Invoice != expected[i] {
			t.Errorf("Installment %d: expected invoice %s, got %s", i+1, expected[i], inst.Invoice)
		}
		wantDue := time.Date(expected[i].Year, expected[i].Month, 10, 23, 59, 0, 0, time.UTC)
		if !inst.DueDate.Equal(wantDue) {
			t.Errorf("Installment %d: expected due %s, got %s", i+1, wantDue, inst.DueDate)
		}
	}
}

func TestSchedule_RejectsInvalidDueDay(t *testing.T) {
	_, err := Schedule(decimal.RequireFromString("10.00"), 1, YearMonth{2025, time.January}, 31)
	if !errors.Is(err, ErrInvalidDay) {
		t.Errorf("Expected ErrInvalidDay, got %v", err)
	}
}

func TestInvoiceFor(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want YearMonth
	}{
		{"before closing day", time.Date(2025, time.March, 4, 12, 0, 0, 0, time.UTC), YearMonth{2025, time.March}},
		{"on closing day", time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC), YearMonth{2025, time.March}},
		{"after closing day", time.Date(2025, time.March, 6, 12, 0, 0, 0, time.UTC), YearMonth{2025, time.April}},
		{"year rollover", time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC), YearMonth{2026, time.January}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvoiceFor(tt.date, 5); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	current := YearMonth{2025, time.June}
	if StatusOf(YearMonth{2025, time.May}, current) != InvoiceClosed {
		t.Error("Expected earlier invoice to be closed")
	}
	if StatusOf(current, current) != InvoiceOpen {
		t.Error("Expected current invoice to be open")
	}
	if StatusOf(YearMonth{2026, time.January}, current) != InvoiceOpen {
		t.Error("Expected future invoice to be open")
	}
}

func TestYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2025-11")
	if err != nil {
		t.Fatalf("ParseYearMonth failed: %v", err)
	}
	if got := ym.AddMonths(3).String(); got != "2026-02" {
		t.Errorf("Expected 2026-02, got %s", got)
	}
	if got := ym.AddMonths(-11).String(); got != "2024-12" {
		t.Errorf("Expected 2024-12, got %s", got)
	}
	if _, err := ParseYearMonth("2025-13"); err == nil {
		t.Error("Expected error for month 13")
	}
	if _, err := NewYearMonth(2025, 0); err == nil {
		t.Error("Expected error for month 0")
	}
}
