package common

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/database"
	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/position"
)

const testSeed = `
categories:
  - Groceries
  - Salary
wallets:
  - name: Checking
    type: CHECKING
    balance: "1500.00"
  - name: Savings
    type: SAVINGS
credit_cards:
  - name: Visa
    max_debt: "3000"
    closing_day: 5
    billing_due_day: 12
    last_four_digits: "4242"
    billing_wallet: Checking
tickers:
  - name: Bitcoin
    symbol: btc
    type: CRYPTOCURRENCY
    unit_value: "60000"
`

func setupSeedLedger(t *testing.T) (*api.LedgerService, func()) {
	t.Helper()
	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "seed.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create database service: %v", err)
	}
	return api.NewLedgerService(dbService, position.KeepBasis), dbService.Close
}

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed([]byte(testSeed), "test.yaml")
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if len(seed.Categories) != 2 || len(seed.Wallets) != 2 || len(seed.CreditCards) != 1 || len(seed.Tickers) != 1 {
		t.Fatalf("Unexpected seed contents: %+v", seed)
	}
	if seed.CreditCards[0].ClosingDay != 5 || seed.CreditCards[0].BillingWallet != "Checking" {
		t.Errorf("Unexpected credit card seed: %+v", seed.CreditCards[0])
	}
}

func TestParseSeed_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"wallet without name", "wallets:\n  - type: CHECKING\n", "missing name"},
		{"bad wallet balance", "wallets:\n  - name: A\n    balance: lots\n", "invalid amount"},
		{"card without limit", "credit_cards:\n  - name: Visa\n    closing_day: 5\n    billing_due_day: 10\n", "max_debt"},
		{"card closing day", "credit_cards:\n  - name: Visa\n    max_debt: \"10\"\n    closing_day: 40\n    billing_due_day: 10\n", "closing_day"},
		{"card unknown wallet", "credit_cards:\n  - name: Visa\n    max_debt: \"10\"\n    closing_day: 5\n    billing_due_day: 10\n    billing_wallet: Nope\n", "unknown wallet"},
		{"ticker type", "tickers:\n  - symbol: X\n    type: BOND\n", "invalid type"},
		{"malformed yaml", "wallets: [", "unable to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, []byte(testSeed), 0o600); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}
	if _, err := LoadSeed(path); err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestApplySeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, cleanup := setupSeedLedger(t)
	defer cleanup()

	seed, err := ParseSeed([]byte(testSeed), "test.yaml")
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}

	first, err := ApplySeed(ctx, svc, seed)
	if err != nil {
		t.Fatalf("ApplySeed failed: %v", err)
	}
	if first.Created != 6 || first.Skipped != 0 {
		t.Errorf("Expected 6 created and 0 skipped, got %+v", first)
	}

	second, err := ApplySeed(ctx, svc, seed)
	if err != nil {
		t.Fatalf("Second ApplySeed failed: %v", err)
	}
	if second.Created != 0 || second.Skipped != 6 {
		t.Errorf("Expected 0 created and 6 skipped, got %+v", second)
	}

	wallets, err := svc.ListWallets(ctx)
	if err != nil {
		t.Fatalf("ListWallets failed: %v", err)
	}
	var checkingId string
	for _, w := range wallets {
		if w.Name == "Checking" {
			checkingId = w.Id
			if w.Balance.String() != "1500" {
				t.Errorf("Expected Checking balance 1500, got %s", w.Balance.String())
			}
		}
	}

	cards, err := svc.ListCreditCards(ctx)
	if err != nil {
		t.Fatalf("ListCreditCards failed: %v", err)
	}
	if len(cards) != 1 || cards[0].DefaultBillingWalletId != checkingId {
		t.Errorf("Expected Visa billed from Checking (%s), got %+v", checkingId, cards)
	}

	tickers, err := svc.ListTickers(ctx)
	if err != nil {
		t.Fatalf("ListTickers failed: %v", err)
	}
	if len(tickers) != 1 || tickers[0].Symbol != "BTC" {
		t.Errorf("Expected a single BTC ticker, got %+v", tickers)
	}
}
