package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

type memoryWallets struct {
	wallets map[string]models.Wallet
	updates int
}

func newMemoryWallets(ids ...string) *memoryWallets {
	m := &memoryWallets{wallets: map[string]models.Wallet{}}
	for _, id := range ids {
		m.wallets[id] = models.Wallet{Id: id, Version: 1}
	}
	return m
}

func (m *memoryWallets) GetWallet(_ context.Context, id string) (*models.Wallet, error) {
	w, ok := m.wallets[id]
	if !ok {
		return nil, fmt.Errorf("wallet %s: %w", id, store.ErrNotFound)
	}
	return &w, nil
}

func (m *memoryWallets) UpdateWallet(_ context.Context, w *models.Wallet) error {
	stored := m.wallets[w.Id]
	if stored.Version != w.Version {
		return store.ErrConcurrentModification
	}
	w.Version++
	m.wallets[w.Id] = *w
	m.updates++
	return nil
}

func (m *memoryWallets) balance(id string) decimal.Decimal {
	return m.wallets[id].Balance
}

func tx(wallet string, typ models.TransactionType, status models.TransactionStatus, amount string) models.WalletTransaction {
	return models.WalletTransaction{
		WalletId: wallet,
		Type:     typ,
		Status:   status,
		Amount:   decimal.RequireFromString(amount),
	}
}

func TestSigned(t *testing.T) {
	tests := []struct {
		name string
		tx   models.WalletTransaction
		want string
	}{
		{"confirmed income", tx("w", models.TransactionTypeIncome, models.TransactionStatusConfirmed, "10"), "10"},
		{"confirmed expense", tx("w", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "10"), "-10"},
		{"pending income", tx("w", models.TransactionTypeIncome, models.TransactionStatusPending, "10"), "0"},
		{"pending expense", tx("w", models.TransactionTypeExpense, models.TransactionStatusPending, "10"), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Signed(tt.tx); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Expected %s, got %s", tt.want, got.String())
			}
		})
	}
}

func TestEditEffects(t *testing.T) {
	confirmedExpense := tx("a", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "30")

	tests := []struct {
		name    string
		old     models.WalletTransaction
		updated models.WalletTransaction
		want    map[string]string
	}{
		{"amount change", confirmedExpense, tx("a", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "45"), map[string]string{"a": "-15"}},
		{"pending to confirmed", tx("a", models.TransactionTypeExpense, models.TransactionStatusPending, "30"), confirmedExpense, map[string]string{"a": "-30"}},
		{"confirmed to pending", confirmedExpense, tx("a", models.TransactionTypeExpense, models.TransactionStatusPending, "30"), map[string]string{"a": "30"}},
		{"type change", confirmedExpense, tx("a", models.TransactionTypeIncome, models.TransactionStatusConfirmed, "30"), map[string]string{"a": "60"}},
		{"no change", confirmedExpense, confirmedExpense, map[string]string{}},
		{"wallet change", confirmedExpense, tx("b", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "40"), map[string]string{"a": "30", "b": "-40"}},
		{"wallet change while pending", tx("a", models.TransactionTypeIncome, models.TransactionStatusPending, "5"), tx("b", models.TransactionTypeIncome, models.TransactionStatusPending, "5"), map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects := EditEffects(tt.old, tt.updated)
			if len(effects) != len(tt.want) {
				t.Fatalf("Expected %d effects, got %d: %v", len(tt.want), len(effects), effects)
			}
			for _, e := range effects {
				want, ok := tt.want[e.WalletId]
				if !ok {
					t.Fatalf("Unexpected effect on wallet %s", e.WalletId)
				}
				if !e.Delta.Equal(decimal.RequireFromString(want)) {
					t.Errorf("Wallet %s: expected %s, got %s", e.WalletId, want, e.Delta.String())
				}
			}
		})
	}
}

func TestBalanceConservation(t *testing.T) {
	ctx := context.Background()
	wallets := newMemoryWallets("a", "b")
	l := New(wallets)

	// live mirrors the confirmed/pending transactions currently recorded
	live := map[int]models.WalletTransaction{}
	apply := func(id int, t2 models.WalletTransaction) {
		if err := l.Apply(ctx, t2); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		live[id] = t2
	}
	edit := func(id int, t2 models.WalletTransaction) {
		if err := l.Edit(ctx, live[id], t2); err != nil {
			t.Fatalf("Edit failed: %v", err)
		}
		live[id] = t2
	}
	remove := func(id int) {
		if err := l.Reverse(ctx, live[id]); err != nil {
			t.Fatalf("Reverse failed: %v", err)
		}
		delete(live, id)
	}

	apply(1, tx("a", models.TransactionTypeIncome, models.TransactionStatusConfirmed, "1000"))
	apply(2, tx("a", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "250.50"))
	apply(3, tx("a", models.TransactionTypeExpense, models.TransactionStatusPending, "99.99"))
	apply(4, tx("b", models.TransactionTypeIncome, models.TransactionStatusConfirmed, "10"))
	edit(2, tx("a", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "200"))
	edit(3, tx("a", models.TransactionTypeExpense, models.TransactionStatusConfirmed, "99.99"))
	edit(1, tx("b", models.TransactionTypeIncome, models.TransactionStatusConfirmed, "900"))
	edit(4, tx("b", models.TransactionTypeIncome, models.TransactionStatusPending, "10"))
	remove(2)
	apply(5, tx("a", models.TransactionTypeIncome, models.TransactionStatusConfirmed, "0.01"))

	for _, id := range []string{"a", "b"} {
		expected := decimal.Zero
		for _, t2 := range live {
			if t2.WalletId == id {
				expected = expected.Add(Signed(t2))
			}
		}
		if !wallets.balance(id).Equal(expected) {
			t.Errorf("Wallet %s: expected balance %s, got %s", id, expected.String(), wallets.balance(id).String())
		}
	}
}

func TestPost_UnknownWalletAbortsBeforeMutation(t *testing.T) {
	ctx := context.Background()
	wallets := newMemoryWallets("a")
	l := New(wallets)

	err := l.Post(ctx, []Effect{
		{WalletId: "a", Delta: decimal.NewFromInt(5)},
		{WalletId: "missing", Delta: decimal.NewFromInt(-5)},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if wallets.updates != 0 {
		t.Errorf("Expected no wallet updates, got %d", wallets.updates)
	}
	if !wallets.balance("a").IsZero() {
		t.Errorf("Expected wallet a untouched, got %s", wallets.balance("a").String())
	}
}

func TestPost_PendingHasNoEffect(t *testing.T) {
	wallets := newMemoryWallets("a")
	if err := New(wallets).Apply(context.Background(), tx("a", models.TransactionTypeIncome, models.TransactionStatusPending, "10")); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if wallets.updates != 0 {
		t.Errorf("Expected no updates for a pending transaction, got %d", wallets.updates)
	}
}

func TestTransferEffects(t *testing.T) {
	ctx := context.Background()
	wallets := newMemoryWallets("a", "b")
	l := New(wallets)

	transfer := models.Transfer{SenderWalletId: "a", ReceiverWalletId: "b", Amount: decimal.RequireFromString("12.34")}
	if err := l.Post(ctx, TransferEffects(transfer)); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if !wallets.balance("a").Equal(decimal.RequireFromString("-12.34")) || !wallets.balance("b").Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("Unexpected balances a=%s b=%s", wallets.balance("a").String(), wallets.balance("b").String())
	}

	if err := l.Post(ctx, Invert(TransferEffects(transfer))); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if !wallets.balance("a").IsZero() || !wallets.balance("b").IsZero() {
		t.Errorf("Expected balances back to zero, got a=%s b=%s", wallets.balance("a").String(), wallets.balance("b").String())
	}
}
