package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/models"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// servicesFrom extracts the services main passes to Execute.
func servicesFrom(args []interface{}) (*common.Services, bool) {
	if len(args) == 0 {
		return nil, false
	}
	services, ok := args[0].(*common.Services)
	return services, ok
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// parseDate reads a YYYY-MM-DD flag. An empty value means today.
func parseDate(value string, today time.Time) (time.Time, error) {
	if value == "" {
		y, m, d := today.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("-%s is required", name)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid -%s %q", name, value)
	}
	return amount, nil
}

func statusFlag(pending bool) models.TransactionStatus {
	if pending {
		return models.TransactionStatusPending
	}
	return models.TransactionStatusConfirmed
}

// matchRef reports whether ref names the entity by id or, ignoring case,
// by name.
func matchRef(ref, id, name string) bool {
	return ref == id || strings.EqualFold(ref, name)
}

func resolveWallet(ctx context.Context, svc *api.LedgerService, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("a wallet is required")
	}
	wallets, err := svc.ListWallets(ctx)
	if err != nil {
		return "", err
	}
	for _, w := range wallets {
		if matchRef(ref, w.Id, w.Name) {
			return w.Id, nil
		}
	}
	return "", fmt.Errorf("unknown wallet %q", ref)
}

func resolveCategory(ctx context.Context, svc *api.LedgerService, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("a category is required")
	}
	categories, err := svc.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if matchRef(ref, c.Id, c.Name) {
			return c.Id, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", ref)
}

func resolveCreditCard(ctx context.Context, svc *api.LedgerService, ref string) (*models.CreditCard, error) {
	if ref == "" {
		return nil, fmt.Errorf("a credit card is required")
	}
	cards, err := svc.ListCreditCards(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if matchRef(ref, cards[i].Id, cards[i].Name) {
			return &cards[i], nil
		}
	}
	return nil, fmt.Errorf("unknown credit card %q", ref)
}

func resolveTicker(ctx context.Context, svc *api.LedgerService, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("a ticker is required")
	}
	tickers, err := svc.ListTickers(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range tickers {
		if matchRef(ref, t.Id, t.Symbol) {
			return t.Id, nil
		}
	}
	return "", fmt.Errorf("unknown ticker %q", ref)
}
