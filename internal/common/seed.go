package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/installment"
	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type WalletSeed struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Balance string `yaml:"balance"`
}

type CreditCardSeed struct {
	Name           string `yaml:"name"`
	MaxDebt        string `yaml:"max_debt"`
	ClosingDay     int    `yaml:"closing_day"`
	BillingDueDay  int    `yaml:"billing_due_day"`
	LastFourDigits string `yaml:"last_four_digits"`
	BillingWallet  string `yaml:"billing_wallet"`
}

type TickerSeed struct {
	Name      string `yaml:"name"`
	Symbol    string `yaml:"symbol"`
	Type      string `yaml:"type"`
	UnitValue string `yaml:"unit_value"`
}

// LedgerSeed is the YAML description of the accounts a fresh ledger starts
// with. Amounts are decimal strings.
type LedgerSeed struct {
	Categories  []string         `yaml:"categories"`
	Wallets     []WalletSeed     `yaml:"wallets"`
	CreditCards []CreditCardSeed `yaml:"credit_cards"`
	Tickers     []TickerSeed     `yaml:"tickers"`
}

type SeedResult struct {
	Created int
	Skipped int
}

func LoadSeed(seedFile string) (*LedgerSeed, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	return ParseSeed(data, seedFile)
}

func ParseSeed(data []byte, source string) (*LedgerSeed, error) {
	var seed LedgerSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", source, err)
	}
	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", source, err)
	}
	return &seed, nil
}

func (s *LedgerSeed) validate() error {
	for i, name := range s.Categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("category at index %d is empty", i)
		}
	}

	wallets := make(map[string]bool, len(s.Wallets))
	for i, w := range s.Wallets {
		if w.Name == "" {
			return fmt.Errorf("wallet at index %d missing name", i)
		}
		if _, err := parseSeedAmount(w.Balance, true); err != nil {
			return fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		wallets[w.Name] = true
	}

	for i, c := range s.CreditCards {
		if c.Name == "" {
			return fmt.Errorf("credit card at index %d missing name", i)
		}
		limit, err := parseSeedAmount(c.MaxDebt, false)
		if err != nil || !limit.IsPositive() {
			return fmt.Errorf("credit card %s: max_debt must be a positive amount", c.Name)
		}
		if err := installment.ValidateDay(c.ClosingDay); err != nil {
			return fmt.Errorf("credit card %s closing_day: %w", c.Name, err)
		}
		if err := installment.ValidateDay(c.BillingDueDay); err != nil {
			return fmt.Errorf("credit card %s billing_due_day: %w", c.Name, err)
		}
		if c.BillingWallet != "" && !wallets[c.BillingWallet] {
			return fmt.Errorf("credit card %s references unknown wallet %q", c.Name, c.BillingWallet)
		}
	}

	for i, t := range s.Tickers {
		if t.Symbol == "" {
			return fmt.Errorf("ticker at index %d missing symbol", i)
		}
		if !models.TickerType(t.Type).Valid() {
			return fmt.Errorf("ticker %s has invalid type %q", t.Symbol, t.Type)
		}
		if _, err := parseSeedAmount(t.UnitValue, true); err != nil {
			return fmt.Errorf("ticker %s: %w", t.Symbol, err)
		}
	}
	return nil
}

// ApplySeed creates everything the seed names through the ledger service.
// Entries whose name or symbol already exists are skipped, so a seed can be
// applied more than once.
func ApplySeed(ctx context.Context, svc *api.LedgerService, seed *LedgerSeed) (SeedResult, error) {
	var result SeedResult

	count := func(entity, name string, err error) error {
		switch {
		case err == nil:
			result.Created++
			zap.L().Info("Seeded "+entity, zap.String("name", name))
			return nil
		case errors.Is(err, store.ErrDuplicate):
			result.Skipped++
			zap.L().Debug("Seed entry already present", zap.String("entity", entity), zap.String("name", name))
			return nil
		default:
			return fmt.Errorf("failed to seed %s %s: %w", entity, name, err)
		}
	}

	for _, name := range seed.Categories {
		_, err := svc.AddCategory(ctx, name)
		if err := count("category", name, err); err != nil {
			return result, err
		}
	}

	for _, w := range seed.Wallets {
		balance, _ := parseSeedAmount(w.Balance, true)
		_, err := svc.CreateWallet(ctx, w.Name, w.Type, balance)
		if err := count("wallet", w.Name, err); err != nil {
			return result, err
		}
	}

	walletIds, err := walletIdsByName(ctx, svc)
	if err != nil {
		return result, err
	}
	for _, c := range seed.CreditCards {
		limit, _ := parseSeedAmount(c.MaxDebt, false)
		_, err := svc.AddCreditCard(ctx, models.CreditCard{
			Name:                   c.Name,
			MaxDebt:                limit,
			ClosingDay:             c.ClosingDay,
			BillingDueDay:          c.BillingDueDay,
			LastFourDigits:         c.LastFourDigits,
			DefaultBillingWalletId: walletIds[c.BillingWallet],
		})
		if err := count("credit card", c.Name, err); err != nil {
			return result, err
		}
	}

	for _, t := range seed.Tickers {
		unitValue, _ := parseSeedAmount(t.UnitValue, true)
		name := t.Name
		if name == "" {
			name = t.Symbol
		}
		_, err := svc.AddTicker(ctx, name, t.Symbol, models.TickerType(t.Type), unitValue)
		if err := count("ticker", t.Symbol, err); err != nil {
			return result, err
		}
	}

	return result, nil
}

func walletIdsByName(ctx context.Context, svc *api.LedgerService) (map[string]string, error) {
	wallets, err := svc.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	ids := make(map[string]string, len(wallets))
	for _, w := range wallets {
		ids[w.Name] = w.Id
	}
	return ids, nil
}

func parseSeedAmount(s string, optional bool) (decimal.Decimal, error) {
	if s == "" && optional {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
