/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/config"
	"personal-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type reportStats struct {
	wallets     int
	mismatched  int
	cards       int
	positions   int
	totalAssets decimal.Decimal
}

func printWallet(wallet models.Wallet, rec *api.Reconciliation, currency string, isLast bool) {
	status := "ok"
	if rec != nil && !rec.Difference().IsZero() {
		status = "off by " + common.FormatAmount(rec.Difference(), currency)
	}
	archived := ""
	if wallet.Archived {
		archived = " [archived]"
	}

	fmt.Printf("%s %-20s: %18s (v%d, %s, updated: %s)%s\n",
		common.BoxPrefix(isLast),
		wallet.Name,
		common.FormatAmount(wallet.Balance, currency),
		wallet.Version,
		status,
		wallet.UpdatedAt.Format("2006-01-02 15:04:05"),
		archived)
}

func reportWallets(ctx context.Context, svc *api.LedgerService, filter, currency string, stats *reportStats) error {
	wallets, err := svc.ListWallets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list wallets: %w", err)
	}

	var selected []models.Wallet
	for _, w := range wallets {
		if filter == "" || strings.EqualFold(w.Name, filter) {
			selected = append(selected, w)
		}
	}

	fmt.Printf("\n┌─ Wallets (%d)\n", len(selected))
	common.PrintBoxSeparator(78)
	for i, w := range selected {
		rec, err := svc.ReconcileWallet(ctx, w.Id)
		if err != nil && !errors.Is(err, api.ErrBalanceMismatch) {
			zap.L().Error("Failed to reconcile wallet", zap.String("wallet_id", w.Id), zap.Error(err))
		}
		if errors.Is(err, api.ErrBalanceMismatch) {
			stats.mismatched++
		}
		printWallet(w, rec, currency, i == len(selected)-1)
		stats.wallets++
		stats.totalAssets = stats.totalAssets.Add(w.Balance)
	}
	return nil
}

func reportCreditCards(ctx context.Context, svc *api.LedgerService, currency string, stats *reportStats) error {
	cards, err := svc.ListCreditCards(ctx)
	if err != nil {
		return fmt.Errorf("failed to list credit cards: %w", err)
	}
	if len(cards) == 0 {
		return nil
	}

	fmt.Printf("\n┌─ Credit cards (%d)\n", len(cards))
	common.PrintBoxSeparator(78)
	for i, card := range cards {
		isLast := i == len(cards)-1
		available, err := svc.GetAvailableCredit(ctx, card.Id)
		if err != nil {
			zap.L().Error("Failed to compute available credit", zap.String("credit_card_id", card.Id), zap.Error(err))
			continue
		}
		next, err := svc.GetNextInvoiceMonth(ctx, card.Id)
		if err != nil {
			zap.L().Error("Failed to find next invoice", zap.String("credit_card_id", card.Id), zap.Error(err))
			continue
		}
		invoice, err := svc.GetInvoiceAmount(ctx, card.Id, next.Month, next.Year)
		if err != nil {
			zap.L().Error("Failed to compute invoice", zap.String("credit_card_id", card.Id), zap.Error(err))
			continue
		}

		fmt.Printf("%s %-20s: %18s available of %s (****%s)\n",
			common.BoxPrefix(isLast),
			card.Name,
			common.FormatAmount(available, currency),
			common.FormatAmount(card.MaxDebt, currency),
			card.LastFourDigits)
		fmt.Printf("%s   next invoice %s: %s, rebate %s\n",
			common.BoxDetailPrefix(isLast),
			next.String(),
			common.FormatAmount(invoice, currency),
			common.FormatAmount(card.AvailableRebate, currency))
		stats.cards++
	}
	return nil
}

func reportPositions(ctx context.Context, svc *api.LedgerService, currency string, stats *reportStats) error {
	tickers, err := svc.ListTickers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tickers: %w", err)
	}

	var held []models.Ticker
	for _, t := range tickers {
		if t.CurrentQuantity.IsPositive() {
			held = append(held, t)
		}
	}
	if len(held) == 0 {
		return nil
	}

	fmt.Printf("\n┌─ Positions (%d)\n", len(held))
	common.PrintBoxSeparator(78)
	for i, t := range held {
		value := t.CurrentQuantity.Mul(t.CurrentUnitValue)
		fmt.Printf("%s %-8s %-14s: %14s @ avg %s = %s\n",
			common.BoxPrefix(i == len(held)-1),
			t.Symbol,
			string(t.Type),
			t.CurrentQuantity.String(),
			common.FormatAmount(t.AveragePrice, currency),
			common.FormatAmount(value, currency))
		stats.positions++
		stats.totalAssets = stats.totalAssets.Add(value)
	}
	return nil
}

func main() {
	ctx := context.Background()

	walletFlag := flag.String("wallet", "", "Only report the wallet with this name (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	logger.Info("Starting balance report")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("LEDGER BALANCE REPORT", common.DefaultWidth)

	stats := &reportStats{totalAssets: decimal.Zero}
	if err := reportWallets(ctx, services.Ledger, *walletFlag, services.Currency, stats); err != nil {
		logger.Fatal("Failed to report wallets", zap.Error(err))
	}
	if *walletFlag == "" {
		if err := reportCreditCards(ctx, services.Ledger, services.Currency, stats); err != nil {
			logger.Fatal("Failed to report credit cards", zap.Error(err))
		}
		if err := reportPositions(ctx, services.Ledger, services.Currency, stats); err != nil {
			logger.Fatal("Failed to report positions", zap.Error(err))
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d wallets (%d off balance), %d cards, %d positions, total %s",
		stats.wallets, stats.mismatched, stats.cards, stats.positions,
		common.FormatAmount(stats.totalAssets, services.Currency))
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance report completed",
		zap.Int("wallets", stats.wallets),
		zap.Int("mismatched", stats.mismatched),
		zap.Int("credit_cards", stats.cards),
		zap.Int("positions", stats.positions))
}
