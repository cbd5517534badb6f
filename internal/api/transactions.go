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
package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"personal-ledger-go/internal/ledger"
	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *LedgerService) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("category name cannot be empty")
	}
	category := &models.Category{Name: name}
	if err := s.store.InsertCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to add category: %w", err)
	}
	zap.L().Info("Category added", zap.String("category_id", category.Id), zap.String("name", name))
	return category, nil
}

func (s *LedgerService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *LedgerService) AddExpense(ctx context.Context, walletId, categoryId string, date time.Time, amount decimal.Decimal, description string, status models.TransactionStatus) (*models.WalletTransaction, error) {
	return s.addTransaction(ctx, models.TransactionTypeExpense, walletId, categoryId, date, amount, description, status)
}

func (s *LedgerService) AddIncome(ctx context.Context, walletId, categoryId string, date time.Time, amount decimal.Decimal, description string, status models.TransactionStatus) (*models.WalletTransaction, error) {
	return s.addTransaction(ctx, models.TransactionTypeIncome, walletId, categoryId, date, amount, description, status)
}

func (s *LedgerService) addTransaction(ctx context.Context, txType models.TransactionType, walletId, categoryId string, date time.Time, amount decimal.Decimal, description string, status models.TransactionStatus) (*models.WalletTransaction, error) {
	tx := models.WalletTransaction{
		WalletId:    walletId,
		CategoryId:  categoryId,
		Type:        txType,
		Status:      status,
		Amount:      amount,
		Date:        date.UTC(),
		Description: description,
	}
	if err := validateTransaction(&tx); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		return recordTransaction(ctx, repo, &tx)
	})
	if err != nil {
		zap.L().Error("Failed to record transaction",
			zap.String("wallet_id", walletId),
			zap.String("type", string(txType)),
			zap.String("amount", tx.Amount.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to add %s: %w", strings.ToLower(string(txType)), err)
	}

	zap.L().Info("Transaction recorded",
		zap.String("transaction_id", tx.Id),
		zap.String("wallet_id", tx.WalletId),
		zap.String("type", string(tx.Type)),
		zap.String("status", string(tx.Status)),
		zap.String("amount", tx.Amount.String()))
	return &tx, nil
}

// recordTransaction inserts tx and applies it to its wallet. The wallet and
// category must exist even when tx is pending.
func recordTransaction(ctx context.Context, repo store.Repository, tx *models.WalletTransaction) error {
	if _, err := repo.GetWallet(ctx, tx.WalletId); err != nil {
		return err
	}
	if _, err := repo.GetCategory(ctx, tx.CategoryId); err != nil {
		return err
	}
	if err := repo.InsertTransaction(ctx, tx); err != nil {
		return err
	}
	return ledger.New(repo).Apply(ctx, *tx)
}

// UpdateTransaction replaces a transaction and books the balance difference.
// Transactions owned by a trade, dividend or invoice payment only accept
// status, date and description changes here.
func (s *LedgerService) UpdateTransaction(ctx context.Context, updated models.WalletTransaction) (*models.WalletTransaction, error) {
	if err := validateTransaction(&updated); err != nil {
		return nil, err
	}
	updated.Date = updated.Date.UTC()

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		old, err := repo.GetTransaction(ctx, updated.Id)
		if err != nil {
			return err
		}
		links, err := repo.CountTransactionLinks(ctx, old.Id)
		if err != nil {
			return err
		}
		if links > 0 && (old.WalletId != updated.WalletId || old.Type != updated.Type || !old.Amount.Equal(updated.Amount)) {
			return fmt.Errorf("transaction %s is owned by %d records: %w", old.Id, links, ErrHasDependents)
		}
		if _, err := repo.GetWallet(ctx, updated.WalletId); err != nil {
			return err
		}
		if _, err := repo.GetCategory(ctx, updated.CategoryId); err != nil {
			return err
		}
		if err := ledger.New(repo).Edit(ctx, *old, updated); err != nil {
			return err
		}
		return repo.UpdateTransaction(ctx, &updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	zap.L().Info("Transaction updated",
		zap.String("transaction_id", updated.Id),
		zap.String("status", string(updated.Status)),
		zap.String("amount", updated.Amount.String()))
	return &updated, nil
}

// ConfirmTransaction moves a pending transaction to CONFIRMED and applies it.
func (s *LedgerService) ConfirmTransaction(ctx context.Context, transactionId string) (*models.WalletTransaction, error) {
	tx, err := s.store.GetTransaction(ctx, transactionId)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm transaction: %w", err)
	}
	if tx.Status == models.TransactionStatusConfirmed {
		return tx, nil
	}
	tx.Status = models.TransactionStatusConfirmed
	return s.UpdateTransaction(ctx, *tx)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		tx, err := repo.GetTransaction(ctx, transactionId)
		if err != nil {
			return err
		}
		links, err := repo.CountTransactionLinks(ctx, tx.Id)
		if err != nil {
			return err
		}
		if links > 0 {
			return fmt.Errorf("transaction %s is owned by %d records: %w", tx.Id, links, ErrHasDependents)
		}
		if err := ledger.New(repo).Reverse(ctx, *tx); err != nil {
			return err
		}
		return repo.DeleteTransaction(ctx, tx.Id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	zap.L().Info("Transaction deleted", zap.String("transaction_id", transactionId))
	return nil
}

func validateTransaction(tx *models.WalletTransaction) error {
	if tx.WalletId == "" || tx.CategoryId == "" {
		return invalid("wallet and category are required")
	}
	if !tx.Type.Valid() {
		return invalid("unknown transaction type %q", tx.Type)
	}
	if !tx.Status.Valid() {
		return invalid("unknown transaction status %q", tx.Status)
	}
	amount, err := positiveAmount("transaction amount", tx.Amount)
	if err != nil {
		return err
	}
	tx.Amount = amount
	return nil
}
