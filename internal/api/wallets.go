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

// Reconciliation compares a wallet's stored balance with the one its
// history implies.
type Reconciliation struct {
	WalletId string
	Balance  decimal.Decimal
	Expected decimal.Decimal
}

func (r Reconciliation) Difference() decimal.Decimal {
	return r.Balance.Sub(r.Expected)
}

func (s *LedgerService) CreateWallet(ctx context.Context, name, walletType string, initialBalance decimal.Decimal) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("wallet name cannot be empty")
	}
	balance := roundAmount(initialBalance)

	wallet := &models.Wallet{
		Name:           name,
		Type:           walletType,
		Balance:        balance,
		OpeningBalance: balance,
	}
	if err := s.store.InsertWallet(ctx, wallet); err != nil {
		zap.L().Error("Failed to create wallet", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	zap.L().Info("Wallet created",
		zap.String("wallet_id", wallet.Id),
		zap.String("name", wallet.Name),
		zap.String("balance", wallet.Balance.String()))
	return wallet, nil
}

func (s *LedgerService) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	return s.store.GetWallet(ctx, id)
}

func (s *LedgerService) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return s.store.ListWallets(ctx)
}

// UpdateWalletBalance sets a wallet's balance by hand. The correction is
// booked on the opening balance so reconciliation still holds.
func (s *LedgerService) UpdateWalletBalance(ctx context.Context, walletId string, newBalance decimal.Decimal) (*models.Wallet, error) {
	newBalance = roundAmount(newBalance)

	var wallet *models.Wallet
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		w, err := repo.GetWallet(ctx, walletId)
		if err != nil {
			return err
		}
		delta := newBalance.Sub(w.Balance)
		if delta.IsZero() {
			wallet = w
			return nil
		}
		w.Balance = newBalance
		w.OpeningBalance = w.OpeningBalance.Add(delta)
		if err := repo.UpdateWallet(ctx, w); err != nil {
			return err
		}
		zap.L().Info("Wallet balance set manually",
			zap.String("wallet_id", w.Id),
			zap.String("delta", delta.String()),
			zap.String("new_balance", w.Balance.String()))
		wallet = w
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}
	return wallet, nil
}

func (s *LedgerService) ArchiveWallet(ctx context.Context, walletId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		w, err := repo.GetWallet(ctx, walletId)
		if err != nil {
			return err
		}
		if w.Archived {
			return nil
		}
		w.Archived = true
		return repo.UpdateWallet(ctx, w)
	})
	if err != nil {
		return fmt.Errorf("failed to archive wallet: %w", err)
	}
	zap.L().Info("Wallet archived", zap.String("wallet_id", walletId))
	return nil
}

// DeleteWallet removes a wallet that no transaction or transfer refers to.
func (s *LedgerService) DeleteWallet(ctx context.Context, walletId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		transactions, err := repo.ListTransactionsByWallet(ctx, walletId)
		if err != nil {
			return err
		}
		transfers, err := repo.ListTransfersByWallet(ctx, walletId)
		if err != nil {
			return err
		}
		if len(transactions) > 0 || len(transfers) > 0 {
			return fmt.Errorf("wallet %s has %d transactions and %d transfers: %w",
				walletId, len(transactions), len(transfers), ErrHasDependents)
		}
		return repo.DeleteWallet(ctx, walletId)
	})
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	zap.L().Info("Wallet deleted", zap.String("wallet_id", walletId))
	return nil
}

func (s *LedgerService) TransferMoney(ctx context.Context, senderId, receiverId, categoryId string, amount decimal.Decimal, date time.Time, description string) (*models.Transfer, error) {
	transfer := models.Transfer{
		SenderWalletId:   senderId,
		ReceiverWalletId: receiverId,
		CategoryId:       categoryId,
		Amount:           amount,
		Date:             date.UTC(),
		Description:      description,
	}
	if err := validateTransfer(&transfer); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		sender, err := repo.GetWallet(ctx, senderId)
		if err != nil {
			return err
		}
		if sender.Balance.LessThan(transfer.Amount) {
			return fmt.Errorf("wallet %s holds %s, cannot send %s: %w",
				sender.Id, sender.Balance.String(), transfer.Amount.String(), ErrInsufficientFunds)
		}
		if err := repo.InsertTransfer(ctx, &transfer); err != nil {
			return err
		}
		return ledger.New(repo).Post(ctx, ledger.TransferEffects(transfer))
	})
	if err != nil {
		zap.L().Error("Transfer failed",
			zap.String("sender_wallet_id", senderId),
			zap.String("receiver_wallet_id", receiverId),
			zap.String("amount", transfer.Amount.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to transfer money: %w", err)
	}

	zap.L().Info("Transfer recorded",
		zap.String("transfer_id", transfer.Id),
		zap.String("sender_wallet_id", senderId),
		zap.String("receiver_wallet_id", receiverId),
		zap.String("amount", transfer.Amount.String()))
	return &transfer, nil
}

// UpdateTransfer replaces a transfer, reversing the old movement and
// applying the new one in the same transaction.
func (s *LedgerService) UpdateTransfer(ctx context.Context, updated models.Transfer) (*models.Transfer, error) {
	if err := validateTransfer(&updated); err != nil {
		return nil, err
	}
	updated.Date = updated.Date.UTC()

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		old, err := repo.GetTransfer(ctx, updated.Id)
		if err != nil {
			return err
		}
		effects := append(ledger.Invert(ledger.TransferEffects(*old)), ledger.TransferEffects(updated)...)
		if err := ledger.New(repo).Post(ctx, effects); err != nil {
			return err
		}
		return repo.UpdateTransfer(ctx, &updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update transfer: %w", err)
	}

	zap.L().Info("Transfer updated",
		zap.String("transfer_id", updated.Id),
		zap.String("amount", updated.Amount.String()))
	return &updated, nil
}

func (s *LedgerService) DeleteTransfer(ctx context.Context, transferId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		transfer, err := repo.GetTransfer(ctx, transferId)
		if err != nil {
			return err
		}
		if err := ledger.New(repo).Post(ctx, ledger.Invert(ledger.TransferEffects(*transfer))); err != nil {
			return err
		}
		return repo.DeleteTransfer(ctx, transferId)
	})
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	zap.L().Info("Transfer deleted", zap.String("transfer_id", transferId))
	return nil
}

// ReconcileWallet recomputes a wallet's balance from its opening balance,
// its confirmed transactions and its transfers. A mismatch is returned
// together with ErrBalanceMismatch.
func (s *LedgerService) ReconcileWallet(ctx context.Context, walletId string) (*Reconciliation, error) {
	wallet, err := s.store.GetWallet(ctx, walletId)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile wallet: %w", err)
	}
	transactions, err := s.store.ListTransactionsByWallet(ctx, walletId)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile wallet: %w", err)
	}
	transfers, err := s.store.ListTransfersByWallet(ctx, walletId)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile wallet: %w", err)
	}

	expected := wallet.OpeningBalance
	for _, tx := range transactions {
		expected = expected.Add(ledger.Signed(tx))
	}
	for _, t := range transfers {
		if t.ReceiverWalletId == walletId {
			expected = expected.Add(t.Amount)
		}
		if t.SenderWalletId == walletId {
			expected = expected.Sub(t.Amount)
		}
	}

	rec := &Reconciliation{WalletId: walletId, Balance: wallet.Balance, Expected: expected}
	if !rec.Difference().IsZero() {
		zap.L().Warn("Wallet balance mismatch",
			zap.String("wallet_id", walletId),
			zap.String("balance", rec.Balance.String()),
			zap.String("expected", rec.Expected.String()),
			zap.String("difference", rec.Difference().String()))
		return rec, fmt.Errorf("wallet %s off by %s: %w", walletId, rec.Difference().String(), ErrBalanceMismatch)
	}

	zap.L().Debug("Wallet reconciled",
		zap.String("wallet_id", walletId),
		zap.String("balance", rec.Balance.String()),
		zap.Int("transactions", len(transactions)),
		zap.Int("transfers", len(transfers)))
	return rec, nil
}

func validateTransfer(t *models.Transfer) error {
	if t.SenderWalletId == "" || t.ReceiverWalletId == "" {
		return invalid("sender and receiver wallets are required")
	}
	if t.SenderWalletId == t.ReceiverWalletId {
		return fmt.Errorf("wallet %s: %w", t.SenderWalletId, ErrSameSourceDestination)
	}
	amount, err := positiveAmount("transfer amount", t.Amount)
	if err != nil {
		return err
	}
	t.Amount = amount
	return nil
}
