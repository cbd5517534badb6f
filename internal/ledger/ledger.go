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

package ledger

import (
	"context"
	"fmt"

	"personal-ledger-go/internal/models"

	"go.uber.org/zap"
)

// WalletStore is what the ledger needs from persistence. UpdateWallet must
// reject stale versions.
type WalletStore interface {
	GetWallet(ctx context.Context, id string) (*models.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *models.Wallet) error
}

// Ledger posts balance effects to wallets. It should be bound to a
// transactional store so a failed posting leaves no partial balance change.
type Ledger struct {
	wallets WalletStore
}

func New(wallets WalletStore) *Ledger {
	return &Ledger{wallets: wallets}
}

func (l *Ledger) Apply(ctx context.Context, tx models.WalletTransaction) error {
	return l.Post(ctx, ApplyEffects(tx))
}

func (l *Ledger) Reverse(ctx context.Context, tx models.WalletTransaction) error {
	return l.Post(ctx, ReverseEffects(tx))
}

func (l *Ledger) Edit(ctx context.Context, old, updated models.WalletTransaction) error {
	return l.Post(ctx, EditEffects(old, updated))
}

// Post loads every wallet the effects touch before writing any of them, so
// an unknown wallet aborts the posting without side effects.
func (l *Ledger) Post(ctx context.Context, effects []Effect) error {
	effects = compact(effects)
	if len(effects) == 0 {
		return nil
	}

	wallets := make([]*models.Wallet, len(effects))
	for i, e := range effects {
		w, err := l.wallets.GetWallet(ctx, e.WalletId)
		if err != nil {
			return fmt.Errorf("failed to load wallet %s: %w", e.WalletId, err)
		}
		wallets[i] = w
	}

	for i, e := range effects {
		w := wallets[i]
		oldBalance := w.Balance
		w.Balance = w.Balance.Add(e.Delta)
		if err := l.wallets.UpdateWallet(ctx, w); err != nil {
			return fmt.Errorf("failed to update wallet %s balance: %w", w.Id, err)
		}

		zap.L().Debug("Wallet balance updated",
			zap.String("wallet_id", w.Id),
			zap.String("delta", e.Delta.String()),
			zap.String("old_balance", oldBalance.String()),
			zap.String("new_balance", w.Balance.String()),
			zap.Int64("version", w.Version))
	}
	return nil
}
