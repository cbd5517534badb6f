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
	"personal-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Effect is a signed change to one wallet's balance.
type Effect struct {
	WalletId string
	Delta    decimal.Decimal
}

// Signed returns the balance contribution of tx: +amount for a confirmed
// income, -amount for a confirmed expense and zero while pending.
func Signed(tx models.WalletTransaction) decimal.Decimal {
	if tx.Status != models.TransactionStatusConfirmed {
		return decimal.Zero
	}
	switch tx.Type {
	case models.TransactionTypeIncome:
		return tx.Amount
	case models.TransactionTypeExpense:
		return tx.Amount.Neg()
	}
	return decimal.Zero
}

// ApplyEffects is the effect of recording tx.
func ApplyEffects(tx models.WalletTransaction) []Effect {
	return compact([]Effect{{WalletId: tx.WalletId, Delta: Signed(tx)}})
}

// ReverseEffects undoes ApplyEffects(tx).
func ReverseEffects(tx models.WalletTransaction) []Effect {
	return compact([]Effect{{WalletId: tx.WalletId, Delta: Signed(tx).Neg()}})
}

// EditEffects is the correction needed when old is replaced by updated.
// On the same wallet it is the single difference of signed amounts, which
// covers amount, type and status changes alike. When the wallet changes,
// old is reversed on its wallet and updated applied on the new one.
func EditEffects(old, updated models.WalletTransaction) []Effect {
	if old.WalletId == updated.WalletId {
		return compact([]Effect{{WalletId: old.WalletId, Delta: Signed(updated).Sub(Signed(old))}})
	}
	return compact([]Effect{
		{WalletId: old.WalletId, Delta: Signed(old).Neg()},
		{WalletId: updated.WalletId, Delta: Signed(updated)},
	})
}

// TransferEffects moves amount from sender to receiver.
func TransferEffects(t models.Transfer) []Effect {
	return compact([]Effect{
		{WalletId: t.SenderWalletId, Delta: t.Amount.Neg()},
		{WalletId: t.ReceiverWalletId, Delta: t.Amount},
	})
}

// Invert returns effects that cancel the given ones.
func Invert(effects []Effect) []Effect {
	inverted := make([]Effect, len(effects))
	for i, e := range effects {
		inverted[i] = Effect{WalletId: e.WalletId, Delta: e.Delta.Neg()}
	}
	return inverted
}

// compact merges effects on the same wallet, keeping first-seen order, and
// drops the ones that net to zero.
func compact(effects []Effect) []Effect {
	index := make(map[string]int, len(effects))
	merged := make([]Effect, 0, len(effects))
	for _, e := range effects {
		if i, ok := index[e.WalletId]; ok {
			merged[i].Delta = merged[i].Delta.Add(e.Delta)
			continue
		}
		index[e.WalletId] = len(merged)
		merged = append(merged, e)
	}

	out := merged[:0]
	for _, e := range merged {
		if !e.Delta.IsZero() {
			out = append(out, e)
		}
	}
	return out
}
