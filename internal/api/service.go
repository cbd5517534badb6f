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
	"time"

	"personal-ledger-go/internal/position"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

// amounts are kept to the cent, rounded half-up
const amountScale = 2

// LedgerService is the in-process operation surface of the ledger. Every
// mutating call runs in a single store transaction.
type LedgerService struct {
	store store.Store
	basis position.ExchangeBasisPolicy
	now   func() time.Time
}

func NewLedgerService(st store.Store, basis position.ExchangeBasisPolicy) *LedgerService {
	return &LedgerService{
		store: st,
		basis: basis,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func roundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(amountScale)
}

// positiveAmount rounds amount to the cent and rejects it unless it stays
// above zero.
func positiveAmount(field string, amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := roundAmount(amount)
	if !rounded.IsPositive() {
		return rounded, invalid("%s must be greater than zero, got %s", field, amount.String())
	}
	return rounded, nil
}
