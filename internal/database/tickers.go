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
package database

import (
	"context"
	"fmt"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func scanTicker(row rowScanner) (*models.Ticker, error) {
	var t models.Ticker
	err := row.Scan(&t.Id, &t.Name, &t.Symbol, &t.Type, &t.CurrentQuantity, &t.AveragePrice,
		&t.CurrentUnitValue, &t.Archived, &t.Version)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (q *Queries) InsertTicker(ctx context.Context, ticker *models.Ticker) error {
	if ticker.Id == "" {
		ticker.Id = uuid.New().String()
	}
	ticker.Version = 1
	_, err := q.db.ExecContext(ctx, queryInsertTicker,
		ticker.Id, ticker.Name, ticker.Symbol, ticker.Type, ticker.CurrentQuantity, ticker.AveragePrice,
		ticker.CurrentUnitValue, ticker.Archived, ticker.Version)
	if err != nil {
		return insertError(err, "ticker "+ticker.Symbol)
	}
	return nil
}

func (q *Queries) GetTicker(ctx context.Context, id string) (*models.Ticker, error) {
	t, err := scanTicker(q.db.QueryRowContext(ctx, queryGetTicker, id))
	if err != nil {
		return nil, getError(err, "ticker", id)
	}
	return t, nil
}

func (q *Queries) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	rows, err := q.db.QueryContext(ctx, queryListTickers)
	if err != nil {
		zap.L().Error("Failed to list tickers", zap.Error(err))
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer closeRows(rows)

	var tickers []models.Ticker
	for rows.Next() {
		t, err := scanTicker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticker rows: %w", err)
	}
	return tickers, nil
}

// UpdateTicker writes the position and metadata guarded by the ticker's version.
func (q *Queries) UpdateTicker(ctx context.Context, ticker *models.Ticker) error {
	result, err := q.db.ExecContext(ctx, queryUpdateTicker,
		ticker.Name, ticker.Symbol, ticker.Type, ticker.CurrentQuantity, ticker.AveragePrice,
		ticker.CurrentUnitValue, ticker.Archived, ticker.Id, ticker.Version)
	if err != nil {
		return fmt.Errorf("failed to update ticker: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ticker %s update failed at version %d - %w", ticker.Id, ticker.Version, store.ErrConcurrentModification)
	}

	ticker.Version++
	return nil
}

func (q *Queries) InsertPurchase(ctx context.Context, purchase *models.TickerPurchase) error {
	if purchase.Id == "" {
		purchase.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertPurchase,
		purchase.Id, purchase.TickerId, purchase.Quantity, purchase.UnitPrice, purchase.WalletTransactionId)
	if err != nil {
		return insertError(err, "ticker purchase")
	}
	return nil
}

func (q *Queries) GetPurchase(ctx context.Context, id string) (*models.TickerPurchase, error) {
	var p models.TickerPurchase
	err := q.db.QueryRowContext(ctx, queryGetPurchase, id).
		Scan(&p.Id, &p.TickerId, &p.Quantity, &p.UnitPrice, &p.WalletTransactionId)
	if err != nil {
		return nil, getError(err, "ticker purchase", id)
	}
	return &p, nil
}

func (q *Queries) UpdatePurchase(ctx context.Context, purchase *models.TickerPurchase) error {
	result, err := q.db.ExecContext(ctx, queryUpdatePurchase, purchase.Quantity, purchase.UnitPrice, purchase.Id)
	if err != nil {
		return fmt.Errorf("failed to update ticker purchase: %w", err)
	}
	return expectRow(result, "ticker purchase", purchase.Id)
}

func (q *Queries) DeletePurchase(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeletePurchase, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticker purchase: %w", err)
	}
	return expectRow(result, "ticker purchase", id)
}

func (q *Queries) InsertSale(ctx context.Context, sale *models.TickerSale) error {
	if sale.Id == "" {
		sale.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertSale,
		sale.Id, sale.TickerId, sale.Quantity, sale.UnitPrice, sale.AverageCost, sale.WalletTransactionId)
	if err != nil {
		return insertError(err, "ticker sale")
	}
	return nil
}

func (q *Queries) GetSale(ctx context.Context, id string) (*models.TickerSale, error) {
	var s models.TickerSale
	err := q.db.QueryRowContext(ctx, queryGetSale, id).
		Scan(&s.Id, &s.TickerId, &s.Quantity, &s.UnitPrice, &s.AverageCost, &s.WalletTransactionId)
	if err != nil {
		return nil, getError(err, "ticker sale", id)
	}
	return &s, nil
}

func (q *Queries) UpdateSale(ctx context.Context, sale *models.TickerSale) error {
	result, err := q.db.ExecContext(ctx, queryUpdateSale, sale.Quantity, sale.UnitPrice, sale.Id)
	if err != nil {
		return fmt.Errorf("failed to update ticker sale: %w", err)
	}
	return expectRow(result, "ticker sale", sale.Id)
}

func (q *Queries) DeleteSale(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteSale, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticker sale: %w", err)
	}
	return expectRow(result, "ticker sale", id)
}

func (q *Queries) InsertDividend(ctx context.Context, dividend *models.Dividend) error {
	if dividend.Id == "" {
		dividend.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertDividend, dividend.Id, dividend.TickerId, dividend.WalletTransactionId)
	if err != nil {
		return insertError(err, "dividend")
	}
	return nil
}

func (q *Queries) GetDividend(ctx context.Context, id string) (*models.Dividend, error) {
	var d models.Dividend
	err := q.db.QueryRowContext(ctx, queryGetDividend, id).Scan(&d.Id, &d.TickerId, &d.WalletTransactionId)
	if err != nil {
		return nil, getError(err, "dividend", id)
	}
	return &d, nil
}

func (q *Queries) DeleteDividend(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteDividend, id)
	if err != nil {
		return fmt.Errorf("failed to delete dividend: %w", err)
	}
	return expectRow(result, "dividend", id)
}

func (q *Queries) InsertCryptoExchange(ctx context.Context, exchange *models.CryptoExchange) error {
	if exchange.Id == "" {
		exchange.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertCryptoExchange,
		exchange.Id, exchange.SoldTickerId, exchange.ReceivedTickerId, exchange.SoldQuantity,
		exchange.ReceivedQuantity, exchange.SoldAveragePrice, exchange.Date, exchange.Description)
	if err != nil {
		return insertError(err, "crypto exchange")
	}
	return nil
}

func (q *Queries) GetCryptoExchange(ctx context.Context, id string) (*models.CryptoExchange, error) {
	var e models.CryptoExchange
	err := q.db.QueryRowContext(ctx, queryGetCryptoExchange, id).
		Scan(&e.Id, &e.SoldTickerId, &e.ReceivedTickerId, &e.SoldQuantity, &e.ReceivedQuantity, &e.SoldAveragePrice,
			&e.Date, &e.Description)
	if err != nil {
		return nil, getError(err, "crypto exchange", id)
	}
	return &e, nil
}

func (q *Queries) DeleteCryptoExchange(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteCryptoExchange, id)
	if err != nil {
		return fmt.Errorf("failed to delete crypto exchange: %w", err)
	}
	return expectRow(result, "crypto exchange", id)
}
