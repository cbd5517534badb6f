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
	"personal-ledger-go/internal/position"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Trade describes the wallet side of a purchase or sale.
type Trade struct {
	TickerId    string
	WalletId    string
	CategoryId  string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Date        time.Time
	Description string
	Status      models.TransactionStatus
}

func (s *LedgerService) AddTicker(ctx context.Context, name, symbol string, tickerType models.TickerType, unitValue decimal.Decimal) (*models.Ticker, error) {
	name, symbol = strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(symbol))
	if name == "" || symbol == "" {
		return nil, invalid("ticker name and symbol are required")
	}
	if !tickerType.Valid() {
		return nil, fmt.Errorf("%q: %w", tickerType, ErrInvalidTickerType)
	}
	if unitValue.IsNegative() {
		return nil, invalid("unit value cannot be negative, got %s", unitValue.String())
	}

	ticker := &models.Ticker{
		Name:             name,
		Symbol:           symbol,
		Type:             tickerType,
		CurrentQuantity:  decimal.Zero,
		AveragePrice:     decimal.Zero,
		CurrentUnitValue: unitValue,
	}
	if err := s.store.InsertTicker(ctx, ticker); err != nil {
		return nil, fmt.Errorf("failed to add ticker: %w", err)
	}

	zap.L().Info("Ticker added",
		zap.String("ticker_id", ticker.Id),
		zap.String("symbol", ticker.Symbol),
		zap.String("type", string(ticker.Type)))
	return ticker, nil
}

func (s *LedgerService) GetTicker(ctx context.Context, id string) (*models.Ticker, error) {
	return s.store.GetTicker(ctx, id)
}

func (s *LedgerService) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	return s.store.ListTickers(ctx)
}

// AddPurchase buys quantity at unitPrice, paid by an EXPENSE of
// quantity*unitPrice on the trade's wallet.
func (s *LedgerService) AddPurchase(ctx context.Context, trade Trade) (*models.TickerPurchase, error) {
	if err := validateTrade(trade); err != nil {
		return nil, err
	}

	purchase := models.TickerPurchase{TickerId: trade.TickerId, Quantity: trade.Quantity, UnitPrice: trade.UnitPrice}
	var next position.Position
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		ticker, err := repo.GetTicker(ctx, trade.TickerId)
		if err != nil {
			return err
		}
		pos, err := position.New(ticker.CurrentQuantity, ticker.AveragePrice)
		if err != nil {
			return err
		}
		next, err = pos.Buy(trade.Quantity, trade.UnitPrice)
		if err != nil {
			return err
		}

		tx, err := tradeTransaction(trade, models.TransactionTypeExpense)
		if err != nil {
			return err
		}
		if err := recordTransaction(ctx, repo, tx); err != nil {
			return err
		}
		purchase.WalletTransactionId = tx.Id
		if err := repo.InsertPurchase(ctx, &purchase); err != nil {
			return err
		}
		return savePosition(ctx, repo, ticker, next)
	})
	if err != nil {
		zap.L().Error("Purchase failed", zap.String("ticker_id", trade.TickerId), zap.Error(err))
		return nil, fmt.Errorf("failed to add purchase: %w", err)
	}

	zap.L().Info("Purchase recorded",
		zap.String("purchase_id", purchase.Id),
		zap.String("ticker_id", trade.TickerId),
		zap.String("quantity", trade.Quantity.String()),
		zap.String("unit_price", trade.UnitPrice.String()),
		zap.String("new_quantity", next.Quantity.String()),
		zap.String("new_average_price", next.AveragePrice.String()))
	return &purchase, nil
}

// AddSale sells quantity at unitPrice into an INCOME on the trade's wallet.
// Selling more than is held fails with position.ErrInsufficientPosition.
func (s *LedgerService) AddSale(ctx context.Context, trade Trade) (*models.TickerSale, error) {
	if err := validateTrade(trade); err != nil {
		return nil, err
	}

	sale := models.TickerSale{TickerId: trade.TickerId, Quantity: trade.Quantity, UnitPrice: trade.UnitPrice}
	var next position.Position
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		ticker, err := repo.GetTicker(ctx, trade.TickerId)
		if err != nil {
			return err
		}
		pos, err := position.New(ticker.CurrentQuantity, ticker.AveragePrice)
		if err != nil {
			return err
		}
		next, err = pos.Sell(trade.Quantity)
		if err != nil {
			return err
		}

		tx, err := tradeTransaction(trade, models.TransactionTypeIncome)
		if err != nil {
			return err
		}
		if err := recordTransaction(ctx, repo, tx); err != nil {
			return err
		}
		sale.AverageCost = pos.AveragePrice
		sale.WalletTransactionId = tx.Id
		if err := repo.InsertSale(ctx, &sale); err != nil {
			return err
		}
		return savePosition(ctx, repo, ticker, next)
	})
	if err != nil {
		zap.L().Error("Sale failed", zap.String("ticker_id", trade.TickerId), zap.Error(err))
		return nil, fmt.Errorf("failed to add sale: %w", err)
	}

	zap.L().Info("Sale recorded",
		zap.String("sale_id", sale.Id),
		zap.String("ticker_id", trade.TickerId),
		zap.String("quantity", trade.Quantity.String()),
		zap.String("unit_price", trade.UnitPrice.String()),
		zap.String("average_cost", sale.AverageCost.String()),
		zap.String("new_quantity", next.Quantity.String()))
	return &sale, nil
}

// AddCryptoExchange swaps soldQuantity of one cryptocurrency for
// receivedQuantity of another. No wallet is involved.
func (s *LedgerService) AddCryptoExchange(ctx context.Context, soldId, receivedId string, soldQuantity, receivedQuantity decimal.Decimal, date time.Time, description string) (*models.CryptoExchange, error) {
	if soldId == receivedId {
		return nil, fmt.Errorf("ticker %s: %w", soldId, ErrSameSourceDestination)
	}
	if !soldQuantity.IsPositive() || !receivedQuantity.IsPositive() {
		return nil, invalid("exchanged quantities must be greater than zero")
	}

	exchange := models.CryptoExchange{
		SoldTickerId:     soldId,
		ReceivedTickerId: receivedId,
		SoldQuantity:     soldQuantity,
		ReceivedQuantity: receivedQuantity,
		Date:             date.UTC(),
		Description:      description,
	}
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		sold, received, err := cryptoPair(ctx, repo, soldId, receivedId)
		if err != nil {
			return err
		}
		soldPos, err := position.New(sold.CurrentQuantity, sold.AveragePrice)
		if err != nil {
			return err
		}
		receivedPos, err := position.New(received.CurrentQuantity, received.AveragePrice)
		if err != nil {
			return err
		}
		nextSold, nextReceived, err := position.Exchange(soldPos, receivedPos, soldQuantity, receivedQuantity, s.basis)
		if err != nil {
			return err
		}
		exchange.SoldAveragePrice = soldPos.AveragePrice
		if err := repo.InsertCryptoExchange(ctx, &exchange); err != nil {
			return err
		}
		if err := savePosition(ctx, repo, sold, nextSold); err != nil {
			return err
		}
		return savePosition(ctx, repo, received, nextReceived)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add crypto exchange: %w", err)
	}

	zap.L().Info("Crypto exchange recorded",
		zap.String("exchange_id", exchange.Id),
		zap.String("sold_ticker_id", soldId),
		zap.String("received_ticker_id", receivedId),
		zap.String("sold_quantity", soldQuantity.String()),
		zap.String("received_quantity", receivedQuantity.String()),
		zap.String("basis_policy", s.basis.String()))
	return &exchange, nil
}

// AddDividend books an INCOME for a ticker. The position is untouched.
func (s *LedgerService) AddDividend(ctx context.Context, tickerId, walletId, categoryId string, amount decimal.Decimal, date time.Time, description string, status models.TransactionStatus) (*models.Dividend, error) {
	tx := models.WalletTransaction{
		WalletId:    walletId,
		CategoryId:  categoryId,
		Type:        models.TransactionTypeIncome,
		Status:      status,
		Amount:      amount,
		Date:        date.UTC(),
		Description: description,
	}
	if err := validateTransaction(&tx); err != nil {
		return nil, err
	}

	dividend := models.Dividend{TickerId: tickerId}
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		if _, err := repo.GetTicker(ctx, tickerId); err != nil {
			return err
		}
		if err := recordTransaction(ctx, repo, &tx); err != nil {
			return err
		}
		dividend.WalletTransactionId = tx.Id
		return repo.InsertDividend(ctx, &dividend)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add dividend: %w", err)
	}

	zap.L().Info("Dividend recorded",
		zap.String("dividend_id", dividend.Id),
		zap.String("ticker_id", tickerId),
		zap.String("amount", tx.Amount.String()))
	return &dividend, nil
}

// UpdatePurchase corrects a purchase's quantity and price. The linked
// expense is re-booked and the holding moved by the quantity difference,
// but the average price is not recomputed.
func (s *LedgerService) UpdatePurchase(ctx context.Context, purchaseId string, quantity, unitPrice decimal.Decimal) (*models.TickerPurchase, error) {
	if !quantity.IsPositive() || !unitPrice.IsPositive() {
		return nil, invalid("quantity and unit price must be greater than zero")
	}

	var purchase *models.TickerPurchase
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		var err error
		purchase, err = repo.GetPurchase(ctx, purchaseId)
		if err != nil {
			return err
		}
		delta := quantity.Sub(purchase.Quantity)
		if err := s.correctTrade(ctx, repo, purchase.TickerId, purchase.WalletTransactionId, delta, unitPrice, quantity.Mul(unitPrice)); err != nil {
			return err
		}
		purchase.Quantity, purchase.UnitPrice = quantity, unitPrice
		return repo.UpdatePurchase(ctx, purchase)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}

	zap.L().Info("Purchase updated",
		zap.String("purchase_id", purchaseId),
		zap.String("quantity", quantity.String()),
		zap.String("unit_price", unitPrice.String()))
	return purchase, nil
}

// UpdateSale is the sale counterpart of UpdatePurchase.
func (s *LedgerService) UpdateSale(ctx context.Context, saleId string, quantity, unitPrice decimal.Decimal) (*models.TickerSale, error) {
	if !quantity.IsPositive() || !unitPrice.IsPositive() {
		return nil, invalid("quantity and unit price must be greater than zero")
	}

	var sale *models.TickerSale
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		var err error
		sale, err = repo.GetSale(ctx, saleId)
		if err != nil {
			return err
		}
		delta := sale.Quantity.Sub(quantity)
		if err := s.correctTrade(ctx, repo, sale.TickerId, sale.WalletTransactionId, delta, sale.AverageCost, quantity.Mul(unitPrice)); err != nil {
			return err
		}
		sale.Quantity, sale.UnitPrice = quantity, unitPrice
		return repo.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	zap.L().Info("Sale updated",
		zap.String("sale_id", saleId),
		zap.String("quantity", quantity.String()),
		zap.String("unit_price", unitPrice.String()))
	return sale, nil
}

// correctTrade moves a ticker's quantity by delta and re-books the linked
// transaction at amount. A closed holding that the correction reopens takes
// average as its price.
func (s *LedgerService) correctTrade(ctx context.Context, repo store.Repository, tickerId, transactionId string, delta, average, amount decimal.Decimal) error {
	amount, err := positiveAmount("trade amount", amount)
	if err != nil {
		return err
	}

	ticker, err := repo.GetTicker(ctx, tickerId)
	if err != nil {
		return err
	}
	pos, err := position.New(ticker.CurrentQuantity, ticker.AveragePrice)
	if err != nil {
		return err
	}
	next, err := pos.Restore(delta, average)
	if err != nil {
		return err
	}

	old, err := repo.GetTransaction(ctx, transactionId)
	if err != nil {
		return err
	}
	updated := *old
	updated.Amount = amount
	if err := ledger.New(repo).Edit(ctx, *old, updated); err != nil {
		return err
	}
	if err := repo.UpdateTransaction(ctx, &updated); err != nil {
		return err
	}

	if !delta.IsZero() {
		zap.L().Warn("Trade corrected without recomputing average price",
			zap.String("ticker_id", tickerId),
			zap.String("quantity_delta", delta.String()),
			zap.String("average_price", next.AveragePrice.String()))
	}
	return savePosition(ctx, repo, ticker, next)
}

// DeletePurchase removes a purchase, its expense and the quantity it added.
func (s *LedgerService) DeletePurchase(ctx context.Context, purchaseId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		purchase, err := repo.GetPurchase(ctx, purchaseId)
		if err != nil {
			return err
		}
		if err := repo.DeletePurchase(ctx, purchaseId); err != nil {
			return err
		}
		return removeTrade(ctx, repo, purchase.TickerId, purchase.WalletTransactionId, purchase.Quantity.Neg(), purchase.UnitPrice)
	})
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	zap.L().Info("Purchase deleted", zap.String("purchase_id", purchaseId))
	return nil
}

// DeleteSale removes a sale, its income and gives the quantity back.
func (s *LedgerService) DeleteSale(ctx context.Context, saleId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		sale, err := repo.GetSale(ctx, saleId)
		if err != nil {
			return err
		}
		if err := repo.DeleteSale(ctx, saleId); err != nil {
			return err
		}
		return removeTrade(ctx, repo, sale.TickerId, sale.WalletTransactionId, sale.Quantity, sale.AverageCost)
	})
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	zap.L().Info("Sale deleted", zap.String("sale_id", saleId))
	return nil
}

func (s *LedgerService) DeleteDividend(ctx context.Context, dividendId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		dividend, err := repo.GetDividend(ctx, dividendId)
		if err != nil {
			return err
		}
		if err := repo.DeleteDividend(ctx, dividendId); err != nil {
			return err
		}
		return removeTransaction(ctx, repo, dividend.WalletTransactionId)
	})
	if err != nil {
		return fmt.Errorf("failed to delete dividend: %w", err)
	}
	zap.L().Info("Dividend deleted", zap.String("dividend_id", dividendId))
	return nil
}

// DeleteCryptoExchange moves the exchanged quantities back. Average prices
// stay as they are unless the exchange emptied the sold ticker, which then
// gets its pre-exchange average back.
func (s *LedgerService) DeleteCryptoExchange(ctx context.Context, exchangeId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		exchange, err := repo.GetCryptoExchange(ctx, exchangeId)
		if err != nil {
			return err
		}
		sold, received, err := cryptoPair(ctx, repo, exchange.SoldTickerId, exchange.ReceivedTickerId)
		if err != nil {
			return err
		}
		nextSold, nextReceived, err := position.Unexchange(
			position.Position{Quantity: sold.CurrentQuantity, AveragePrice: sold.AveragePrice},
			position.Position{Quantity: received.CurrentQuantity, AveragePrice: received.AveragePrice},
			exchange.SoldQuantity, exchange.ReceivedQuantity, exchange.SoldAveragePrice)
		if err != nil {
			return err
		}
		if err := repo.DeleteCryptoExchange(ctx, exchangeId); err != nil {
			return err
		}
		if err := savePosition(ctx, repo, sold, nextSold); err != nil {
			return err
		}
		return savePosition(ctx, repo, received, nextReceived)
	})
	if err != nil {
		return fmt.Errorf("failed to delete crypto exchange: %w", err)
	}
	zap.L().Info("Crypto exchange deleted", zap.String("exchange_id", exchangeId))
	return nil
}

func removeTrade(ctx context.Context, repo store.Repository, tickerId, transactionId string, delta, average decimal.Decimal) error {
	ticker, err := repo.GetTicker(ctx, tickerId)
	if err != nil {
		return err
	}
	pos, err := position.New(ticker.CurrentQuantity, ticker.AveragePrice)
	if err != nil {
		return err
	}
	next, err := pos.Restore(delta, average)
	if err != nil {
		return err
	}
	if err := removeTransaction(ctx, repo, transactionId); err != nil {
		return err
	}
	return savePosition(ctx, repo, ticker, next)
}

func removeTransaction(ctx context.Context, repo store.Repository, transactionId string) error {
	tx, err := repo.GetTransaction(ctx, transactionId)
	if err != nil {
		return err
	}
	if err := ledger.New(repo).Reverse(ctx, *tx); err != nil {
		return err
	}
	return repo.DeleteTransaction(ctx, transactionId)
}

func savePosition(ctx context.Context, repo store.Repository, ticker *models.Ticker, next position.Position) error {
	if err := next.Validate(); err != nil {
		return err
	}
	ticker.CurrentQuantity = next.Quantity
	ticker.AveragePrice = next.AveragePrice
	return repo.UpdateTicker(ctx, ticker)
}

func cryptoPair(ctx context.Context, repo store.Repository, soldId, receivedId string) (*models.Ticker, *models.Ticker, error) {
	sold, err := repo.GetTicker(ctx, soldId)
	if err != nil {
		return nil, nil, err
	}
	received, err := repo.GetTicker(ctx, receivedId)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range []*models.Ticker{sold, received} {
		if t.Type != models.TickerTypeCryptocurrency {
			return nil, nil, fmt.Errorf("ticker %s is %s: %w", t.Symbol, t.Type, ErrInvalidTickerType)
		}
	}
	return sold, received, nil
}

func tradeTransaction(trade Trade, txType models.TransactionType) (*models.WalletTransaction, error) {
	tx := &models.WalletTransaction{
		WalletId:    trade.WalletId,
		CategoryId:  trade.CategoryId,
		Type:        txType,
		Status:      trade.Status,
		Amount:      trade.Quantity.Mul(trade.UnitPrice),
		Date:        trade.Date.UTC(),
		Description: trade.Description,
	}
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func validateTrade(trade Trade) error {
	if trade.TickerId == "" {
		return invalid("ticker is required")
	}
	if !trade.Quantity.IsPositive() {
		return fmt.Errorf("%w: %w", ErrValidation, position.ErrInvalidQuantity)
	}
	if !trade.UnitPrice.IsPositive() {
		return fmt.Errorf("%w: %w", ErrValidation, position.ErrInvalidPrice)
	}
	_, err := tradeTransaction(trade, models.TransactionTypeExpense)
	return err
}
