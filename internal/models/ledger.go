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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a named monetary balance. Balance is only ever moved by ledger
// effects; OpeningBalance records the part of it no transaction explains.
type Wallet struct {
	Id             string          `db:"id"`
	Name           string          `db:"name"`
	Type           string          `db:"type"`
	Balance        decimal.Decimal `db:"balance"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Archived       bool            `db:"archived"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type Category struct {
	Id       string `db:"id"`
	Name     string `db:"name"`
	Archived bool   `db:"archived"`
}

// WalletTransaction is a categorized income or expense. Amount is always
// positive; the sign comes from Type when the ledger applies it.
type WalletTransaction struct {
	Id          string            `db:"id"`
	WalletId    string            `db:"wallet_id"`
	CategoryId  string            `db:"category_id"`
	Type        TransactionType   `db:"type"`
	Status      TransactionStatus `db:"status"`
	Amount      decimal.Decimal   `db:"amount"`
	Date        time.Time         `db:"date"`
	Description string            `db:"description"`
}

// Transfer moves money between two wallets without a category effect.
type Transfer struct {
	Id               string          `db:"id"`
	SenderWalletId   string          `db:"sender_wallet_id"`
	ReceiverWalletId string          `db:"receiver_wallet_id"`
	CategoryId       string          `db:"category_id"`
	Amount           decimal.Decimal `db:"amount"`
	Date             time.Time       `db:"date"`
	Description      string          `db:"description"`
}

type Ticker struct {
	Id               string          `db:"id"`
	Name             string          `db:"name"`
	Symbol           string          `db:"symbol"`
	Type             TickerType      `db:"type"`
	CurrentQuantity  decimal.Decimal `db:"current_quantity"`
	AveragePrice     decimal.Decimal `db:"average_price"`
	CurrentUnitValue decimal.Decimal `db:"current_unit_value"`
	Archived         bool            `db:"archived"`
	Version          int64           `db:"version"`
}

// TickerPurchase links a quantity bought to the EXPENSE transaction that paid for it.
type TickerPurchase struct {
	Id                  string          `db:"id"`
	TickerId            string          `db:"ticker_id"`
	Quantity            decimal.Decimal `db:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price"`
	WalletTransactionId string          `db:"wallet_transaction_id"`
}

// TickerSale links a quantity sold to the INCOME transaction it produced.
// AverageCost is the position's average price at the time of the sale.
type TickerSale struct {
	Id                  string          `db:"id"`
	TickerId            string          `db:"ticker_id"`
	Quantity            decimal.Decimal `db:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price"`
	AverageCost         decimal.Decimal `db:"average_cost"`
	WalletTransactionId string          `db:"wallet_transaction_id"`
}

type Dividend struct {
	Id                  string `db:"id"`
	TickerId            string `db:"ticker_id"`
	WalletTransactionId string `db:"wallet_transaction_id"`
}

// CryptoExchange is a quantity transfer between two crypto tickers. It has
// no wallet transaction.
type CryptoExchange struct {
	Id               string          `db:"id"`
	SoldTickerId     string          `db:"sold_ticker_id"`
	ReceivedTickerId string          `db:"received_ticker_id"`
	SoldQuantity     decimal.Decimal `db:"sold_quantity"`
	ReceivedQuantity decimal.Decimal `db:"received_quantity"`
	// SoldAveragePrice is the sold ticker's average price before the exchange.
	SoldAveragePrice decimal.Decimal `db:"sold_average_price"`
	Date             time.Time       `db:"date"`
	Description      string          `db:"description"`
}

type CreditCard struct {
	Id                     string          `db:"id"`
	Name                   string          `db:"name"`
	MaxDebt                decimal.Decimal `db:"max_debt"`
	ClosingDay             int             `db:"closing_day"`
	BillingDueDay          int             `db:"billing_due_day"`
	LastFourDigits         string          `db:"last_four_digits"`
	DefaultBillingWalletId string          `db:"default_billing_wallet_id"`
	AvailableRebate        decimal.Decimal `db:"available_rebate"`
	Archived               bool            `db:"archived"`
}

// CreditCardDebt owns its payment schedule; the schedule is replaced as a
// whole whenever the debt changes.
type CreditCardDebt struct {
	Id           string          `db:"id"`
	CreditCardId string          `db:"credit_card_id"`
	CategoryId   string          `db:"category_id"`
	Amount       decimal.Decimal `db:"amount"`
	Installments int             `db:"installments"`
	Date         time.Time       `db:"date"`
	Description  string          `db:"description"`
}

// CreditCardPayment is one installment of a debt, billed on the invoice of
// InvoiceYear/InvoiceMonth.
type CreditCardPayment struct {
	Id                  string          `db:"id"`
	DebtId              string          `db:"debt_id"`
	CreditCardId        string          `db:"credit_card_id"`
	Installment         int             `db:"installment"`
	Amount              decimal.Decimal `db:"amount"`
	InvoiceYear         int             `db:"invoice_year"`
	InvoiceMonth        time.Month      `db:"invoice_month"`
	DueDate             time.Time       `db:"due_date"`
	Paid                bool            `db:"paid"`
	WalletId            string          `db:"wallet_id"`
	RebateUsed          decimal.Decimal `db:"rebate_used"`
	WalletTransactionId string          `db:"wallet_transaction_id"`
}

// CreditCardCredit is a cashback or refund granted by the card issuer. It
// raises the card's available rebate.
type CreditCardCredit struct {
	Id           string          `db:"id"`
	CreditCardId string          `db:"credit_card_id"`
	Type         CreditType      `db:"type"`
	Amount       decimal.Decimal `db:"amount"`
	Date         time.Time       `db:"date"`
	Description  string          `db:"description"`
}

// RecurringTransaction is a template that materializes PENDING wallet
// transactions on a fixed schedule. A nil EndDate means no end.
type RecurringTransaction struct {
	Id          string          `db:"id"`
	WalletId    string          `db:"wallet_id"`
	CategoryId  string          `db:"category_id"`
	Type        TransactionType `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Frequency   Frequency       `db:"frequency"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     *time.Time      `db:"end_date"`
	NextDueDate time.Time       `db:"next_due_date"`
	Status      RecurringStatus `db:"status"`
	Description string          `db:"description"`
}
