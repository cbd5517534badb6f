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

const (
	// Wallet queries
	walletColumns = `id, name, type, balance, opening_balance, archived, version, created_at, updated_at`

	queryInsertWallet = `
		INSERT INTO wallets (id, name, type, balance, opening_balance, archived, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetWallet = `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE id = ?`

	queryListWallets = `
		SELECT ` + walletColumns + `
		FROM wallets
		ORDER BY name`

	queryUpdateWallet = `
		UPDATE wallets
		SET name = ?, type = ?, balance = ?, opening_balance = ?, archived = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryDeleteWallet = `DELETE FROM wallets WHERE id = ?`

	// Category queries
	queryInsertCategory = `
		INSERT INTO categories (id, name, archived) VALUES (?, ?, ?)`

	queryGetCategory = `
		SELECT id, name, archived FROM categories WHERE id = ?`

	queryGetCategoryByName = `
		SELECT id, name, archived FROM categories WHERE name = ?`

	queryListCategories = `
		SELECT id, name, archived FROM categories ORDER BY name`

	// Wallet transaction queries
	transactionColumns = `id, wallet_id, category_id, type, status, amount, date, description`

	queryInsertTransaction = `
		INSERT INTO wallet_transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransaction = `
		SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE id = ?`

	queryUpdateTransaction = `
		UPDATE wallet_transactions
		SET wallet_id = ?, category_id = ?, type = ?, status = ?, amount = ?, date = ?, description = ?
		WHERE id = ?`

	queryDeleteTransaction = `DELETE FROM wallet_transactions WHERE id = ?`

	queryListTransactionsByWallet = `
		SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE wallet_id = ?
		ORDER BY date, id`

	queryCountTransactionLinks = `
		SELECT
			(SELECT COUNT(*) FROM ticker_purchases WHERE wallet_transaction_id = ?1) +
			(SELECT COUNT(*) FROM ticker_sales WHERE wallet_transaction_id = ?1) +
			(SELECT COUNT(*) FROM dividends WHERE wallet_transaction_id = ?1) +
			(SELECT COUNT(*) FROM credit_card_payments WHERE wallet_transaction_id = ?1)`

	// Transfer queries
	transferColumns = `id, sender_wallet_id, receiver_wallet_id, category_id, amount, date, description`

	queryInsertTransfer = `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetTransfer = `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE id = ?`

	queryUpdateTransfer = `
		UPDATE transfers
		SET sender_wallet_id = ?, receiver_wallet_id = ?, category_id = ?, amount = ?, date = ?, description = ?
		WHERE id = ?`

	queryDeleteTransfer = `DELETE FROM transfers WHERE id = ?`

	queryListTransfersByWallet = `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE sender_wallet_id = ?1 OR receiver_wallet_id = ?1
		ORDER BY date, id`

	// Credit card queries
	creditCardColumns = `id, name, max_debt, closing_day, billing_due_day, last_four_digits,
		default_billing_wallet_id, available_rebate, archived`

	queryInsertCreditCard = `
		INSERT INTO credit_cards (` + creditCardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetCreditCard = `
		SELECT ` + creditCardColumns + `
		FROM credit_cards
		WHERE id = ?`

	queryListCreditCards = `
		SELECT ` + creditCardColumns + `
		FROM credit_cards
		ORDER BY name`

	queryUpdateCreditCard = `
		UPDATE credit_cards
		SET name = ?, max_debt = ?, closing_day = ?, billing_due_day = ?, last_four_digits = ?,
		    default_billing_wallet_id = ?, available_rebate = ?, archived = ?
		WHERE id = ?`

	queryDeleteCreditCard = `DELETE FROM credit_cards WHERE id = ?`

	// Credit card debt queries
	debtColumns = `id, credit_card_id, category_id, amount, installments, date, description`

	queryInsertDebt = `
		INSERT INTO credit_card_debts (` + debtColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetDebt = `
		SELECT ` + debtColumns + `
		FROM credit_card_debts
		WHERE id = ?`

	queryUpdateDebt = `
		UPDATE credit_card_debts
		SET credit_card_id = ?, category_id = ?, amount = ?, installments = ?, date = ?, description = ?
		WHERE id = ?`

	queryDeleteDebt = `DELETE FROM credit_card_debts WHERE id = ?`

	queryCountDebtsByCard = `SELECT COUNT(*) FROM credit_card_debts WHERE credit_card_id = ?`

	// Credit card payment queries
	paymentColumns = `id, debt_id, credit_card_id, installment, amount, invoice_year, invoice_month,
		due_date, paid, wallet_id, rebate_used, wallet_transaction_id`

	queryInsertPayment = `
		INSERT INTO credit_card_payments (` + paymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryUpdatePayment = `
		UPDATE credit_card_payments
		SET amount = ?, invoice_year = ?, invoice_month = ?, due_date = ?, paid = ?,
		    wallet_id = ?, rebate_used = ?, wallet_transaction_id = ?
		WHERE id = ?`

	queryDeletePaymentsByDebt = `DELETE FROM credit_card_payments WHERE debt_id = ?`

	queryListPaymentsByDebt = `
		SELECT ` + paymentColumns + `
		FROM credit_card_payments
		WHERE debt_id = ?
		ORDER BY installment`

	queryListUnpaidPaymentsByCard = `
		SELECT ` + paymentColumns + `
		FROM credit_card_payments
		WHERE credit_card_id = ? AND paid = 0
		ORDER BY invoice_year, invoice_month, installment`

	queryListInvoicePayments = `
		SELECT ` + paymentColumns + `
		FROM credit_card_payments
		WHERE credit_card_id = ? AND invoice_year = ? AND invoice_month = ?
		ORDER BY debt_id, installment`

	// Credit card credit queries
	queryInsertCredit = `
		INSERT INTO credit_card_credits (id, credit_card_id, type, amount, date, description)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryListCreditsByCard = `
		SELECT id, credit_card_id, type, amount, date, description
		FROM credit_card_credits
		WHERE credit_card_id = ?
		ORDER BY date`

	// Ticker queries
	tickerColumns = `id, name, symbol, type, current_quantity, average_price, current_unit_value, archived, version`

	queryInsertTicker = `
		INSERT INTO tickers (` + tickerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTicker = `
		SELECT ` + tickerColumns + `
		FROM tickers
		WHERE id = ?`

	queryListTickers = `
		SELECT ` + tickerColumns + `
		FROM tickers
		ORDER BY symbol`

	queryUpdateTicker = `
		UPDATE tickers
		SET name = ?, symbol = ?, type = ?, current_quantity = ?, average_price = ?,
		    current_unit_value = ?, archived = ?, version = version + 1
		WHERE id = ? AND version = ?`

	queryInsertPurchase = `
		INSERT INTO ticker_purchases (id, ticker_id, quantity, unit_price, wallet_transaction_id)
		VALUES (?, ?, ?, ?, ?)`

	queryGetPurchase = `
		SELECT id, ticker_id, quantity, unit_price, wallet_transaction_id
		FROM ticker_purchases
		WHERE id = ?`

	queryUpdatePurchase = `
		UPDATE ticker_purchases SET quantity = ?, unit_price = ? WHERE id = ?`

	queryDeletePurchase = `DELETE FROM ticker_purchases WHERE id = ?`

	queryInsertSale = `
		INSERT INTO ticker_sales (id, ticker_id, quantity, unit_price, average_cost, wallet_transaction_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetSale = `
		SELECT id, ticker_id, quantity, unit_price, average_cost, wallet_transaction_id
		FROM ticker_sales
		WHERE id = ?`

	queryUpdateSale = `
		UPDATE ticker_sales SET quantity = ?, unit_price = ? WHERE id = ?`

	queryDeleteSale = `DELETE FROM ticker_sales WHERE id = ?`

	queryInsertDividend = `
		INSERT INTO dividends (id, ticker_id, wallet_transaction_id) VALUES (?, ?, ?)`

	queryGetDividend = `
		SELECT id, ticker_id, wallet_transaction_id FROM dividends WHERE id = ?`

	queryDeleteDividend = `DELETE FROM dividends WHERE id = ?`

	queryInsertCryptoExchange = `
		INSERT INTO crypto_exchanges (id, sold_ticker_id, received_ticker_id, sold_quantity, received_quantity,
			sold_average_price, date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetCryptoExchange = `
		SELECT id, sold_ticker_id, received_ticker_id, sold_quantity, received_quantity, sold_average_price,
			date, description
		FROM crypto_exchanges
		WHERE id = ?`

	queryDeleteCryptoExchange = `DELETE FROM crypto_exchanges WHERE id = ?`

	// Recurring transaction queries
	recurringColumns = `id, wallet_id, category_id, type, amount, frequency, start_date, end_date,
		next_due_date, status, description`

	queryInsertRecurring = `
		INSERT INTO recurring_transactions (` + recurringColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetRecurring = `
		SELECT ` + recurringColumns + `
		FROM recurring_transactions
		WHERE id = ?`

	queryUpdateRecurring = `
		UPDATE recurring_transactions
		SET wallet_id = ?, category_id = ?, type = ?, amount = ?, frequency = ?, start_date = ?,
		    end_date = ?, next_due_date = ?, status = ?, description = ?
		WHERE id = ?`

	queryDeleteRecurring = `DELETE FROM recurring_transactions WHERE id = ?`

	queryListRecurringByStatus = `
		SELECT ` + recurringColumns + `
		FROM recurring_transactions
		WHERE status = ?
		ORDER BY next_due_date, id`
)
