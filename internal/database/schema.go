package database

// Decimal columns are TEXT so amounts round-trip exactly.
const schema = `
	-- Wallets (balances are mutated only through ledger postings)
	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL DEFAULT '',
		balance TEXT NOT NULL DEFAULT '0',
		opening_balance TEXT NOT NULL DEFAULT '0',
		archived BOOLEAN NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		archived BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL REFERENCES wallets(id),
		category_id TEXT NOT NULL REFERENCES categories(id),
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_wallet ON wallet_transactions(wallet_id);
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_date ON wallet_transactions(date);

	CREATE TABLE IF NOT EXISTS transfers (
		id TEXT PRIMARY KEY,
		sender_wallet_id TEXT NOT NULL REFERENCES wallets(id),
		receiver_wallet_id TEXT NOT NULL REFERENCES wallets(id),
		category_id TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_transfers_sender ON transfers(sender_wallet_id);
	CREATE INDEX IF NOT EXISTS idx_transfers_receiver ON transfers(receiver_wallet_id);

	-- Credit cards, debts and their installment schedules
	CREATE TABLE IF NOT EXISTS credit_cards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		max_debt TEXT NOT NULL,
		closing_day INTEGER NOT NULL,
		billing_due_day INTEGER NOT NULL,
		last_four_digits TEXT NOT NULL DEFAULT '',
		default_billing_wallet_id TEXT NOT NULL DEFAULT '',
		available_rebate TEXT NOT NULL DEFAULT '0',
		archived BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS credit_card_debts (
		id TEXT PRIMARY KEY,
		credit_card_id TEXT NOT NULL REFERENCES credit_cards(id),
		category_id TEXT NOT NULL REFERENCES categories(id),
		amount TEXT NOT NULL,
		installments INTEGER NOT NULL,
		date TIMESTAMP NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_credit_card_debts_card ON credit_card_debts(credit_card_id);

	CREATE TABLE IF NOT EXISTS credit_card_payments (
		id TEXT PRIMARY KEY,
		debt_id TEXT NOT NULL REFERENCES credit_card_debts(id),
		credit_card_id TEXT NOT NULL REFERENCES credit_cards(id),
		installment INTEGER NOT NULL,
		amount TEXT NOT NULL,
		invoice_year INTEGER NOT NULL,
		invoice_month INTEGER NOT NULL,
		due_date TIMESTAMP NOT NULL,
		paid BOOLEAN NOT NULL DEFAULT 0,
		wallet_id TEXT NOT NULL DEFAULT '',
		rebate_used TEXT NOT NULL DEFAULT '0',
		wallet_transaction_id TEXT NOT NULL DEFAULT '',
		UNIQUE(debt_id, installment)
	);

	CREATE INDEX IF NOT EXISTS idx_credit_card_payments_invoice ON credit_card_payments(credit_card_id, invoice_year, invoice_month);
	CREATE INDEX IF NOT EXISTS idx_credit_card_payments_paid ON credit_card_payments(credit_card_id, paid);

	CREATE TABLE IF NOT EXISTS credit_card_credits (
		id TEXT PRIMARY KEY,
		credit_card_id TEXT NOT NULL REFERENCES credit_cards(id),
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	-- Tickers and the trades that move their positions
	CREATE TABLE IF NOT EXISTS tickers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		current_quantity TEXT NOT NULL DEFAULT '0',
		average_price TEXT NOT NULL DEFAULT '0',
		current_unit_value TEXT NOT NULL DEFAULT '0',
		archived BOOLEAN NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS ticker_purchases (
		id TEXT PRIMARY KEY,
		ticker_id TEXT NOT NULL REFERENCES tickers(id),
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		wallet_transaction_id TEXT NOT NULL REFERENCES wallet_transactions(id)
	);

	CREATE TABLE IF NOT EXISTS ticker_sales (
		id TEXT PRIMARY KEY,
		ticker_id TEXT NOT NULL REFERENCES tickers(id),
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		average_cost TEXT NOT NULL,
		wallet_transaction_id TEXT NOT NULL REFERENCES wallet_transactions(id)
	);

	CREATE TABLE IF NOT EXISTS dividends (
		id TEXT PRIMARY KEY,
		ticker_id TEXT NOT NULL REFERENCES tickers(id),
		wallet_transaction_id TEXT NOT NULL REFERENCES wallet_transactions(id)
	);

	CREATE TABLE IF NOT EXISTS crypto_exchanges (
		id TEXT PRIMARY KEY,
		sold_ticker_id TEXT NOT NULL REFERENCES tickers(id),
		received_ticker_id TEXT NOT NULL REFERENCES tickers(id),
		sold_quantity TEXT NOT NULL,
		received_quantity TEXT NOT NULL,
		sold_average_price TEXT NOT NULL DEFAULT '0',
		date TIMESTAMP NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_ticker_purchases_tx ON ticker_purchases(wallet_transaction_id);
	CREATE INDEX IF NOT EXISTS idx_ticker_sales_tx ON ticker_sales(wallet_transaction_id);
	CREATE INDEX IF NOT EXISTS idx_dividends_tx ON dividends(wallet_transaction_id);

	CREATE TABLE IF NOT EXISTS recurring_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL REFERENCES wallets(id),
		category_id TEXT NOT NULL REFERENCES categories(id),
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP,
		next_due_date TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_recurring_status ON recurring_transactions(status);
`
