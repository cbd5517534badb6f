package store

import (
	"context"
	"errors"

	"personal-ledger-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicate              = errors.New("record already exists")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// Store is a ledger backend. Every multi-row change runs inside WithinTx so
// it is applied entirely or not at all.
type Store interface {
	Repository

	// WithinTx runs fn against a repository bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close()
}

// Repository is the keyed persistence surface of the ledger. Getters return
// ErrNotFound for unknown ids. Updates of versioned rows (wallets, tickers)
// return ErrConcurrentModification when the stored version moved on, and
// bump the version of the passed struct on success.
type Repository interface {
	WalletRepository
	CategoryRepository
	TransactionRepository
	CreditCardRepository
	TickerRepository
	RecurringRepository
}

type WalletRepository interface {
	InsertWallet(ctx context.Context, wallet *models.Wallet) error
	GetWallet(ctx context.Context, id string) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *models.Wallet) error
	DeleteWallet(ctx context.Context, id string) error
}

type CategoryRepository interface {
	InsertCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type TransactionRepository interface {
	InsertTransaction(ctx context.Context, tx *models.WalletTransaction) error
	GetTransaction(ctx context.Context, id string) (*models.WalletTransaction, error)
	UpdateTransaction(ctx context.Context, tx *models.WalletTransaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactionsByWallet(ctx context.Context, walletId string) ([]models.WalletTransaction, error)
	// CountTransactionLinks counts the trades, dividends and invoice
	// payments that own a wallet transaction.
	CountTransactionLinks(ctx context.Context, walletTransactionId string) (int, error)

	InsertTransfer(ctx context.Context, transfer *models.Transfer) error
	GetTransfer(ctx context.Context, id string) (*models.Transfer, error)
	UpdateTransfer(ctx context.Context, transfer *models.Transfer) error
	DeleteTransfer(ctx context.Context, id string) error
	ListTransfersByWallet(ctx context.Context, walletId string) ([]models.Transfer, error)
}

type CreditCardRepository interface {
	InsertCreditCard(ctx context.Context, card *models.CreditCard) error
	GetCreditCard(ctx context.Context, id string) (*models.CreditCard, error)
	ListCreditCards(ctx context.Context) ([]models.CreditCard, error)
	UpdateCreditCard(ctx context.Context, card *models.CreditCard) error
	DeleteCreditCard(ctx context.Context, id string) error

	InsertDebt(ctx context.Context, debt *models.CreditCardDebt) error
	GetDebt(ctx context.Context, id string) (*models.CreditCardDebt, error)
	UpdateDebt(ctx context.Context, debt *models.CreditCardDebt) error
	DeleteDebt(ctx context.Context, id string) error
	CountDebtsByCard(ctx context.Context, cardId string) (int, error)

	InsertPayment(ctx context.Context, payment *models.CreditCardPayment) error
	UpdatePayment(ctx context.Context, payment *models.CreditCardPayment) error
	DeletePaymentsByDebt(ctx context.Context, debtId string) error
	ListPaymentsByDebt(ctx context.Context, debtId string) ([]models.CreditCardPayment, error)
	ListUnpaidPaymentsByCard(ctx context.Context, cardId string) ([]models.CreditCardPayment, error)
	ListInvoicePayments(ctx context.Context, cardId string, year int, month int) ([]models.CreditCardPayment, error)

	InsertCredit(ctx context.Context, credit *models.CreditCardCredit) error
	ListCreditsByCard(ctx context.Context, cardId string) ([]models.CreditCardCredit, error)
}

type TickerRepository interface {
	InsertTicker(ctx context.Context, ticker *models.Ticker) error
	GetTicker(ctx context.Context, id string) (*models.Ticker, error)
	ListTickers(ctx context.Context) ([]models.Ticker, error)
	UpdateTicker(ctx context.Context, ticker *models.Ticker) error

	InsertPurchase(ctx context.Context, purchase *models.TickerPurchase) error
	GetPurchase(ctx context.Context, id string) (*models.TickerPurchase, error)
	UpdatePurchase(ctx context.Context, purchase *models.TickerPurchase) error
	DeletePurchase(ctx context.Context, id string) error

	InsertSale(ctx context.Context, sale *models.TickerSale) error
	GetSale(ctx context.Context, id string) (*models.TickerSale, error)
	UpdateSale(ctx context.Context, sale *models.TickerSale) error
	DeleteSale(ctx context.Context, id string) error

	InsertDividend(ctx context.Context, dividend *models.Dividend) error
	GetDividend(ctx context.Context, id string) (*models.Dividend, error)
	DeleteDividend(ctx context.Context, id string) error

	InsertCryptoExchange(ctx context.Context, exchange *models.CryptoExchange) error
	GetCryptoExchange(ctx context.Context, id string) (*models.CryptoExchange, error)
	DeleteCryptoExchange(ctx context.Context, id string) error
}

type RecurringRepository interface {
	InsertRecurring(ctx context.Context, rt *models.RecurringTransaction) error
	GetRecurring(ctx context.Context, id string) (*models.RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, rt *models.RecurringTransaction) error
	DeleteRecurring(ctx context.Context, id string) error
	ListRecurringByStatus(ctx context.Context, status models.RecurringStatus) ([]models.RecurringTransaction, error)
}
