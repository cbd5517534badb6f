package database

import (
	"context"
	"fmt"

	"personal-ledger-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func scanTransaction(row rowScanner) (*models.WalletTransaction, error) {
	var t models.WalletTransaction
	err := row.Scan(&t.Id, &t.WalletId, &t.CategoryId, &t.Type, &t.Status, &t.Amount, &t.Date, &t.Description)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTransfer(row rowScanner) (*models.Transfer, error) {
	var t models.Transfer
	err := row.Scan(&t.Id, &t.SenderWalletId, &t.ReceiverWalletId, &t.CategoryId, &t.Amount, &t.Date, &t.Description)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (q *Queries) InsertTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	if tx.Id == "" {
		tx.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertTransaction,
		tx.Id, tx.WalletId, tx.CategoryId, tx.Type, tx.Status, tx.Amount, tx.Date, tx.Description)
	if err != nil {
		return insertError(err, "wallet transaction")
	}
	return nil
}

func (q *Queries) GetTransaction(ctx context.Context, id string) (*models.WalletTransaction, error) {
	t, err := scanTransaction(q.db.QueryRowContext(ctx, queryGetTransaction, id))
	if err != nil {
		return nil, getError(err, "wallet transaction", id)
	}
	return t, nil
}

func (q *Queries) UpdateTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	result, err := q.db.ExecContext(ctx, queryUpdateTransaction,
		tx.WalletId, tx.CategoryId, tx.Type, tx.Status, tx.Amount, tx.Date, tx.Description, tx.Id)
	if err != nil {
		return fmt.Errorf("failed to update wallet transaction: %w", err)
	}
	return expectRow(result, "wallet transaction", tx.Id)
}

func (q *Queries) DeleteTransaction(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteTransaction, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet transaction: %w", err)
	}
	return expectRow(result, "wallet transaction", id)
}

func (q *Queries) ListTransactionsByWallet(ctx context.Context, walletId string) ([]models.WalletTransaction, error) {
	zap.L().Debug("Listing wallet transactions", zap.String("wallet_id", walletId))

	rows, err := q.db.QueryContext(ctx, queryListTransactionsByWallet, walletId)
	if err != nil {
		zap.L().Error("Failed to list wallet transactions", zap.String("wallet_id", walletId), zap.Error(err))
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	defer closeRows(rows)

	var transactions []models.WalletTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during wallet transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating wallet transaction rows: %w", err)
	}

	zap.L().Debug("Retrieved wallet transactions", zap.String("wallet_id", walletId), zap.Int("count", len(transactions)))
	return transactions, nil
}

func (q *Queries) CountTransactionLinks(ctx context.Context, walletTransactionId string) (int, error) {
	var count int
	if err := q.db.QueryRowContext(ctx, queryCountTransactionLinks, walletTransactionId).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count links of wallet transaction %s: %w", walletTransactionId, err)
	}
	return count, nil
}

func (q *Queries) InsertTransfer(ctx context.Context, transfer *models.Transfer) error {
	if transfer.Id == "" {
		transfer.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertTransfer,
		transfer.Id, transfer.SenderWalletId, transfer.ReceiverWalletId, transfer.CategoryId,
		transfer.Amount, transfer.Date, transfer.Description)
	if err != nil {
		return insertError(err, "transfer")
	}
	return nil
}

func (q *Queries) GetTransfer(ctx context.Context, id string) (*models.Transfer, error) {
	t, err := scanTransfer(q.db.QueryRowContext(ctx, queryGetTransfer, id))
	if err != nil {
		return nil, getError(err, "transfer", id)
	}
	return t, nil
}

func (q *Queries) UpdateTransfer(ctx context.Context, transfer *models.Transfer) error {
	result, err := q.db.ExecContext(ctx, queryUpdateTransfer,
		transfer.SenderWalletId, transfer.ReceiverWalletId, transfer.CategoryId,
		transfer.Amount, transfer.Date, transfer.Description, transfer.Id)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}
	return expectRow(result, "transfer", transfer.Id)
}

func (q *Queries) DeleteTransfer(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteTransfer, id)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	return expectRow(result, "transfer", id)
}

func (q *Queries) ListTransfersByWallet(ctx context.Context, walletId string) ([]models.Transfer, error) {
	rows, err := q.db.QueryContext(ctx, queryListTransfersByWallet, walletId)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer closeRows(rows)

	var transfers []models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}
	return transfers, nil
}
