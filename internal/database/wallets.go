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
	"time"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.Id, &w.Name, &w.Type, &w.Balance, &w.OpeningBalance,
		&w.Archived, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (q *Queries) InsertWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet.Id == "" {
		wallet.Id = uuid.New().String()
	}
	now := time.Now().UTC()
	wallet.Version = 1
	wallet.CreatedAt, wallet.UpdatedAt = now, now

	_, err := q.db.ExecContext(ctx, queryInsertWallet,
		wallet.Id, wallet.Name, wallet.Type, wallet.Balance, wallet.OpeningBalance,
		wallet.Archived, wallet.Version, now, now)
	if err != nil {
		return insertError(err, "wallet "+wallet.Name)
	}
	return nil
}

func (q *Queries) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	w, err := scanWallet(q.db.QueryRowContext(ctx, queryGetWallet, id))
	if err != nil {
		return nil, getError(err, "wallet", id)
	}
	return w, nil
}

func (q *Queries) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	rows, err := q.db.QueryContext(ctx, queryListWallets)
	if err != nil {
		zap.L().Error("Failed to list wallets", zap.Error(err))
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer closeRows(rows)

	var wallets []models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}
	return wallets, nil
}

// UpdateWallet writes every mutable field guarded by the wallet's version.
func (q *Queries) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	now := time.Now().UTC()
	result, err := q.db.ExecContext(ctx, queryUpdateWallet,
		wallet.Name, wallet.Type, wallet.Balance, wallet.OpeningBalance, wallet.Archived, now,
		wallet.Id, wallet.Version)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("wallet %s update failed at version %d - %w", wallet.Id, wallet.Version, store.ErrConcurrentModification)
	}

	wallet.Version++
	wallet.UpdatedAt = now
	return nil
}

func (q *Queries) DeleteWallet(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteWallet, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return expectRow(result, "wallet", id)
}

func (q *Queries) InsertCategory(ctx context.Context, category *models.Category) error {
	if category.Id == "" {
		category.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertCategory, category.Id, category.Name, category.Archived)
	if err != nil {
		return insertError(err, "category "+category.Name)
	}
	return nil
}

func (q *Queries) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := q.db.QueryRowContext(ctx, queryGetCategory, id).Scan(&c.Id, &c.Name, &c.Archived)
	if err != nil {
		return nil, getError(err, "category", id)
	}
	return &c, nil
}

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := q.db.QueryRowContext(ctx, queryGetCategoryByName, name).Scan(&c.Id, &c.Name, &c.Archived)
	if err != nil {
		return nil, getError(err, "category", name)
	}
	return &c, nil
}

func (q *Queries) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := q.db.QueryContext(ctx, queryListCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer closeRows(rows)

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Id, &c.Name, &c.Archived); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}
