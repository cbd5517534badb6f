package database

import (
	"context"
	"database/sql"
	"fmt"

	"personal-ledger-go/internal/models"

	"github.com/google/uuid"
)

func scanRecurring(row rowScanner) (*models.RecurringTransaction, error) {
	var (
		r   models.RecurringTransaction
		end sql.NullTime
	)
	err := row.Scan(&r.Id, &r.WalletId, &r.CategoryId, &r.Type, &r.Amount, &r.Frequency,
		&r.StartDate, &end, &r.NextDueDate, &r.Status, &r.Description)
	if err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time.UTC()
		r.EndDate = &t
	}
	return &r, nil
}

func nullTime(t *models.RecurringTransaction) sql.NullTime {
	if t.EndDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t.EndDate, Valid: true}
}

func (q *Queries) InsertRecurring(ctx context.Context, rt *models.RecurringTransaction) error {
	if rt.Id == "" {
		rt.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertRecurring,
		rt.Id, rt.WalletId, rt.CategoryId, rt.Type, rt.Amount, rt.Frequency, rt.StartDate,
		nullTime(rt), rt.NextDueDate, rt.Status, rt.Description)
	if err != nil {
		return insertError(err, "recurring transaction")
	}
	return nil
}

func (q *Queries) GetRecurring(ctx context.Context, id string) (*models.RecurringTransaction, error) {
	r, err := scanRecurring(q.db.QueryRowContext(ctx, queryGetRecurring, id))
	if err != nil {
		return nil, getError(err, "recurring transaction", id)
	}
	return r, nil
}

func (q *Queries) UpdateRecurring(ctx context.Context, rt *models.RecurringTransaction) error {
	result, err := q.db.ExecContext(ctx, queryUpdateRecurring,
		rt.WalletId, rt.CategoryId, rt.Type, rt.Amount, rt.Frequency, rt.StartDate,
		nullTime(rt), rt.NextDueDate, rt.Status, rt.Description, rt.Id)
	if err != nil {
		return fmt.Errorf("failed to update recurring transaction: %w", err)
	}
	return expectRow(result, "recurring transaction", rt.Id)
}

func (q *Queries) DeleteRecurring(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteRecurring, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring transaction: %w", err)
	}
	return expectRow(result, "recurring transaction", id)
}

func (q *Queries) ListRecurringByStatus(ctx context.Context, status models.RecurringStatus) ([]models.RecurringTransaction, error) {
	rows, err := q.db.QueryContext(ctx, queryListRecurringByStatus, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}
	defer closeRows(rows)

	var templates []models.RecurringTransaction
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring transaction: %w", err)
		}
		templates = append(templates, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring transaction rows: %w", err)
	}
	return templates, nil
}
