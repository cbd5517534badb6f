package api

import (
	"context"
	"fmt"
	"time"

	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/recurring"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddRecurringTransaction creates an ACTIVE template. The start cannot be in
// the past and an end, when given, must leave room for a second occurrence.
func (s *LedgerService) AddRecurringTransaction(ctx context.Context, walletId, categoryId string, txType models.TransactionType, amount decimal.Decimal, startDate time.Time, endDate *time.Time, description string, frequency models.Frequency) (*models.RecurringTransaction, error) {
	rt := models.RecurringTransaction{
		WalletId:    walletId,
		CategoryId:  categoryId,
		Type:        txType,
		Amount:      amount,
		Frequency:   frequency,
		StartDate:   recurring.Day(startDate),
		EndDate:     dayPtr(endDate),
		Status:      models.RecurringStatusActive,
		Description: description,
	}
	if err := validateRecurring(&rt); err != nil {
		return nil, err
	}
	if today := recurring.Day(s.now()); rt.StartDate.Before(today) {
		return nil, invalid("start date %s is in the past", rt.StartDate.Format(time.DateOnly))
	}
	rt.NextDueDate = rt.StartDate

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		if _, err := repo.GetWallet(ctx, walletId); err != nil {
			return err
		}
		if _, err := repo.GetCategory(ctx, categoryId); err != nil {
			return err
		}
		return repo.InsertRecurring(ctx, &rt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add recurring transaction: %w", err)
	}

	zap.L().Info("Recurring transaction added",
		zap.String("recurring_id", rt.Id),
		zap.String("frequency", string(rt.Frequency)),
		zap.String("amount", rt.Amount.String()),
		zap.String("start", rt.StartDate.Format(time.DateOnly)))
	return &rt, nil
}

// UpdateRecurringTransaction replaces a template's fields. Its next due date
// moves to the first occurrence not yet materialized.
func (s *LedgerService) UpdateRecurringTransaction(ctx context.Context, updated models.RecurringTransaction) (*models.RecurringTransaction, error) {
	updated.StartDate = recurring.Day(updated.StartDate)
	updated.EndDate = dayPtr(updated.EndDate)
	if err := validateRecurring(&updated); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		old, err := repo.GetRecurring(ctx, updated.Id)
		if err != nil {
			return err
		}
		if _, err := repo.GetWallet(ctx, updated.WalletId); err != nil {
			return err
		}
		if _, err := repo.GetCategory(ctx, updated.CategoryId); err != nil {
			return err
		}

		updated.Status = old.Status
		ref := recurring.Day(s.now())
		if old.NextDueDate.After(ref) {
			ref = recurring.Day(old.NextDueDate)
		}
		p, err := recurring.New(updated.StartDate, updated.EndDate, updated.Frequency)
		if err != nil {
			return err
		}
		next, ok := p.NextOnOrAfter(ref)
		if !ok {
			updated.Status = models.RecurringStatusInactive
			next = recurring.Day(old.NextDueDate)
		}
		updated.NextDueDate = next
		return repo.UpdateRecurring(ctx, &updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recurring transaction: %w", err)
	}

	zap.L().Info("Recurring transaction updated",
		zap.String("recurring_id", updated.Id),
		zap.String("status", string(updated.Status)),
		zap.String("next_due", updated.NextDueDate.Format(time.DateOnly)))
	return &updated, nil
}

func (s *LedgerService) StopRecurringTransaction(ctx context.Context, id string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		rt, err := repo.GetRecurring(ctx, id)
		if err != nil {
			return err
		}
		if rt.Status == models.RecurringStatusInactive {
			return fmt.Errorf("recurring transaction %s: %w", id, ErrAlreadyInactive)
		}
		rt.Status = models.RecurringStatusInactive
		return repo.UpdateRecurring(ctx, rt)
	})
	if err != nil {
		return fmt.Errorf("failed to stop recurring transaction: %w", err)
	}
	zap.L().Info("Recurring transaction stopped", zap.String("recurring_id", id))
	return nil
}

// DeleteRecurringTransaction removes the template only. Transactions it
// already produced are kept.
func (s *LedgerService) DeleteRecurringTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteRecurring(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recurring transaction: %w", err)
	}
	zap.L().Info("Recurring transaction deleted", zap.String("recurring_id", id))
	return nil
}

// GetLastTransactionDate returns the last occurrence of a schedule within
// [start, end].
func (s *LedgerService) GetLastTransactionDate(start, end time.Time, frequency models.Frequency) (time.Time, error) {
	if err := recurring.ValidateWindow(start, end, frequency); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	p, err := recurring.New(start, &end, frequency)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	last, _ := p.LastOnOrBefore(end)
	return last, nil
}

// ProcessRecurringTransactions materializes a PENDING transaction for every
// occurrence due on or before today and returns how many were created. Each
// template is processed in its own transaction; a failing template is
// logged and skipped.
func (s *LedgerService) ProcessRecurringTransactions(ctx context.Context, today time.Time) (int, error) {
	today = recurring.Day(today)
	templates, err := s.store.ListRecurringByStatus(ctx, models.RecurringStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to list recurring transactions: %w", err)
	}

	created := 0
	for _, rt := range templates {
		var count int
		err := s.store.WithinTx(ctx, func(repo store.Repository) error {
			var err error
			count, err = materialize(ctx, repo, rt, today)
			return err
		})
		if err != nil {
			zap.L().Warn("Failed to process recurring transaction",
				zap.String("recurring_id", rt.Id),
				zap.Error(err))
			continue
		}
		created += count
	}

	zap.L().Info("Recurring transactions processed",
		zap.String("today", today.Format(time.DateOnly)),
		zap.Int("templates", len(templates)),
		zap.Int("created", created))
	return created, nil
}

func materialize(ctx context.Context, repo store.Repository, rt models.RecurringTransaction, today time.Time) (int, error) {
	p, err := recurring.New(rt.StartDate, rt.EndDate, rt.Frequency)
	if err != nil {
		return 0, err
	}

	dates := p.Between(rt.NextDueDate, today)
	for _, date := range dates {
		tx := models.WalletTransaction{
			WalletId:    rt.WalletId,
			CategoryId:  rt.CategoryId,
			Type:        rt.Type,
			Status:      models.TransactionStatusPending,
			Amount:      rt.Amount,
			Date:        date,
			Description: rt.Description,
		}
		if err := recordTransaction(ctx, repo, &tx); err != nil {
			return 0, err
		}
	}

	next, ok := p.NextOnOrAfter(today.AddDate(0, 0, 1))
	if !ok {
		rt.Status = models.RecurringStatusInactive
		zap.L().Info("Recurring transaction reached its end", zap.String("recurring_id", rt.Id))
	} else {
		rt.NextDueDate = next
	}
	if err := repo.UpdateRecurring(ctx, &rt); err != nil {
		return 0, err
	}
	return len(dates), nil
}

// ExpectedRemainingAmount is what a template will still produce from its
// next due date on. bounded is false for templates without an end, whose
// remaining amount is unbounded.
func (s *LedgerService) ExpectedRemainingAmount(ctx context.Context, id string) (amount decimal.Decimal, bounded bool, err error) {
	rt, err := s.store.GetRecurring(ctx, id)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get recurring transaction: %w", err)
	}
	if rt.Status == models.RecurringStatusInactive {
		return decimal.Zero, true, nil
	}
	if rt.EndDate == nil {
		return decimal.Zero, false, nil
	}

	p, err := recurring.New(rt.StartDate, rt.EndDate, rt.Frequency)
	if err != nil {
		return decimal.Zero, false, err
	}
	remaining := len(p.Between(rt.NextDueDate, *rt.EndDate))
	return rt.Amount.Mul(decimal.NewFromInt(int64(remaining))), true, nil
}

// ProjectRecurring lists the transactions active templates would produce in
// [from, to] without recording them.
func (s *LedgerService) ProjectRecurring(ctx context.Context, from, to time.Time) ([]models.WalletTransaction, error) {
	templates, err := s.store.ListRecurringByStatus(ctx, models.RecurringStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}

	var projected []models.WalletTransaction
	for _, rt := range templates {
		p, err := recurring.New(rt.StartDate, rt.EndDate, rt.Frequency)
		if err != nil {
			zap.L().Warn("Skipping invalid recurring transaction", zap.String("recurring_id", rt.Id), zap.Error(err))
			continue
		}
		start := from
		if rt.NextDueDate.After(start) {
			start = rt.NextDueDate
		}
		for _, date := range p.Between(start, to) {
			projected = append(projected, models.WalletTransaction{
				WalletId:    rt.WalletId,
				CategoryId:  rt.CategoryId,
				Type:        rt.Type,
				Status:      models.TransactionStatusPending,
				Amount:      rt.Amount,
				Date:        date,
				Description: rt.Description,
			})
		}
	}
	return projected, nil
}

func validateRecurring(rt *models.RecurringTransaction) error {
	if rt.WalletId == "" || rt.CategoryId == "" {
		return invalid("wallet and category are required")
	}
	if !rt.Type.Valid() {
		return invalid("unknown transaction type %q", rt.Type)
	}
	amount, err := positiveAmount("recurring amount", rt.Amount)
	if err != nil {
		return err
	}
	rt.Amount = amount

	frequency, err := models.ParseFrequency(string(rt.Frequency))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	rt.Frequency = frequency

	if rt.EndDate != nil {
		if err := recurring.ValidateWindow(rt.StartDate, *rt.EndDate, rt.Frequency); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := recurring.Day(*t)
	return &d
}
