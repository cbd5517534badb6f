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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func scanCreditCard(row rowScanner) (*models.CreditCard, error) {
	var c models.CreditCard
	err := row.Scan(&c.Id, &c.Name, &c.MaxDebt, &c.ClosingDay, &c.BillingDueDay, &c.LastFourDigits,
		&c.DefaultBillingWalletId, &c.AvailableRebate, &c.Archived)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanDebt(row rowScanner) (*models.CreditCardDebt, error) {
	var d models.CreditCardDebt
	err := row.Scan(&d.Id, &d.CreditCardId, &d.CategoryId, &d.Amount, &d.Installments, &d.Date, &d.Description)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanPayment(row rowScanner) (*models.CreditCardPayment, error) {
	var p models.CreditCardPayment
	err := row.Scan(&p.Id, &p.DebtId, &p.CreditCardId, &p.Installment, &p.Amount, &p.InvoiceYear,
		&p.InvoiceMonth, &p.DueDate, &p.Paid, &p.WalletId, &p.RebateUsed, &p.WalletTransactionId)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *Queries) InsertCreditCard(ctx context.Context, card *models.CreditCard) error {
	if card.Id == "" {
		card.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertCreditCard,
		card.Id, card.Name, card.MaxDebt, card.ClosingDay, card.BillingDueDay, card.LastFourDigits,
		card.DefaultBillingWalletId, card.AvailableRebate, card.Archived)
	if err != nil {
		return insertError(err, "credit card "+card.Name)
	}
	return nil
}

func (q *Queries) GetCreditCard(ctx context.Context, id string) (*models.CreditCard, error) {
	c, err := scanCreditCard(q.db.QueryRowContext(ctx, queryGetCreditCard, id))
	if err != nil {
		return nil, getError(err, "credit card", id)
	}
	return c, nil
}

func (q *Queries) ListCreditCards(ctx context.Context) ([]models.CreditCard, error) {
	rows, err := q.db.QueryContext(ctx, queryListCreditCards)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit cards: %w", err)
	}
	defer closeRows(rows)

	var cards []models.CreditCard
	for rows.Next() {
		c, err := scanCreditCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit card: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit card rows: %w", err)
	}
	return cards, nil
}

func (q *Queries) UpdateCreditCard(ctx context.Context, card *models.CreditCard) error {
	result, err := q.db.ExecContext(ctx, queryUpdateCreditCard,
		card.Name, card.MaxDebt, card.ClosingDay, card.BillingDueDay, card.LastFourDigits,
		card.DefaultBillingWalletId, card.AvailableRebate, card.Archived, card.Id)
	if err != nil {
		return fmt.Errorf("failed to update credit card: %w", err)
	}
	return expectRow(result, "credit card", card.Id)
}

func (q *Queries) DeleteCreditCard(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteCreditCard, id)
	if err != nil {
		return fmt.Errorf("failed to delete credit card: %w", err)
	}
	return expectRow(result, "credit card", id)
}

func (q *Queries) InsertDebt(ctx context.Context, debt *models.CreditCardDebt) error {
	if debt.Id == "" {
		debt.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertDebt,
		debt.Id, debt.CreditCardId, debt.CategoryId, debt.Amount, debt.Installments, debt.Date, debt.Description)
	if err != nil {
		return insertError(err, "credit card debt")
	}
	return nil
}

func (q *Queries) GetDebt(ctx context.Context, id string) (*models.CreditCardDebt, error) {
	d, err := scanDebt(q.db.QueryRowContext(ctx, queryGetDebt, id))
	if err != nil {
		return nil, getError(err, "credit card debt", id)
	}
	return d, nil
}

func (q *Queries) UpdateDebt(ctx context.Context, debt *models.CreditCardDebt) error {
	result, err := q.db.ExecContext(ctx, queryUpdateDebt,
		debt.CreditCardId, debt.CategoryId, debt.Amount, debt.Installments, debt.Date, debt.Description, debt.Id)
	if err != nil {
		return fmt.Errorf("failed to update credit card debt: %w", err)
	}
	return expectRow(result, "credit card debt", debt.Id)
}

func (q *Queries) DeleteDebt(ctx context.Context, id string) error {
	result, err := q.db.ExecContext(ctx, queryDeleteDebt, id)
	if err != nil {
		return fmt.Errorf("failed to delete credit card debt: %w", err)
	}
	return expectRow(result, "credit card debt", id)
}

func (q *Queries) CountDebtsByCard(ctx context.Context, cardId string) (int, error) {
	var count int
	if err := q.db.QueryRowContext(ctx, queryCountDebtsByCard, cardId).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count debts of credit card %s: %w", cardId, err)
	}
	return count, nil
}

func (q *Queries) InsertPayment(ctx context.Context, payment *models.CreditCardPayment) error {
	if payment.Id == "" {
		payment.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertPayment,
		payment.Id, payment.DebtId, payment.CreditCardId, payment.Installment, payment.Amount,
		payment.InvoiceYear, int(payment.InvoiceMonth), payment.DueDate, payment.Paid,
		payment.WalletId, payment.RebateUsed, payment.WalletTransactionId)
	if err != nil {
		return insertError(err, fmt.Sprintf("payment %d of debt %s", payment.Installment, payment.DebtId))
	}
	return nil
}

func (q *Queries) UpdatePayment(ctx context.Context, payment *models.CreditCardPayment) error {
	result, err := q.db.ExecContext(ctx, queryUpdatePayment,
		payment.Amount, payment.InvoiceYear, int(payment.InvoiceMonth), payment.DueDate, payment.Paid,
		payment.WalletId, payment.RebateUsed, payment.WalletTransactionId, payment.Id)
	if err != nil {
		return fmt.Errorf("failed to update credit card payment: %w", err)
	}
	return expectRow(result, "credit card payment", payment.Id)
}

func (q *Queries) DeletePaymentsByDebt(ctx context.Context, debtId string) error {
	result, err := q.db.ExecContext(ctx, queryDeletePaymentsByDebt, debtId)
	if err != nil {
		return fmt.Errorf("failed to delete payments of debt %s: %w", debtId, err)
	}
	deleted, _ := result.RowsAffected()
	zap.L().Debug("Deleted debt payments", zap.String("debt_id", debtId), zap.Int64("count", deleted))
	return nil
}

func (q *Queries) ListPaymentsByDebt(ctx context.Context, debtId string) ([]models.CreditCardPayment, error) {
	return q.listPayments(ctx, queryListPaymentsByDebt, debtId)
}

func (q *Queries) ListUnpaidPaymentsByCard(ctx context.Context, cardId string) ([]models.CreditCardPayment, error) {
	return q.listPayments(ctx, queryListUnpaidPaymentsByCard, cardId)
}

func (q *Queries) ListInvoicePayments(ctx context.Context, cardId string, year int, month int) ([]models.CreditCardPayment, error) {
	return q.listPayments(ctx, queryListInvoicePayments, cardId, year, month)
}

func (q *Queries) listPayments(ctx context.Context, query string, args ...any) ([]models.CreditCardPayment, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query credit card payments", zap.Error(err))
		return nil, fmt.Errorf("failed to query credit card payments: %w", err)
	}
	defer closeRows(rows)

	var payments []models.CreditCardPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit card payment: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit card payment rows: %w", err)
	}
	return payments, nil
}

func (q *Queries) InsertCredit(ctx context.Context, credit *models.CreditCardCredit) error {
	if credit.Id == "" {
		credit.Id = uuid.New().String()
	}
	_, err := q.db.ExecContext(ctx, queryInsertCredit,
		credit.Id, credit.CreditCardId, credit.Type, credit.Amount, credit.Date, credit.Description)
	if err != nil {
		return insertError(err, "credit card credit")
	}
	return nil
}

func (q *Queries) ListCreditsByCard(ctx context.Context, cardId string) ([]models.CreditCardCredit, error) {
	rows, err := q.db.QueryContext(ctx, queryListCreditsByCard, cardId)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit card credits: %w", err)
	}
	defer closeRows(rows)

	var credits []models.CreditCardCredit
	for rows.Next() {
		var c models.CreditCardCredit
		if err := rows.Scan(&c.Id, &c.CreditCardId, &c.Type, &c.Amount, &c.Date, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan credit card credit: %w", err)
		}
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit card credit rows: %w", err)
	}
	return credits, nil
}
