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
	"errors"
	"fmt"
	"strings"
	"time"

	"personal-ledger-go/internal/installment"
	"personal-ledger-go/internal/models"
	"personal-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceCategoryName is the category of the wallet expense that settles an
// invoice. It is created on first use.
const InvoiceCategoryName = "Credit Card Invoice"

func (s *LedgerService) AddCreditCard(ctx context.Context, card models.CreditCard) (*models.CreditCard, error) {
	if err := validateCreditCard(&card); err != nil {
		return nil, err
	}
	card.Id = ""
	card.AvailableRebate = decimal.Zero
	card.Archived = false

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		if card.DefaultBillingWalletId != "" {
			if _, err := repo.GetWallet(ctx, card.DefaultBillingWalletId); err != nil {
				return err
			}
		}
		return repo.InsertCreditCard(ctx, &card)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add credit card: %w", err)
	}

	zap.L().Info("Credit card added",
		zap.String("credit_card_id", card.Id),
		zap.String("name", card.Name),
		zap.String("max_debt", card.MaxDebt.String()))
	return &card, nil
}

func (s *LedgerService) GetCreditCard(ctx context.Context, id string) (*models.CreditCard, error) {
	return s.store.GetCreditCard(ctx, id)
}

func (s *LedgerService) ListCreditCards(ctx context.Context) ([]models.CreditCard, error) {
	return s.store.ListCreditCards(ctx)
}

// UpdateCreditCard changes a card's settings. The available rebate and the
// archive flag are kept as stored, and the limit cannot drop below what is
// already owed.
func (s *LedgerService) UpdateCreditCard(ctx context.Context, card models.CreditCard) (*models.CreditCard, error) {
	if err := validateCreditCard(&card); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		stored, err := repo.GetCreditCard(ctx, card.Id)
		if err != nil {
			return err
		}
		if card.DefaultBillingWalletId != "" {
			if _, err := repo.GetWallet(ctx, card.DefaultBillingWalletId); err != nil {
				return err
			}
		}
		owed, err := unpaidTotal(ctx, repo, card.Id)
		if err != nil {
			return err
		}
		if card.MaxDebt.LessThan(owed) {
			return fmt.Errorf("limit %s is below the unpaid total %s: %w",
				card.MaxDebt.String(), owed.String(), ErrInsufficientCredit)
		}
		card.AvailableRebate = stored.AvailableRebate
		card.Archived = stored.Archived
		return repo.UpdateCreditCard(ctx, &card)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update credit card: %w", err)
	}

	zap.L().Info("Credit card updated", zap.String("credit_card_id", card.Id))
	return &card, nil
}

// ArchiveCreditCard hides a card once every installment on it is paid.
func (s *LedgerService) ArchiveCreditCard(ctx context.Context, cardId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		card, err := repo.GetCreditCard(ctx, cardId)
		if err != nil {
			return err
		}
		unpaid, err := repo.ListUnpaidPaymentsByCard(ctx, cardId)
		if err != nil {
			return err
		}
		if len(unpaid) > 0 {
			return fmt.Errorf("credit card %s has %d unpaid installments: %w", cardId, len(unpaid), ErrHasDependents)
		}
		card.Archived = true
		return repo.UpdateCreditCard(ctx, card)
	})
	if err != nil {
		return fmt.Errorf("failed to archive credit card: %w", err)
	}
	zap.L().Info("Credit card archived", zap.String("credit_card_id", cardId))
	return nil
}

func (s *LedgerService) DeleteCreditCard(ctx context.Context, cardId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		debts, err := repo.CountDebtsByCard(ctx, cardId)
		if err != nil {
			return err
		}
		if debts > 0 {
			return fmt.Errorf("credit card %s has %d debts: %w", cardId, debts, ErrHasDependents)
		}
		return repo.DeleteCreditCard(ctx, cardId)
	})
	if err != nil {
		return fmt.Errorf("failed to delete credit card: %w", err)
	}
	zap.L().Info("Credit card deleted", zap.String("credit_card_id", cardId))
	return nil
}

// AddCredit records a cashback or refund and raises the card's rebate.
func (s *LedgerService) AddCredit(ctx context.Context, cardId string, creditType models.CreditType, amount decimal.Decimal, date time.Time, description string) (*models.CreditCardCredit, error) {
	if !creditType.Valid() {
		return nil, invalid("unknown credit type %q", creditType)
	}
	amount, err := positiveAmount("credit amount", amount)
	if err != nil {
		return nil, err
	}

	credit := models.CreditCardCredit{
		CreditCardId: cardId,
		Type:         creditType,
		Amount:       amount,
		Date:         date.UTC(),
		Description:  description,
	}
	err = s.store.WithinTx(ctx, func(repo store.Repository) error {
		card, err := repo.GetCreditCard(ctx, cardId)
		if err != nil {
			return err
		}
		if err := repo.InsertCredit(ctx, &credit); err != nil {
			return err
		}
		card.AvailableRebate = card.AvailableRebate.Add(amount)
		return repo.UpdateCreditCard(ctx, card)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add credit: %w", err)
	}

	zap.L().Info("Credit card credit added",
		zap.String("credit_card_id", cardId),
		zap.String("type", string(creditType)),
		zap.String("amount", amount.String()))
	return &credit, nil
}

// RegisterDebt records a purchase on a card and its installment schedule,
// starting on invoiceMonth. The whole amount must fit in the available credit.
func (s *LedgerService) RegisterDebt(ctx context.Context, cardId, categoryId string, registerDate time.Time, invoiceMonth installment.YearMonth, amount decimal.Decimal, installments int, description string) (*models.CreditCardDebt, error) {
	debt := models.CreditCardDebt{
		CreditCardId: cardId,
		CategoryId:   categoryId,
		Amount:       amount,
		Installments: installments,
		Date:         registerDate.UTC(),
		Description:  description,
	}
	if err := validateDebt(&debt); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		card, err := repo.GetCreditCard(ctx, cardId)
		if err != nil {
			return err
		}
		if card.Archived {
			return invalid("credit card %s is archived", cardId)
		}
		if _, err := repo.GetCategory(ctx, categoryId); err != nil {
			return err
		}
		owed, err := unpaidTotal(ctx, repo, cardId)
		if err != nil {
			return err
		}
		if available := card.MaxDebt.Sub(owed); debt.Amount.GreaterThan(available) {
			return fmt.Errorf("debt %s exceeds available credit %s: %w",
				debt.Amount.String(), available.String(), ErrInsufficientCredit)
		}
		if err := repo.InsertDebt(ctx, &debt); err != nil {
			return err
		}
		return writeSchedule(ctx, repo, &debt, card, invoiceMonth)
	})
	if err != nil {
		zap.L().Error("Failed to register debt",
			zap.String("credit_card_id", cardId),
			zap.String("amount", debt.Amount.String()),
			zap.Int("installments", installments),
			zap.Error(err))
		return nil, fmt.Errorf("failed to register debt: %w", err)
	}

	zap.L().Info("Debt registered",
		zap.String("debt_id", debt.Id),
		zap.String("credit_card_id", cardId),
		zap.String("amount", debt.Amount.String()),
		zap.Int("installments", installments),
		zap.String("first_invoice", invoiceMonth.String()))
	return &debt, nil
}

// UpdateCreditCardDebt replaces a debt and regenerates its whole schedule.
// When nothing differs from the stored debt it returns OutcomeNoChanges and
// writes nothing.
func (s *LedgerService) UpdateCreditCardDebt(ctx context.Context, updated models.CreditCardDebt, invoiceMonth installment.YearMonth) (models.Outcome, error) {
	if err := validateDebt(&updated); err != nil {
		return "", err
	}
	updated.Date = updated.Date.UTC()

	outcome := models.OutcomeApplied
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		old, err := repo.GetDebt(ctx, updated.Id)
		if err != nil {
			return err
		}
		payments, err := repo.ListPaymentsByDebt(ctx, old.Id)
		if err != nil {
			return err
		}
		if sameDebt(old, &updated) && len(payments) > 0 && firstInvoice(payments) == invoiceMonth {
			outcome = models.OutcomeNoChanges
			return nil
		}
		if settled(payments) {
			return fmt.Errorf("debt %s: %w", old.Id, ErrScheduleSettled)
		}

		card, err := repo.GetCreditCard(ctx, updated.CreditCardId)
		if err != nil {
			return err
		}
		if _, err := repo.GetCategory(ctx, updated.CategoryId); err != nil {
			return err
		}
		owed, err := unpaidTotal(ctx, repo, card.Id)
		if err != nil {
			return err
		}
		if old.CreditCardId == card.Id {
			owed = owed.Sub(sumPayments(payments))
		}
		if available := card.MaxDebt.Sub(owed); updated.Amount.GreaterThan(available) {
			return fmt.Errorf("debt %s exceeds available credit %s: %w",
				updated.Amount.String(), available.String(), ErrInsufficientCredit)
		}

		if err := repo.DeletePaymentsByDebt(ctx, old.Id); err != nil {
			return err
		}
		if err := repo.UpdateDebt(ctx, &updated); err != nil {
			return err
		}
		return writeSchedule(ctx, repo, &updated, card, invoiceMonth)
	})
	if err != nil {
		return "", fmt.Errorf("failed to update debt: %w", err)
	}

	if outcome == models.OutcomeNoChanges {
		zap.L().Info("Debt unchanged", zap.String("debt_id", updated.Id))
		return outcome, nil
	}
	zap.L().Info("Debt updated and schedule regenerated",
		zap.String("debt_id", updated.Id),
		zap.String("amount", updated.Amount.String()),
		zap.Int("installments", updated.Installments),
		zap.String("first_invoice", invoiceMonth.String()))
	return outcome, nil
}

func (s *LedgerService) DeleteDebt(ctx context.Context, debtId string) error {
	err := s.store.WithinTx(ctx, func(repo store.Repository) error {
		payments, err := repo.ListPaymentsByDebt(ctx, debtId)
		if err != nil {
			return err
		}
		if settled(payments) {
			return fmt.Errorf("debt %s: %w", debtId, ErrScheduleSettled)
		}
		if err := repo.DeletePaymentsByDebt(ctx, debtId); err != nil {
			return err
		}
		return repo.DeleteDebt(ctx, debtId)
	})
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	zap.L().Info("Debt deleted", zap.String("debt_id", debtId))
	return nil
}

// GetAvailableCredit is the card limit minus every unpaid installment.
func (s *LedgerService) GetAvailableCredit(ctx context.Context, cardId string) (decimal.Decimal, error) {
	card, err := s.store.GetCreditCard(ctx, cardId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get available credit: %w", err)
	}
	owed, err := unpaidTotal(ctx, s.store, cardId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get available credit: %w", err)
	}
	available := card.MaxDebt.Sub(owed)

	zap.L().Debug("Available credit computed",
		zap.String("credit_card_id", cardId),
		zap.String("max_debt", card.MaxDebt.String()),
		zap.String("owed", owed.String()),
		zap.String("available", available.String()))
	return available, nil
}

// GetInvoiceAmount totals an invoice, paid installments included.
func (s *LedgerService) GetInvoiceAmount(ctx context.Context, cardId string, month time.Month, year int) (decimal.Decimal, error) {
	if _, err := installment.NewYearMonth(year, month); err != nil {
		return decimal.Zero, invalid("%v", err)
	}
	payments, err := s.store.ListInvoicePayments(ctx, cardId, year, int(month))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get invoice amount: %w", err)
	}
	return sumPayments(payments), nil
}

// GetNextInvoiceMonth returns the oldest invoice with unpaid installments,
// or the invoice currently open when nothing is owed.
func (s *LedgerService) GetNextInvoiceMonth(ctx context.Context, cardId string) (installment.YearMonth, error) {
	card, err := s.store.GetCreditCard(ctx, cardId)
	if err != nil {
		return installment.YearMonth{}, fmt.Errorf("failed to get next invoice: %w", err)
	}
	unpaid, err := s.store.ListUnpaidPaymentsByCard(ctx, cardId)
	if err != nil {
		return installment.YearMonth{}, fmt.Errorf("failed to get next invoice: %w", err)
	}
	if len(unpaid) == 0 {
		return installment.InvoiceFor(s.now(), card.ClosingDay), nil
	}
	return firstInvoice(unpaid), nil
}

// PayInvoice settles the unpaid installments of an invoice with a single
// expense on walletId. Paying an invoice with nothing left unpaid returns
// OutcomeAlreadyPaid and changes nothing.
func (s *LedgerService) PayInvoice(ctx context.Context, cardId, walletId string, month time.Month, year int) (models.Outcome, error) {
	return s.payInvoice(ctx, cardId, walletId, month, year, decimal.Zero)
}

// PayInvoiceWithRebate works like PayInvoice but first spends rebate from
// the card's available rebate. Only the rest is debited from the wallet.
func (s *LedgerService) PayInvoiceWithRebate(ctx context.Context, cardId, walletId string, month time.Month, year int, rebate decimal.Decimal) (models.Outcome, error) {
	rebate = roundAmount(rebate)
	if rebate.IsNegative() {
		return "", invalid("rebate cannot be negative, got %s", rebate.String())
	}
	return s.payInvoice(ctx, cardId, walletId, month, year, rebate)
}

func (s *LedgerService) payInvoice(ctx context.Context, cardId, walletId string, month time.Month, year int, rebate decimal.Decimal) (models.Outcome, error) {
	invoice, err := installment.NewYearMonth(year, month)
	if err != nil {
		return "", invalid("%v", err)
	}
	if walletId == "" {
		return "", invalid("wallet is required")
	}

	outcome := models.OutcomeApplied
	var total decimal.Decimal
	err = s.store.WithinTx(ctx, func(repo store.Repository) error {
		card, err := repo.GetCreditCard(ctx, cardId)
		if err != nil {
			return err
		}
		payments, err := repo.ListInvoicePayments(ctx, cardId, invoice.Year, int(invoice.Month))
		if err != nil {
			return err
		}
		var unpaid []models.CreditCardPayment
		for _, p := range payments {
			if !p.Paid {
				unpaid = append(unpaid, p)
			}
		}
		total = sumPayments(unpaid)
		if total.IsZero() {
			outcome = models.OutcomeAlreadyPaid
			return nil
		}

		if rebate.GreaterThan(card.AvailableRebate) {
			return fmt.Errorf("rebate %s exceeds available %s: %w",
				rebate.String(), card.AvailableRebate.String(), ErrInsufficientRebate)
		}
		if rebate.GreaterThan(total) {
			return invalid("rebate %s exceeds invoice total %s", rebate.String(), total.String())
		}
		if _, err := repo.GetWallet(ctx, walletId); err != nil {
			return err
		}

		var transactionId string
		if charged := total.Sub(rebate); charged.IsPositive() {
			category, err := invoiceCategory(ctx, repo)
			if err != nil {
				return err
			}
			tx := models.WalletTransaction{
				WalletId:    walletId,
				CategoryId:  category.Id,
				Type:        models.TransactionTypeExpense,
				Status:      models.TransactionStatusConfirmed,
				Amount:      charged,
				Date:        s.now(),
				Description: fmt.Sprintf("%s invoice %s", card.Name, invoice.String()),
			}
			if err := recordTransaction(ctx, repo, &tx); err != nil {
				return err
			}
			transactionId = tx.Id
		}

		remaining := rebate
		for i := range unpaid {
			p := &unpaid[i]
			used := decimal.Min(remaining, p.Amount)
			remaining = remaining.Sub(used)
			p.Paid = true
			p.WalletId = walletId
			p.RebateUsed = used
			p.WalletTransactionId = transactionId
			if err := repo.UpdatePayment(ctx, p); err != nil {
				return err
			}
		}

		if rebate.IsPositive() {
			card.AvailableRebate = card.AvailableRebate.Sub(rebate)
			if err := repo.UpdateCreditCard(ctx, card); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("Invoice payment failed",
			zap.String("credit_card_id", cardId),
			zap.String("invoice", invoice.String()),
			zap.Error(err))
		return "", fmt.Errorf("failed to pay invoice: %w", err)
	}

	if outcome == models.OutcomeAlreadyPaid {
		zap.L().Info("Invoice already paid",
			zap.String("credit_card_id", cardId),
			zap.String("invoice", invoice.String()))
		return outcome, nil
	}
	zap.L().Info("Invoice paid",
		zap.String("credit_card_id", cardId),
		zap.String("wallet_id", walletId),
		zap.String("invoice", invoice.String()),
		zap.String("total", total.String()),
		zap.String("rebate", rebate.String()))
	return outcome, nil
}

func writeSchedule(ctx context.Context, repo store.Repository, debt *models.CreditCardDebt, card *models.CreditCard, start installment.YearMonth) error {
	schedule, err := installment.Schedule(debt.Amount, debt.Installments, start, card.BillingDueDay)
	if err != nil {
		return err
	}
	for _, inst := range schedule {
		payment := &models.CreditCardPayment{
			DebtId:       debt.Id,
			CreditCardId: card.Id,
			Installment:  inst.Index,
			Amount:       inst.Amount,
			InvoiceYear:  inst.Invoice.Year,
			InvoiceMonth: inst.Invoice.Month,
			DueDate:      inst.DueDate,
			RebateUsed:   decimal.Zero,
		}
		if err := repo.InsertPayment(ctx, payment); err != nil {
			return err
		}
	}
	return nil
}

func invoiceCategory(ctx context.Context, repo store.Repository) (*models.Category, error) {
	category, err := repo.GetCategoryByName(ctx, InvoiceCategoryName)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	category = &models.Category{Name: InvoiceCategoryName}
	if err := repo.InsertCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func unpaidTotal(ctx context.Context, repo store.CreditCardRepository, cardId string) (decimal.Decimal, error) {
	unpaid, err := repo.ListUnpaidPaymentsByCard(ctx, cardId)
	if err != nil {
		return decimal.Zero, err
	}
	return sumPayments(unpaid), nil
}

func sumPayments(payments []models.CreditCardPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

func settled(payments []models.CreditCardPayment) bool {
	for _, p := range payments {
		if p.Paid {
			return true
		}
	}
	return false
}

// firstInvoice returns the earliest invoice among payments, which must not
// be empty.
func firstInvoice(payments []models.CreditCardPayment) installment.YearMonth {
	first := installment.YearMonth{Year: payments[0].InvoiceYear, Month: payments[0].InvoiceMonth}
	for _, p := range payments[1:] {
		if ym := (installment.YearMonth{Year: p.InvoiceYear, Month: p.InvoiceMonth}); ym.Before(first) {
			first = ym
		}
	}
	return first
}

// sameDebt compares every mutable field of a debt.
func sameDebt(old, updated *models.CreditCardDebt) bool {
	return old.CreditCardId == updated.CreditCardId &&
		old.CategoryId == updated.CategoryId &&
		old.Amount.Equal(updated.Amount) &&
		old.Installments == updated.Installments &&
		old.Date.Equal(updated.Date) &&
		old.Description == updated.Description
}

func validateDebt(debt *models.CreditCardDebt) error {
	if debt.CreditCardId == "" || debt.CategoryId == "" {
		return invalid("credit card and category are required")
	}
	amount, err := positiveAmount("debt amount", debt.Amount)
	if err != nil {
		return err
	}
	debt.Amount = amount
	if _, err := installment.Split(amount, debt.Installments); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func validateCreditCard(card *models.CreditCard) error {
	card.Name = strings.TrimSpace(card.Name)
	if card.Name == "" {
		return invalid("credit card name cannot be empty")
	}
	if !card.MaxDebt.IsPositive() {
		return invalid("max debt must be greater than zero, got %s", card.MaxDebt.String())
	}
	card.MaxDebt = roundAmount(card.MaxDebt)
	if len(card.LastFourDigits) != 4 || strings.Trim(card.LastFourDigits, "0123456789") != "" {
		return invalid("last four digits must be 4 digits, got %q", card.LastFourDigits)
	}
	if err := installment.ValidateDay(card.ClosingDay); err != nil {
		return fmt.Errorf("%w: closing day: %w", ErrValidation, err)
	}
	if err := installment.ValidateDay(card.BillingDueDay); err != nil {
		return fmt.Errorf("%w: billing due day: %w", ErrValidation, err)
	}
	return nil
}
