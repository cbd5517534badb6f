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

package installment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxInstallments = 999
	MaxBillingDay   = 28

	// amounts are kept to the cent
	amountScale = 2

	dueHour   = 23
	dueMinute = 59
)

var (
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrInvalidInstallments   = errors.New("invalid number of installments")
	ErrInstallmentResolution = errors.New("installments exceed the amount's resolution")
	ErrInvalidDay            = errors.New("day must be between 1 and 28")
)

// Installment is one slice of a debt and the invoice it is billed on.
type Installment struct {
	Index   int
	Amount  decimal.Decimal
	Invoice YearMonth
	DueDate time.Time
}

// Split divides total into n cent-exact amounts. Every installment gets
// floor(total/n) and the first one also absorbs the remainder, so the
// amounts always sum to total.
func Split(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 || n > MaxInstallments {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidInstallments, n, MaxInstallments)
	}

	total = total.Round(amountScale)
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, total.String())
	}

	count := decimal.NewFromInt(int64(n))
	base, _ := total.QuoRem(count, amountScale)
	if base.IsZero() {
		return nil, fmt.Errorf("%w: %s in %d installments", ErrInstallmentResolution, total.String(), n)
	}
	remainder := total.Sub(base.Mul(count))

	amounts := make([]decimal.Decimal, n)
	amounts[0] = base.Add(remainder)
	for i := 1; i < n; i++ {
		amounts[i] = base
	}
	return amounts, nil
}

// Schedule splits total into n installments billed on consecutive invoices
// starting at start. Each installment is due on billingDueDay of its
// invoice month at 23:59.
func Schedule(total decimal.Decimal, n int, start YearMonth, billingDueDay int) ([]Installment, error) {
	if err := ValidateDay(billingDueDay); err != nil {
		return nil, fmt.Errorf("billing due day: %w", err)
	}

	amounts, err := Split(total, n)
	if err != nil {
		return nil, err
	}

	installments := make([]Installment, n)
	for i, amount := range amounts {
		invoice := start.AddMonths(i)
		installments[i] = Installment{
			Index:   i + 1,
			Amount:  amount,
			Invoice: invoice,
			DueDate: invoice.At(billingDueDay, dueHour, dueMinute),
		}
	}
	return installments, nil
}

// InvoiceFor returns the invoice a charge made on date lands on. Charges
// after the closing day roll over to the next month's invoice.
func InvoiceFor(date time.Time, closingDay int) YearMonth {
	ym := Of(date)
	if date.Day() > closingDay {
		return ym.AddMonths(1)
	}
	return ym
}

type InvoiceStatus string

const (
	InvoiceOpen   InvoiceStatus = "OPEN"
	InvoiceClosed InvoiceStatus = "CLOSED"
)

// StatusOf reports whether invoice is still accepting charges given the
// invoice currently being filled.
func StatusOf(invoice, current YearMonth) InvoiceStatus {
	if invoice.Before(current) {
		return InvoiceClosed
	}
	return InvoiceOpen
}

func ValidateDay(day int) error {
	if day < 1 || day > MaxBillingDay {
		return fmt.Errorf("%w: got %d", ErrInvalidDay, day)
	}
	return nil
}
