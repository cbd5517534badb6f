package models

import (
	"fmt"
	"strings"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
)

func (s TransactionStatus) Valid() bool {
	return s == TransactionStatusPending || s == TransactionStatusConfirmed
}

type TickerType string

const (
	TickerTypeStock          TickerType = "STOCK"
	TickerTypeFund           TickerType = "FUND"
	TickerTypeCryptocurrency TickerType = "CRYPTOCURRENCY"
)

func (t TickerType) Valid() bool {
	switch t {
	case TickerTypeStock, TickerTypeFund, TickerTypeCryptocurrency:
		return true
	}
	return false
}

type CreditType string

const (
	CreditTypeCashback CreditType = "CASHBACK"
	CreditTypeRefund   CreditType = "REFUND"
)

func (t CreditType) Valid() bool {
	return t == CreditTypeCashback || t == CreditTypeRefund
}

// Frequency is the step between two occurrences of a recurring transaction.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// ParseFrequency accepts any casing of the frequency names.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

type RecurringStatus string

const (
	RecurringStatusActive   RecurringStatus = "ACTIVE"
	RecurringStatusInactive RecurringStatus = "INACTIVE"
)

// Outcome reports how an operation that may legitimately do nothing ended.
type Outcome string

const (
	OutcomeApplied     Outcome = "applied"
	OutcomeNoChanges   Outcome = "no_changes"
	OutcomeAlreadyPaid Outcome = "already_paid"
)
