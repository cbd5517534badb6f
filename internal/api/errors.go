package api

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrInsufficientCredit    = errors.New("insufficient credit")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientRebate    = errors.New("insufficient rebate")
	ErrSameSourceDestination = errors.New("source and destination must differ")
	ErrInvalidTickerType     = errors.New("invalid ticker type")
	ErrHasDependents         = errors.New("record has dependent records")
	ErrAlreadyInactive       = errors.New("recurring transaction is already inactive")
	ErrScheduleSettled       = errors.New("debt has paid installments")
	ErrBalanceMismatch       = errors.New("wallet balance does not match its transactions")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
