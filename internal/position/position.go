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

// Package position tracks a holding as a running quantity and weighted
// average cost. A Position is a value: every operation returns a new one
// and leaves the receiver untouched, including when it fails.
package position

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// AveragePriceScale is the number of decimal places kept on average prices.
const AveragePriceScale = 8

var (
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPrice         = errors.New("unit price must be greater than zero")
	ErrInsufficientPosition = errors.New("insufficient position")
	ErrInvariantViolation   = errors.New("position invariant violated")
)

type Position struct {
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
}

// New validates a stored quantity and average price.
func New(quantity, averagePrice decimal.Decimal) (Position, error) {
	p := Position{Quantity: quantity, AveragePrice: averagePrice}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Validate rejects negative quantities and prices.
func (p Position) Validate() error {
	if p.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity %s is negative", ErrInvariantViolation, p.Quantity.String())
	}
	if p.AveragePrice.IsNegative() {
		return fmt.Errorf("%w: average price %s is negative", ErrInvariantViolation, p.AveragePrice.String())
	}
	return nil
}

func (p Position) IsEmpty() bool {
	return p.Quantity.IsZero()
}

// Cost is the total amount paid for the current quantity.
func (p Position) Cost() decimal.Decimal {
	return p.Quantity.Mul(p.AveragePrice)
}

// Buy adds quantity at unitPrice and re-weights the average price.
func (p Position) Buy(quantity, unitPrice decimal.Decimal) (Position, error) {
	if !quantity.IsPositive() {
		return p, fmt.Errorf("%w: %s", ErrInvalidQuantity, quantity.String())
	}
	if !unitPrice.IsPositive() {
		return p, fmt.Errorf("%w: %s", ErrInvalidPrice, unitPrice.String())
	}
	return p.add(quantity, quantity.Mul(unitPrice))
}

// Sell removes quantity. The average price is kept until the position is
// closed, at which point it resets to zero.
func (p Position) Sell(quantity decimal.Decimal) (Position, error) {
	if !quantity.IsPositive() {
		return p, fmt.Errorf("%w: %s", ErrInvalidQuantity, quantity.String())
	}
	if quantity.GreaterThan(p.Quantity) {
		return p, fmt.Errorf("%w: selling %s, holding %s", ErrInsufficientPosition, quantity.String(), p.Quantity.String())
	}

	next := Position{Quantity: p.Quantity.Sub(quantity), AveragePrice: p.AveragePrice}
	if next.Quantity.IsZero() {
		next.AveragePrice = decimal.Zero
	}
	return next, nil
}

// Adjust moves the quantity by delta without touching the average price.
// It is used to correct a past trade; a correction that would leave a
// negative quantity is rejected.
func (p Position) Adjust(delta decimal.Decimal) (Position, error) {
	next := Position{Quantity: p.Quantity.Add(delta), AveragePrice: p.AveragePrice}
	if next.Quantity.IsNegative() {
		return p, fmt.Errorf("%w: adjusting by %s, holding %s", ErrInsufficientPosition, delta.String(), p.Quantity.String())
	}
	if next.Quantity.IsZero() {
		next.AveragePrice = decimal.Zero
	}
	return next, nil
}

// Restore is Adjust for undoing a trade. When the correction reopens a
// closed position, the holding takes average as its price again.
func (p Position) Restore(delta, average decimal.Decimal) (Position, error) {
	next, err := p.Adjust(delta)
	if err != nil {
		return p, err
	}
	if p.IsEmpty() && next.Quantity.IsPositive() {
		next.AveragePrice = average
		if err := next.Validate(); err != nil {
			return p, err
		}
	}
	return next, nil
}

// add folds cost into the average. An empty position takes the new price.
func (p Position) add(quantity, cost decimal.Decimal) (Position, error) {
	newQuantity := p.Quantity.Add(quantity)
	average := p.Cost().Add(cost).DivRound(newQuantity, AveragePriceScale)
	if p.IsEmpty() {
		average = cost.DivRound(quantity, AveragePriceScale)
	}

	next := Position{Quantity: newQuantity, AveragePrice: average}
	if err := next.Validate(); err != nil {
		return p, err
	}
	return next, nil
}
