package position

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExchangeBasisPolicy decides what happens to cost basis when one holding is
// swapped for another.
type ExchangeBasisPolicy int

const (
	// KeepBasis moves quantities only. The received holding keeps its
	// average price, so the received units carry no cost.
	KeepBasis ExchangeBasisPolicy = iota
	// TransferBasis carries the sold units' cost over to the received
	// holding and re-weights its average price.
	TransferBasis
)

func (p ExchangeBasisPolicy) String() string {
	switch p {
	case KeepBasis:
		return "keep"
	case TransferBasis:
		return "transfer"
	default:
		return "unknown"
	}
}

func ParseExchangeBasisPolicy(s string) (ExchangeBasisPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return KeepBasis, nil
	case "transfer":
		return TransferBasis, nil
	default:
		return KeepBasis, fmt.Errorf("unknown exchange basis policy %q", s)
	}
}

// Exchange sells soldQuantity of sold and receives receivedQuantity into
// received. Neither input is modified; on error both are returned as given.
func Exchange(sold, received Position, soldQuantity, receivedQuantity decimal.Decimal, policy ExchangeBasisPolicy) (Position, Position, error) {
	if !receivedQuantity.IsPositive() {
		return sold, received, fmt.Errorf("%w: received %s", ErrInvalidQuantity, receivedQuantity.String())
	}

	nextSold, err := sold.Sell(soldQuantity)
	if err != nil {
		return sold, received, err
	}

	var nextReceived Position
	switch policy {
	case TransferBasis:
		nextReceived, err = received.add(receivedQuantity, soldQuantity.Mul(sold.AveragePrice))
	case KeepBasis:
		nextReceived = Position{Quantity: received.Quantity.Add(receivedQuantity), AveragePrice: received.AveragePrice}
		err = nextReceived.Validate()
	default:
		err = fmt.Errorf("unknown exchange basis policy %d", policy)
	}
	if err != nil {
		return sold, received, err
	}

	return nextSold, nextReceived, nil
}

// Unexchange reverts an exchange recorded under KeepBasis semantics: the
// sold quantity comes back and the received quantity is removed. Average
// prices are not restored, except that a sold holding the exchange closed
// reopens at soldAverage, its average before the exchange.
func Unexchange(sold, received Position, soldQuantity, receivedQuantity, soldAverage decimal.Decimal) (Position, Position, error) {
	nextReceived, err := received.Adjust(receivedQuantity.Neg())
	if err != nil {
		return sold, received, err
	}
	nextSold, err := sold.Restore(soldQuantity, soldAverage)
	if err != nil {
		return sold, received, err
	}
	return nextSold, nextReceived, nil
}
