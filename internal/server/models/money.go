package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/payrun/internal/common"
)

// Money is a fixed-point monetary amount.
type Money = decimal.Decimal

// ParseMoney parses a decimal string such as "100" or "12.50".
func ParseMoney(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney is ParseMoney for literals known to be valid.
func MustMoney(s string) Money {
	return decimal.RequireFromString(s)
}

// Zero is the zero amount.
var Zero = decimal.Zero

// MoneyPlaces is the number of decimal places amounts are stored and shown with.
const MoneyPlaces = 2

// ValidateMoney rejects amounts finer than MoneyPlaces. Trailing zeros
// beyond it, as in "10.500", are accepted.
func ValidateMoney(m Money) error {
	if !m.Equal(m.Truncate(MoneyPlaces)) {
		return fmt.Errorf("amount %s has more than %d decimal places: %w", m, MoneyPlaces, common.ErrInvalidArgument)
	}
	return nil
}
