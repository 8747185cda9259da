package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a boundary decimal string into an exact transfer amount.
// The value never passes through floating point. Amounts must be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, validationError("amount is required")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, validationError("invalid amount format: " + err.Error())
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, validationError("amount must be positive")
	}

	return amount, nil
}

// ParseBalance converts a stored decimal string into a balance amount.
// Unlike ParseAmount it accepts zero and negative values.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	balance, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, validationError("invalid balance format: " + err.Error())
	}
	return balance, nil
}
