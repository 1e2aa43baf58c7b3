package upi

import (
	"errors"
	"strconv"
	"strings"
)

var ErrAmountNotNumeric = errors.New("amount must be a whole number of rupees")

// ParseAmount parses a user-entered donation amount.
func ParseAmount(raw string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrAmountNotNumeric
	}
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func ValidateAmount(amount int) error {
	if amount < MinAmount {
		return ErrAmountTooSmall
	}
	return nil
}
