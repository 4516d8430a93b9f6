package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// nanogrin per grin
var grinScale = decimal.New(1, 9)

// ParseAmount converts a user-entered grin amount ("1.25", "0.000000001")
// to nanogrin. Amounts must be positive and may not carry sub-nanogrin
// precision.
func ParseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	nano := d.Mul(grinScale)
	if !nano.IsInteger() {
		return 0, fmt.Errorf("amount below nanogrin precision")
	}
	if !nano.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount out of range")
	}
	return nano.IntPart(), nil
}

// FormatAmount renders a nanogrin value as a grin decimal string.
func FormatAmount(nanogrin int64) string {
	return decimal.New(nanogrin, -9).String()
}
