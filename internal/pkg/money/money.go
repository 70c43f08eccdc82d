// Package money converts between decimal amounts and the integer minor units
// stored in the database.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Scale is the number of minor-unit digits kept for every amount.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// ErrOutOfRange is returned for amounts whose cents do not fit in an int64.
var ErrOutOfRange = errors.New("amount exceeds the storable range")

// Round rounds d half away from zero to whole cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Fits reports whether d, rounded to cents, can be stored.
func Fits(d decimal.Decimal) bool {
	return d.Round(Scale).Shift(Scale).BigInt().IsInt64()
}

// ToCents rounds d half away from zero to whole cents.
func ToCents(d decimal.Decimal) (int64, error) {
	if !Fits(d) {
		return 0, ErrOutOfRange
	}
	return d.Round(Scale).Shift(Scale).IntPart(), nil
}

// FromCents turns minor units back into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// Mean returns sum/count rounded to cents, or zero when count is zero.
func Mean(sum decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(count), Scale)
}

// Percent returns part/whole*100 rounded to two places, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, Scale)
}

// Places reports how many fractional digits d carries.
func Places(d decimal.Decimal) int32 {
	if d.Exponent() >= 0 {
		return 0
	}
	return -d.Exponent()
}
