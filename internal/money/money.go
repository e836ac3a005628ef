// Package money is the single gate for externally supplied monetary values.
// Every amount entering the system passes through Sanitize before it is
// stored or combined with other amounts; arithmetic is done on integer
// cents only.
package money

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxAmountCents is the product ceiling for a single monetary value,
// $999,999,999.99 expressed in cents.
const MaxAmountCents int64 = 99_999_999_999

var (
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrAmountTooLarge = errors.New("amount_too_large")
)

// Sanitize validates a dollar-denominated value and converts it to integer
// cents. Rounding is half-away-from-zero at two decimal places, applied
// before the ceiling check so that values inside the ceiling after rounding
// (e.g. 999999999.994) are accepted. Negative and non-finite values are
// rejected, never coerced to zero.
func Sanitize(value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidAmount
	}
	if value < 0 {
		return 0, ErrInvalidAmount
	}

	cents := math.Floor(value*100 + 0.5)
	if cents > float64(MaxAmountCents) {
		return 0, ErrAmountTooLarge
	}
	return int64(cents), nil
}

// FormatUSD renders integer cents as a USD currency string with two decimal
// places and thousands separators, e.g. 145000 -> "$1,450.00". The product
// is USD-only; there is no currency parameter on purpose.
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := cents / 100
	remainder := cents % 100

	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('$')
	b.WriteString(groupThousands(dollars))
	b.WriteByte('.')
	if remainder < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(remainder, 10))
	return b.String()
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
