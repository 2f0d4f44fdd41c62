// Package numeric provides the safe numeric primitives the pricing and
// ledger code is built on: lenient parsing with caller-supplied defaults,
// rounding, clamping and percentage math. Nothing in here ever returns an
// error or produces NaN/Inf - bad input degrades to the default value.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SafeParse parses a numeric string, stripping any non-numeric noise
// (currency symbols, thousands separators, whitespace). Unparsable or
// empty input returns the supplied default.
func SafeParse(value string, def decimal.Decimal) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)
	if cleaned == "" {
		return def
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return def
	}
	return d
}

// OrDefault returns the pointed-to value as a decimal, or the default when
// the pointer is nil. Typed JSON input uses optional fields; a missing
// field means "use the configured default", never zero.
func OrDefault(v *float64, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return decimal.NewFromFloat(*v)
}

// Round rounds half away from zero to the given number of decimal places.
func Round(value decimal.Decimal, places int32) decimal.Decimal {
	return value.Round(places)
}

// Clamp constrains value to the inclusive range [min, max].
func Clamp(value, min, max decimal.Decimal) decimal.Decimal {
	if value.LessThan(min) {
		return min
	}
	if value.GreaterThan(max) {
		return max
	}
	return value
}

// Percentage returns part/total expressed as a percentage, rounded to one
// decimal place. A zero total yields zero rather than a division error.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(1)
}

// FromPercent converts a percentage figure (e.g. 5.0) to a fraction (0.05).
func FromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// Floor returns value, or floor when value is below it. Used for the
// division floors in the pricing formulas (denominator >= 0.01,
// allocation quantity >= 1).
func Floor(value, floor decimal.Decimal) decimal.Decimal {
	if value.LessThan(floor) {
		return floor
	}
	return value
}
