package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency identifies the denomination of a monetary amount. The business
// quotes clients in USD and pays its own costs in CNY; every amount in the
// system carries one of the two so the currencies can never be mixed
// silently.
type Currency string

const (
	CNY Currency = "CNY" // cost side: canvas, freight, salaries
	USD Currency = "USD" // revenue side: quotes, orders, payments
)

// Money is an immutable monetary amount with an explicit currency.
// All operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency != CNY && currency != USD {
		return Money{}, fmt.Errorf("unsupported currency: %q", currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewCNY creates Money denominated in CNY
func NewCNY(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: CNY}
}

// NewUSD creates Money denominated in USD
func NewUSD(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: USD}
}

// ZeroCNY returns a zero CNY amount
func ZeroCNY() Money {
	return Money{amount: decimal.Zero, currency: CNY}
}

// ZeroUSD returns a zero USD amount
func ZeroUSD() Money {
	return Money{amount: decimal.Zero, currency: USD}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of both amounts, erroring on a currency mismatch
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference, erroring on a currency mismatch
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract %s from %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply returns the amount scaled by factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Negate returns the amount with the sign reversed
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Round returns the amount rounded to the given decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// Convert converts between CNY and USD at the given CNY-per-USD rate.
// Converting to the same currency returns the value unchanged.
func (m Money) Convert(target Currency, cnyPerUSD decimal.Decimal) (Money, error) {
	if cnyPerUSD.LessThanOrEqual(decimal.Zero) {
		return Money{}, fmt.Errorf("exchange rate must be positive, got %s", cnyPerUSD)
	}
	if m.currency == target {
		return m, nil
	}
	switch target {
	case CNY:
		return Money{amount: m.amount.Mul(cnyPerUSD), currency: CNY}, nil
	case USD:
		return Money{amount: m.amount.Div(cnyPerUSD), currency: USD}, nil
	default:
		return Money{}, fmt.Errorf("unsupported currency: %q", target)
	}
}

// String returns e.g. "352.00 CNY"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}
