// Package valueobject contains domain value objects for the Advisory Portal system.
package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// displayPlaces is the precision amounts are rounded to when shown to people.
// Stored and computed amounts are never rounded.
const displayPlaces = 2

// Money is an amount tagged with its currency code.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a Money value.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Display renders the amount at two decimals with thousands separators, e.g. "2,336,000.00".
func (m Money) Display() string {
	fixed := m.Amount.StringFixed(displayPlaces)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// String renders the currency code followed by the display amount, e.g. "NGN 2,336,000.00".
func (m Money) String() string {
	if m.Currency == "" {
		return m.Display()
	}
	return m.Currency + " " + m.Display()
}

// ExchangeRate converts base currency amounts into a secondary display currency.
type ExchangeRate struct {
	Base  string
	Quote string
	Rate  decimal.Decimal // units of Quote per unit of Base
}

// IsZero reports whether no usable rate is configured.
func (r ExchangeRate) IsZero() bool {
	return r.Quote == "" || r.Rate.Sign() <= 0
}

// Convert returns amount expressed in the quote currency. The result is not rounded.
func (r ExchangeRate) Convert(amount decimal.Decimal) Money {
	return NewMoney(amount.Mul(r.Rate), r.Quote)
}

// DualAmount pairs a base amount with its secondary currency conversion.
type DualAmount struct {
	Base      Money
	Secondary *Money
}

// Dual returns the base amount and, when a rate is configured, its conversion.
func (r ExchangeRate) Dual(amount decimal.Decimal) DualAmount {
	dual := DualAmount{Base: NewMoney(amount, r.Base)}
	if !r.IsZero() {
		converted := r.Convert(amount)
		dual.Secondary = &converted
	}
	return dual
}

// SecondaryString returns the formatted secondary amount or "" when there is none.
func (d DualAmount) SecondaryString() string {
	if d.Secondary == nil {
		return ""
	}
	return d.Secondary.String()
}
