// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/domain/valueobject"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CurrencyResponse describes the currencies amounts are reported in.
type CurrencyResponse struct {
	Base      string `json:"base"`
	Secondary string `json:"secondary,omitempty"`
	Rate      string `json:"rate,omitempty"`
}

// AmountFormatter renders amounts as exact decimal strings plus a secondary-currency
// conversion rounded to two places.
type AmountFormatter struct {
	rate valueobject.ExchangeRate
}

// NewAmountFormatter creates a formatter for the given rate. A zero rate disables secondary amounts.
func NewAmountFormatter(rate valueobject.ExchangeRate) AmountFormatter {
	return AmountFormatter{rate: rate}
}

// Base renders the amount unrounded.
func (f AmountFormatter) Base(amount decimal.Decimal) string {
	return amount.String()
}

// Secondary renders the converted amount, or "" when no rate is configured.
func (f AmountFormatter) Secondary(amount decimal.Decimal) string {
	if f.rate.IsZero() {
		return ""
	}
	return f.rate.Convert(amount).Amount.StringFixed(2)
}

// Currency describes the formatter's currencies.
func (f AmountFormatter) Currency() CurrencyResponse {
	response := CurrencyResponse{Base: f.rate.Base}
	if !f.rate.IsZero() {
		response.Secondary = f.rate.Quote
		response.Rate = f.rate.Rate.String()
	}
	return response
}

// FormatDate renders an optional date, returning nil when unset.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(DateLayout)
	return &formatted
}
