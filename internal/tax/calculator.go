// Package tax computes jurisdictional sales tax over checkout totals.
package tax

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/quote-api/internal/rates"
)

// ErrInvalidAmount is returned when a monetary input is negative.
var ErrInvalidAmount = errors.New("tax: amounts must not be negative")

// ErrMissingCountry is returned when no destination country is supplied.
var ErrMissingCountry = errors.New("tax: country is required")

// Input carries the amounts and jurisdiction for one calculation.
type Input struct {
	Subtotal float64
	Shipping float64
	Country  string
	State    string
	// Currency optionally overrides the destination country's currency tag on
	// the result. It does not affect the amounts.
	Currency string
}

// Result is the computed tax breakdown. Total always equals
// Subtotal + Shipping + TaxAmount at minor-unit precision.
type Result struct {
	Rate      float64
	TaxAmount float64
	Total     float64
	Currency  string
}

// Calculator evaluates tax against the injected rate tables. It is a pure
// function of its inputs; calling it twice with the same input yields the
// same result.
type Calculator struct {
	Rates rates.Config
}

// Calculate applies the jurisdiction rate to subtotal + shipping, rounded to
// two minor-unit decimals (USD, CAD and MXN all settle at 2).
func (c Calculator) Calculate(in Input) (Result, error) {
	if in.Subtotal < 0 || in.Shipping < 0 {
		return Result{}, ErrInvalidAmount
	}
	country := strings.ToUpper(strings.TrimSpace(in.Country))
	if country == "" {
		return Result{}, ErrMissingCountry
	}

	rate := c.Rates.Tax.Lookup(country, in.State)
	base := decimal.NewFromFloat(in.Subtotal).Add(decimal.NewFromFloat(in.Shipping))
	taxAmount := base.Mul(decimal.NewFromFloat(rate)).Round(2)
	total := base.Add(taxAmount)

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		if resolved, ok := rates.CurrencyFor(country); ok {
			currency = resolved
		} else {
			currency = rates.CurrencyUSD
		}
	}

	taxF, _ := taxAmount.Float64()
	totalF, _ := total.Float64()
	return Result{
		Rate:      rate,
		TaxAmount: taxF,
		Total:     totalF,
		Currency:  currency,
	}, nil
}
