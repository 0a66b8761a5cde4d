// Package rates holds the static rate tables the quote calculators run on:
// per-country flat shipping rates, jurisdiction tax rates, the fixed exchange
// rate table and parcel sizing tiers. The tables are assembled once at process
// start and injected by value; nothing in this package mutates after Default
// returns.
package rates

import "strings"

// Supported destination countries and their settlement currencies.
const (
	CountryUS = "US"
	CountryCA = "CA"
	CountryMX = "MX"

	CurrencyUSD = "USD"
	CurrencyCAD = "CAD"
	CurrencyMXN = "MXN"
)

// BoxTier maps a weight/item-count ceiling to fixed box dimensions.
// Tiers are evaluated in order; the last tier has no ceiling.
type BoxTier struct {
	Name        string
	MaxWeightKg float64
	MaxItems    int
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
}

// TaxTable resolves a tax rate by jurisdiction. Regional entries are keyed
// "COUNTRY/STATE" and take precedence over the country default. Unlisted
// countries resolve to zero.
type TaxTable struct {
	Defaults map[string]float64
	Regional map[string]float64
}

// Lookup returns the most specific configured rate for the jurisdiction.
func (t TaxTable) Lookup(country, state string) float64 {
	country = strings.ToUpper(strings.TrimSpace(country))
	state = strings.ToUpper(strings.TrimSpace(state))
	if state != "" {
		if rate, ok := t.Regional[country+"/"+state]; ok {
			return rate
		}
	}
	return t.Defaults[country]
}

// Config bundles every static table the calculators consume.
type Config struct {
	// FlatRates holds the fallback shipping price per destination country,
	// expressed in the origin currency (USD).
	FlatRates map[string]float64
	// FlatRateDays estimates transit days for the flat-rate service.
	FlatRateDays map[string]int
	Tax          TaxTable
	// Exchange maps currency code to its fixed rate relative to USD.
	Exchange map[string]float64
	// DefaultUnitWeightKg substitutes for line items without a declared weight.
	DefaultUnitWeightKg float64
	BoxTiers            []BoxTier
}

// SupportedCountry reports whether the destination country is served.
func SupportedCountry(country string) bool {
	switch strings.ToUpper(strings.TrimSpace(country)) {
	case CountryUS, CountryCA, CountryMX:
		return true
	}
	return false
}

// CurrencyFor returns the settlement currency for a destination country.
func CurrencyFor(country string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(country)) {
	case CountryUS:
		return CurrencyUSD, true
	case CountryCA:
		return CurrencyCAD, true
	case CountryMX:
		return CurrencyMXN, true
	}
	return "", false
}

// ExchangeRate returns the fixed conversion rate from USD into the given
// currency, defaulting to 1 for unknown codes.
func (c Config) ExchangeRate(currency string) float64 {
	if rate, ok := c.Exchange[strings.ToUpper(strings.TrimSpace(currency))]; ok && rate > 0 {
		return rate
	}
	return 1
}

// Default builds the authoritative rate tables.
func Default() Config {
	return Config{
		FlatRates: map[string]float64{
			CountryUS: 5.99,
			CountryCA: 12.99,
			CountryMX: 14.99,
		},
		FlatRateDays: map[string]int{
			CountryUS: 5,
			CountryCA: 7,
			CountryMX: 10,
		},
		Tax: TaxTable{
			Defaults: map[string]float64{
				CountryCA: 0.05,
				CountryMX: 0.16,
			},
			Regional: map[string]float64{
				"US/CA": 0.0725,
				"US/NY": 0.08875,
				"US/TX": 0.0625,
				"US/WA": 0.065,
				"US/FL": 0.06,
				"CA/ON": 0.13,
				"CA/BC": 0.12,
				"CA/QC": 0.14975,
			},
		},
		Exchange: map[string]float64{
			CurrencyUSD: 1.0,
			CurrencyCAD: 1.36,
			CurrencyMXN: 17.05,
		},
		DefaultUnitWeightKg: 0.5,
		BoxTiers: []BoxTier{
			{Name: "small", MaxWeightKg: 1, MaxItems: 3, LengthCm: 30, WidthCm: 22, HeightCm: 12},
			{Name: "medium", MaxWeightKg: 5, MaxItems: 10, LengthCm: 40, WidthCm: 30, HeightCm: 20},
			{Name: "large", LengthCm: 60, WidthCm: 40, HeightCm: 30},
		},
	}
}
