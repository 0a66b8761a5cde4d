// Package shipping resolves costed shipping options for a destination and
// package, fanning out to configured carriers and falling back to the static
// flat-rate table.
package shipping

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/quote-api/internal/obs"
	"github.com/noah-isme/quote-api/internal/parcel"
	"github.com/noah-isme/quote-api/internal/rates"
)

// Option is one costed shipping choice, priced in the destination currency.
type Option struct {
	Carrier       string  `json:"carrier"`
	Service       string  `json:"serviceLevel"`
	Cost          float64 `json:"cost"`
	EstimatedDays int     `json:"estimatedDays"`
	Currency      string  `json:"currency"`
}

// Resolver combines carrier quotes and flat rates into ranked options.
// Resolvers are stateless; every call works purely off its arguments and the
// injected configuration.
type Resolver struct {
	Carriers []Client
	Origin   Address
	Rates    rates.Config
	// Timeout bounds each carrier lookup. Zero means 3s.
	Timeout time.Duration
	Logger  zerolog.Logger
}

type carrierResult struct {
	carrier string
	rates   []Rate
	err     error
}

// Resolve validates the destination and produces shipping options sorted by
// ascending cost. Carrier failures are swallowed per carrier; if no carrier
// produces a quote the country flat rate is used. An empty option list is a
// valid result and is left to the caller to interpret.
func (r *Resolver) Resolve(ctx context.Context, dest Address, pkg parcel.Package) ([]Option, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	country := dest.CountryCode()
	currency, _ := rates.CurrencyFor(country)
	fx := r.Rates.ExchangeRate(currency)

	options := r.collectCarrierOptions(ctx, dest, pkg, currency, fx)

	if len(options) == 0 {
		if flat, ok := r.flatRateOption(country, currency, fx); ok {
			obs.FlatRateFallbackTotal.Inc()
			options = append(options, flat)
		}
	}

	sort.SliceStable(options, func(i, j int) bool { return options[i].Cost < options[j].Cost })
	return options, nil
}

// collectCarrierOptions fans out to every configured carrier concurrently.
// Each lookup runs under its own timeout derived from the request context, so
// a client disconnect cancels all in-flight calls.
func (r *Resolver) collectCarrierOptions(ctx context.Context, dest Address, pkg parcel.Package, currency string, fx float64) []Option {
	if len(r.Carriers) == 0 {
		return nil
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	req := RateRequest{Origin: r.Origin, Destination: dest, Package: pkg}

	results := make(chan carrierResult, len(r.Carriers))
	for _, carrier := range r.Carriers {
		go func(c Client) {
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			start := time.Now()
			quoted, err := c.Rates(callCtx, req)
			obs.CarrierRequestLatency.WithLabelValues(c.Name()).Observe(obs.DurationMillis(time.Since(start)))
			results <- carrierResult{carrier: c.Name(), rates: quoted, err: err}
		}(carrier)
	}

	options := make([]Option, 0, len(r.Carriers)*2)
	for range r.Carriers {
		res := <-results
		if res.err != nil {
			// A failed carrier just contributes no options.
			obs.CarrierRequestTotal.WithLabelValues(res.carrier, "error").Inc()
			r.Logger.Warn().Err(res.err).Str("carrier", res.carrier).Msg("carrier rate lookup failed")
			continue
		}
		obs.CarrierRequestTotal.WithLabelValues(res.carrier, "ok").Inc()
		for _, rate := range res.rates {
			options = append(options, Option{
				Carrier:       res.carrier,
				Service:       rate.Service,
				Cost:          convert(rate.Amount, fx),
				EstimatedDays: rate.EstimatedDays,
				Currency:      currency,
			})
		}
	}
	return options
}

func (r *Resolver) flatRateOption(country, currency string, fx float64) (Option, bool) {
	amount, ok := r.Rates.FlatRates[country]
	if !ok || amount <= 0 {
		return Option{}, false
	}
	return Option{
		Carrier:       "flat",
		Service:       "standard",
		Cost:          convert(amount, fx),
		EstimatedDays: r.Rates.FlatRateDays[country],
		Currency:      currency,
	}, true
}

// convert applies the fixed exchange rate and rounds to minor units.
func convert(amountUSD, fx float64) float64 {
	converted := decimal.NewFromFloat(amountUSD).Mul(decimal.NewFromFloat(fx)).Round(2)
	f, _ := converted.Float64()
	return f
}
