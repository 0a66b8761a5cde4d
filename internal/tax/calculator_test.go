package tax

import (
	"errors"
	"testing"

	"github.com/noah-isme/quote-api/internal/rates"
)

func newCalc() Calculator {
	return Calculator{Rates: rates.Default()}
}

func TestCalculateCaliforniaScenario(t *testing.T) {
	result, err := newCalc().Calculate(Input{Subtotal: 100, Shipping: 10, Country: "US", State: "CA"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.TaxAmount != 7.98 {
		t.Fatalf("expected taxAmount 7.98, got %v", result.TaxAmount)
	}
	if result.Total != 117.98 {
		t.Fatalf("expected total 117.98, got %v", result.Total)
	}
	if result.Currency != "USD" {
		t.Fatalf("expected USD, got %s", result.Currency)
	}
}

func TestCalculateTotalInvariant(t *testing.T) {
	inputs := []Input{
		{Subtotal: 0, Shipping: 0, Country: "US", State: "NY"},
		{Subtotal: 19.99, Shipping: 5.99, Country: "CA", State: "ON"},
		{Subtotal: 1034.55, Shipping: 14.99, Country: "MX"},
		{Subtotal: 0.01, Shipping: 0, Country: "CA", State: "QC"},
	}
	for _, in := range inputs {
		first, err := newCalc().Calculate(in)
		if err != nil {
			t.Fatalf("calculate %+v: %v", in, err)
		}
		second, err := newCalc().Calculate(in)
		if err != nil {
			t.Fatalf("recalculate %+v: %v", in, err)
		}
		if first != second {
			t.Fatalf("recomputation differs: %+v vs %+v", first, second)
		}
		wantTotal := in.Subtotal + in.Shipping + first.TaxAmount
		if diff := first.Total - wantTotal; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("total %v != subtotal+shipping+tax %v", first.Total, wantTotal)
		}
	}
}

func TestCalculateStateFallsBackToCountryDefault(t *testing.T) {
	result, err := newCalc().Calculate(Input{Subtotal: 100, Country: "CA", State: "YT"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Rate != 0.05 {
		t.Fatalf("expected CA default 0.05, got %v", result.Rate)
	}
}

func TestCalculateUnlistedCountryIsZeroRated(t *testing.T) {
	result, err := newCalc().Calculate(Input{Subtotal: 50, Shipping: 5, Country: "JP"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.TaxAmount != 0 || result.Total != 55 {
		t.Fatalf("expected zero tax, got %+v", result)
	}
}

func TestCalculateRejectsNegativeAmounts(t *testing.T) {
	if _, err := newCalc().Calculate(Input{Subtotal: -1, Country: "US"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := newCalc().Calculate(Input{Subtotal: 10, Shipping: -0.01, Country: "US"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for shipping, got %v", err)
	}
}

func TestCalculateRequiresCountry(t *testing.T) {
	if _, err := newCalc().Calculate(Input{Subtotal: 10}); !errors.Is(err, ErrMissingCountry) {
		t.Fatalf("expected ErrMissingCountry, got %v", err)
	}
}

func TestCalculateCurrencyOverride(t *testing.T) {
	result, err := newCalc().Calculate(Input{Subtotal: 10, Country: "CA", Currency: "usd"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Currency != "USD" {
		t.Fatalf("expected override USD, got %s", result.Currency)
	}
}
