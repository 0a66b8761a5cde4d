package rates

import "testing"

func TestLookupPrefersRegionalRate(t *testing.T) {
	cfg := Default()
	if rate := cfg.Tax.Lookup("US", "CA"); rate != 0.0725 {
		t.Fatalf("expected regional rate 0.0725, got %v", rate)
	}
	// A configured regional rate must never fall through to the default.
	if rate := cfg.Tax.Lookup("CA", "ON"); rate != 0.13 {
		t.Fatalf("expected ON rate 0.13, got %v", rate)
	}
}

func TestLookupCountryDefaultAndUnlisted(t *testing.T) {
	cfg := Default()
	if rate := cfg.Tax.Lookup("CA", "YT"); rate != 0.05 {
		t.Fatalf("expected CA default 0.05, got %v", rate)
	}
	if rate := cfg.Tax.Lookup("DE", ""); rate != 0 {
		t.Fatalf("expected zero rate for unlisted country, got %v", rate)
	}
}

func TestLookupNormalisesCase(t *testing.T) {
	cfg := Default()
	if rate := cfg.Tax.Lookup("us", "ca"); rate != 0.0725 {
		t.Fatalf("expected case-insensitive lookup, got %v", rate)
	}
}

func TestCurrencyFor(t *testing.T) {
	for country, want := range map[string]string{"US": "USD", "CA": "CAD", "MX": "MXN"} {
		got, ok := CurrencyFor(country)
		if !ok || got != want {
			t.Fatalf("CurrencyFor(%s) = %s/%v, want %s", country, got, ok, want)
		}
	}
	if _, ok := CurrencyFor("BR"); ok {
		t.Fatal("expected no currency for unsupported country")
	}
}

func TestExchangeRateUnknownCurrency(t *testing.T) {
	cfg := Default()
	if rate := cfg.ExchangeRate("XXX"); rate != 1 {
		t.Fatalf("expected unit rate for unknown currency, got %v", rate)
	}
}
