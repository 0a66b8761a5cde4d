package shipping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/quote-api/internal/rates"
)

// ErrInvalidAddress is returned when the destination address is incomplete.
var ErrInvalidAddress = errors.New("shipping: destination address is incomplete")

// ErrUnsupportedCountry is returned for destinations outside US/CA/MX.
var ErrUnsupportedCountry = errors.New("shipping: destination country not supported")

// Address identifies a shipping origin or destination.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Validate checks that every field required for rating is populated and the
// country is one the storefront ships to.
func (a Address) Validate() error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(a.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}
	if !rates.SupportedCountry(a.Country) {
		return fmt.Errorf("%w: %q", ErrUnsupportedCountry, a.Country)
	}
	return nil
}

// CountryCode returns the normalised destination country.
func (a Address) CountryCode() string {
	return strings.ToUpper(strings.TrimSpace(a.Country))
}
