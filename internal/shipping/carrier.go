package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/quote-api/internal/parcel"
	"github.com/noah-isme/quote-api/internal/resilience"
)

// RateRequest describes one carrier rate lookup.
type RateRequest struct {
	Origin      Address
	Destination Address
	Package     parcel.Package
}

// Rate is a single service quote from a carrier, priced in the origin
// currency (USD).
type Rate struct {
	Service       string
	Amount        float64
	EstimatedDays int
}

// Client quotes shipping rates for a carrier.
type Client interface {
	Name() string
	Rates(ctx context.Context, req RateRequest) ([]Rate, error)
}

// HTTPCarrier talks to an external carrier rate API over JSON. Requests run
// through the resilience client so a flapping carrier trips its breaker
// instead of stalling every quote.
type HTTPCarrier struct {
	CarrierName string
	BaseURL     string
	APIKey      string
	HTTP        resilience.HTTPClient
}

// NewHTTPCarrier builds a carrier client with a per-carrier breaker.
func NewHTTPCarrier(name, baseURL, apiKey string, timeout time.Duration, attempts int) *HTTPCarrier {
	if attempts <= 0 {
		attempts = 1
	}
	return &HTTPCarrier{
		CarrierName: name,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{},
			Breaker:     resilience.NewBreaker(5, 0.5, 30*time.Second).WithTarget("carrier:" + name),
			MaxAttempts: attempts,
			Timeout:     timeout,
		},
	}
}

// Name implements Client.
func (c *HTTPCarrier) Name() string { return c.CarrierName }

type carrierRateRequest struct {
	Origin      carrierAddress `json:"origin"`
	Destination carrierAddress `json:"destination"`
	WeightKg    float64        `json:"weight_kg"`
	LengthCm    float64        `json:"length_cm"`
	WidthCm     float64        `json:"width_cm"`
	HeightCm    float64        `json:"height_cm"`
}

type carrierAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type carrierRateResponse struct {
	Rates []struct {
		Service       string  `json:"service"`
		Amount        float64 `json:"amount"`
		EstimatedDays int     `json:"estimated_days"`
	} `json:"rates"`
}

// Rates implements Client against the carrier's POST /rates endpoint.
func (c *HTTPCarrier) Rates(ctx context.Context, req RateRequest) ([]Rate, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("carrier %s: missing credentials", c.CarrierName)
	}
	payload := carrierRateRequest{
		Origin:      toCarrierAddress(req.Origin),
		Destination: toCarrierAddress(req.Destination),
		WeightKg:    req.Package.WeightKg,
		LengthCm:    req.Package.Dimensions.LengthCm,
		WidthCm:     req.Package.Dimensions.WidthCm,
		HeightCm:    req.Package.Dimensions.HeightCm,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/rates", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("carrier %s: %w", c.CarrierName, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carrier %s: unexpected status %s", c.CarrierName, resp.Status)
	}
	var decoded carrierRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("carrier %s: decode response: %w", c.CarrierName, err)
	}
	out := make([]Rate, 0, len(decoded.Rates))
	for _, r := range decoded.Rates {
		if r.Amount <= 0 {
			continue
		}
		out = append(out, Rate{Service: r.Service, Amount: r.Amount, EstimatedDays: r.EstimatedDays})
	}
	return out, nil
}

func toCarrierAddress(a Address) carrierAddress {
	return carrierAddress{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.CountryCode(),
	}
}

// StaticClient returns canned rates and is useful for testing and development.
type StaticClient struct {
	Carrier string
	Quotes  []Rate
	Err     error
	Delay   time.Duration
}

// Name implements Client.
func (s StaticClient) Name() string {
	if s.Carrier == "" {
		return "static"
	}
	return s.Carrier
}

// Rates returns the canned quotes regardless of the request payload.
func (s StaticClient) Rates(ctx context.Context, _ RateRequest) ([]Rate, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Quotes) == 0 {
		return nil, errors.New("static carrier: no quotes configured")
	}
	return s.Quotes, nil
}
