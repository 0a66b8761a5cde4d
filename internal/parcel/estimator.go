// Package parcel derives a shippable package descriptor from cart line items.
package parcel

import (
	"errors"
	"fmt"

	"github.com/noah-isme/quote-api/internal/rates"
)

// ErrNoItems is returned when the cart contains no line items.
var ErrNoItems = errors.New("parcel: no items to package")

// ErrInvalidQty is returned when a line item carries a non-positive quantity.
var ErrInvalidQty = errors.New("parcel: item quantity must be positive")

// LineItem is one cart row relevant to packaging.
type LineItem struct {
	ProductID    string
	Qty          int
	UnitWeightKg float64 // 0 means "use the configured default"
}

// Dimensions describes the chosen box in centimetres.
type Dimensions struct {
	LengthCm float64 `json:"length"`
	WidthCm  float64 `json:"width"`
	HeightCm float64 `json:"height"`
}

// Package is the derived descriptor handed to the shipping resolver. It is
// ephemeral: computed per request, never persisted.
type Package struct {
	WeightKg   float64    `json:"weight"`
	Tier       string     `json:"tier"`
	Dimensions Dimensions `json:"dimensions"`
}

// Estimate sums line weights and picks a box tier. The tier step function is
// monotonic in both total weight and item count, so a heavier or fuller cart
// never maps to a smaller box.
func Estimate(items []LineItem, cfg rates.Config) (Package, error) {
	if len(items) == 0 {
		return Package{}, ErrNoItems
	}
	defaultWeight := cfg.DefaultUnitWeightKg
	if defaultWeight <= 0 {
		defaultWeight = 0.5
	}
	var totalWeight float64
	var totalQty int
	for i, item := range items {
		if item.Qty <= 0 {
			return Package{}, fmt.Errorf("item %d: %w", i, ErrInvalidQty)
		}
		unit := item.UnitWeightKg
		if unit <= 0 {
			unit = defaultWeight
		}
		totalWeight += float64(item.Qty) * unit
		totalQty += item.Qty
	}

	tier := pickTier(cfg.BoxTiers, totalWeight, totalQty)
	return Package{
		WeightKg: totalWeight,
		Tier:     tier.Name,
		Dimensions: Dimensions{
			LengthCm: tier.LengthCm,
			WidthCm:  tier.WidthCm,
			HeightCm: tier.HeightCm,
		},
	}, nil
}

func pickTier(tiers []rates.BoxTier, weight float64, qty int) rates.BoxTier {
	for _, tier := range tiers {
		if tier.MaxWeightKg <= 0 && tier.MaxItems <= 0 {
			return tier
		}
		if weight <= tier.MaxWeightKg && qty <= tier.MaxItems {
			return tier
		}
	}
	if len(tiers) > 0 {
		return tiers[len(tiers)-1]
	}
	// No tiers configured; fall back to a single sane box.
	return rates.BoxTier{Name: "medium", LengthCm: 40, WidthCm: 30, HeightCm: 20}
}
