package parcel

import (
	"errors"
	"testing"

	"github.com/noah-isme/quote-api/internal/rates"
)

func TestEstimateEmptyCart(t *testing.T) {
	_, err := Estimate(nil, rates.Default())
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestEstimateRejectsNonPositiveQty(t *testing.T) {
	_, err := Estimate([]LineItem{{ProductID: "p1", Qty: 0}}, rates.Default())
	if !errors.Is(err, ErrInvalidQty) {
		t.Fatalf("expected ErrInvalidQty, got %v", err)
	}
}

func TestEstimateDefaultsMissingWeight(t *testing.T) {
	pkg, err := Estimate([]LineItem{{ProductID: "p1", Qty: 2}}, rates.Default())
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if pkg.WeightKg != 1.0 {
		t.Fatalf("expected 2 × default 0.5 = 1.0kg, got %v", pkg.WeightKg)
	}
	if pkg.Tier != "small" {
		t.Fatalf("expected small tier, got %s", pkg.Tier)
	}
}

func TestEstimateTierSteps(t *testing.T) {
	cases := []struct {
		name  string
		items []LineItem
		tier  string
	}{
		{"light few items", []LineItem{{Qty: 1, UnitWeightKg: 0.3}}, "small"},
		{"weight pushes medium", []LineItem{{Qty: 2, UnitWeightKg: 1.5}}, "medium"},
		{"count pushes medium", []LineItem{{Qty: 4, UnitWeightKg: 0.1}}, "medium"},
		{"heavy is large", []LineItem{{Qty: 3, UnitWeightKg: 4}}, "large"},
		{"bulk count is large", []LineItem{{Qty: 11, UnitWeightKg: 0.1}}, "large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pkg, err := Estimate(tc.items, rates.Default())
			if err != nil {
				t.Fatalf("estimate: %v", err)
			}
			if pkg.Tier != tc.tier {
				t.Fatalf("expected tier %s, got %s", tc.tier, pkg.Tier)
			}
		})
	}
}

func TestEstimateAlwaysPositive(t *testing.T) {
	items := []LineItem{
		{Qty: 1, UnitWeightKg: 0.01},
		{Qty: 7},
		{Qty: 2, UnitWeightKg: 9.5},
	}
	pkg, err := Estimate(items, rates.Default())
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if pkg.WeightKg <= 0 {
		t.Fatalf("weight must be positive, got %v", pkg.WeightKg)
	}
	d := pkg.Dimensions
	if d.LengthCm <= 0 || d.WidthCm <= 0 || d.HeightCm <= 0 {
		t.Fatalf("dimensions must be positive, got %+v", d)
	}
}
