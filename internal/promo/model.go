// Package promo holds promotion records, the eligibility matcher, and the
// storefront/admin endpoints that serve them.
package promo

import (
	"time"

	"github.com/google/uuid"
)

// Scope is the promotion targeting mode.
type Scope string

const (
	// ScopeAll applies to every product.
	ScopeAll Scope = "all"
	// ScopeCategory applies to a single category.
	ScopeCategory Scope = "category"
	// ScopeProduct applies to a single product.
	ScopeProduct Scope = "product"
	// ScopeProducts applies to an explicit product list.
	ScopeProducts Scope = "products"
)

// Discount kinds accepted on promotion records.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Promotion is a stored discount campaign. Discount application is left to
// the checkout caller; this package only decides eligibility and order.
type Promotion struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	AppliesTo     Scope     `json:"appliesTo"`
	Category      *string   `json:"category,omitempty"`
	ProductIDs    []string  `json:"productIds"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	IsActive      bool      `json:"isActive"`
	Priority      int32     `json:"priority"`
	MaxUses       *int32    `json:"maxUses,omitempty"`
	CurrentUses   int32     `json:"currentUses"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidScope reports whether s is one of the recognised targeting modes.
func ValidScope(s Scope) bool {
	switch s {
	case ScopeAll, ScopeCategory, ScopeProduct, ScopeProducts:
		return true
	}
	return false
}
