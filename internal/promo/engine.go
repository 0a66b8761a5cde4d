package promo

import (
	"sort"
	"time"
)

// Target narrows a promotion lookup to one product or one category. The two
// filters are mutually exclusive; a zero Target means "globally applicable
// promotions only as far as dates and usage allow".
type Target struct {
	ProductID string
	Category  string
}

// Eligible reports whether the promotion can be offered at the given instant.
// The date window is inclusive on both ends; a promotion whose usage counter
// has reached maxUses is out regardless of dates.
func Eligible(p Promotion, now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.MaxUses != nil && p.CurrentUses >= *p.MaxUses {
		return false
	}
	return true
}

// Match filters promotions down to those eligible for the target and orders
// them by priority descending, newest first on ties.
//
// Targeting is deliberately narrow: a productId query matches "all" scoped
// promotions and "products" lists containing the id, but never "category" or
// singular "product" scoped ones. A category query matches "all" and the
// exact category. Broadening either would change storefront behaviour, so
// callers that want wider matching must ask per mode.
func Match(promotions []Promotion, target Target, now time.Time) []Promotion {
	matched := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if !Eligible(p, now) {
			continue
		}
		if !scopeMatches(p, target) {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func scopeMatches(p Promotion, target Target) bool {
	switch {
	case target.ProductID != "":
		if p.AppliesTo == ScopeAll {
			return true
		}
		if p.AppliesTo == ScopeProducts {
			for _, id := range p.ProductIDs {
				if id == target.ProductID {
					return true
				}
			}
		}
		return false
	case target.Category != "":
		if p.AppliesTo == ScopeAll {
			return true
		}
		return p.AppliesTo == ScopeCategory && p.Category != nil && *p.Category == target.Category
	default:
		return true
	}
}
