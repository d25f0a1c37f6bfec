package domain

import "github.com/shopspring/decimal"

// PricingTier maps a range of active units to a per-unit price for a plan.
// Ranges for a plan should not overlap; resolution picks the tier with the
// highest MinUnits whose range contains the count.
type PricingTier struct {
	TierID       string          `json:"tierID"`
	PlanID       string          `json:"planID"`
	MinUnits     int             `json:"minUnits"`
	MaxUnits     *int            `json:"maxUnits,omitempty"` // nil = open-ended
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	SortOrder    int             `json:"sortOrder"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// Contains reports whether the tier's range covers the given unit count.
func (t PricingTier) Contains(count int) bool {
	if count < t.MinUnits {
		return false
	}
	return t.MaxUnits == nil || count <= *t.MaxUnits
}

// PriceQuote is the result of resolving a tier for a unit count.
type PriceQuote struct {
	PlanID    string          `json:"planID"`
	TierID    string          `json:"tierID"`
	UnitCount int             `json:"unitCount"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	// FallbackApplied marks quotes resolved through the lowest-tier
	// fallback because no configured range contained the count.
	FallbackApplied bool `json:"fallbackApplied"`
}
