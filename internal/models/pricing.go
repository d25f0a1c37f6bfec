package models

import "github.com/shopspring/decimal"

// PricingTier mirrors a row of the plan_pricing_tiers table. The
// plan_extra_condominiums_pricing table shares the same shape.
type PricingTier struct {
	TierID       string          `json:"tierID"`
	PlanID       string          `json:"planID"`
	MinUnits     int             `json:"minUnits"`
	MaxUnits     *int            `json:"maxUnits,omitempty"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	SortOrder    int             `json:"sortOrder"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}
