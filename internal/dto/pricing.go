package dto

import (
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// CreateTierRequest adds a pricing tier to a plan.
type CreateTierRequest struct {
	PlanID       string          `json:"planID" binding:"required"`
	MinUnits     int             `json:"minUnits" binding:"min=0"`
	MaxUnits     *int            `json:"maxUnits,omitempty"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit" binding:"required"`
	SortOrder    int             `json:"sortOrder"`
	IsActive     bool            `json:"isActive"`
}

// TierResponse is the read representation of a pricing tier.
type TierResponse struct {
	TierID       string          `json:"tierID"`
	PlanID       string          `json:"planID"`
	MinUnits     int             `json:"minUnits"`
	MaxUnits     *int            `json:"maxUnits,omitempty"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	SortOrder    int             `json:"sortOrder"`
	IsActive     bool            `json:"isActive"`
}

// ToTierResponse converts a domain tier.
func ToTierResponse(t *domain.PricingTier) TierResponse {
	return TierResponse{
		TierID:       t.TierID,
		PlanID:       t.PlanID,
		MinUnits:     t.MinUnits,
		MaxUnits:     t.MaxUnits,
		PricePerUnit: t.PricePerUnit,
		SortOrder:    t.SortOrder,
		IsActive:     t.IsActive,
	}
}

// QuoteResponse is the read representation of a price quote.
type QuoteResponse struct {
	PlanID          string          `json:"planID"`
	TierID          string          `json:"tierID"`
	UnitCount       int             `json:"unitCount"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Total           decimal.Decimal `json:"total"`
	FallbackApplied bool            `json:"fallbackApplied"`
}

// ToQuoteResponse converts a domain price quote.
func ToQuoteResponse(q *domain.PriceQuote) QuoteResponse {
	return QuoteResponse{
		PlanID:          q.PlanID,
		TierID:          q.TierID,
		UnitCount:       q.UnitCount,
		UnitPrice:       q.UnitPrice,
		Total:           q.Total,
		FallbackApplied: q.FallbackApplied,
	}
}
