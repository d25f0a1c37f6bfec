package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// PricingSvcFacade resolves tiered per-unit prices for subscription plans.
type PricingSvcFacade interface {
	// ResolveTier picks the active tier whose range contains unitCount. When
	// several tiers match, the one with the highest MinUnits wins. When none
	// match, the lowest tier is returned as a fallback and the caller is
	// expected to log a warning.
	ResolveTier(ctx context.Context, planID string, unitCount int) (*domain.PricingTier, bool, error)

	// PriceFor quotes unitCount units on the plan, applying the optional
	// minimum charge floor to the total.
	PriceFor(ctx context.Context, planID string, unitCount int, floor *decimal.Decimal) (*domain.PriceQuote, error)

	// PriceForSubscription counts the subscription's active fractions and
	// quotes them on the plan.
	PriceForSubscription(ctx context.Context, planID string, subscriptionID string, floor *decimal.Decimal) (*domain.PriceQuote, error)

	// ExtraCondominiumsPriceFor quotes additional condominiums beyond the
	// plan's included allowance using the extra-condominiums tier table.
	ExtraCondominiumsPriceFor(ctx context.Context, planID string, extraCount int) (*domain.PriceQuote, error)

	// CreatePlanTier registers a new tier on a plan.
	CreatePlanTier(ctx context.Context, req dto.CreateTierRequest, creatorUserID string) (*domain.PricingTier, error)

	// CreateExtraCondominiumsTier registers a tier on the extra-condominiums
	// table of a plan.
	CreateExtraCondominiumsTier(ctx context.Context, req dto.CreateTierRequest, creatorUserID string) (*domain.PricingTier, error)

	// ListPlanTiers returns a plan's active tiers ordered by MinUnits.
	ListPlanTiers(ctx context.Context, planID string) ([]domain.PricingTier, error)
}
