package repositories

import (
	"context"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// PricingRepositoryFacade stores the tier tables for subscription licensing.
// Plan tiers and extra-condominiums pricing share one row shape but live in
// separate tables.
type PricingRepositoryFacade interface {
	// SavePlanTier inserts a tier row into plan_pricing_tiers.
	SavePlanTier(ctx context.Context, tier domain.PricingTier) error

	// ListActivePlanTiers returns the active tiers of a plan ordered by
	// min_units ascending.
	ListActivePlanTiers(ctx context.Context, planID string) ([]domain.PricingTier, error)

	// SaveExtraCondominiumsTier inserts a tier row into
	// plan_extra_condominiums_pricing.
	SaveExtraCondominiumsTier(ctx context.Context, tier domain.PricingTier) error

	// ListActiveExtraCondominiumsTiers returns the active extra-condominiums
	// tiers of a plan ordered by min_units ascending.
	ListActiveExtraCondominiumsTiers(ctx context.Context, planID string) ([]domain.PricingTier, error)
}
