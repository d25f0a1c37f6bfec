package mapping

import (
	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/models"
)

// ToModelPricingTier converts a domain.PricingTier to its persistence model.
func ToModelPricingTier(d domain.PricingTier) models.PricingTier {
	return models.PricingTier{
		TierID:       d.TierID,
		PlanID:       d.PlanID,
		MinUnits:     d.MinUnits,
		MaxUnits:     d.MaxUnits,
		PricePerUnit: d.PricePerUnit,
		SortOrder:    d.SortOrder,
		IsActive:     d.IsActive,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainPricingTier converts a persistence model to a domain.PricingTier.
func ToDomainPricingTier(m models.PricingTier) domain.PricingTier {
	return domain.PricingTier{
		TierID:       m.TierID,
		PlanID:       m.PlanID,
		MinUnits:     m.MinUnits,
		MaxUnits:     m.MaxUnits,
		PricePerUnit: m.PricePerUnit,
		SortOrder:    m.SortOrder,
		IsActive:     m.IsActive,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}

// ToDomainPricingTierSlice converts a slice of tier models to domain tiers.
func ToDomainPricingTierSlice(ms []models.PricingTier) []domain.PricingTier {
	ds := make([]domain.PricingTier, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPricingTier(m)
	}
	return ds
}
