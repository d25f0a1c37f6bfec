package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/middleware"
)

var (
	ErrNegativeUnitCount = errors.New("unit count must not be negative")
	ErrInvalidTierRange  = errors.New("tier range is invalid")
)

// pricingService resolves tiered per-unit prices for subscription plans and
// for condominiums beyond a plan's included allowance.
type pricingService struct {
	pricingRepo  portsrepo.PricingRepositoryFacade
	fractionRepo portsrepo.FractionReader
}

// NewPricingService creates a new pricing service.
func NewPricingService(pricingRepo portsrepo.PricingRepositoryFacade, fractionRepo portsrepo.FractionReader) portssvc.PricingSvcFacade {
	return &pricingService{
		pricingRepo:  pricingRepo,
		fractionRepo: fractionRepo,
	}
}

var _ portssvc.PricingSvcFacade = (*pricingService)(nil)

// ResolveTier picks the active tier whose range contains unitCount. With
// overlapping ranges the highest MinUnits wins. When no range contains the
// count the lowest tier is used as a fallback so billing never stalls on a
// configuration gap.
func (s *pricingService) ResolveTier(ctx context.Context, planID string, unitCount int) (*domain.PricingTier, bool, error) {
	if unitCount < 0 {
		return nil, false, fmt.Errorf("%w: %d", ErrNegativeUnitCount, unitCount)
	}
	tiers, err := s.pricingRepo.ListActivePlanTiers(ctx, planID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list tiers for plan %s: %w", planID, err)
	}
	return s.resolveFrom(ctx, planID, tiers, unitCount)
}

// resolveFrom applies the resolution rule to an already loaded tier list.
// The list is ordered by MinUnits ascending, so the last containing tier is
// the one with the highest MinUnits.
func (s *pricingService) resolveFrom(ctx context.Context, planID string, tiers []domain.PricingTier, unitCount int) (*domain.PricingTier, bool, error) {
	if len(tiers) == 0 {
		return nil, false, fmt.Errorf("%w: no active tiers for plan %s", apperrors.ErrNotFound, planID)
	}

	var match *domain.PricingTier
	for i := range tiers {
		if tiers[i].Contains(unitCount) {
			match = &tiers[i]
		}
	}
	if match != nil {
		return match, false, nil
	}

	middleware.GetLoggerFromCtx(ctx).Warn("No tier range contains unit count, falling back to lowest tier",
		slog.String("plan_id", planID),
		slog.Int("unit_count", unitCount),
		slog.String("fallback_tier_id", tiers[0].TierID),
	)
	return &tiers[0], true, nil
}

// PriceFor quotes unitCount units on the plan. The optional floor raises the
// total to a minimum charge.
func (s *pricingService) PriceFor(ctx context.Context, planID string, unitCount int, floor *decimal.Decimal) (*domain.PriceQuote, error) {
	tier, fallback, err := s.ResolveTier(ctx, planID, unitCount)
	if err != nil {
		return nil, err
	}
	return buildQuote(planID, tier, unitCount, floor, fallback), nil
}

// PriceForSubscription counts the subscription's active fractions across all
// of its condominiums and quotes them on the plan.
func (s *pricingService) PriceForSubscription(ctx context.Context, planID string, subscriptionID string, floor *decimal.Decimal) (*domain.PriceQuote, error) {
	count, err := s.fractionRepo.ActiveFractionCountForSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active fractions for subscription %s: %w", subscriptionID, err)
	}
	return s.PriceFor(ctx, planID, count, floor)
}

// ExtraCondominiumsPriceFor quotes condominiums beyond the plan's included
// allowance using the extra-condominiums tier table.
func (s *pricingService) ExtraCondominiumsPriceFor(ctx context.Context, planID string, extraCount int) (*domain.PriceQuote, error) {
	if extraCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeUnitCount, extraCount)
	}
	tiers, err := s.pricingRepo.ListActiveExtraCondominiumsTiers(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extra-condominiums tiers for plan %s: %w", planID, err)
	}
	tier, fallback, err := s.resolveFrom(ctx, planID, tiers, extraCount)
	if err != nil {
		return nil, err
	}
	return buildQuote(planID, tier, extraCount, nil, fallback), nil
}

// CreatePlanTier registers a new tier on a plan.
func (s *pricingService) CreatePlanTier(ctx context.Context, req dto.CreateTierRequest, creatorUserID string) (*domain.PricingTier, error) {
	tier, err := s.buildTier(req, creatorUserID)
	if err != nil {
		return nil, err
	}
	if err := s.pricingRepo.SavePlanTier(ctx, *tier); err != nil {
		return nil, fmt.Errorf("failed to save plan tier: %w", err)
	}
	return tier, nil
}

// CreateExtraCondominiumsTier registers a tier on the extra-condominiums
// table of a plan.
func (s *pricingService) CreateExtraCondominiumsTier(ctx context.Context, req dto.CreateTierRequest, creatorUserID string) (*domain.PricingTier, error) {
	tier, err := s.buildTier(req, creatorUserID)
	if err != nil {
		return nil, err
	}
	if err := s.pricingRepo.SaveExtraCondominiumsTier(ctx, *tier); err != nil {
		return nil, fmt.Errorf("failed to save extra-condominiums tier: %w", err)
	}
	return tier, nil
}

// ListPlanTiers returns a plan's active tiers ordered by MinUnits.
func (s *pricingService) ListPlanTiers(ctx context.Context, planID string) ([]domain.PricingTier, error) {
	return s.pricingRepo.ListActivePlanTiers(ctx, planID)
}

func (s *pricingService) buildTier(req dto.CreateTierRequest, creatorUserID string) (*domain.PricingTier, error) {
	if req.MinUnits < 0 {
		return nil, fmt.Errorf("%w: min units %d", ErrInvalidTierRange, req.MinUnits)
	}
	if req.MaxUnits != nil && *req.MaxUnits < req.MinUnits {
		return nil, fmt.Errorf("%w: max units %d below min units %d", ErrInvalidTierRange, *req.MaxUnits, req.MinUnits)
	}
	if req.PricePerUnit.IsNegative() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, req.PricePerUnit.String())
	}

	now := time.Now().UTC()
	return &domain.PricingTier{
		TierID:       uuid.NewString(),
		PlanID:       req.PlanID,
		MinUnits:     req.MinUnits,
		MaxUnits:     req.MaxUnits,
		PricePerUnit: req.PricePerUnit,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}, nil
}

func buildQuote(planID string, tier *domain.PricingTier, unitCount int, floor *decimal.Decimal, fallback bool) *domain.PriceQuote {
	total := tier.PricePerUnit.Mul(decimal.NewFromInt(int64(unitCount)))
	if floor != nil && total.LessThan(*floor) {
		total = *floor
	}
	return &domain.PriceQuote{
		PlanID:          planID,
		TierID:          tier.TierID,
		UnitCount:       unitCount,
		UnitPrice:       tier.PricePerUnit,
		Total:           total,
		FallbackApplied: fallback,
	}
}
