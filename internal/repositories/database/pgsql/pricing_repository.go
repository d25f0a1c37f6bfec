package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	"github.com/condofy/condo_billing_app/internal/models"
	"github.com/condofy/condo_billing_app/internal/utils/mapping"
)

const tierColumns = `tier_id, plan_id, min_units, max_units, price_per_unit, sort_order, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxPricingRepository struct {
	BaseRepository
}

// newPgxPricingRepository creates a new repository for the pricing tier
// tables. Plan tiers and extra-condominiums tiers share one row shape in
// separate tables.
func newPgxPricingRepository(pool *pgxpool.Pool) portsrepo.PricingRepositoryFacade {
	return &PgxPricingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PricingRepositoryFacade = (*PgxPricingRepository)(nil)

// SavePlanTier inserts a tier row into plan_pricing_tiers.
func (r *PgxPricingRepository) SavePlanTier(ctx context.Context, tier domain.PricingTier) error {
	return r.saveTier(ctx, "plan_pricing_tiers", tier)
}

// ListActivePlanTiers returns the active tiers of a plan, min_units ascending.
func (r *PgxPricingRepository) ListActivePlanTiers(ctx context.Context, planID string) ([]domain.PricingTier, error) {
	return r.listActiveTiers(ctx, "plan_pricing_tiers", planID)
}

// SaveExtraCondominiumsTier inserts a tier row into plan_extra_condominiums_pricing.
func (r *PgxPricingRepository) SaveExtraCondominiumsTier(ctx context.Context, tier domain.PricingTier) error {
	return r.saveTier(ctx, "plan_extra_condominiums_pricing", tier)
}

// ListActiveExtraCondominiumsTiers returns the active extra-condominiums
// tiers of a plan, min_units ascending.
func (r *PgxPricingRepository) ListActiveExtraCondominiumsTiers(ctx context.Context, planID string) ([]domain.PricingTier, error) {
	return r.listActiveTiers(ctx, "plan_extra_condominiums_pricing", planID)
}

func (r *PgxPricingRepository) saveTier(ctx context.Context, table string, tier domain.PricingTier) error {
	m := mapping.ToModelPricingTier(tier)

	query := `
		INSERT INTO ` + table + ` (` + tierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TierID, m.PlanID, m.MinUnits, m.MaxUnits, m.PricePerUnit,
		m.SortOrder, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: tier %s already exists", apperrors.ErrDuplicate, m.TierID)
		}
		return fmt.Errorf("failed to save tier %s: %w", m.TierID, err)
	}
	return nil
}

func (r *PgxPricingRepository) listActiveTiers(ctx context.Context, table string, planID string) ([]domain.PricingTier, error) {
	query := `SELECT ` + tierColumns + ` FROM ` + table + ` WHERE plan_id = $1 AND is_active = TRUE ORDER BY min_units;`

	rows, err := r.Pool.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tiers for plan %s: %w", planID, err)
	}
	defer rows.Close()

	modelTiers := []models.PricingTier{}
	for rows.Next() {
		var m models.PricingTier
		err := rows.Scan(
			&m.TierID,
			&m.PlanID,
			&m.MinUnits,
			&m.MaxUnits,
			&m.PricePerUnit,
			&m.SortOrder,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier row: %w", err)
		}
		modelTiers = append(modelTiers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tier rows: %w", err)
	}
	return mapping.ToDomainPricingTierSlice(modelTiers), nil
}
