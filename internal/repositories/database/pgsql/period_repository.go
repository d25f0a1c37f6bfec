package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	"github.com/condofy/condo_billing_app/internal/models"
	"github.com/condofy/condo_billing_app/internal/utils/mapping"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for condominium fee period
// configuration.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

// UpsertPeriod writes the period type for a condominium-year. At most one row
// exists per (condominium, year); reruns overwrite the period type in place.
func (r *PgxPeriodRepository) UpsertPeriod(ctx context.Context, period domain.CondominiumFeePeriod) error {
	query := `
		INSERT INTO condominium_fee_periods (condominium_id, year, period_type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (condominium_id, year)
		DO UPDATE SET period_type = EXCLUDED.period_type, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		period.CondominiumID,
		period.Year,
		string(period.PeriodType),
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert period for condominium %s year %d: %w", period.CondominiumID, period.Year, err)
	}
	return nil
}

// FindPeriodType returns the configured period type for a condominium-year.
func (r *PgxPeriodRepository) FindPeriodType(ctx context.Context, condominiumID string, year int) (domain.PeriodType, error) {
	query := `SELECT period_type FROM condominium_fee_periods WHERE condominium_id = $1 AND year = $2;`

	var periodType string
	err := r.Pool.QueryRow(ctx, query, condominiumID, year).Scan(&periodType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to find period type for condominium %s year %d: %w", condominiumID, year, err)
	}
	return domain.PeriodType(periodType), nil
}

// ListPeriodsByCondominium returns all configured years for a condominium.
func (r *PgxPeriodRepository) ListPeriodsByCondominium(ctx context.Context, condominiumID string) ([]domain.CondominiumFeePeriod, error) {
	query := `
		SELECT condominium_id, year, period_type, created_at, created_by, last_updated_at, last_updated_by
		FROM condominium_fee_periods
		WHERE condominium_id = $1
		ORDER BY year;
	`
	rows, err := r.Pool.Query(ctx, query, condominiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods for condominium %s: %w", condominiumID, err)
	}
	defer rows.Close()

	periods := []domain.CondominiumFeePeriod{}
	for rows.Next() {
		var m models.CondominiumFeePeriod
		err := rows.Scan(
			&m.CondominiumID,
			&m.Year,
			&m.PeriodType,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainFeePeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}
