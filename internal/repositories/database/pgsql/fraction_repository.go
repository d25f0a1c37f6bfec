package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
)

type PgxFractionRepository struct {
	BaseRepository
}

// newPgxFractionRepository creates a read-only repository over the fractions
// and subscription_condominiums tables. The billing engine only consumes
// counts and ID listings from them.
func newPgxFractionRepository(pool *pgxpool.Pool) portsrepo.FractionReader {
	return &PgxFractionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FractionReader = (*PgxFractionRepository)(nil)

// ListActiveFractionIDs returns the IDs of a condominium's active fractions.
func (r *PgxFractionRepository) ListActiveFractionIDs(ctx context.Context, condominiumID string) ([]string, error) {
	query := `SELECT fraction_id FROM fractions WHERE condominium_id = $1 AND is_active = TRUE ORDER BY fraction_id;`

	rows, err := r.Pool.Query(ctx, query, condominiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active fractions for condominium %s: %w", condominiumID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan fraction row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fraction rows: %w", err)
	}
	return ids, nil
}

// ActiveFractionCount returns the number of active fractions of a condominium.
func (r *PgxFractionRepository) ActiveFractionCount(ctx context.Context, condominiumID string) (int, error) {
	query := `SELECT COUNT(*) FROM fractions WHERE condominium_id = $1 AND is_active = TRUE;`

	var count int
	if err := r.Pool.QueryRow(ctx, query, condominiumID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active fractions for condominium %s: %w", condominiumID, err)
	}
	return count, nil
}

// ActiveFractionCountForSubscription sums active fractions across all
// condominiums attached to a subscription.
func (r *PgxFractionRepository) ActiveFractionCountForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM fractions f
		JOIN subscription_condominiums sc ON sc.condominium_id = f.condominium_id
		WHERE sc.subscription_id = $1 AND f.is_active = TRUE;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, subscriptionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active fractions for subscription %s: %w", subscriptionID, err)
	}
	return count, nil
}
