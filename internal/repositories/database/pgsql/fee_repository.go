package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	"github.com/condofy/condo_billing_app/internal/models"
	"github.com/condofy/condo_billing_app/internal/utils/mapping"
)

const feeColumns = `fee_id, condominium_id, fraction_id, period_type, fee_type, period_year, period_month, period_index, amount, base_amount, paid_amount, status, due_date, is_historical, reference, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxFeeRepository struct {
	BaseRepository
}

// newPgxFeeRepository creates a new repository for fee data.
func newPgxFeeRepository(pool *pgxpool.Pool) portsrepo.FeeRepositoryFacade {
	return &PgxFeeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeRepositoryFacade = (*PgxFeeRepository)(nil)

func scanFee(row pgx.Row) (*models.Fee, error) {
	var m models.Fee
	err := row.Scan(
		&m.FeeID,
		&m.CondominiumID,
		&m.FractionID,
		&m.PeriodType,
		&m.FeeType,
		&m.PeriodYear,
		&m.PeriodMonth,
		&m.PeriodIndex,
		&m.Amount,
		&m.BaseAmount,
		&m.PaidAmount,
		&m.Status,
		&m.DueDate,
		&m.IsHistorical,
		&m.Reference,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectFees(rows pgx.Rows) ([]domain.Fee, error) {
	defer rows.Close()

	modelFees := []models.Fee{}
	for rows.Next() {
		m, err := scanFee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		modelFees = append(modelFees, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee rows: %w", err)
	}
	return mapping.ToDomainFeeSlice(modelFees), nil
}

// FindFeeByID retrieves a fee by its ID.
func (r *PgxFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE fee_id = $1;`

	m, err := scanFee(r.Pool.QueryRow(ctx, query, feeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee by ID %s: %w", feeID, err)
	}

	fee := mapping.ToDomainFee(*m)
	return &fee, nil
}

// FindOutstandingByFraction retrieves the fees of a fraction not yet covered
// by payments. Ordering is left to the service layer, which buckets the fees
// through the period calendar.
func (r *PgxFeeRepository) FindOutstandingByFraction(ctx context.Context, fractionID string) ([]domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE fraction_id = $1 AND paid_amount < amount;`

	rows, err := r.Pool.Query(ctx, query, fractionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding fees for fraction %s: %w", fractionID, err)
	}
	return collectFees(rows)
}

// ListFeesByCondominiumYear retrieves all fees of a condominium-year.
func (r *PgxFeeRepository) ListFeesByCondominiumYear(ctx context.Context, condominiumID string, year int) ([]domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE condominium_id = $1 AND period_year = $2 ORDER BY fraction_id, period_index NULLS LAST, period_month NULLS LAST;`

	rows, err := r.Pool.Query(ctx, query, condominiumID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query fees for condominium %s year %d: %w", condominiumID, year, err)
	}
	return collectFees(rows)
}

// FindOutstandingByCondominium retrieves every unpaid fee of a condominium.
func (r *PgxFeeRepository) FindOutstandingByCondominium(ctx context.Context, condominiumID string) ([]domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE condominium_id = $1 AND paid_amount < amount;`

	rows, err := r.Pool.Query(ctx, query, condominiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding fees for condominium %s: %w", condominiumID, err)
	}
	return collectFees(rows)
}

// CountRegularSlots counts the distinct period slots of a condominium-year
// that already carry a non-historical regular fee. Monthly fees store their
// slot in period_month, all other granularities in period_index.
func (r *PgxFeeRepository) CountRegularSlots(ctx context.Context, condominiumID string, year int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT COALESCE(period_index, period_month))
		FROM fees
		WHERE condominium_id = $1 AND period_year = $2 AND fee_type = 'REGULAR' AND NOT is_historical;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, condominiumID, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count regular slots for condominium %s year %d: %w", condominiumID, year, err)
	}
	return count, nil
}

// SaveFee inserts a single fee.
func (r *PgxFeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	m := mapping.ToModelFee(fee)

	query := `
		INSERT INTO fees (` + feeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FeeID, m.CondominiumID, m.FractionID, m.PeriodType, m.FeeType,
		m.PeriodYear, m.PeriodMonth, m.PeriodIndex, m.Amount, m.BaseAmount,
		m.PaidAmount, m.Status, m.DueDate, m.IsHistorical, m.Reference,
		m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fee for fraction %s period already exists", apperrors.ErrDuplicate, m.FractionID)
		}
		return fmt.Errorf("failed to save fee %s: %w", m.FeeID, err)
	}
	return nil
}

// SaveFees batch-inserts generated fees. ON CONFLICT DO NOTHING against the
// partial unique index on (fraction_id, period_year, slot) skips slots that
// were already generated, so reruns and concurrent invocations only add the
// missing rows. Returns the number of rows actually inserted.
func (r *PgxFeeRepository) SaveFees(ctx context.Context, fees []domain.Fee) (int, error) {
	if len(fees) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO fees (` + feeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, fee := range fees {
		m := mapping.ToModelFee(fee)
		batch.Queue(query,
			m.FeeID, m.CondominiumID, m.FractionID, m.PeriodType, m.FeeType,
			m.PeriodYear, m.PeriodMonth, m.PeriodIndex, m.Amount, m.BaseAmount,
			m.PaidAmount, m.Status, m.DueDate, m.IsHistorical, m.Reference,
			m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	inserted := 0
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to insert fee %s: %w", fees[i].FeeID, err)
			}
			continue
		}
		inserted += int(ct.RowsAffected())
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close fee insert batch: %w", err)
	}
	if batchErr != nil {
		return inserted, batchErr
	}
	return inserted, nil
}

// UpdateFee applies an operator correction. Only the fields enumerated by
// domain.FeeCorrection can change; nil fields keep their stored value.
func (r *PgxFeeRepository) UpdateFee(ctx context.Context, feeID string, corr domain.FeeCorrection, userID string, now time.Time) error {
	query := `
		UPDATE fees
		SET amount = COALESCE($2, amount),
		    due_date = COALESCE($3, due_date),
		    notes = COALESCE($4, notes),
		    period_month = COALESCE($5, period_month),
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE fee_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, feeID, corr.Amount, corr.DueDate, corr.Notes, corr.PeriodMonth, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update fee %s: %w", feeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustFeePaidInTx shifts the fee's paid amount by a delta inside an
// enclosing transaction. The guard on the stored row decides against the
// current paid amount, not the caller's read, so two liquidations racing on
// the same fee cannot together push the paid amount past the fee amount: the
// loser matches no row and its whole step rolls back. Undo deltas clamp at
// zero. The cached status is derived in the same statement and only ever
// holds PAID or PENDING; overdue is re-derived at read time.
func (r *PgxFeeRepository) AdjustFeePaidInTx(ctx context.Context, tx pgx.Tx, feeID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE fees
		SET paid_amount = GREATEST(paid_amount + $2, 0),
		    status = CASE WHEN GREATEST(paid_amount + $2, 0) >= amount THEN 'PAID' ELSE 'PENDING' END,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE fee_id = $1 AND paid_amount + $2 <= amount;
	`
	cmdTag, err := tx.Exec(ctx, query, feeID, delta, now, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust paid amount for fee %s: %w", feeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fees WHERE fee_id = $1);`, feeID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check fee %s after rejected adjustment: %w", feeID, err)
		}
		if !exists {
			return fmt.Errorf("%w: fee %s not found during paid amount adjustment", apperrors.ErrNotFound, feeID)
		}
		return fmt.Errorf("%w: fee %s is already settled beyond the requested amount", apperrors.ErrConflict, feeID)
	}
	return nil
}
