package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	"github.com/condofy/condo_billing_app/internal/models"
	"github.com/condofy/condo_billing_app/internal/utils/mapping"
	"github.com/condofy/condo_billing_app/internal/utils/pagination"
)

const accountColumns = `account_id, condominium_id, fraction_id, balance, created_at, created_by, last_updated_at, last_updated_by`

const movementColumns = `movement_id, fraction_account_id, movement_type, amount, source_type, source_reference_id, financial_transaction_id, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for fraction accounts and
// their movements.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

func scanAccount(row pgx.Row) (*models.FractionAccount, error) {
	var m models.FractionAccount
	err := row.Scan(
		&m.AccountID,
		&m.CondominiumID,
		&m.FractionID,
		&m.Balance,
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

func scanMovement(row pgx.Row) (*models.FractionAccountMovement, error) {
	var m models.FractionAccountMovement
	err := row.Scan(
		&m.MovementID,
		&m.FractionAccountID,
		&m.Type,
		&m.Amount,
		&m.SourceType,
		&m.SourceReferenceID,
		&m.FinancialTransactionID,
		&m.Description,
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

// FindAccountByID retrieves a fraction account by its ID.
func (r *PgxLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.FractionAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM fraction_accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	account := mapping.ToDomainFractionAccount(*m)
	return &account, nil
}

// FindAccountByFraction retrieves the account of a fraction.
func (r *PgxLedgerRepository) FindAccountByFraction(ctx context.Context, fractionID string) (*domain.FractionAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM fraction_accounts WHERE fraction_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, fractionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for fraction %s: %w", fractionID, err)
	}
	account := mapping.ToDomainFractionAccount(*m)
	return &account, nil
}

// FindMovementByID retrieves a single movement.
func (r *PgxLedgerRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.FractionAccountMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM fraction_account_movements WHERE movement_id = $1;`

	m, err := scanMovement(r.Pool.QueryRow(ctx, query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movement by ID %s: %w", movementID, err)
	}
	movement := mapping.ToDomainMovement(*m)
	return &movement, nil
}

// FindMovementBySourceReference locates the movement created for an origin
// row, e.g. the debit written for a fee payment.
func (r *PgxLedgerRepository) FindMovementBySourceReference(ctx context.Context, sourceType domain.MovementSource, sourceReferenceID string) (*domain.FractionAccountMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM fraction_account_movements WHERE source_type = $1 AND source_reference_id = $2;`

	m, err := scanMovement(r.Pool.QueryRow(ctx, query, string(sourceType), sourceReferenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movement for source %s/%s: %w", sourceType, sourceReferenceID, err)
	}
	movement := mapping.ToDomainMovement(*m)
	return &movement, nil
}

// ListMovementsByAccount retrieves a keyset-paginated page of movements,
// newest first. The cursor is (created_at, movement_id) so inserts during
// pagination cannot shift the window.
func (r *PgxLedgerRepository) ListMovementsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FractionAccountMovement, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{accountID, limit + 1}
	query := `SELECT ` + movementColumns + ` FROM fraction_account_movements WHERE fraction_account_id = $1`
	if nextToken != nil && *nextToken != "" {
		createdAt, movementID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, movement_id) < ($3, $4)`
		args = append(args, createdAt, movementID)
	}
	query += ` ORDER BY created_at DESC, movement_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query movements for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelMovements := []models.FractionAccountMovement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		modelMovements = append(modelMovements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating movement rows: %w", err)
	}

	var token *string
	if len(modelMovements) > limit {
		modelMovements = modelMovements[:limit]
		last := modelMovements[len(modelMovements)-1]
		encoded := pagination.EncodeToken(last.CreatedAt, last.MovementID)
		token = &encoded
	}
	return mapping.ToDomainMovementSlice(modelMovements), token, nil
}

// SumMovements returns the credit and debit totals of an account's history.
func (r *PgxLedgerRepository) SumMovements(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE movement_type = 'CREDIT'), 0),
			COALESCE(SUM(amount) FILTER (WHERE movement_type = 'DEBIT'), 0)
		FROM fraction_account_movements
		WHERE fraction_account_id = $1;
	`
	var credits, debits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&credits, &debits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum movements for account %s: %w", accountID, err)
	}
	return credits, debits, nil
}

// GetOrCreateAccount returns the fraction's account, creating it with a zero
// balance on first use. ON CONFLICT DO NOTHING makes concurrent first uses
// converge on the same row.
func (r *PgxLedgerRepository) GetOrCreateAccount(ctx context.Context, fractionID, condominiumID, userID string, now time.Time) (*domain.FractionAccount, error) {
	account, err := r.FindAccountByFraction(ctx, fractionID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	insert := `
		INSERT INTO fraction_accounts (account_id, condominium_id, fraction_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 0, $4, $5, $4, $5)
		ON CONFLICT (fraction_id) DO NOTHING;
	`
	if _, err := r.Pool.Exec(ctx, insert, uuid.NewString(), condominiumID, fractionID, now, userID); err != nil {
		return nil, fmt.Errorf("failed to create account for fraction %s: %w", fractionID, err)
	}
	return r.FindAccountByFraction(ctx, fractionID)
}

// AddMovement appends a movement and adjusts the account balance in one
// transaction.
func (r *PgxLedgerRepository) AddMovement(ctx context.Context, movement domain.FractionAccountMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.AddMovementInTx(ctx, tx, movement); err != nil {
		return err
	}
	if err := r.AdjustBalanceInTx(ctx, tx, movement.FractionAccountID, movement.Signed(), movement.CreatedBy, movement.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateCreditMovement rewrites a credit movement's amount, applying the
// exact balance delta atomically with the row update. The movement row is
// locked first so a concurrent correction cannot base its delta on a stale
// amount.
func (r *PgxLedgerRepository) UpdateCreditMovement(ctx context.Context, movementID string, newAmount decimal.Decimal, newDescription *string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var accountID string
	var oldAmount decimal.Decimal
	lockQuery := `SELECT fraction_account_id, amount FROM fraction_account_movements WHERE movement_id = $1 AND movement_type = 'CREDIT' FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, movementID).Scan(&accountID, &oldAmount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock movement %s: %w", movementID, err)
	}

	update := `
		UPDATE fraction_account_movements
		SET amount = $2, description = COALESCE($3, description), last_updated_at = $4, last_updated_by = $5
		WHERE movement_id = $1;
	`
	if _, err := tx.Exec(ctx, update, movementID, newAmount, newDescription, now, userID); err != nil {
		return fmt.Errorf("failed to update movement %s: %w", movementID, err)
	}

	delta := newAmount.Sub(oldAmount)
	if err := r.AdjustBalanceInTx(ctx, tx, accountID, delta, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// RemoveCreditMovement deletes a credit movement and reverses its balance
// effect in one transaction.
func (r *PgxLedgerRepository) RemoveCreditMovement(ctx context.Context, movementID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var accountID string
	var amount decimal.Decimal
	lockQuery := `SELECT fraction_account_id, amount FROM fraction_account_movements WHERE movement_id = $1 AND movement_type = 'CREDIT' FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, movementID).Scan(&accountID, &amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock movement %s: %w", movementID, err)
	}

	if err := r.DeleteMovementInTx(ctx, tx, movementID); err != nil {
		return err
	}
	if err := r.AdjustBalanceInTx(ctx, tx, accountID, amount.Neg(), userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AddMovementInTx appends a movement row inside an enclosing transaction
// without touching the balance.
func (r *PgxLedgerRepository) AddMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.FractionAccountMovement) error {
	query := `
		INSERT INTO fraction_account_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		movement.MovementID,
		movement.FractionAccountID,
		string(movement.Type),
		movement.Amount,
		string(movement.SourceType),
		movement.SourceReferenceID,
		movement.FinancialTransactionID,
		movement.Description,
		movement.CreatedAt,
		movement.CreatedBy,
		movement.LastUpdatedAt,
		movement.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", movement.MovementID, err)
	}
	return nil
}

// DeleteMovementInTx removes a movement row inside an enclosing transaction.
func (r *PgxLedgerRepository) DeleteMovementInTx(ctx context.Context, tx pgx.Tx, movementID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM fraction_account_movements WHERE movement_id = $1;`, movementID)
	if err != nil {
		return fmt.Errorf("failed to delete movement %s: %w", movementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movement %s not found during delete", apperrors.ErrNotFound, movementID)
	}
	return nil
}

// AdjustBalanceInTx applies `balance = balance + delta` to the account row.
// The atomic expression keeps concurrent writers from interleaving a
// read-modify-write.
func (r *PgxLedgerRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE fraction_accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, delta, now, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance adjustment", apperrors.ErrNotFound, accountID)
	}
	return nil
}
