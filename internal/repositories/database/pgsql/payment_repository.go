package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	"github.com/condofy/condo_billing_app/internal/models"
	"github.com/condofy/condo_billing_app/internal/utils/mapping"
)

const paymentColumns = `payment_id, fee_id, amount, payment_method, reference, payment_date, financial_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
	feeRepo    portsrepo.FeeWriter
	ledgerRepo portsrepo.LedgerWriter
}

// newPgxPaymentRepository creates a new repository for fee payments. The fee
// and ledger repositories contribute their InTx statements so each
// liquidation step commits as one transaction.
func newPgxPaymentRepository(pool *pgxpool.Pool, feeRepo portsrepo.FeeWriter, ledgerRepo portsrepo.LedgerWriter) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		feeRepo:        feeRepo,
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (*models.FeePayment, error) {
	var m models.FeePayment
	err := row.Scan(
		&m.PaymentID,
		&m.FeeID,
		&m.Amount,
		&m.PaymentMethod,
		&m.Reference,
		&m.PaymentDate,
		&m.FinancialTransactionID,
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

// FindPaymentByID retrieves a fee payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.FeePayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM fee_payments WHERE payment_id = $1;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainFeePayment(*m)
	return &payment, nil
}

// ListPaymentsByFee retrieves all payments applied to a fee, oldest first.
func (r *PgxPaymentRepository) ListPaymentsByFee(ctx context.Context, feeID string) ([]domain.FeePayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM fee_payments WHERE fee_id = $1 ORDER BY created_at, payment_id;`

	rows, err := r.Pool.Query(ctx, query, feeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for fee %s: %w", feeID, err)
	}
	defer rows.Close()

	payments := []domain.FeePayment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainFeePayment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// ApplyStep commits one fee application as a single transaction: the payment
// row, the matching ledger debit, the balance decrement and a guarded
// increment of the fee's paid amount by payment.Amount. A failure anywhere,
// including a concurrent application that already covered the fee, rolls
// back the whole step.
func (r *PgxPaymentRepository) ApplyStep(ctx context.Context, payment domain.FeePayment, debit domain.FractionAccountMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.insertPaymentInTx(ctx, tx, payment); err != nil {
		return err
	}
	if err := r.ledgerRepo.AddMovementInTx(ctx, tx, debit); err != nil {
		return err
	}
	if err := r.ledgerRepo.AdjustBalanceInTx(ctx, tx, debit.FractionAccountID, debit.Amount.Neg(), payment.CreatedBy, payment.CreatedAt); err != nil {
		return err
	}
	if err := r.feeRepo.AdjustFeePaidInTx(ctx, tx, payment.FeeID, payment.Amount, payment.CreatedBy, payment.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UndoStep reverses one fee application as a single transaction: the ledger
// debit is deleted, the balance restored, the payment row removed and the
// fee's paid amount decremented by payment.Amount.
func (r *PgxPaymentRepository) UndoStep(ctx context.Context, payment domain.FeePayment, debit domain.FractionAccountMovement, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.ledgerRepo.DeleteMovementInTx(ctx, tx, debit.MovementID); err != nil {
		return err
	}
	if err := r.ledgerRepo.AdjustBalanceInTx(ctx, tx, debit.FractionAccountID, debit.Amount, userID, now); err != nil {
		return err
	}
	if err := r.deletePaymentInTx(ctx, tx, payment.PaymentID); err != nil {
		return err
	}
	if err := r.feeRepo.AdjustFeePaidInTx(ctx, tx, payment.FeeID, payment.Amount.Neg(), userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxPaymentRepository) insertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.FeePayment) error {
	m := mapping.ToModelFeePayment(payment)

	query := `
		INSERT INTO fee_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.PaymentID, m.FeeID, m.Amount, m.PaymentMethod, m.Reference,
		m.PaymentDate, m.FinancialTransactionID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) deletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM fee_payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s not found during delete", apperrors.ErrNotFound, paymentID)
	}
	return nil
}
