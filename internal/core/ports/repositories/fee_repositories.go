package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// FeeReader defines read operations for fee data.
type FeeReader interface {
	// FindFeeByID retrieves a specific fee by its unique identifier.
	FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error)

	// FindOutstandingByFraction retrieves the fees of a fraction whose paid
	// amount has not yet covered the fee amount. No ordering guarantee; the
	// fee service applies the liquidation ordering contract via the period
	// calendar.
	FindOutstandingByFraction(ctx context.Context, fractionID string) ([]domain.Fee, error)

	// ListFeesByCondominiumYear retrieves all fees of a condominium for one
	// billing year.
	ListFeesByCondominiumYear(ctx context.Context, condominiumID string, year int) ([]domain.Fee, error)

	// FindOutstandingByCondominium retrieves every unpaid fee of a
	// condominium across all years. Feeds the outstanding totals report.
	FindOutstandingByCondominium(ctx context.Context, condominiumID string) ([]domain.Fee, error)

	// CountRegularSlots counts the distinct period slots of a condominium-year
	// that already carry a non-historical regular fee. Used as the
	// generation-completeness guard.
	CountRegularSlots(ctx context.Context, condominiumID string, year int) (int, error)
}

// FeeWriter defines write operations for fee data.
type FeeWriter interface {
	// SaveFee inserts a single fee (extra or historical entry paths).
	SaveFee(ctx context.Context, fee domain.Fee) error

	// SaveFees batch-inserts generated fees. Rows colliding with the partial
	// unique index on (fraction, year, slot) for regular non-historical fees
	// are skipped, which makes generation idempotent under retries and
	// concurrent invocations. Returns the number of rows actually inserted.
	SaveFees(ctx context.Context, fees []domain.Fee) (int, error)

	// UpdateFee applies an operator correction to a fee. Only the fields
	// enumerated by domain.FeeCorrection can change.
	UpdateFee(ctx context.Context, feeID string, corr domain.FeeCorrection, userID string, now time.Time) error

	// AdjustFeePaidInTx shifts a fee's paid amount by a delta inside an
	// enclosing transaction. The update is guarded so the paid amount never
	// exceeds the fee amount, even when concurrent liquidations raced on the
	// same fee; a rejected delta returns ErrConflict and aborts the step.
	// Negative deltas clamp at zero. The cached status is derived in the same
	// statement. Used only by the liquidation path.
	AdjustFeePaidInTx(ctx context.Context, tx pgx.Tx, feeID string, delta decimal.Decimal, userID string, now time.Time) error
}

// FeeRepositoryFacade combines all fee-related repository interfaces.
type FeeRepositoryFacade interface {
	FeeReader
	FeeWriter
}
