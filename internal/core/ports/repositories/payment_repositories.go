package repositories

import (
	"context"
	"time"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// PaymentReader defines read operations for fee payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a fee payment by its ID.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.FeePayment, error)

	// ListPaymentsByFee retrieves all payments applied to a fee, oldest first.
	ListPaymentsByFee(ctx context.Context, feeID string) ([]domain.FeePayment, error)
}

// PaymentWriter persists the liquidation steps. Each step is one database
// transaction spanning the fee_payments row, the ledger movement, the atomic
// account balance adjustment and the guarded fee paid-amount delta; a
// failure anywhere rolls back the whole step.
type PaymentWriter interface {
	// ApplyStep commits one fee application: the payment row, the matching
	// ledger debit, the balance decrement and a guarded increment of the
	// fee's paid amount by payment.Amount. When a concurrent application
	// already covered the fee, the increment fails with ErrConflict and the
	// whole step rolls back.
	ApplyStep(ctx context.Context, payment domain.FeePayment, debit domain.FractionAccountMovement) error

	// UndoStep reverses one fee application: deletes the ledger debit,
	// restores the balance, deletes the payment row and decrements the fee's
	// paid amount by payment.Amount, clamped at zero.
	UndoStep(ctx context.Context, payment domain.FeePayment, debit domain.FractionAccountMovement, userID string, now time.Time) error
}

// PaymentRepositoryFacade combines the payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
