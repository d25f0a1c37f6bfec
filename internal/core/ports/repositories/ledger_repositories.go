package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// LedgerReader defines read operations for fraction accounts and movements.
type LedgerReader interface {
	// FindAccountByID retrieves a fraction account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.FractionAccount, error)

	// FindAccountByFraction retrieves the account of a fraction, if one exists.
	FindAccountByFraction(ctx context.Context, fractionID string) (*domain.FractionAccount, error)

	// FindMovementByID retrieves a single movement.
	FindMovementByID(ctx context.Context, movementID string) (*domain.FractionAccountMovement, error)

	// FindMovementBySourceReference locates the movement created for a given
	// origin row, e.g. the debit written for a fee payment.
	FindMovementBySourceReference(ctx context.Context, sourceType domain.MovementSource, sourceReferenceID string) (*domain.FractionAccountMovement, error)

	// ListMovementsByAccount retrieves a keyset-paginated movement statement,
	// newest first. Returns the movements and a token for the next page.
	ListMovementsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FractionAccountMovement, *string, error)

	// SumMovements returns the credit and debit totals of an account's
	// movement history. Used by the periodic consistency check.
	SumMovements(ctx context.Context, accountID string) (credits decimal.Decimal, debits decimal.Decimal, err error)
}

// LedgerWriter defines write operations for fraction accounts and movements.
// Every mutation couples the movement row and the balance column in a single
// database transaction, and adjusts the balance with an atomic
// `balance = balance + delta` expression so concurrent writers cannot
// interleave a read-modify-write.
type LedgerWriter interface {
	// GetOrCreateAccount returns the fraction's account, creating it with a
	// zero balance on first use.
	GetOrCreateAccount(ctx context.Context, fractionID, condominiumID, userID string, now time.Time) (*domain.FractionAccount, error)

	// AddMovement appends a credit or debit movement and adjusts the account
	// balance accordingly, transactionally.
	AddMovement(ctx context.Context, movement domain.FractionAccountMovement) error

	// UpdateCreditMovement rewrites a credit movement's amount (and
	// optionally description), applying the exact balance delta atomically
	// with the row update. Only credit movements may be corrected this way.
	UpdateCreditMovement(ctx context.Context, movementID string, newAmount decimal.Decimal, newDescription *string, userID string, now time.Time) error

	// RemoveCreditMovement deletes a credit movement and reverses its balance
	// effect, transactionally. Debits are reversed only through the
	// liquidation undo path.
	RemoveCreditMovement(ctx context.Context, movementID string, userID string, now time.Time) error

	// AddMovementInTx appends a movement inside an enclosing transaction
	// without touching the balance. The caller pairs it with
	// AdjustBalanceInTx in the same transaction.
	AddMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.FractionAccountMovement) error

	// DeleteMovementInTx removes a movement row inside an enclosing
	// transaction. Used only by the liquidation undo path.
	DeleteMovementInTx(ctx context.Context, tx pgx.Tx, movementID string) error

	// AdjustBalanceInTx applies `balance = balance + delta` to an account row
	// inside an enclosing transaction.
	AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
