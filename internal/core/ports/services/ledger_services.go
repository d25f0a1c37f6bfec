package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// LedgerReaderSvc defines read operations on fraction accounts.
type LedgerReaderSvc interface {
	// GetAccountByFraction returns a fraction's account.
	GetAccountByFraction(ctx context.Context, fractionID string) (*domain.FractionAccount, error)

	// ListMovements returns one keyset-paginated page of an account's
	// statement, newest first.
	ListMovements(ctx context.Context, accountID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// CheckConsistency recomputes credits minus debits for the account and
	// compares it with the stored balance. A mismatch returns
	// apperrors.ErrInvariantViolation alongside the report.
	CheckConsistency(ctx context.Context, accountID string) (*dto.ConsistencyResponse, error)
}

// LedgerWriterSvc defines the credit mutation operations exposed to
// operators. Debits are only ever written by the liquidation engine.
type LedgerWriterSvc interface {
	// AddCredit records a credit independent of any fee (advance payment,
	// historical adjustment), creating the account on first use.
	AddCredit(ctx context.Context, req dto.AddCreditRequest, creatorUserID string) (*domain.FractionAccountMovement, error)

	// UpdateCredit corrects a credit movement's amount, adjusting the account
	// balance by the exact delta.
	UpdateCredit(ctx context.Context, movementID string, newAmount decimal.Decimal, newDescription *string, userID string) error

	// RemoveCredit deletes a credit movement, reversing its balance effect.
	RemoveCredit(ctx context.Context, movementID string, userID string) error
}

// LedgerSvcFacade combines the ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
