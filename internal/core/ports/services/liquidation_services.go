package services

import (
	"context"

	"github.com/condofy/condo_billing_app/internal/dto"
)

// LiquidationSvcFacade applies payments against outstanding fees and reverses
// individual applications.
type LiquidationSvcFacade interface {
	// Apply walks the fraction's outstanding fees in liquidation order,
	// settling each up to its remaining amount. Any surplus after the last
	// outstanding fee becomes a ledger credit. On a mid-run failure the
	// response still lists the applications already committed.
	Apply(ctx context.Context, condominiumID string, req dto.ApplyPaymentRequest, creatorUserID string) (*dto.ApplyPaymentResponse, error)

	// Undo reverses a single fee payment: the ledger debit created for it is
	// reversed, the payment row deleted and the fee's paid amount and status
	// re-derived, all transactionally.
	Undo(ctx context.Context, feePaymentID string, userID string) error
}
