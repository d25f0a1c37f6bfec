package services

import (
	"context"

	"github.com/condofy/condo_billing_app/internal/dto"
)

// ReportingSvcFacade provides read-only aggregated views over fees and
// accounts.
type ReportingSvcFacade interface {
	// OutstandingTotals sums each fraction's unpaid fee remainder for the
	// condominium.
	OutstandingTotals(ctx context.Context, condominiumID string) (*dto.OutstandingTotalsResponse, error)

	// AccountStatement returns the fraction's account header with one page of
	// movements, newest first.
	AccountStatement(ctx context.Context, fractionID string, params dto.ListMovementsParams) (*dto.AccountStatementResponse, error)
}
