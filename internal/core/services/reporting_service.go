package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// reportingService builds read-only aggregates over fees and accounts.
type reportingService struct {
	feeRepo    portsrepo.FeeRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
	ledgerSvc  portssvc.LedgerReaderSvc
}

// NewReportingService creates a new reporting service.
func NewReportingService(feeRepo portsrepo.FeeRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, ledgerSvc portssvc.LedgerReaderSvc) portssvc.ReportingSvcFacade {
	return &reportingService{
		feeRepo:    feeRepo,
		ledgerRepo: ledgerRepo,
		ledgerSvc:  ledgerSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// OutstandingTotals sums each fraction's unpaid remainder across all years.
func (s *reportingService) OutstandingTotals(ctx context.Context, condominiumID string) (*dto.OutstandingTotalsResponse, error) {
	fees, err := s.feeRepo.FindOutstandingByCondominium(ctx, condominiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding fees for condominium %s: %w", condominiumID, err)
	}

	resp := &dto.OutstandingTotalsResponse{
		CondominiumID: condominiumID,
		Totals:        make(map[string]decimal.Decimal),
		GrandTotal:    decimal.Zero,
	}
	for _, fee := range fees {
		remaining := fee.Remaining()
		if !remaining.IsPositive() {
			continue
		}
		resp.Totals[fee.FractionID] = resp.Totals[fee.FractionID].Add(remaining)
		resp.GrandTotal = resp.GrandTotal.Add(remaining)
	}
	return resp, nil
}

// AccountStatement returns the fraction's account header with one page of its
// movement history.
func (s *reportingService) AccountStatement(ctx context.Context, fractionID string, params dto.ListMovementsParams) (*dto.AccountStatementResponse, error) {
	account, err := s.ledgerRepo.FindAccountByFraction(ctx, fractionID)
	if err != nil {
		return nil, err
	}

	page, err := s.ledgerSvc.ListMovements(ctx, account.AccountID, params)
	if err != nil {
		return nil, err
	}

	return &dto.AccountStatementResponse{
		Account:   dto.ToAccountResponse(account),
		Movements: page.Movements,
		NextToken: page.NextToken,
	}, nil
}
