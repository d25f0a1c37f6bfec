package services

import (
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Fee service first since liquidation depends on its ordering contract
	container.Fee = NewFeeService(repos.FeeRepo, repos.PeriodRepo, repos.FractionRepo, cfg.FeeDueDay)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Liquidation = NewLiquidationService(repos.PaymentRepo, repos.FeeRepo, repos.LedgerRepo, container.Fee)
	container.Pricing = NewPricingService(repos.PricingRepo, repos.FractionRepo)
	container.Reporting = NewReportingService(repos.FeeRepo, repos.LedgerRepo, container.Ledger)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.FeeSvcFacade         = (*feeService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.LiquidationSvcFacade = (*liquidationService)(nil)
	_ portssvc.PricingSvcFacade     = (*pricingService)(nil)
	_ portssvc.ReportingSvcFacade   = (*reportingService)(nil)
)
