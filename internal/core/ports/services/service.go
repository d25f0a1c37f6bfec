package services

// ServiceContainer holds all services for dependency injection into the
// handlers.
type ServiceContainer struct {
	Fee         FeeSvcFacade
	Ledger      LedgerSvcFacade
	Liquidation LiquidationSvcFacade
	Pricing     PricingSvcFacade
	Reporting   ReportingSvcFacade
}
