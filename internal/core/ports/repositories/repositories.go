package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	FeeRepo      FeeRepositoryFacade
	PaymentRepo  PaymentRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	PeriodRepo   PeriodRepositoryFacade
	PricingRepo  PricingRepositoryFacade
	FractionRepo FractionReader
}
