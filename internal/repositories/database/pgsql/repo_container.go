package pgsql

import (
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	feeRepo := newPgxFeeRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool, feeRepo, ledgerRepo)
	periodRepo := newPgxPeriodRepository(dbPool)
	pricingRepo := newPgxPricingRepository(dbPool)
	fractionRepo := newPgxFractionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		FeeRepo:      feeRepo,
		PaymentRepo:  paymentRepo,
		LedgerRepo:   ledgerRepo,
		PeriodRepo:   periodRepo,
		PricingRepo:  pricingRepo,
		FractionRepo: fractionRepo,
	}
}
