package services

import (
	"context"

	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// FeeGeneratorSvc defines the generation operations of the fee catalog.
type FeeGeneratorSvc interface {
	// GenerateForYear creates one regular fee per active fraction and period
	// slot of the condominium-year. Idempotent: slots already generated are
	// skipped. A condominium with no active fractions is a no-op.
	GenerateForYear(ctx context.Context, condominiumID string, req dto.GenerateFeesRequest, creatorUserID string) (*dto.GenerateFeesResponse, error)

	// HasAnnualFeesForYear reports whether every period slot of the year
	// already carries a regular fee. Used as a guard against double
	// generation.
	HasAnnualFeesForYear(ctx context.Context, condominiumID string, year int) (bool, error)

	// ConfigurePeriod upserts the granularity of a condominium-year.
	ConfigurePeriod(ctx context.Context, condominiumID string, req dto.ConfigurePeriodRequest, userID string) error
}

// FeeReaderSvc defines read operations of the fee catalog.
type FeeReaderSvc interface {
	// GetFeeByID retrieves one fee.
	GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, error)

	// OutstandingForFraction returns the fraction's unpaid fees in
	// liquidation order: period year ascending, period slot ascending,
	// regular before extra within a slot, fee ID ascending. The liquidation
	// engine depends on exactly this ordering.
	OutstandingForFraction(ctx context.Context, fractionID string) ([]domain.Fee, error)

	// FeesMapByYear aggregates the condominium's fees of a year into a
	// slot -> fraction -> cell structure with derived statuses.
	FeesMapByYear(ctx context.Context, condominiumID string, year int) (*dto.YearFeeMap, error)
}

// FeeWriterSvc defines operator-facing write operations of the fee catalog.
type FeeWriterSvc interface {
	// CreateExtraFee records an ad-hoc or historical fee. Extra fees always
	// carry a period month; the calendar buckets them into the configured
	// granularity at read time.
	CreateExtraFee(ctx context.Context, condominiumID string, req dto.CreateExtraFeeRequest, creatorUserID string) (*domain.Fee, error)

	// CorrectHistoricalFee rewrites operator-mutable fields of a fee.
	CorrectHistoricalFee(ctx context.Context, feeID string, req dto.CorrectFeeRequest, userID string) (*domain.Fee, error)
}

// FeeSvcFacade combines all fee catalog service interfaces.
type FeeSvcFacade interface {
	FeeGeneratorSvc
	FeeReaderSvc
	FeeWriterSvc
}
