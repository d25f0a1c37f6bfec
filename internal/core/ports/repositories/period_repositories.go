package repositories

import (
	"context"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// PeriodRepositoryFacade stores the per condominium-year granularity choice.
type PeriodRepositoryFacade interface {
	// UpsertPeriod writes the period type for a condominium-year; at most one
	// row exists per (condominium, year).
	UpsertPeriod(ctx context.Context, period domain.CondominiumFeePeriod) error

	// FindPeriodType returns the configured period type for a
	// condominium-year, or apperrors.ErrNotFound when none was configured.
	FindPeriodType(ctx context.Context, condominiumID string, year int) (domain.PeriodType, error)

	// ListPeriodsByCondominium returns all configured years for a condominium.
	ListPeriodsByCondominium(ctx context.Context, condominiumID string) ([]domain.CondominiumFeePeriod, error)
}
