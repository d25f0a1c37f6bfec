package mapping

import (
	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/models"
)

// ToDomainFractionAccount converts a persistence model to a domain.FractionAccount.
func ToDomainFractionAccount(m models.FractionAccount) domain.FractionAccount {
	return domain.FractionAccount{
		AccountID:     m.AccountID,
		CondominiumID: m.CondominiumID,
		FractionID:    m.FractionID,
		Balance:       m.Balance,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToDomainMovement converts a persistence model to a domain.FractionAccountMovement.
func ToDomainMovement(m models.FractionAccountMovement) domain.FractionAccountMovement {
	return domain.FractionAccountMovement{
		MovementID:             m.MovementID,
		FractionAccountID:      m.FractionAccountID,
		Type:                   domain.MovementType(m.Type),
		Amount:                 m.Amount,
		SourceType:             domain.MovementSource(m.SourceType),
		SourceReferenceID:      m.SourceReferenceID,
		FinancialTransactionID: m.FinancialTransactionID,
		Description:            m.Description,
		AuditFields:            toDomainAudit(m.AuditFields),
	}
}

// ToDomainMovementSlice converts a slice of movement models to domain movements.
func ToDomainMovementSlice(ms []models.FractionAccountMovement) []domain.FractionAccountMovement {
	ds := make([]domain.FractionAccountMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
