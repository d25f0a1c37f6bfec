package mapping

import (
	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/models"
)

// ToModelFee converts a domain.Fee to its persistence model.
func ToModelFee(d domain.Fee) models.Fee {
	return models.Fee{
		FeeID:         d.FeeID,
		CondominiumID: d.CondominiumID,
		FractionID:    d.FractionID,
		PeriodType:    string(d.PeriodType),
		FeeType:       string(d.FeeType),
		PeriodYear:    d.PeriodYear,
		PeriodMonth:   d.PeriodMonth,
		PeriodIndex:   d.PeriodIndex,
		Amount:        d.Amount,
		BaseAmount:    d.BaseAmount,
		PaidAmount:    d.PaidAmount,
		Status:        string(d.Status),
		DueDate:       d.DueDate,
		IsHistorical:  d.IsHistorical,
		Reference:     d.Reference,
		Notes:         d.Notes,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToDomainFee converts a persistence model to a domain.Fee.
func ToDomainFee(m models.Fee) domain.Fee {
	return domain.Fee{
		FeeID:         m.FeeID,
		CondominiumID: m.CondominiumID,
		FractionID:    m.FractionID,
		PeriodType:    domain.PeriodType(m.PeriodType),
		FeeType:       domain.FeeType(m.FeeType),
		PeriodYear:    m.PeriodYear,
		PeriodMonth:   m.PeriodMonth,
		PeriodIndex:   m.PeriodIndex,
		Amount:        m.Amount,
		BaseAmount:    m.BaseAmount,
		PaidAmount:    m.PaidAmount,
		Status:        domain.FeeStatus(m.Status),
		DueDate:       m.DueDate,
		IsHistorical:  m.IsHistorical,
		Reference:     m.Reference,
		Notes:         m.Notes,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToDomainFeeSlice converts a slice of fee models to domain fees.
func ToDomainFeeSlice(ms []models.Fee) []domain.Fee {
	ds := make([]domain.Fee, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFee(m)
	}
	return ds
}

// ToModelFeePayment converts a domain.FeePayment to its persistence model.
func ToModelFeePayment(d domain.FeePayment) models.FeePayment {
	return models.FeePayment{
		PaymentID:              d.PaymentID,
		FeeID:                  d.FeeID,
		Amount:                 d.Amount,
		PaymentMethod:          d.PaymentMethod,
		Reference:              d.Reference,
		PaymentDate:            d.PaymentDate,
		FinancialTransactionID: d.FinancialTransactionID,
		AuditFields:            toModelAudit(d.AuditFields),
	}
}

// ToDomainFeePayment converts a persistence model to a domain.FeePayment.
func ToDomainFeePayment(m models.FeePayment) domain.FeePayment {
	return domain.FeePayment{
		PaymentID:              m.PaymentID,
		FeeID:                  m.FeeID,
		Amount:                 m.Amount,
		PaymentMethod:          m.PaymentMethod,
		Reference:              m.Reference,
		PaymentDate:            m.PaymentDate,
		FinancialTransactionID: m.FinancialTransactionID,
		AuditFields:            toDomainAudit(m.AuditFields),
	}
}

// ToDomainFeePeriod converts a persistence model to a domain.CondominiumFeePeriod.
func ToDomainFeePeriod(m models.CondominiumFeePeriod) domain.CondominiumFeePeriod {
	return domain.CondominiumFeePeriod{
		CondominiumID: m.CondominiumID,
		Year:          m.Year,
		PeriodType:    domain.PeriodType(m.PeriodType),
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(a models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}
