package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee mirrors a row of the fees table.
type Fee struct {
	FeeID         string          `json:"feeID"`
	CondominiumID string          `json:"condominiumID"`
	FractionID    string          `json:"fractionID"`
	PeriodType    string          `json:"periodType"`
	FeeType       string          `json:"feeType"`
	PeriodYear    int             `json:"periodYear"`
	PeriodMonth   *int            `json:"periodMonth,omitempty"`
	PeriodIndex   *int            `json:"periodIndex,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	BaseAmount    decimal.Decimal `json:"baseAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"dueDate"`
	IsHistorical  bool            `json:"isHistorical"`
	Reference     *string         `json:"reference,omitempty"`
	Notes         string          `json:"notes"`
	AuditFields
}

// FeePayment mirrors a row of the fee_payments table.
type FeePayment struct {
	PaymentID              string          `json:"paymentID"`
	FeeID                  string          `json:"feeID"`
	Amount                 decimal.Decimal `json:"amount"`
	PaymentMethod          string          `json:"paymentMethod"`
	Reference              string          `json:"reference"`
	PaymentDate            time.Time       `json:"paymentDate"`
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
	AuditFields
}

// CondominiumFeePeriod mirrors a row of the condominium_fee_periods table.
type CondominiumFeePeriod struct {
	CondominiumID string `json:"condominiumID"`
	Year          int    `json:"year"`
	PeriodType    string `json:"periodType"`
	AuditFields
}
