package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeePayment is one application of money against one fee. The sum of payments
// for a fee never exceeds the fee amount; the liquidation engine caps each
// application.
type FeePayment struct {
	PaymentID              string          `json:"paymentID"`
	FeeID                  string          `json:"feeID"`
	Amount                 decimal.Decimal `json:"amount"` // > 0
	PaymentMethod          string          `json:"paymentMethod"`
	Reference              string          `json:"reference"`
	PaymentDate            time.Time       `json:"paymentDate"`
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
	AuditFields
}

// FeeApplication reports how much of a payment went to a single fee.
type FeeApplication struct {
	FeeID         string          `json:"feeID"`
	PaymentID     string          `json:"paymentID"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
}
