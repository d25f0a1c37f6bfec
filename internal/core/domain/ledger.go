package domain

import "github.com/shopspring/decimal"

// MovementType indicates whether a ledger movement is a credit or a debit.
type MovementType string

const (
	Credit MovementType = "CREDIT"
	Debit  MovementType = "DEBIT"
)

// MovementSource identifies what originated a ledger movement.
type MovementSource string

const (
	SourceQuotaPayment     MovementSource = "QUOTA_PAYMENT"
	SourceQuotaApplication MovementSource = "QUOTA_APPLICATION"
	SourceManualCredit     MovementSource = "MANUAL_CREDIT"
)

// FractionAccount is the running balance for one fraction. The central
// reconciliation invariant of the whole engine:
//
//	balance == sum(credit movements) - sum(debit movements)
//
// at all times. Created lazily on first credit/debit; never deleted while
// movements exist.
type FractionAccount struct {
	AccountID     string          `json:"accountID"`
	CondominiumID string          `json:"condominiumID"`
	FractionID    string          `json:"fractionID"` // unique
	Balance       decimal.Decimal `json:"balance"`    // signed
	AuditFields
}

// FractionAccountMovement is an append-only ledger entry. Amount and type are
// immutable after creation except for the narrow historical credit correction
// path, which applies a compensating balance delta atomically with the row
// update.
type FractionAccountMovement struct {
	MovementID             string          `json:"movementID"`
	FractionAccountID      string          `json:"fractionAccountID"`
	Type                   MovementType    `json:"type"`
	Amount                 decimal.Decimal `json:"amount"` // > 0
	SourceType             MovementSource  `json:"sourceType"`
	SourceReferenceID      *string         `json:"sourceReferenceID,omitempty"` // FeePayment or other origin
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
	Description            string          `json:"description"`
	AuditFields
}

// Signed returns the movement amount with its ledger sign applied.
func (m FractionAccountMovement) Signed() decimal.Decimal {
	if m.Type == Debit {
		return m.Amount.Neg()
	}
	return m.Amount
}
