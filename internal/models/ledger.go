package models

import "github.com/shopspring/decimal"

// FractionAccount mirrors a row of the fraction_accounts table.
type FractionAccount struct {
	AccountID     string          `json:"accountID"`
	CondominiumID string          `json:"condominiumID"`
	FractionID    string          `json:"fractionID"`
	Balance       decimal.Decimal `json:"balance"`
	AuditFields
}

// FractionAccountMovement mirrors a row of the fraction_account_movements table.
type FractionAccountMovement struct {
	MovementID             string          `json:"movementID"`
	FractionAccountID      string          `json:"fractionAccountID"`
	Type                   string          `json:"type"`
	Amount                 decimal.Decimal `json:"amount"`
	SourceType             string          `json:"sourceType"`
	SourceReferenceID      *string         `json:"sourceReferenceID,omitempty"`
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
	Description            string          `json:"description"`
	AuditFields
}
