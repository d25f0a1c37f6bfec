package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// AddCreditRequest records a credit independent of any fee: an advance
// payment or a historical adjustment.
type AddCreditRequest struct {
	FractionID             string          `json:"fractionID" binding:"required"`
	CondominiumID          string          `json:"condominiumID" binding:"required"`
	Amount                 decimal.Decimal `json:"amount" binding:"required"`
	Description            string          `json:"description"`
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
}

// UpdateCreditRequest corrects a historical credit movement.
type UpdateCreditRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description *string         `json:"description,omitempty"`
}

// AccountResponse is the read representation of a fraction account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	CondominiumID string          `json:"condominiumID"`
	FractionID    string          `json:"fractionID"`
	Balance       decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.FractionAccount.
func ToAccountResponse(a *domain.FractionAccount) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		CondominiumID: a.CondominiumID,
		FractionID:    a.FractionID,
		Balance:       a.Balance,
	}
}

// MovementResponse is the read representation of a ledger movement.
type MovementResponse struct {
	MovementID             string          `json:"movementID"`
	FractionAccountID      string          `json:"fractionAccountID"`
	Type                   string          `json:"type"`
	Amount                 decimal.Decimal `json:"amount"`
	SourceType             string          `json:"sourceType"`
	SourceReferenceID      *string         `json:"sourceReferenceID,omitempty"`
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
	Description            string          `json:"description"`
	CreatedAt              time.Time       `json:"createdAt"`
}

// ToMovementResponse converts a domain movement.
func ToMovementResponse(m *domain.FractionAccountMovement) MovementResponse {
	return MovementResponse{
		MovementID:             m.MovementID,
		FractionAccountID:      m.FractionAccountID,
		Type:                   string(m.Type),
		Amount:                 m.Amount,
		SourceType:             string(m.SourceType),
		SourceReferenceID:      m.SourceReferenceID,
		FinancialTransactionID: m.FinancialTransactionID,
		Description:            m.Description,
		CreatedAt:              m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(ms []domain.FractionAccountMovement) []MovementResponse {
	responses := make([]MovementResponse, len(ms))
	for i := range ms {
		responses[i] = ToMovementResponse(&ms[i])
	}
	return responses
}

// ListMovementsParams carries pagination for movement statements.
type ListMovementsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListMovementsResponse is one page of an account statement.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ConsistencyResponse reports the outcome of a balance reconciliation check.
type ConsistencyResponse struct {
	AccountID  string          `json:"accountID"`
	Balance    decimal.Decimal `json:"balance"`
	Credits    decimal.Decimal `json:"credits"`
	Debits     decimal.Decimal `json:"debits"`
	Consistent bool            `json:"consistent"`
}
