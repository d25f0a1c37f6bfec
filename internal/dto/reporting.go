package dto

import "github.com/shopspring/decimal"

// OutstandingTotalsResponse sums the unpaid amount per fraction of a
// condominium.
type OutstandingTotalsResponse struct {
	CondominiumID string                     `json:"condominiumID"`
	Totals        map[string]decimal.Decimal `json:"totals"` // fractionID -> outstanding
	GrandTotal    decimal.Decimal            `json:"grandTotal"`
}

// AccountStatementResponse combines an account header with one page of its
// movement history.
type AccountStatementResponse struct {
	Account   AccountResponse    `json:"account"`
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}
