package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
	"github.com/condofy/condo_billing_app/internal/utils/periods"
)

// GenerateFeesRequest asks for the regular fees of a condominium-year.
// Amounts maps fraction IDs to the fee amount of each slot; fractions absent
// from the map fall back to DefaultAmount.
type GenerateFeesRequest struct {
	Year          int                        `json:"year" binding:"required"`
	PeriodType    domain.PeriodType          `json:"periodType" binding:"required,periodtype"`
	Amounts       map[string]decimal.Decimal `json:"amounts"`
	DefaultAmount decimal.Decimal            `json:"defaultAmount"`
	DueDay        int                        `json:"dueDay"` // falls back to the configured FEE_DUE_DAY
}

// GenerateFeesResponse reports the outcome of a generation run.
type GenerateFeesResponse struct {
	Year          int `json:"year"`
	SlotCount     int `json:"slotCount"`
	FractionCount int `json:"fractionCount"`
	CreatedCount  int `json:"createdCount"` // rows actually inserted; lower on reruns
}

// CreateExtraFeeRequest creates an ad-hoc (extra) or historical fee.
type CreateExtraFeeRequest struct {
	FractionID   string          `json:"fractionID" binding:"required"`
	PeriodYear   int             `json:"periodYear" binding:"required"`
	PeriodMonth  int             `json:"periodMonth" binding:"required,min=1,max=12"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Reference    string          `json:"reference"`
	Notes        string          `json:"notes"`
	IsHistorical bool            `json:"isHistorical"`
}

// CorrectFeeRequest rewrites operator-mutable fields of a historical fee.
// Only the listed fields may change; nil leaves a field untouched.
type CorrectFeeRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	PeriodMonth *int             `json:"periodMonth,omitempty" binding:"omitempty,min=1,max=12"`
}

// ToFeeCorrection converts the request into the typed update struct.
func (r CorrectFeeRequest) ToFeeCorrection() domain.FeeCorrection {
	return domain.FeeCorrection{
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Notes:       r.Notes,
		PeriodMonth: r.PeriodMonth,
	}
}

// FeeResponse is the read representation of a fee. Status is the derived
// effective status, not the stored cache.
type FeeResponse struct {
	FeeID         string          `json:"feeID"`
	CondominiumID string          `json:"condominiumID"`
	FractionID    string          `json:"fractionID"`
	PeriodType    string          `json:"periodType"`
	FeeType       string          `json:"feeType"`
	PeriodYear    int             `json:"periodYear"`
	PeriodMonth   *int            `json:"periodMonth,omitempty"`
	PeriodIndex   *int            `json:"periodIndex,omitempty"`
	PeriodLabel   string          `json:"periodLabel"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"dueDate"`
	IsHistorical  bool            `json:"isHistorical"`
	Reference     *string         `json:"reference,omitempty"`
	Notes         string          `json:"notes"`
}

// ToFeeResponse converts a domain.Fee to its read representation.
func ToFeeResponse(f *domain.Fee, now time.Time) FeeResponse {
	return FeeResponse{
		FeeID:         f.FeeID,
		CondominiumID: f.CondominiumID,
		FractionID:    f.FractionID,
		PeriodType:    string(f.PeriodType),
		FeeType:       string(f.FeeType),
		PeriodYear:    f.PeriodYear,
		PeriodMonth:   f.PeriodMonth,
		PeriodIndex:   f.PeriodIndex,
		PeriodLabel:   periods.Label(*f),
		Amount:        f.Amount,
		PaidAmount:    f.PaidAmount,
		Remaining:     f.Remaining(),
		Status:        string(f.EffectiveStatus(now)),
		DueDate:       f.DueDate,
		IsHistorical:  f.IsHistorical,
		Reference:     f.Reference,
		Notes:         f.Notes,
	}
}

// ToFeeResponses converts a slice of domain fees.
func ToFeeResponses(fees []domain.Fee, now time.Time) []FeeResponse {
	responses := make([]FeeResponse, len(fees))
	for i := range fees {
		responses[i] = ToFeeResponse(&fees[i], now)
	}
	return responses
}

// FeeCell aggregates the fees of one fraction inside one period slot. A
// fraction may carry both a regular and an extra fee in the same slot; the
// cell merges them.
type FeeCell struct {
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Overdue    bool            `json:"overdue"`
	Status     string          `json:"status"`
	FeeIDs     []string        `json:"feeIDs"`
}

// YearFeeMap is the slot → fraction → aggregate structure backing the year
// overview screen.
type YearFeeMap struct {
	Year       int                        `json:"year"`
	PeriodType string                     `json:"periodType"`
	SlotCount  int                        `json:"slotCount"`
	Slots      map[int]map[string]FeeCell `json:"slots"`
}

// ConfigurePeriodRequest chooses the billing granularity for a year.
type ConfigurePeriodRequest struct {
	Year       int               `json:"year" binding:"required"`
	PeriodType domain.PeriodType `json:"periodType" binding:"required,periodtype"`
}
