package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the billing granularity configured for a condominium-year.
type PeriodType string

const (
	Monthly    PeriodType = "MONTHLY"
	Bimonthly  PeriodType = "BIMONTHLY"
	Quarterly  PeriodType = "QUARTERLY"
	Semiannual PeriodType = "SEMIANNUAL"
	Annual     PeriodType = "ANNUAL"
)

// SlotCount returns the number of period slots per year for the period type.
// Unknown types fall back to monthly (12 slots) so that data generated before
// per-year configuration existed keeps resolving.
func (p PeriodType) SlotCount() int {
	switch p {
	case Monthly:
		return 12
	case Bimonthly:
		return 6
	case Quarterly:
		return 4
	case Semiannual:
		return 2
	case Annual:
		return 1
	default:
		return 12
	}
}

// IsValid reports whether p is one of the five supported granularities.
func (p PeriodType) IsValid() bool {
	switch p {
	case Monthly, Bimonthly, Quarterly, Semiannual, Annual:
		return true
	}
	return false
}

// FeeType distinguishes scheduled maintenance quotas from ad-hoc assessments.
type FeeType string

const (
	FeeRegular FeeType = "REGULAR"
	FeeExtra   FeeType = "EXTRA"
)

// FeeStatus is the stored status of a fee. It is a write-time cache: reads
// must derive the effective status from paid amount vs amount instead of
// trusting the stored value.
type FeeStatus string

const (
	FeePending FeeStatus = "PENDING"
	FeeOverdue FeeStatus = "OVERDUE"
	FeePaid    FeeStatus = "PAID"
)

// Fee is one billing obligation for one fraction for one period slot.
//
// Monthly fees carry PeriodMonth; all other granularities carry PeriodIndex.
// Extra fees always carry PeriodMonth regardless of the condominium's
// configured granularity and are bucketed into a slot via the period calendar
// at read time.
type Fee struct {
	FeeID         string          `json:"feeID"`
	CondominiumID string          `json:"condominiumID"`
	FractionID    string          `json:"fractionID"`
	PeriodType    PeriodType      `json:"periodType"`
	FeeType       FeeType         `json:"feeType"`
	PeriodYear    int             `json:"periodYear"`
	PeriodMonth   *int            `json:"periodMonth,omitempty"` // 1..12
	PeriodIndex   *int            `json:"periodIndex,omitempty"` // 1..SlotCount(PeriodType)
	Amount        decimal.Decimal `json:"amount"`
	BaseAmount    decimal.Decimal `json:"baseAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        FeeStatus       `json:"status"`
	DueDate       time.Time       `json:"dueDate"`
	IsHistorical  bool            `json:"isHistorical"`
	Reference     *string         `json:"reference,omitempty"` // extra-fee label
	Notes         string          `json:"notes"`
	AuditFields
}

// Remaining returns the unpaid portion of the fee, never negative.
func (f Fee) Remaining() decimal.Decimal {
	remaining := f.Amount.Sub(f.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// EffectiveStatus derives the status from paid amount and due date. The
// stored Status column can be stale; this derivation is authoritative for
// every read path.
func (f Fee) EffectiveStatus(now time.Time) FeeStatus {
	if f.PaidAmount.GreaterThanOrEqual(f.Amount) && f.Amount.IsPositive() {
		return FeePaid
	}
	if !f.DueDate.IsZero() && f.DueDate.Before(now) {
		return FeeOverdue
	}
	return FeePending
}

// FeeCorrection enumerates the only fee fields an operator may rewrite on
// historical fees. Nil fields are left untouched. Paid amount and fee type
// are never operator-mutable; paid amount moves only through fee payments.
type FeeCorrection struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	PeriodMonth *int             `json:"periodMonth,omitempty"`
}

// CondominiumFeePeriod records the granularity chosen for a condominium-year.
// At most one row exists per (condominium, year); writes are upserts.
type CondominiumFeePeriod struct {
	CondominiumID string     `json:"condominiumID"`
	Year          int        `json:"year"`
	PeriodType    PeriodType `json:"periodType"`
	AuditFields
}
