// Package periods holds the pure calendar arithmetic for billing period
// slots: mapping a (period type, slot) to its calendar months and back, human
// labels, and deterministic due dates. Invalid input returns zero values or
// defaults so reporting stays resilient to partial data.
package periods

import (
	"fmt"
	"time"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// MonthsForSlot returns the calendar months (1..12) covered by the given
// period slot, or nil when the slot is out of range for the period type.
func MonthsForSlot(periodType domain.PeriodType, slot int) []int {
	count := periodType.SlotCount()
	if slot < 1 || slot > count {
		return nil
	}
	span := 12 / count
	months := make([]int, 0, span)
	first := (slot-1)*span + 1
	for m := first; m < first+span; m++ {
		months = append(months, m)
	}
	return months
}

// SlotForMonth returns the period slot that contains the given month.
// Out-of-range months and unrecognized period types default to slot 1.
func SlotForMonth(month int, periodType domain.PeriodType) int {
	if month < 1 || month > 12 {
		return 1
	}
	span := 12 / periodType.SlotCount()
	return (month-1)/span + 1
}

// SlotForFee buckets a fee into a slot of the configured granularity.
// Regular monthly fees use their period month directly; other regular fees
// carry a period index; extra fees always carry a month and are mapped
// through SlotForMonth.
func SlotForFee(fee domain.Fee, configured domain.PeriodType) int {
	if fee.FeeType == domain.FeeExtra || configured == domain.Monthly {
		if fee.PeriodMonth != nil {
			return SlotForMonth(*fee.PeriodMonth, configured)
		}
		if fee.PeriodIndex != nil {
			return *fee.PeriodIndex
		}
		return 1
	}
	if fee.PeriodIndex != nil {
		return *fee.PeriodIndex
	}
	if fee.PeriodMonth != nil {
		return SlotForMonth(*fee.PeriodMonth, configured)
	}
	return 1
}

// DueDate computes the deterministic due date of a slot: the configured day
// of the slot's first month, clamped to the month length.
func DueDate(periodType domain.PeriodType, year, slot, dueDay int) time.Time {
	months := MonthsForSlot(periodType, slot)
	month := 1
	if len(months) > 0 {
		month = months[0]
	}
	if dueDay < 1 {
		dueDay = 1
	}
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dueDay > lastDay {
		dueDay = lastDay
	}
	return time.Date(year, time.Month(month), dueDay, 0, 0, 0, 0, time.UTC)
}

// Label renders the human label for a fee's period. Extra fees render their
// free-text reference when present instead of a computed label.
func Label(fee domain.Fee) string {
	if fee.FeeType == domain.FeeExtra && fee.Reference != nil && *fee.Reference != "" {
		return *fee.Reference
	}
	switch fee.PeriodType {
	case domain.Monthly:
		if fee.PeriodMonth == nil {
			return fmt.Sprintf("%d", fee.PeriodYear)
		}
		return fmt.Sprintf("%s %d", time.Month(*fee.PeriodMonth).String(), fee.PeriodYear)
	case domain.Bimonthly:
		return spanLabel(fee)
	case domain.Quarterly:
		return indexLabel(fee, "Q")
	case domain.Semiannual:
		return indexLabel(fee, "S")
	case domain.Annual:
		return fmt.Sprintf("%d", fee.PeriodYear)
	default:
		return fmt.Sprintf("%d", fee.PeriodYear)
	}
}

func indexLabel(fee domain.Fee, prefix string) string {
	slot := 1
	if fee.PeriodIndex != nil {
		slot = *fee.PeriodIndex
	}
	return fmt.Sprintf("%s%d %d", prefix, slot, fee.PeriodYear)
}

func spanLabel(fee domain.Fee) string {
	slot := 1
	if fee.PeriodIndex != nil {
		slot = *fee.PeriodIndex
	}
	months := MonthsForSlot(fee.PeriodType, slot)
	if len(months) == 0 {
		return fmt.Sprintf("%d", fee.PeriodYear)
	}
	first := time.Month(months[0]).String()[:3]
	last := time.Month(months[len(months)-1]).String()[:3]
	return fmt.Sprintf("%s/%s %d", first, last, fee.PeriodYear)
}
