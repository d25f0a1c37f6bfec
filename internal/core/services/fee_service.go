package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/middleware"
	"github.com/condofy/condo_billing_app/internal/utils/periods"
)

var (
	ErrInvalidPeriodType = errors.New("unsupported period type")
	ErrInvalidYear       = errors.New("billing year must be positive")
	ErrNotHistorical     = errors.New("only historical fees can be corrected")
)

// feeService implements the fee catalog operations: generation, reads and
// operator corrections.
type feeService struct {
	feeRepo       portsrepo.FeeRepositoryFacade
	periodRepo    portsrepo.PeriodRepositoryFacade
	fractionRepo  portsrepo.FractionReader
	defaultDueDay int
}

// NewFeeService creates a new fee service. defaultDueDay is the day of month
// used for generated due dates when the request does not override it.
func NewFeeService(feeRepo portsrepo.FeeRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade, fractionRepo portsrepo.FractionReader, defaultDueDay int) portssvc.FeeSvcFacade {
	if defaultDueDay < 1 || defaultDueDay > 28 {
		defaultDueDay = 8
	}
	return &feeService{
		feeRepo:       feeRepo,
		periodRepo:    periodRepo,
		fractionRepo:  fractionRepo,
		defaultDueDay: defaultDueDay,
	}
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// GenerateForYear creates the regular fees of a condominium-year. The period
// configuration is upserted first so later reads bucket against the same
// granularity. The batch insert skips slots that already exist, which keeps
// reruns and concurrent invocations idempotent.
func (s *feeService) GenerateForYear(ctx context.Context, condominiumID string, req dto.GenerateFeesRequest, creatorUserID string) (*dto.GenerateFeesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Year <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, req.Year)
	}
	if !req.PeriodType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriodType, req.PeriodType)
	}

	dueDay := req.DueDay
	if dueDay < 1 || dueDay > 31 {
		dueDay = s.defaultDueDay
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	if err := s.periodRepo.UpsertPeriod(ctx, domain.CondominiumFeePeriod{
		CondominiumID: condominiumID,
		Year:          req.Year,
		PeriodType:    req.PeriodType,
		AuditFields:   audit,
	}); err != nil {
		logger.Error("Failed to upsert period configuration", slog.String("condominium_id", condominiumID), slog.Int("year", req.Year), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to configure period for year %d: %w", req.Year, err)
	}

	fractionIDs, err := s.fractionRepo.ListActiveFractionIDs(ctx, condominiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active fractions: %w", err)
	}

	slotCount := req.PeriodType.SlotCount()
	resp := &dto.GenerateFeesResponse{
		Year:          req.Year,
		SlotCount:     slotCount,
		FractionCount: len(fractionIDs),
	}
	if len(fractionIDs) == 0 {
		logger.Info("No active fractions, nothing to generate", slog.String("condominium_id", condominiumID), slog.Int("year", req.Year))
		return resp, nil
	}

	fees := make([]domain.Fee, 0, len(fractionIDs)*slotCount)
	for _, fractionID := range fractionIDs {
		amount, ok := req.Amounts[fractionID]
		if !ok {
			amount = req.DefaultAmount
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: fraction %s resolves to %s", apperrors.ErrInvalidAmount, fractionID, amount.String())
		}

		for slot := 1; slot <= slotCount; slot++ {
			fee := domain.Fee{
				FeeID:         uuid.NewString(),
				CondominiumID: condominiumID,
				FractionID:    fractionID,
				PeriodType:    req.PeriodType,
				FeeType:       domain.FeeRegular,
				PeriodYear:    req.Year,
				Amount:        amount,
				BaseAmount:    amount,
				PaidAmount:    decimal.Zero,
				Status:        domain.FeePending,
				DueDate:       periods.DueDate(req.PeriodType, req.Year, slot, dueDay),
				AuditFields:   audit,
			}
			slotCopy := slot
			if req.PeriodType == domain.Monthly {
				fee.PeriodMonth = &slotCopy
			} else {
				fee.PeriodIndex = &slotCopy
			}
			fees = append(fees, fee)
		}
	}

	created, err := s.feeRepo.SaveFees(ctx, fees)
	if err != nil {
		logger.Error("Failed to save generated fees", slog.String("condominium_id", condominiumID), slog.Int("year", req.Year), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save generated fees: %w", err)
	}

	resp.CreatedCount = created
	logger.Info("Generated regular fees",
		slog.String("condominium_id", condominiumID),
		slog.Int("year", req.Year),
		slog.String("period_type", string(req.PeriodType)),
		slog.Int("created", created),
		slog.Int("skipped", len(fees)-created),
	)
	return resp, nil
}

// HasAnnualFeesForYear reports whether every slot of the configured
// granularity already carries a regular fee.
func (s *feeService) HasAnnualFeesForYear(ctx context.Context, condominiumID string, year int) (bool, error) {
	periodType, err := s.configuredPeriodType(ctx, condominiumID, year)
	if err != nil {
		return false, err
	}
	slots, err := s.feeRepo.CountRegularSlots(ctx, condominiumID, year)
	if err != nil {
		return false, fmt.Errorf("failed to count generated slots: %w", err)
	}
	return slots >= periodType.SlotCount(), nil
}

// ConfigurePeriod upserts the granularity of a condominium-year.
func (s *feeService) ConfigurePeriod(ctx context.Context, condominiumID string, req dto.ConfigurePeriodRequest, userID string) error {
	if req.Year <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, req.Year)
	}
	if !req.PeriodType.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPeriodType, req.PeriodType)
	}
	now := time.Now().UTC()
	return s.periodRepo.UpsertPeriod(ctx, domain.CondominiumFeePeriod{
		CondominiumID: condominiumID,
		Year:          req.Year,
		PeriodType:    req.PeriodType,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	})
}

// GetFeeByID retrieves one fee.
func (s *feeService) GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	fee, err := s.feeRepo.FindFeeByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	return fee, nil
}

// OutstandingForFraction returns unpaid fees sorted into liquidation order:
// period year ascending, period slot ascending, regular before extra within a
// slot, fee ID ascending as the final tiebreaker.
func (s *feeService) OutstandingForFraction(ctx context.Context, fractionID string) ([]domain.Fee, error) {
	fees, err := s.feeRepo.FindOutstandingByFraction(ctx, fractionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding fees: %w", err)
	}
	if len(fees) == 0 {
		return fees, nil
	}

	// Extra fees store a calendar month; bucket them into the granularity
	// configured for their year so they interleave correctly with regular
	// fees.
	periodTypes := make(map[int]domain.PeriodType)
	for _, fee := range fees {
		if _, ok := periodTypes[fee.PeriodYear]; ok {
			continue
		}
		pt, err := s.configuredPeriodTypeForFees(ctx, fee.CondominiumID, fee.PeriodYear, fee.PeriodType)
		if err != nil {
			return nil, err
		}
		periodTypes[fee.PeriodYear] = pt
	}

	sort.SliceStable(fees, func(i, j int) bool {
		a, b := fees[i], fees[j]
		if a.PeriodYear != b.PeriodYear {
			return a.PeriodYear < b.PeriodYear
		}
		slotA := periods.SlotForFee(a, periodTypes[a.PeriodYear])
		slotB := periods.SlotForFee(b, periodTypes[b.PeriodYear])
		if slotA != slotB {
			return slotA < slotB
		}
		if a.FeeType != b.FeeType {
			return a.FeeType == domain.FeeRegular
		}
		return a.FeeID < b.FeeID
	})
	return fees, nil
}

// FeesMapByYear aggregates the condominium's fees of a year into the
// slot -> fraction -> cell structure backing the year overview.
func (s *feeService) FeesMapByYear(ctx context.Context, condominiumID string, year int) (*dto.YearFeeMap, error) {
	fees, err := s.feeRepo.ListFeesByCondominiumYear(ctx, condominiumID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees for year %d: %w", year, err)
	}

	periodType, err := s.configuredPeriodType(ctx, condominiumID, year)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &dto.YearFeeMap{
		Year:       year,
		PeriodType: string(periodType),
		SlotCount:  periodType.SlotCount(),
		Slots:      make(map[int]map[string]dto.FeeCell),
	}

	for _, fee := range fees {
		slot := periods.SlotForFee(fee, periodType)
		fractions, ok := result.Slots[slot]
		if !ok {
			fractions = make(map[string]dto.FeeCell)
			result.Slots[slot] = fractions
		}

		cell := fractions[fee.FractionID]
		cell.Amount = cell.Amount.Add(fee.Amount)
		cell.PaidAmount = cell.PaidAmount.Add(fee.PaidAmount)
		status := fee.EffectiveStatus(now)
		if status == domain.FeeOverdue {
			cell.Overdue = true
		}
		cell.FeeIDs = append(cell.FeeIDs, fee.FeeID)
		cell.Status = string(mergeCellStatus(cell))
		fractions[fee.FractionID] = cell
	}
	return result, nil
}

// mergeCellStatus derives the aggregate status of a cell from its sums.
func mergeCellStatus(cell dto.FeeCell) domain.FeeStatus {
	if cell.PaidAmount.GreaterThanOrEqual(cell.Amount) && cell.Amount.IsPositive() {
		return domain.FeePaid
	}
	if cell.Overdue {
		return domain.FeeOverdue
	}
	return domain.FeePending
}

// CreateExtraFee records an ad-hoc or historical fee. Extra fees always carry
// a calendar month and are bucketed into the configured granularity at read
// time.
func (s *feeService) CreateExtraFee(ctx context.Context, condominiumID string, req dto.CreateExtraFeeRequest, creatorUserID string) (*domain.Fee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}
	if req.PeriodYear <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, req.PeriodYear)
	}

	periodType, err := s.configuredPeriodType(ctx, condominiumID, req.PeriodYear)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	month := req.PeriodMonth
	fee := domain.Fee{
		FeeID:         uuid.NewString(),
		CondominiumID: condominiumID,
		FractionID:    req.FractionID,
		PeriodType:    periodType,
		FeeType:       domain.FeeExtra,
		PeriodYear:    req.PeriodYear,
		PeriodMonth:   &month,
		Amount:        req.Amount,
		BaseAmount:    req.Amount,
		PaidAmount:    decimal.Zero,
		Status:        domain.FeePending,
		DueDate:       req.DueDate.UTC(),
		IsHistorical:  req.IsHistorical,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.Reference != "" {
		fee.Reference = &req.Reference
	}

	if err := s.feeRepo.SaveFee(ctx, fee); err != nil {
		logger.Error("Failed to save extra fee", slog.String("fraction_id", req.FractionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save extra fee: %w", err)
	}

	logger.Info("Created extra fee",
		slog.String("fee_id", fee.FeeID),
		slog.String("fraction_id", fee.FractionID),
		slog.Int("period_year", fee.PeriodYear),
		slog.Bool("historical", fee.IsHistorical),
	)
	return &fee, nil
}

// CorrectHistoricalFee rewrites operator-mutable fields of a historical fee.
// The new amount may not undercut what was already paid.
func (s *feeService) CorrectHistoricalFee(ctx context.Context, feeID string, req dto.CorrectFeeRequest, userID string) (*domain.Fee, error) {
	fee, err := s.feeRepo.FindFeeByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if !fee.IsHistorical {
		return nil, fmt.Errorf("%w: fee %s", ErrNotHistorical, feeID)
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, req.Amount.String())
		}
		if req.Amount.LessThan(fee.PaidAmount) {
			return nil, fmt.Errorf("%w: amount %s is below the already paid %s", apperrors.ErrValidation, req.Amount.String(), fee.PaidAmount.String())
		}
	}

	now := time.Now().UTC()
	if err := s.feeRepo.UpdateFee(ctx, feeID, req.ToFeeCorrection(), userID, now); err != nil {
		return nil, fmt.Errorf("failed to update fee %s: %w", feeID, err)
	}
	return s.feeRepo.FindFeeByID(ctx, feeID)
}

// configuredPeriodType returns the granularity configured for the
// condominium-year, defaulting to monthly when no configuration exists.
func (s *feeService) configuredPeriodType(ctx context.Context, condominiumID string, year int) (domain.PeriodType, error) {
	return s.configuredPeriodTypeForFees(ctx, condominiumID, year, domain.Monthly)
}

func (s *feeService) configuredPeriodTypeForFees(ctx context.Context, condominiumID string, year int, fallback domain.PeriodType) (domain.PeriodType, error) {
	periodType, err := s.periodRepo.FindPeriodType(ctx, condominiumID, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fallback, nil
		}
		return "", fmt.Errorf("failed to resolve period type for year %d: %w", year, err)
	}
	return periodType, nil
}
