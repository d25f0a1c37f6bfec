package services

import (
	"context"
	"fmt"
	"log/slog"
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

// liquidationService walks payments through a fraction's outstanding fees.
// Each fee application is one database transaction; a failure between
// applications leaves earlier ones committed and reports them back.
type liquidationService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	feeRepo     portsrepo.FeeRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	feeSvc      portssvc.FeeReaderSvc
}

// NewLiquidationService creates a new liquidation service. The fee reader
// service supplies the outstanding fees already sorted into liquidation
// order.
func NewLiquidationService(paymentRepo portsrepo.PaymentRepositoryFacade, feeRepo portsrepo.FeeRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, feeSvc portssvc.FeeReaderSvc) portssvc.LiquidationSvcFacade {
	return &liquidationService{
		paymentRepo: paymentRepo,
		feeRepo:     feeRepo,
		ledgerRepo:  ledgerRepo,
		feeSvc:      feeSvc,
	}
}

var _ portssvc.LiquidationSvcFacade = (*liquidationService)(nil)

// Apply distributes the payment amount over the fraction's outstanding fees
// in liquidation order, capping each application at the fee's remaining
// amount. Whatever is left after the last outstanding fee is credited to the
// fraction's account.
func (s *liquidationService) Apply(ctx context.Context, condominiumID string, req dto.ApplyPaymentRequest, creatorUserID string) (*dto.ApplyPaymentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}

	fees, err := s.feeSvc.OutstandingForFraction(ctx, req.FractionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account, err := s.ledgerRepo.GetOrCreateAccount(ctx, req.FractionID, condominiumID, creatorUserID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account for fraction %s: %w", req.FractionID, err)
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	resp := &dto.ApplyPaymentResponse{
		Applications:    []dto.FeeApplicationResponse{},
		TotalApplied:    decimal.Zero,
		SurplusCredited: decimal.Zero,
	}

	remaining := req.Amount
	for _, fee := range fees {
		if !remaining.IsPositive() {
			break
		}
		applied := fee.Remaining()
		if !applied.IsPositive() {
			continue
		}
		if applied.GreaterThan(remaining) {
			applied = remaining
		}

		paymentID := uuid.NewString()
		payment := domain.FeePayment{
			PaymentID:              paymentID,
			FeeID:                  fee.FeeID,
			Amount:                 applied,
			PaymentMethod:          req.PaymentMethod,
			Reference:              req.Reference,
			PaymentDate:            req.PaymentDate.UTC(),
			FinancialTransactionID: req.FinancialTransactionID,
			AuditFields:            audit,
		}

		debit := domain.FractionAccountMovement{
			MovementID:             uuid.NewString(),
			FractionAccountID:      account.AccountID,
			Type:                   domain.Debit,
			Amount:                 applied,
			SourceType:             domain.SourceQuotaApplication,
			SourceReferenceID:      &paymentID,
			FinancialTransactionID: req.FinancialTransactionID,
			Description:            fmt.Sprintf("Payment applied to %s", periods.Label(fee)),
			AuditFields:            audit,
		}

		// The step increments paid_amount against the stored row under a
		// guard, so a fee settled by a concurrent payment since the read
		// above aborts here instead of overpaying.
		if err := s.paymentRepo.ApplyStep(ctx, payment, debit); err != nil {
			logger.Error("Fee application failed mid-run",
				slog.String("fraction_id", req.FractionID),
				slog.String("fee_id", fee.FeeID),
				slog.String("applied_so_far", resp.TotalApplied.String()),
				slog.String("error", err.Error()),
			)
			return resp, fmt.Errorf("failed to apply payment to fee %s: %w", fee.FeeID, err)
		}

		resp.Applications = append(resp.Applications, dto.FeeApplicationResponse{
			FeeID:         fee.FeeID,
			PaymentID:     paymentID,
			AppliedAmount: applied,
		})
		resp.TotalApplied = resp.TotalApplied.Add(applied)
		remaining = remaining.Sub(applied)
	}

	if remaining.IsPositive() {
		credit := domain.FractionAccountMovement{
			MovementID:             uuid.NewString(),
			FractionAccountID:      account.AccountID,
			Type:                   domain.Credit,
			Amount:                 remaining,
			SourceType:             domain.SourceQuotaPayment,
			FinancialTransactionID: req.FinancialTransactionID,
			Description:            "Payment surplus",
			AuditFields:            audit,
		}
		if err := s.ledgerRepo.AddMovement(ctx, credit); err != nil {
			logger.Error("Failed to credit payment surplus",
				slog.String("account_id", account.AccountID),
				slog.String("surplus", remaining.String()),
				slog.String("error", err.Error()),
			)
			return resp, fmt.Errorf("failed to credit payment surplus: %w", err)
		}
		resp.SurplusCredited = remaining
	}

	logger.Info("Payment liquidated",
		slog.String("fraction_id", req.FractionID),
		slog.String("amount", req.Amount.String()),
		slog.Int("applications", len(resp.Applications)),
		slog.String("surplus", resp.SurplusCredited.String()),
	)
	return resp, nil
}

// Undo reverses one fee application in a single transaction: the ledger
// debit written for the payment is deleted, the balance restored, the
// payment row removed and the fee's paid amount decremented by the payment
// amount, clamped at zero.
func (s *liquidationService) Undo(ctx context.Context, feePaymentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, feePaymentID)
	if err != nil {
		return err
	}
	fee, err := s.feeRepo.FindFeeByID(ctx, payment.FeeID)
	if err != nil {
		return err
	}
	debit, err := s.ledgerRepo.FindMovementBySourceReference(ctx, domain.SourceQuotaApplication, feePaymentID)
	if err != nil {
		return fmt.Errorf("failed to locate ledger debit for payment %s: %w", feePaymentID, err)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.UndoStep(ctx, *payment, *debit, userID, now); err != nil {
		logger.Error("Failed to undo fee payment",
			slog.String("payment_id", feePaymentID),
			slog.String("fee_id", fee.FeeID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to undo payment %s: %w", feePaymentID, err)
	}

	logger.Info("Fee payment reversed",
		slog.String("payment_id", feePaymentID),
		slog.String("fee_id", fee.FeeID),
		slog.String("amount", payment.Amount.String()),
	)
	return nil
}
