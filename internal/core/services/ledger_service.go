package services

import (
	"context"
	"errors"
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
)

var ErrNotACredit = errors.New("movement is not a correctable credit")

const (
	defaultMovementPageSize = 50
	maxMovementPageSize     = 100
)

// ledgerService implements the fraction account operations: manual credits,
// statements and the reconciliation check. Debits never pass through here;
// they are written only by the liquidation engine.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetAccountByFraction returns a fraction's account.
func (s *ledgerService) GetAccountByFraction(ctx context.Context, fractionID string) (*domain.FractionAccount, error) {
	return s.ledgerRepo.FindAccountByFraction(ctx, fractionID)
}

// ListMovements returns one keyset-paginated page of the account statement,
// newest first.
func (s *ledgerService) ListMovements(ctx context.Context, accountID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultMovementPageSize
	}
	if limit > maxMovementPageSize {
		limit = maxMovementPageSize
	}

	movements, nextToken, err := s.ledgerRepo.ListMovementsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for account %s: %w", accountID, err)
	}
	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}

// CheckConsistency recomputes credits minus debits and compares the result
// with the stored balance. A mismatch returns the report together with
// apperrors.ErrInvariantViolation so callers can alert on it.
func (s *ledgerService) CheckConsistency(ctx context.Context, accountID string) (*dto.ConsistencyResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.ledgerRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	credits, debits, err := s.ledgerRepo.SumMovements(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum movements for account %s: %w", accountID, err)
	}

	resp := &dto.ConsistencyResponse{
		AccountID:  accountID,
		Balance:    account.Balance,
		Credits:    credits,
		Debits:     debits,
		Consistent: account.Balance.Equal(credits.Sub(debits)),
	}
	if !resp.Consistent {
		logger.Error("Account balance does not match movement history",
			slog.String("account_id", accountID),
			slog.String("balance", account.Balance.String()),
			slog.String("credits", credits.String()),
			slog.String("debits", debits.String()),
		)
		return resp, fmt.Errorf("%w: account %s balance %s, movements %s", apperrors.ErrInvariantViolation, accountID, account.Balance.String(), credits.Sub(debits).String())
	}
	return resp, nil
}

// AddCredit records a credit independent of any fee, creating the account on
// first use.
func (s *ledgerService) AddCredit(ctx context.Context, req dto.AddCreditRequest, creatorUserID string) (*domain.FractionAccountMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}

	now := time.Now().UTC()
	account, err := s.ledgerRepo.GetOrCreateAccount(ctx, req.FractionID, req.CondominiumID, creatorUserID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account for fraction %s: %w", req.FractionID, err)
	}

	movement := domain.FractionAccountMovement{
		MovementID:             uuid.NewString(),
		FractionAccountID:      account.AccountID,
		Type:                   domain.Credit,
		Amount:                 req.Amount,
		SourceType:             domain.SourceManualCredit,
		FinancialTransactionID: req.FinancialTransactionID,
		Description:            req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.ledgerRepo.AddMovement(ctx, movement); err != nil {
		logger.Error("Failed to add credit movement", slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to add credit: %w", err)
	}

	logger.Info("Added manual credit",
		slog.String("account_id", account.AccountID),
		slog.String("movement_id", movement.MovementID),
		slog.String("amount", req.Amount.String()),
	)
	return &movement, nil
}

// UpdateCredit corrects a credit movement's amount, adjusting the account
// balance by the exact delta atomically with the row update.
func (s *ledgerService) UpdateCredit(ctx context.Context, movementID string, newAmount decimal.Decimal, newDescription *string, userID string) error {
	if !newAmount.IsPositive() {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, newAmount.String())
	}
	if err := s.requireCorrectableCredit(ctx, movementID); err != nil {
		return err
	}
	return s.ledgerRepo.UpdateCreditMovement(ctx, movementID, newAmount, newDescription, userID, time.Now().UTC())
}

// RemoveCredit deletes a credit movement, reversing its balance effect.
func (s *ledgerService) RemoveCredit(ctx context.Context, movementID string, userID string) error {
	if err := s.requireCorrectableCredit(ctx, movementID); err != nil {
		return err
	}
	return s.ledgerRepo.RemoveCreditMovement(ctx, movementID, userID, time.Now().UTC())
}

// requireCorrectableCredit loads the movement and rejects anything that is
// not a credit. Debits are reversed only through the liquidation undo path,
// never edited directly.
func (s *ledgerService) requireCorrectableCredit(ctx context.Context, movementID string) error {
	movement, err := s.ledgerRepo.FindMovementByID(ctx, movementID)
	if err != nil {
		return err
	}
	if movement.Type != domain.Credit {
		return fmt.Errorf("%w: movement %s is a %s", ErrNotACredit, movementID, movement.Type)
	}
	return nil
}
