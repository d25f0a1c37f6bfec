package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/core/services"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// --- Mock LedgerReaderSvc (as used by the reporting service) ---
type MockLedgerReaderSvc struct {
	mock.Mock
}

var _ portssvc.LedgerReaderSvc = (*MockLedgerReaderSvc)(nil)

func (m *MockLedgerReaderSvc) GetAccountByFraction(ctx context.Context, fractionID string) (*domain.FractionAccount, error) {
	args := m.Called(ctx, fractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FractionAccount), args.Error(1)
}

func (m *MockLedgerReaderSvc) ListMovements(ctx context.Context, accountID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListMovementsResponse), args.Error(1)
}

func (m *MockLedgerReaderSvc) CheckConsistency(ctx context.Context, accountID string) (*dto.ConsistencyResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConsistencyResponse), args.Error(1)
}

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockFeeRepo    *MockFeeRepository
	mockLedgerRepo *MockLedgerRepository
	mockLedgerSvc  *MockLedgerReaderSvc
	service        portssvc.ReportingSvcFacade
	condominiumID  string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockLedgerSvc = new(MockLedgerReaderSvc)
	suite.service = services.NewReportingService(suite.mockFeeRepo, suite.mockLedgerRepo, suite.mockLedgerSvc)

	suite.condominiumID = uuid.NewString()
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestOutstandingTotals() {
	ctx := context.Background()
	fees := []domain.Fee{
		{FeeID: "f-1", FractionID: "frac-a", Amount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(40)},
		{FeeID: "f-2", FractionID: "frac-a", Amount: decimal.NewFromInt(50), PaidAmount: decimal.Zero},
		{FeeID: "f-3", FractionID: "frac-b", Amount: decimal.NewFromInt(80), PaidAmount: decimal.NewFromInt(20)},
		// Fully paid fees contribute nothing
		{FeeID: "f-4", FractionID: "frac-c", Amount: decimal.NewFromInt(30), PaidAmount: decimal.NewFromInt(30)},
	}

	suite.mockFeeRepo.On("FindOutstandingByCondominium", ctx, suite.condominiumID).Return(fees, nil).Once()

	resp, err := suite.service.OutstandingTotals(ctx, suite.condominiumID)

	suite.Require().NoError(err)
	suite.Equal(suite.condominiumID, resp.CondominiumID)
	suite.True(resp.Totals["frac-a"].Equal(decimal.NewFromInt(110)))
	suite.True(resp.Totals["frac-b"].Equal(decimal.NewFromInt(60)))
	suite.NotContains(resp.Totals, "frac-c")
	suite.True(resp.GrandTotal.Equal(decimal.NewFromInt(170)))
}

func (suite *ReportingServiceTestSuite) TestOutstandingTotals_Empty() {
	ctx := context.Background()

	suite.mockFeeRepo.On("FindOutstandingByCondominium", ctx, suite.condominiumID).Return([]domain.Fee{}, nil).Once()

	resp, err := suite.service.OutstandingTotals(ctx, suite.condominiumID)

	suite.Require().NoError(err)
	suite.Empty(resp.Totals)
	suite.True(resp.GrandTotal.IsZero())
}

func (suite *ReportingServiceTestSuite) TestAccountStatement() {
	ctx := context.Background()
	fractionID := uuid.NewString()
	account := &domain.FractionAccount{
		AccountID:     uuid.NewString(),
		CondominiumID: suite.condominiumID,
		FractionID:    fractionID,
		Balance:       decimal.NewFromInt(25),
	}
	page := &dto.ListMovementsResponse{
		Movements: []dto.MovementResponse{
			{MovementID: uuid.NewString(), Type: string(domain.Credit), Amount: decimal.NewFromInt(25), CreatedAt: time.Now().UTC()},
		},
	}
	params := dto.ListMovementsParams{Limit: 10}

	suite.mockLedgerRepo.On("FindAccountByFraction", ctx, fractionID).Return(account, nil).Once()
	suite.mockLedgerSvc.On("ListMovements", ctx, account.AccountID, params).Return(page, nil).Once()

	resp, err := suite.service.AccountStatement(ctx, fractionID, params)

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, resp.Account.AccountID)
	suite.True(resp.Account.Balance.Equal(decimal.NewFromInt(25)))
	suite.Len(resp.Movements, 1)
}

func (suite *ReportingServiceTestSuite) TestAccountStatement_AccountNotFound() {
	ctx := context.Background()
	fractionID := uuid.NewString()

	suite.mockLedgerRepo.On("FindAccountByFraction", ctx, fractionID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AccountStatement(ctx, fractionID, dto.ListMovementsParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "ListMovements", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
