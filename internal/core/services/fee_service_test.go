package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/core/services"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// --- Mock FeeRepository ---
type MockFeeRepository struct {
	mock.Mock
}

// Ensure MockFeeRepository implements portsrepo.FeeRepositoryFacade
var _ portsrepo.FeeRepositoryFacade = (*MockFeeRepository)(nil)

func (m *MockFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindOutstandingByFraction(ctx context.Context, fractionID string) ([]domain.Fee, error) {
	args := m.Called(ctx, fractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) ListFeesByCondominiumYear(ctx context.Context, condominiumID string, year int) ([]domain.Fee, error) {
	args := m.Called(ctx, condominiumID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindOutstandingByCondominium(ctx context.Context, condominiumID string) ([]domain.Fee, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) CountRegularSlots(ctx context.Context, condominiumID string, year int) (int, error) {
	args := m.Called(ctx, condominiumID, year)
	return args.Int(0), args.Error(1)
}

func (m *MockFeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) SaveFees(ctx context.Context, fees []domain.Fee) (int, error) {
	args := m.Called(ctx, fees)
	return args.Int(0), args.Error(1)
}

func (m *MockFeeRepository) UpdateFee(ctx context.Context, feeID string, corr domain.FeeCorrection, userID string, now time.Time) error {
	args := m.Called(ctx, feeID, corr, userID, now)
	return args.Error(0)
}

func (m *MockFeeRepository) AdjustFeePaidInTx(ctx context.Context, tx pgx.Tx, feeID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, feeID, delta, userID, now)
	return args.Error(0)
}

// --- Mock PeriodRepository ---
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) UpsertPeriod(ctx context.Context, period domain.CondominiumFeePeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodType(ctx context.Context, condominiumID string, year int) (domain.PeriodType, error) {
	args := m.Called(ctx, condominiumID, year)
	return args.Get(0).(domain.PeriodType), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriodsByCondominium(ctx context.Context, condominiumID string) ([]domain.CondominiumFeePeriod, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CondominiumFeePeriod), args.Error(1)
}

// --- Mock FractionReader ---
type MockFractionReader struct {
	mock.Mock
}

var _ portsrepo.FractionReader = (*MockFractionReader)(nil)

func (m *MockFractionReader) ListActiveFractionIDs(ctx context.Context, condominiumID string) ([]string, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFractionReader) ActiveFractionCount(ctx context.Context, condominiumID string) (int, error) {
	args := m.Called(ctx, condominiumID)
	return args.Int(0), args.Error(1)
}

func (m *MockFractionReader) ActiveFractionCountForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---
type FeeServiceTestSuite struct {
	suite.Suite
	mockFeeRepo      *MockFeeRepository
	mockPeriodRepo   *MockPeriodRepository
	mockFractionRepo *MockFractionReader
	service          portssvc.FeeSvcFacade
	condominiumID    string
	userID           string
}

func (suite *FeeServiceTestSuite) SetupTest() {
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockFractionRepo = new(MockFractionReader)
	suite.service = services.NewFeeService(suite.mockFeeRepo, suite.mockPeriodRepo, suite.mockFractionRepo, 8)

	suite.condominiumID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func intPtr(v int) *int { return &v }

// --- Test Cases ---

func (suite *FeeServiceTestSuite) TestGenerateForYear_Success() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{
		Year:          2025,
		PeriodType:    domain.Monthly,
		DefaultAmount: decimal.NewFromInt(50),
	}
	fractionIDs := []string{"frac-a", "frac-b"}

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.AnythingOfType("domain.CondominiumFeePeriod")).Return(nil).Once()
	suite.mockFractionRepo.On("ListActiveFractionIDs", ctx, suite.condominiumID).Return(fractionIDs, nil).Once()

	var savedFees []domain.Fee
	suite.mockFeeRepo.On("SaveFees", ctx, mock.AnythingOfType("[]domain.Fee")).
		Run(func(args mock.Arguments) { savedFees = args.Get(1).([]domain.Fee) }).
		Return(24, nil).Once()

	resp, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(2025, resp.Year)
	suite.Equal(12, resp.SlotCount)
	suite.Equal(2, resp.FractionCount)
	suite.Equal(24, resp.CreatedCount)

	suite.Require().Len(savedFees, 24)
	for _, fee := range savedFees {
		suite.Equal(domain.FeeRegular, fee.FeeType)
		suite.Equal(domain.FeePending, fee.Status)
		suite.True(fee.Amount.Equal(decimal.NewFromInt(50)))
		suite.True(fee.PaidAmount.IsZero())
		suite.Require().NotNil(fee.PeriodMonth) // monthly fees carry a month, not an index
		suite.Nil(fee.PeriodIndex)
		suite.Equal(8, fee.DueDate.Day())
	}

	suite.mockPeriodRepo.AssertExpectations(suite.T())
	suite.mockFractionRepo.AssertExpectations(suite.T())
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_PerFractionAmounts() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{
		Year:       2025,
		PeriodType: domain.Quarterly,
		Amounts: map[string]decimal.Decimal{
			"frac-a": decimal.NewFromInt(120),
		},
		DefaultAmount: decimal.NewFromInt(80),
	}

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.Anything).Return(nil).Once()
	suite.mockFractionRepo.On("ListActiveFractionIDs", ctx, suite.condominiumID).Return([]string{"frac-a", "frac-b"}, nil).Once()

	var savedFees []domain.Fee
	suite.mockFeeRepo.On("SaveFees", ctx, mock.Anything).
		Run(func(args mock.Arguments) { savedFees = args.Get(1).([]domain.Fee) }).
		Return(8, nil).Once()

	resp, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(4, resp.SlotCount)
	suite.Require().Len(savedFees, 8)
	for _, fee := range savedFees {
		suite.Require().NotNil(fee.PeriodIndex) // non-monthly fees carry an index
		suite.Nil(fee.PeriodMonth)
		switch fee.FractionID {
		case "frac-a":
			suite.True(fee.Amount.Equal(decimal.NewFromInt(120)))
		case "frac-b":
			suite.True(fee.Amount.Equal(decimal.NewFromInt(80)))
		}
	}
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_RerunCreatesNothing() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{
		Year:          2025,
		PeriodType:    domain.Monthly,
		DefaultAmount: decimal.NewFromInt(50),
	}

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.Anything).Return(nil).Once()
	suite.mockFractionRepo.On("ListActiveFractionIDs", ctx, suite.condominiumID).Return([]string{"frac-a"}, nil).Once()
	// All slots already exist; the batch insert skips every row
	suite.mockFeeRepo.On("SaveFees", ctx, mock.Anything).Return(0, nil).Once()

	resp, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, resp.CreatedCount)
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_NoActiveFractions() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{
		Year:          2025,
		PeriodType:    domain.Monthly,
		DefaultAmount: decimal.NewFromInt(50),
	}

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.Anything).Return(nil).Once()
	suite.mockFractionRepo.On("ListActiveFractionIDs", ctx, suite.condominiumID).Return([]string{}, nil).Once()

	resp, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, resp.FractionCount)
	suite.Equal(0, resp.CreatedCount)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveFees", mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_InvalidYear() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{Year: 0, PeriodType: domain.Monthly, DefaultAmount: decimal.NewFromInt(50)}

	_, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidYear)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpsertPeriod", mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_InvalidPeriodType() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{Year: 2025, PeriodType: "WEEKLY", DefaultAmount: decimal.NewFromInt(50)}

	_, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPeriodType)
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{Year: 2025, PeriodType: domain.Monthly, DefaultAmount: decimal.Zero}

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.Anything).Return(nil).Once()
	suite.mockFractionRepo.On("ListActiveFractionIDs", ctx, suite.condominiumID).Return([]string{"frac-a"}, nil).Once()

	_, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveFees", mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestHasAnnualFeesForYear() {
	ctx := context.Background()

	suite.mockPeriodRepo.On("FindPeriodType", ctx, suite.condominiumID, 2025).Return(domain.Quarterly, nil).Twice()
	suite.mockFeeRepo.On("CountRegularSlots", ctx, suite.condominiumID, 2025).Return(4, nil).Once()

	complete, err := suite.service.HasAnnualFeesForYear(ctx, suite.condominiumID, 2025)
	suite.Require().NoError(err)
	suite.True(complete)

	suite.mockFeeRepo.On("CountRegularSlots", ctx, suite.condominiumID, 2025).Return(3, nil).Once()

	complete, err = suite.service.HasAnnualFeesForYear(ctx, suite.condominiumID, 2025)
	suite.Require().NoError(err)
	suite.False(complete)
}

func (suite *FeeServiceTestSuite) TestOutstandingForFraction_LiquidationOrder() {
	ctx := context.Background()
	fractionID := uuid.NewString()

	// Deliberately shuffled: later year first, extra before regular in the
	// same slot, a monthly extra between quarterly regulars.
	fees := []domain.Fee{
		{FeeID: "f-2025-q1", CondominiumID: suite.condominiumID, PeriodYear: 2025, PeriodType: domain.Quarterly, FeeType: domain.FeeRegular, PeriodIndex: intPtr(1), Amount: decimal.NewFromInt(90)},
		{FeeID: "f-2024-q2-extra", CondominiumID: suite.condominiumID, PeriodYear: 2024, PeriodType: domain.Quarterly, FeeType: domain.FeeExtra, PeriodMonth: intPtr(5), Amount: decimal.NewFromInt(30)},
		{FeeID: "f-2024-q2", CondominiumID: suite.condominiumID, PeriodYear: 2024, PeriodType: domain.Quarterly, FeeType: domain.FeeRegular, PeriodIndex: intPtr(2), Amount: decimal.NewFromInt(90)},
		{FeeID: "f-2024-q1", CondominiumID: suite.condominiumID, PeriodYear: 2024, PeriodType: domain.Quarterly, FeeType: domain.FeeRegular, PeriodIndex: intPtr(1), Amount: decimal.NewFromInt(90)},
	}

	suite.mockFeeRepo.On("FindOutstandingByFraction", ctx, fractionID).Return(fees, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodType", ctx, suite.condominiumID, 2025).Return(domain.Quarterly, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodType", ctx, suite.condominiumID, 2024).Return(domain.Quarterly, nil).Once()

	sorted, err := suite.service.OutstandingForFraction(ctx, fractionID)

	suite.Require().NoError(err)
	suite.Require().Len(sorted, 4)
	suite.Equal("f-2024-q1", sorted[0].FeeID)
	suite.Equal("f-2024-q2", sorted[1].FeeID) // regular before extra in the same slot
	suite.Equal("f-2024-q2-extra", sorted[2].FeeID)
	suite.Equal("f-2025-q1", sorted[3].FeeID)
}

func (suite *FeeServiceTestSuite) TestOutstandingForFraction_UnconfiguredYearUsesFeePeriodType() {
	ctx := context.Background()
	fractionID := uuid.NewString()
	fees := []domain.Fee{
		{FeeID: "f-1", CondominiumID: suite.condominiumID, PeriodYear: 2023, PeriodType: domain.Monthly, FeeType: domain.FeeRegular, PeriodMonth: intPtr(2), Amount: decimal.NewFromInt(50)},
		{FeeID: "f-2", CondominiumID: suite.condominiumID, PeriodYear: 2023, PeriodType: domain.Monthly, FeeType: domain.FeeRegular, PeriodMonth: intPtr(1), Amount: decimal.NewFromInt(50)},
	}

	suite.mockFeeRepo.On("FindOutstandingByFraction", ctx, fractionID).Return(fees, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodType", ctx, suite.condominiumID, 2023).Return(domain.PeriodType(""), apperrors.ErrNotFound).Once()

	sorted, err := suite.service.OutstandingForFraction(ctx, fractionID)

	suite.Require().NoError(err)
	suite.Equal("f-2", sorted[0].FeeID)
	suite.Equal("f-1", sorted[1].FeeID)
}

func (suite *FeeServiceTestSuite) TestFeesMapByYear() {
	ctx := context.Background()
	overdueDate := time.Now().UTC().Add(-30 * 24 * time.Hour)
	futureDate := time.Now().UTC().Add(30 * 24 * time.Hour)

	fees := []domain.Fee{
		{FeeID: "f-1", FractionID: "frac-a", PeriodYear: 2025, PeriodType: domain.Quarterly, FeeType: domain.FeeRegular, PeriodIndex: intPtr(1), Amount: decimal.NewFromInt(90), PaidAmount: decimal.NewFromInt(90), DueDate: overdueDate},
		{FeeID: "f-2", FractionID: "frac-a", PeriodYear: 2025, PeriodType: domain.Quarterly, FeeType: domain.FeeRegular, PeriodIndex: intPtr(2), Amount: decimal.NewFromInt(90), DueDate: overdueDate},
		// Extra fee in month 5 lands in quarter 2 alongside f-2
		{FeeID: "f-3", FractionID: "frac-a", PeriodYear: 2025, PeriodType: domain.Quarterly, FeeType: domain.FeeExtra, PeriodMonth: intPtr(5), Amount: decimal.NewFromInt(40), DueDate: futureDate},
	}

	suite.mockFeeRepo.On("ListFeesByCondominiumYear", ctx, suite.condominiumID, 2025).Return(fees, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodType", ctx, suite.condominiumID, 2025).Return(domain.Quarterly, nil).Once()

	result, err := suite.service.FeesMapByYear(ctx, suite.condominiumID, 2025)

	suite.Require().NoError(err)
	suite.Equal(4, result.SlotCount)
	suite.Equal(string(domain.Quarterly), result.PeriodType)

	paidCell := result.Slots[1]["frac-a"]
	suite.Equal(string(domain.FeePaid), paidCell.Status)

	mergedCell := result.Slots[2]["frac-a"]
	suite.True(mergedCell.Amount.Equal(decimal.NewFromInt(130)))
	suite.True(mergedCell.Overdue)
	suite.Equal(string(domain.FeeOverdue), mergedCell.Status)
	suite.Len(mergedCell.FeeIDs, 2)
}

func (suite *FeeServiceTestSuite) TestCreateExtraFee_Success() {
	ctx := context.Background()
	req := dto.CreateExtraFeeRequest{
		FractionID:  "frac-a",
		PeriodYear:  2025,
		PeriodMonth: 6,
		Amount:      decimal.NewFromInt(75),
		DueDate:     time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Reference:   "Roof repair",
	}

	suite.mockPeriodRepo.On("FindPeriodType", ctx, suite.condominiumID, 2025).Return(domain.Quarterly, nil).Once()

	var savedFee domain.Fee
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).
		Run(func(args mock.Arguments) { savedFee = args.Get(1).(domain.Fee) }).
		Return(nil).Once()

	fee, err := suite.service.CreateExtraFee(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(fee)
	suite.Equal(domain.FeeExtra, savedFee.FeeType)
	suite.Equal(domain.Quarterly, savedFee.PeriodType)
	suite.Require().NotNil(savedFee.PeriodMonth)
	suite.Equal(6, *savedFee.PeriodMonth)
	suite.Require().NotNil(savedFee.Reference)
	suite.Equal("Roof repair", *savedFee.Reference)
	suite.Equal(suite.userID, savedFee.CreatedBy)
}

func (suite *FeeServiceTestSuite) TestCreateExtraFee_InvalidAmount() {
	ctx := context.Background()
	req := dto.CreateExtraFeeRequest{
		FractionID:  "frac-a",
		PeriodYear:  2025,
		PeriodMonth: 6,
		Amount:      decimal.NewFromInt(-5),
		DueDate:     time.Now(),
	}

	_, err := suite.service.CreateExtraFee(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveFee", mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestCorrectHistoricalFee_NotHistorical() {
	ctx := context.Background()
	feeID := uuid.NewString()
	fee := &domain.Fee{FeeID: feeID, IsHistorical: false, Amount: decimal.NewFromInt(50)}

	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(fee, nil).Once()

	_, err := suite.service.CorrectHistoricalFee(ctx, feeID, dto.CorrectFeeRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotHistorical)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "UpdateFee", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestCorrectHistoricalFee_AmountBelowPaid() {
	ctx := context.Background()
	feeID := uuid.NewString()
	fee := &domain.Fee{FeeID: feeID, IsHistorical: true, Amount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(60)}
	newAmount := decimal.NewFromInt(40)

	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(fee, nil).Once()

	_, err := suite.service.CorrectHistoricalFee(ctx, feeID, dto.CorrectFeeRequest{Amount: &newAmount}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FeeServiceTestSuite) TestCorrectHistoricalFee_Success() {
	ctx := context.Background()
	feeID := uuid.NewString()
	fee := &domain.Fee{FeeID: feeID, IsHistorical: true, Amount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(60)}
	newAmount := decimal.NewFromInt(80)
	updated := &domain.Fee{FeeID: feeID, IsHistorical: true, Amount: newAmount, PaidAmount: decimal.NewFromInt(60)}

	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(fee, nil).Once()
	suite.mockFeeRepo.On("UpdateFee", ctx, feeID, mock.AnythingOfType("domain.FeeCorrection"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(updated, nil).Once()

	result, err := suite.service.CorrectHistoricalFee(ctx, feeID, dto.CorrectFeeRequest{Amount: &newAmount}, suite.userID)

	suite.Require().NoError(err)
	suite.True(result.Amount.Equal(newAmount))
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestConfigurePeriod_InvalidYear() {
	ctx := context.Background()

	err := suite.service.ConfigurePeriod(ctx, suite.condominiumID, dto.ConfigurePeriodRequest{Year: -1, PeriodType: domain.Monthly}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidYear)
}

func (suite *FeeServiceTestSuite) TestConfigurePeriod_Success() {
	ctx := context.Background()

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.MatchedBy(func(p domain.CondominiumFeePeriod) bool {
		return p.Year == 2026 && p.PeriodType == domain.Semiannual
	})).Return(nil).Once()

	err := suite.service.ConfigurePeriod(ctx, suite.condominiumID, dto.ConfigurePeriodRequest{Year: 2026, PeriodType: domain.Semiannual}, suite.userID)

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestGenerateForYear_SaveError() {
	ctx := context.Background()
	req := dto.GenerateFeesRequest{Year: 2025, PeriodType: domain.Monthly, DefaultAmount: decimal.NewFromInt(50)}
	repoErr := assert.AnError

	suite.mockPeriodRepo.On("UpsertPeriod", ctx, mock.Anything).Return(nil).Once()
	suite.mockFractionRepo.On("ListActiveFractionIDs", ctx, suite.condominiumID).Return([]string{"frac-a"}, nil).Once()
	suite.mockFeeRepo.On("SaveFees", ctx, mock.Anything).Return(0, repoErr).Once()

	_, err := suite.service.GenerateForYear(ctx, suite.condominiumID, req, suite.userID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), repoErr.Error())
}

// --- Run Test Suite ---
func TestFeeService(t *testing.T) {
	suite.Run(t, new(FeeServiceTestSuite))
}
