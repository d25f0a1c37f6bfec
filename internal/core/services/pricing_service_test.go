package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portsrepo "github.com/condofy/condo_billing_app/internal/core/ports/repositories"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/core/services"
	"github.com/condofy/condo_billing_app/internal/dto"
)

// --- Mock PricingRepository ---
type MockPricingRepository struct {
	mock.Mock
}

// Ensure MockPricingRepository implements portsrepo.PricingRepositoryFacade
var _ portsrepo.PricingRepositoryFacade = (*MockPricingRepository)(nil)

func (m *MockPricingRepository) SavePlanTier(ctx context.Context, tier domain.PricingTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockPricingRepository) ListActivePlanTiers(ctx context.Context, planID string) ([]domain.PricingTier, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingTier), args.Error(1)
}

func (m *MockPricingRepository) SaveExtraCondominiumsTier(ctx context.Context, tier domain.PricingTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockPricingRepository) ListActiveExtraCondominiumsTiers(ctx context.Context, planID string) ([]domain.PricingTier, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingTier), args.Error(1)
}

// --- Test Suite Setup ---
type PricingServiceTestSuite struct {
	suite.Suite
	mockPricingRepo  *MockPricingRepository
	mockFractionRepo *MockFractionReader
	service          portssvc.PricingSvcFacade
	planID           string
	userID           string
}

func (suite *PricingServiceTestSuite) SetupTest() {
	suite.mockPricingRepo = new(MockPricingRepository)
	suite.mockFractionRepo = new(MockFractionReader)
	suite.service = services.NewPricingService(suite.mockPricingRepo, suite.mockFractionRepo)

	suite.planID = uuid.NewString()
	suite.userID = uuid.NewString()
}

// tiers ordered by MinUnits ascending, the way the repository returns them
func (suite *PricingServiceTestSuite) standardTiers() []domain.PricingTier {
	return []domain.PricingTier{
		{TierID: "tier-small", PlanID: suite.planID, MinUnits: 0, MaxUnits: intPtr(10), PricePerUnit: decimal.NewFromInt(5), IsActive: true},
		{TierID: "tier-large", PlanID: suite.planID, MinUnits: 8, MaxUnits: nil, PricePerUnit: decimal.NewFromInt(4), IsActive: true},
	}
}

// --- Test Cases ---

func (suite *PricingServiceTestSuite) TestResolveTier_HighestMinUnitsWins() {
	ctx := context.Background()
	suite.mockPricingRepo.On("ListActivePlanTiers", ctx, suite.planID).Return(suite.standardTiers(), nil).Once()

	// 9 sits inside both ranges; the tier with the higher MinUnits wins
	tier, fallback, err := suite.service.ResolveTier(ctx, suite.planID, 9)

	suite.Require().NoError(err)
	suite.Equal("tier-large", tier.TierID)
	suite.False(fallback)
}

func (suite *PricingServiceTestSuite) TestResolveTier_ExactBoundaries() {
	ctx := context.Background()
	suite.mockPricingRepo.On("ListActivePlanTiers", ctx, suite.planID).Return(suite.standardTiers(), nil).Times(3)

	tier, _, err := suite.service.ResolveTier(ctx, suite.planID, 0)
	suite.Require().NoError(err)
	suite.Equal("tier-small", tier.TierID)

	tier, _, err = suite.service.ResolveTier(ctx, suite.planID, 7)
	suite.Require().NoError(err)
	suite.Equal("tier-small", tier.TierID)

	// Open-ended range has no upper bound
	tier, _, err = suite.service.ResolveTier(ctx, suite.planID, 10000)
	suite.Require().NoError(err)
	suite.Equal("tier-large", tier.TierID)
}

func (suite *PricingServiceTestSuite) TestResolveTier_FallbackToLowestTier() {
	ctx := context.Background()
	tiers := []domain.PricingTier{
		{TierID: "tier-a", PlanID: suite.planID, MinUnits: 10, MaxUnits: intPtr(20), PricePerUnit: decimal.NewFromInt(3), IsActive: true},
	}
	suite.mockPricingRepo.On("ListActivePlanTiers", ctx, suite.planID).Return(tiers, nil).Once()

	// 5 is below every configured range; billing falls back instead of stalling
	tier, fallback, err := suite.service.ResolveTier(ctx, suite.planID, 5)

	suite.Require().NoError(err)
	suite.Equal("tier-a", tier.TierID)
	suite.True(fallback)
}

func (suite *PricingServiceTestSuite) TestResolveTier_NoTiers() {
	ctx := context.Background()
	suite.mockPricingRepo.On("ListActivePlanTiers", ctx, suite.planID).Return([]domain.PricingTier{}, nil).Once()

	_, _, err := suite.service.ResolveTier(ctx, suite.planID, 5)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PricingServiceTestSuite) TestResolveTier_NegativeCount() {
	ctx := context.Background()

	_, _, err := suite.service.ResolveTier(ctx, suite.planID, -1)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNegativeUnitCount)
	suite.mockPricingRepo.AssertNotCalled(suite.T(), "ListActivePlanTiers", mock.Anything, mock.Anything)
}

func (suite *PricingServiceTestSuite) TestPriceFor_TotalAndFloor() {
	ctx := context.Background()
	suite.mockPricingRepo.On("ListActivePlanTiers", ctx, suite.planID).Return(suite.standardTiers(), nil).Twice()

	quote, err := suite.service.PriceFor(ctx, suite.planID, 3, nil)
	suite.Require().NoError(err)
	suite.True(quote.Total.Equal(decimal.NewFromInt(15))) // 3 x 5
	suite.Equal(3, quote.UnitCount)
	suite.False(quote.FallbackApplied)

	// The floor raises a total below the minimum charge
	floor := decimal.NewFromInt(25)
	quote, err = suite.service.PriceFor(ctx, suite.planID, 3, &floor)
	suite.Require().NoError(err)
	suite.True(quote.Total.Equal(decimal.NewFromInt(25)))
}

func (suite *PricingServiceTestSuite) TestPriceForSubscription() {
	ctx := context.Background()
	subscriptionID := uuid.NewString()

	suite.mockFractionRepo.On("ActiveFractionCountForSubscription", ctx, subscriptionID).Return(12, nil).Once()
	suite.mockPricingRepo.On("ListActivePlanTiers", ctx, suite.planID).Return(suite.standardTiers(), nil).Once()

	quote, err := suite.service.PriceForSubscription(ctx, suite.planID, subscriptionID, nil)

	suite.Require().NoError(err)
	suite.Equal(12, quote.UnitCount)
	suite.Equal("tier-large", quote.TierID)
	suite.True(quote.Total.Equal(decimal.NewFromInt(48))) // 12 x 4
}

func (suite *PricingServiceTestSuite) TestExtraCondominiumsPriceFor() {
	ctx := context.Background()
	extraTiers := []domain.PricingTier{
		{TierID: "extra-tier", PlanID: suite.planID, MinUnits: 0, MaxUnits: nil, PricePerUnit: decimal.NewFromInt(10), IsActive: true},
	}
	suite.mockPricingRepo.On("ListActiveExtraCondominiumsTiers", ctx, suite.planID).Return(extraTiers, nil).Once()

	quote, err := suite.service.ExtraCondominiumsPriceFor(ctx, suite.planID, 2)

	suite.Require().NoError(err)
	suite.True(quote.Total.Equal(decimal.NewFromInt(20)))
	suite.mockPricingRepo.AssertNotCalled(suite.T(), "ListActivePlanTiers", mock.Anything, mock.Anything)
}

func (suite *PricingServiceTestSuite) TestCreatePlanTier_Success() {
	ctx := context.Background()
	req := dto.CreateTierRequest{
		PlanID:       suite.planID,
		MinUnits:     0,
		MaxUnits:     intPtr(10),
		PricePerUnit: decimal.NewFromInt(5),
		IsActive:     true,
	}

	var savedTier domain.PricingTier
	suite.mockPricingRepo.On("SavePlanTier", ctx, mock.AnythingOfType("domain.PricingTier")).
		Run(func(args mock.Arguments) { savedTier = args.Get(1).(domain.PricingTier) }).
		Return(nil).Once()

	tier, err := suite.service.CreatePlanTier(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(tier.TierID)
	suite.Equal(suite.planID, savedTier.PlanID)
	suite.Equal(suite.userID, savedTier.CreatedBy)
}

func (suite *PricingServiceTestSuite) TestCreatePlanTier_InvalidRange() {
	ctx := context.Background()
	req := dto.CreateTierRequest{
		PlanID:       suite.planID,
		MinUnits:     10,
		MaxUnits:     intPtr(5),
		PricePerUnit: decimal.NewFromInt(5),
	}

	_, err := suite.service.CreatePlanTier(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTierRange)
	suite.mockPricingRepo.AssertNotCalled(suite.T(), "SavePlanTier", mock.Anything, mock.Anything)
}

func (suite *PricingServiceTestSuite) TestCreateExtraCondominiumsTier_NegativePrice() {
	ctx := context.Background()
	req := dto.CreateTierRequest{
		PlanID:       suite.planID,
		MinUnits:     0,
		PricePerUnit: decimal.NewFromInt(-1),
	}

	_, err := suite.service.CreateExtraCondominiumsTier(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

// --- Run Test Suite ---
func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceTestSuite))
}
