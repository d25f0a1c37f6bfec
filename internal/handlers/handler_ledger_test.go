package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/handlers"
	"github.com/condofy/condo_billing_app/pkg/config"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetAccountByFraction(ctx context.Context, fractionID string) (*domain.FractionAccount, error) {
	args := m.Called(ctx, fractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FractionAccount), args.Error(1)
}

func (m *MockLedgerService) ListMovements(ctx context.Context, accountID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListMovementsResponse), args.Error(1)
}

func (m *MockLedgerService) CheckConsistency(ctx context.Context, accountID string) (*dto.ConsistencyResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConsistencyResponse), args.Error(1)
}

func (m *MockLedgerService) AddCredit(ctx context.Context, req dto.AddCreditRequest, creatorUserID string) (*domain.FractionAccountMovement, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FractionAccountMovement), args.Error(1)
}

func (m *MockLedgerService) UpdateCredit(ctx context.Context, movementID string, newAmount decimal.Decimal, newDescription *string, userID string) error {
	args := m.Called(ctx, movementID, newAmount, newDescription, userID)
	return args.Error(0)
}

func (m *MockLedgerService) RemoveCredit(ctx context.Context, movementID string, userID string) error {
	args := m.Called(ctx, movementID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	userID            string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockLedgerService = new(MockLedgerService)
	suite.userID = uuid.NewString()

	cfg := &config.Config{RateLimit: "1000-M"}
	services := &portssvc.ServiceContainer{Ledger: suite.mockLedgerService}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *LedgerHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", suite.userID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestAddCredit_Success() {
	fractionID := uuid.NewString()
	condominiumID := uuid.NewString()
	movement := &domain.FractionAccountMovement{
		MovementID:        uuid.NewString(),
		FractionAccountID: uuid.NewString(),
		Type:              domain.Credit,
		Amount:            decimal.NewFromInt(25),
		SourceType:        domain.SourceManualCredit,
	}

	suite.mockLedgerService.On("AddCredit",
		mock.Anything,
		mock.MatchedBy(func(req dto.AddCreditRequest) bool {
			return req.FractionID == fractionID && req.Amount.Equal(decimal.NewFromInt(25))
		}),
		suite.userID,
	).Return(movement, nil).Once()

	body := dto.AddCreditRequest{
		FractionID:    fractionID,
		CondominiumID: condominiumID,
		Amount:        decimal.NewFromInt(25),
		Description:   "Advance payment",
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/credits", body)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.MovementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(movement.MovementID, resp.MovementID)
	suite.Equal(string(domain.Credit), resp.Type)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestAddCredit_MissingUserID() {
	body := dto.AddCreditRequest{
		FractionID:    uuid.NewString(),
		CondominiumID: uuid.NewString(),
		Amount:        decimal.NewFromInt(25),
	}
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credits", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	// No X-User-ID header

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "AddCredit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestAddCredit_InvalidAmount() {
	suite.mockLedgerService.On("AddCredit", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: 0", apperrors.ErrInvalidAmount)).Once()

	body := dto.AddCreditRequest{
		FractionID:    uuid.NewString(),
		CondominiumID: uuid.NewString(),
		Amount:        decimal.NewFromInt(1),
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/credits", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestGetAccount_NotFound() {
	fractionID := uuid.NewString()

	suite.mockLedgerService.On("GetAccountByFraction", mock.Anything, fractionID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/fractions/"+fractionID+"/account", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListMovements_Success() {
	accountID := uuid.NewString()
	expected := &dto.ListMovementsResponse{
		Movements: []dto.MovementResponse{
			{MovementID: uuid.NewString(), Type: string(domain.Credit), Amount: decimal.NewFromInt(10)},
		},
	}

	suite.mockLedgerService.On("ListMovements", mock.Anything, accountID, mock.MatchedBy(func(p dto.ListMovementsParams) bool {
		return p.Limit == 10
	})).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/accounts/%s/movements?limit=%d", accountID, 10)
	w := suite.doRequest(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListMovementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Movements, 1)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestCheckConsistency_MismatchReturnsConflict() {
	accountID := uuid.NewString()
	report := &dto.ConsistencyResponse{
		AccountID:  accountID,
		Balance:    decimal.NewFromInt(50),
		Credits:    decimal.NewFromInt(120),
		Debits:     decimal.NewFromInt(80),
		Consistent: false,
	}

	suite.mockLedgerService.On("CheckConsistency", mock.Anything, accountID).
		Return(report, fmt.Errorf("%w: account %s", apperrors.ErrInvariantViolation, accountID)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID+"/consistency", nil)

	suite.Equal(http.StatusConflict, w.Code)

	var resp dto.ConsistencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Consistent)
}

func (suite *LedgerHandlerTestSuite) TestRemoveCredit_Success() {
	movementID := uuid.NewString()

	suite.mockLedgerService.On("RemoveCredit", mock.Anything, movementID, suite.userID).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/credits/"+movementID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
