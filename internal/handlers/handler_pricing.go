package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	"github.com/condofy/condo_billing_app/internal/core/domain"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	coresvc "github.com/condofy/condo_billing_app/internal/core/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/middleware"
)

// pricingHandler handles HTTP requests for subscription plan pricing.
type pricingHandler struct {
	pricingService portssvc.PricingSvcFacade
}

func newPricingHandler(ps portssvc.PricingSvcFacade) *pricingHandler {
	return &pricingHandler{pricingService: ps}
}

// registerPricingRoutes registers the pricing tier routes.
func registerPricingRoutes(rg *gin.RouterGroup, pricingService portssvc.PricingSvcFacade) {
	h := newPricingHandler(pricingService)

	pricing := rg.Group("/pricing")
	{
		pricing.POST("/tiers", h.createTier)
		pricing.POST("/extra-tiers", h.createExtraTier)
		pricing.GET("/plans/:planID/tiers", h.listTiers)
		pricing.GET("/plans/:planID/quote", h.quote)
		pricing.GET("/plans/:planID/extra-quote", h.extraQuote)
		pricing.GET("/plans/:planID/subscriptions/:subscriptionID/quote", h.quoteSubscription)
	}
}

// createTier godoc
// @Summary Add a pricing tier to a plan
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body dto.CreateTierRequest true "Tier details"
// @Success 201 {object} dto.TierResponse
// @Router /pricing/tiers [post]
func (h *pricingHandler) createTier(c *gin.Context) {
	h.saveTier(c, h.pricingService.CreatePlanTier)
}

// createExtraTier godoc
// @Summary Add an extra-condominiums pricing tier to a plan
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body dto.CreateTierRequest true "Tier details"
// @Success 201 {object} dto.TierResponse
// @Router /pricing/extra-tiers [post]
func (h *pricingHandler) createExtraTier(c *gin.Context) {
	h.saveTier(c, h.pricingService.CreateExtraCondominiumsTier)
}

func (h *pricingHandler) saveTier(c *gin.Context, save func(ctx context.Context, req dto.CreateTierRequest, creatorUserID string) (*domain.PricingTier, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tier, err := save(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, coresvc.ErrInvalidTierRange) || errors.Is(err, apperrors.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create tier", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tier"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToTierResponse(tier))
}

// listTiers godoc
// @Summary List a plan's active tiers
// @Tags pricing
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {array} dto.TierResponse
// @Router /pricing/plans/{planID}/tiers [get]
func (h *pricingHandler) listTiers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("planID")

	tiers, err := h.pricingService.ListPlanTiers(c.Request.Context(), planID)
	if err != nil {
		logger.Error("Failed to list tiers", slog.String("plan_id", planID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tiers"})
		return
	}

	responses := make([]dto.TierResponse, len(tiers))
	for i := range tiers {
		responses[i] = dto.ToTierResponse(&tiers[i])
	}
	c.JSON(http.StatusOK, responses)
}

// quote godoc
// @Summary Quote a unit count on a plan
// @Tags pricing
// @Produce json
// @Param planID path string true "Plan ID"
// @Param units query int true "Unit count"
// @Param floor query string false "Minimum charge"
// @Success 200 {object} dto.QuoteResponse
// @Router /pricing/plans/{planID}/quote [get]
func (h *pricingHandler) quote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("planID")

	units, err := strconv.Atoi(c.Query("units"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid units: " + c.Query("units")})
		return
	}

	floor, err := parseFloor(c.Query("floor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.pricingService.PriceFor(c.Request.Context(), planID, units, floor)
	if err != nil {
		h.respondQuoteError(c, logger, planID, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// quoteSubscription godoc
// @Summary Quote a subscription's active fractions on a plan
// @Tags pricing
// @Produce json
// @Param planID path string true "Plan ID"
// @Param subscriptionID path string true "Subscription ID"
// @Param floor query string false "Minimum charge"
// @Success 200 {object} dto.QuoteResponse
// @Router /pricing/plans/{planID}/subscriptions/{subscriptionID}/quote [get]
func (h *pricingHandler) quoteSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("planID")
	subscriptionID := c.Param("subscriptionID")

	floor, err := parseFloor(c.Query("floor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.pricingService.PriceForSubscription(c.Request.Context(), planID, subscriptionID, floor)
	if err != nil {
		h.respondQuoteError(c, logger, planID, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// extraQuote godoc
// @Summary Quote condominiums beyond a plan's included allowance
// @Tags pricing
// @Produce json
// @Param planID path string true "Plan ID"
// @Param count query int true "Extra condominium count"
// @Success 200 {object} dto.QuoteResponse
// @Router /pricing/plans/{planID}/extra-quote [get]
func (h *pricingHandler) extraQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("planID")

	count, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count: " + c.Query("count")})
		return
	}

	quote, err := h.pricingService.ExtraCondominiumsPriceFor(c.Request.Context(), planID, count)
	if err != nil {
		h.respondQuoteError(c, logger, planID, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

func (h *pricingHandler) respondQuoteError(c *gin.Context, logger *slog.Logger, planID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, coresvc.ErrNegativeUnitCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to build quote", slog.String("plan_id", planID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build quote"})
	}
}

func parseFloor(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	floor, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New("invalid floor: " + raw)
	}
	return &floor, nil
}
