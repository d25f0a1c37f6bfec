package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	coresvc "github.com/condofy/condo_billing_app/internal/core/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/middleware"
)

// feeHandler handles HTTP requests related to the fee catalog.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

func newFeeHandler(fs portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{feeService: fs}
}

// registerFeeRoutes registers the fee catalog routes.
func registerFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	condos := rg.Group("/condominiums/:condominiumID")
	{
		condos.POST("/fees/generate", h.generateFees)
		condos.POST("/fees", h.createExtraFee)
		condos.GET("/fees/years/:year", h.feesMapByYear)
		condos.GET("/fees/years/:year/complete", h.hasAnnualFees)
		condos.PUT("/periods", h.configurePeriod)
	}

	fees := rg.Group("/fees")
	{
		fees.GET("/:feeID", h.getFee)
		fees.PUT("/:feeID", h.correctFee)
	}

	rg.GET("/fractions/:fractionID/fees/outstanding", h.outstandingForFraction)
}

// generateFees godoc
// @Summary Generate the regular fees of a condominium-year
// @Tags fees
// @Accept json
// @Produce json
// @Param condominiumID path string true "Condominium ID"
// @Param request body dto.GenerateFeesRequest true "Generation parameters"
// @Success 201 {object} dto.GenerateFeesResponse
// @Router /condominiums/{condominiumID}/fees/generate [post]
func (h *feeHandler) generateFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	var req dto.GenerateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateFees", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.feeService.GenerateForYear(c.Request.Context(), condominiumID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) || errors.Is(err, coresvc.ErrInvalidYear) || errors.Is(err, coresvc.ErrInvalidPeriodType) {
			logger.Warn("Validation error generating fees", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate fees", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate fees"})
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// createExtraFee godoc
// @Summary Create an extra or historical fee
// @Tags fees
// @Accept json
// @Produce json
// @Param condominiumID path string true "Condominium ID"
// @Param request body dto.CreateExtraFeeRequest true "Fee details"
// @Success 201 {object} dto.FeeResponse
// @Router /condominiums/{condominiumID}/fees [post]
func (h *feeHandler) createExtraFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	var req dto.CreateExtraFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExtraFee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fee, err := h.feeService.CreateExtraFee(c.Request.Context(), condominiumID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) || errors.Is(err, coresvc.ErrInvalidYear) {
			logger.Warn("Validation error creating extra fee", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create extra fee", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fee"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToFeeResponse(fee, time.Now().UTC()))
}

// feesMapByYear godoc
// @Summary Year overview of a condominium's fees
// @Tags fees
// @Produce json
// @Param condominiumID path string true "Condominium ID"
// @Param year path int true "Billing year"
// @Success 200 {object} dto.YearFeeMap
// @Router /condominiums/{condominiumID}/fees/years/{year} [get]
func (h *feeHandler) feesMapByYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year: " + c.Param("year")})
		return
	}

	resp, err := h.feeService.FeesMapByYear(c.Request.Context(), condominiumID, year)
	if err != nil {
		logger.Error("Failed to build year fee map", slog.Int("year", year), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fees"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// hasAnnualFees godoc
// @Summary Whether every slot of the year carries a regular fee
// @Tags fees
// @Produce json
// @Param condominiumID path string true "Condominium ID"
// @Param year path int true "Billing year"
// @Success 200 {object} map[string]bool
// @Router /condominiums/{condominiumID}/fees/years/{year}/complete [get]
func (h *feeHandler) hasAnnualFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year: " + c.Param("year")})
		return
	}

	complete, err := h.feeService.HasAnnualFeesForYear(c.Request.Context(), condominiumID, year)
	if err != nil {
		logger.Error("Failed to check year completeness", slog.Int("year", year), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check year"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complete": complete})
}

// configurePeriod godoc
// @Summary Configure the billing granularity of a condominium-year
// @Tags fees
// @Accept json
// @Param condominiumID path string true "Condominium ID"
// @Param request body dto.ConfigurePeriodRequest true "Period configuration"
// @Success 204
// @Router /condominiums/{condominiumID}/periods [put]
func (h *feeHandler) configurePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	var req dto.ConfigurePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfigurePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.feeService.ConfigurePeriod(c.Request.Context(), condominiumID, req, userID); err != nil {
		if errors.Is(err, coresvc.ErrInvalidYear) || errors.Is(err, coresvc.ErrInvalidPeriodType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to configure period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to configure period"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// getFee godoc
// @Summary Get a fee by ID
// @Tags fees
// @Produce json
// @Param feeID path string true "Fee ID"
// @Success 200 {object} dto.FeeResponse
// @Router /fees/{feeID} [get]
func (h *feeHandler) getFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	feeID := c.Param("feeID")

	fee, err := h.feeService.GetFeeByID(c.Request.Context(), feeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee not found"})
		} else {
			logger.Error("Failed to get fee", slog.String("fee_id", feeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeResponse(fee, time.Now().UTC()))
}

// correctFee godoc
// @Summary Correct operator-mutable fields of a historical fee
// @Tags fees
// @Accept json
// @Produce json
// @Param feeID path string true "Fee ID"
// @Param request body dto.CorrectFeeRequest true "Correction"
// @Success 200 {object} dto.FeeResponse
// @Router /fees/{feeID} [put]
func (h *feeHandler) correctFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	feeID := c.Param("feeID")

	var req dto.CorrectFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CorrectFee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fee, err := h.feeService.CorrectHistoricalFee(c.Request.Context(), feeID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee not found"})
		} else if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidAmount) || errors.Is(err, coresvc.ErrNotHistorical) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to correct fee", slog.String("fee_id", feeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to correct fee"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeResponse(fee, time.Now().UTC()))
}

// outstandingForFraction godoc
// @Summary List a fraction's unpaid fees in liquidation order
// @Tags fees
// @Produce json
// @Param fractionID path string true "Fraction ID"
// @Success 200 {array} dto.FeeResponse
// @Router /fractions/{fractionID}/fees/outstanding [get]
func (h *feeHandler) outstandingForFraction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fractionID := c.Param("fractionID")

	fees, err := h.feeService.OutstandingForFraction(c.Request.Context(), fractionID)
	if err != nil {
		logger.Error("Failed to list outstanding fees", slog.String("fraction_id", fractionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list outstanding fees"})
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeResponses(fees, time.Now().UTC()))
}
