package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/middleware"
)

// reportingHandler handles HTTP requests for aggregated views.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/condominiums/:condominiumID/reports/outstanding", h.outstandingTotals)
	rg.GET("/fractions/:fractionID/statement", h.accountStatement)
}

// outstandingTotals godoc
// @Summary Outstanding fee totals per fraction
// @Tags reporting
// @Produce json
// @Param condominiumID path string true "Condominium ID"
// @Success 200 {object} dto.OutstandingTotalsResponse
// @Router /condominiums/{condominiumID}/reports/outstanding [get]
func (h *reportingHandler) outstandingTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	resp, err := h.reportingService.OutstandingTotals(c.Request.Context(), condominiumID)
	if err != nil {
		logger.Error("Failed to build outstanding totals", slog.String("condominium_id", condominiumID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// accountStatement godoc
// @Summary A fraction's account statement
// @Tags reporting
// @Produce json
// @Param fractionID path string true "Fraction ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.AccountStatementResponse
// @Router /fractions/{fractionID}/statement [get]
func (h *reportingHandler) accountStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fractionID := c.Param("fractionID")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.reportingService.AccountStatement(c.Request.Context(), fractionID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build account statement", slog.String("fraction_id", fractionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build statement"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
