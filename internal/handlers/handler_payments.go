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

// paymentHandler handles HTTP requests for payment liquidation.
type paymentHandler struct {
	liquidationService portssvc.LiquidationSvcFacade
}

func newPaymentHandler(ls portssvc.LiquidationSvcFacade) *paymentHandler {
	return &paymentHandler{liquidationService: ls}
}

// registerPaymentRoutes registers the liquidation routes.
func registerPaymentRoutes(rg *gin.RouterGroup, liquidationService portssvc.LiquidationSvcFacade) {
	h := newPaymentHandler(liquidationService)

	rg.POST("/condominiums/:condominiumID/payments", h.applyPayment)
	rg.DELETE("/payments/:paymentID", h.undoPayment)
}

// applyPayment godoc
// @Summary Apply a payment to a fraction's outstanding fees
// @Description Distributes the amount over outstanding fees in liquidation order; any surplus is credited to the fraction's account.
// @Tags payments
// @Accept json
// @Produce json
// @Param condominiumID path string true "Condominium ID"
// @Param request body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.ApplyPaymentResponse
// @Router /condominiums/{condominiumID}/payments [post]
func (h *paymentHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	condominiumID := c.Param("condominiumID")

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.liquidationService.Apply(c.Request.Context(), condominiumID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) {
			logger.Warn("Invalid payment amount", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Payment liquidation failed", slog.String("error", err.Error()))
		if resp != nil && len(resp.Applications) > 0 {
			// Part of the payment was committed before the failure; report it
			// so the caller does not resubmit the settled amount.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Payment partially applied: " + err.Error(),
				"partial": resp,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply payment"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// undoPayment godoc
// @Summary Reverse a single fee payment
// @Tags payments
// @Param paymentID path string true "Fee payment ID"
// @Success 204
// @Router /payments/{paymentID} [delete]
func (h *paymentHandler) undoPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.liquidationService.Undo(c.Request.Context(), paymentID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		} else {
			logger.Error("Failed to undo payment", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to undo payment"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
