package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condofy/condo_billing_app/internal/apperrors"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	coresvc "github.com/condofy/condo_billing_app/internal/core/services"
	"github.com/condofy/condo_billing_app/internal/dto"
	"github.com/condofy/condo_billing_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for fraction accounts and credits.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the fraction account routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	credits := rg.Group("/credits")
	{
		credits.POST("", h.addCredit)
		credits.PUT("/:movementID", h.updateCredit)
		credits.DELETE("/:movementID", h.removeCredit)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID/movements", h.listMovements)
		accounts.GET("/:accountID/consistency", h.checkConsistency)
	}

	rg.GET("/fractions/:fractionID/account", h.getAccount)
}

// addCredit godoc
// @Summary Record a credit independent of any fee
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body dto.AddCreditRequest true "Credit details"
// @Success 201 {object} dto.MovementResponse
// @Router /credits [post]
func (h *ledgerHandler) addCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.ledgerService.AddCredit(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add credit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add credit"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// updateCredit godoc
// @Summary Correct a credit movement's amount
// @Tags ledger
// @Accept json
// @Param movementID path string true "Movement ID"
// @Param request body dto.UpdateCreditRequest true "New amount"
// @Success 204
// @Router /credits/{movementID} [put]
func (h *ledgerHandler) updateCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	movementID := c.Param("movementID")

	var req dto.UpdateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ledgerService.UpdateCredit(c.Request.Context(), movementID, req.Amount, req.Description, userID); err != nil {
		h.respondCreditError(c, logger, movementID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// removeCredit godoc
// @Summary Delete a credit movement, reversing its balance effect
// @Tags ledger
// @Param movementID path string true "Movement ID"
// @Success 204
// @Router /credits/{movementID} [delete]
func (h *ledgerHandler) removeCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	movementID := c.Param("movementID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ledgerService.RemoveCredit(c.Request.Context(), movementID, userID); err != nil {
		h.respondCreditError(c, logger, movementID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ledgerHandler) respondCreditError(c *gin.Context, logger *slog.Logger, movementID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Movement not found"})
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, coresvc.ErrNotACredit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Credit mutation failed", slog.String("movement_id", movementID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update credit"})
	}
}

// getAccount godoc
// @Summary Get a fraction's account
// @Tags ledger
// @Produce json
// @Param fractionID path string true "Fraction ID"
// @Success 200 {object} dto.AccountResponse
// @Router /fractions/{fractionID}/account [get]
func (h *ledgerHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fractionID := c.Param("fractionID")

	account, err := h.ledgerService.GetAccountByFraction(c.Request.Context(), fractionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to get account", slog.String("fraction_id", fractionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listMovements godoc
// @Summary List an account's movements, newest first
// @Tags ledger
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListMovementsResponse
// @Router /accounts/{accountID}/movements [get]
func (h *ledgerHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListMovements(c.Request.Context(), accountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list movements", slog.String("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// checkConsistency godoc
// @Summary Reconcile an account's balance against its movement history
// @Tags ledger
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.ConsistencyResponse
// @Router /accounts/{accountID}/consistency [get]
func (h *ledgerHandler) checkConsistency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	resp, err := h.ledgerService.CheckConsistency(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		if errors.Is(err, apperrors.ErrInvariantViolation) && resp != nil {
			// The report is still valuable when the balance disagrees with
			// the movement history; return it with a conflict status.
			c.JSON(http.StatusConflict, resp)
			return
		}
		logger.Error("Failed to check consistency", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check consistency"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
