package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/condofy/condo_billing_app/internal/core/domain"
)

// ApplyPaymentRequest applies an incoming amount to a fraction's outstanding
// fees in liquidation order.
type ApplyPaymentRequest struct {
	FractionID             string          `json:"fractionID" binding:"required"`
	Amount                 decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod          string          `json:"paymentMethod" binding:"required"`
	Reference              string          `json:"reference"`
	PaymentDate            time.Time       `json:"paymentDate" binding:"required"`
	FinancialTransactionID *string         `json:"financialTransactionID,omitempty"`
}

// FeeApplicationResponse reports one fee settled (fully or partially) by a
// payment.
type FeeApplicationResponse struct {
	FeeID         string          `json:"feeID"`
	PaymentID     string          `json:"paymentID"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
}

// ApplyPaymentResponse reports how the payment amount was distributed.
// Applications lists the portion already committed even when the call failed
// midway, so the caller never double-submits the settled amount.
type ApplyPaymentResponse struct {
	Applications    []FeeApplicationResponse `json:"applications"`
	TotalApplied    decimal.Decimal          `json:"totalApplied"`
	SurplusCredited decimal.Decimal          `json:"surplusCredited"`
}

// ToFeeApplicationResponses converts domain fee applications.
func ToFeeApplicationResponses(apps []domain.FeeApplication) []FeeApplicationResponse {
	responses := make([]FeeApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = FeeApplicationResponse{
			FeeID:         app.FeeID,
			PaymentID:     app.PaymentID,
			AppliedAmount: app.AppliedAmount,
		}
	}
	return responses
}
