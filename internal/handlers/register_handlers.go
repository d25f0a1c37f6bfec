package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/condofy/condo_billing_app/internal/core/domain"
	portssvc "github.com/condofy/condo_billing_app/internal/core/ports/services"
	"github.com/condofy/condo_billing_app/internal/middleware"
	"github.com/condofy/condo_billing_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1", middleware.OperatorIDMiddleware(), middleware.RateLimit(ipLimiter))

	registerFeeRoutes(v1, services.Fee)
	registerPaymentRoutes(v1, services.Liquidation)
	registerLedgerRoutes(v1, services.Ledger)
	registerPricingRoutes(v1, services.Pricing)
	registerReportingRoutes(v1, services.Reporting)
}

// RegisterCustomValidators wires the billing-specific binding validators into
// gin's validator engine. Called once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("periodtype", func(fl validator.FieldLevel) bool {
		return domain.PeriodType(fl.Field().String()).IsValid()
	})
}
