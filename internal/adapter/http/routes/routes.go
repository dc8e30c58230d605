package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "storefront_billing/docs"
	"storefront_billing/internal/adapter/http/handlers"
	"storefront_billing/internal/adapter/http/middleware"
	"storefront_billing/internal/app"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, a *app.App) error {
	if !a.Config.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + a.Config.HTTPPort,
		Handler:           NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the engine with middlewares, swagger and every /v1 route.
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, a.Logger)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	uc := a.UseCases
	auth := middleware.NewAuthenticator(a.Config.JWT.Secret, a.Config.JWT.Issuer, uc.Authorization, a.Logger)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBillingRoutes(v1, auth, billingHandlers{
		webhook:        handlers.NewWebhookHandler(uc.Webhook),
		payment:        handlers.NewPaymentHandler(uc.Payment),
		refund:         handlers.NewRefundHandler(uc.Refund),
		reconciliation: handlers.NewReconciliationHandler(uc.Reconciliation),
		analytics:      handlers.NewAnalyticsHandler(uc.Analytics, a.Location),
		coupon:         handlers.NewCouponHandler(uc.Coupon),
		address:        handlers.NewAddressHandler(uc.Address),
		order:          handlers.NewOrderHandler(uc.Order),
	})
	return router
}

func setMiddlewares(router *gin.Engine, logger *zap.Logger) {
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.Recovery(logger))
}
