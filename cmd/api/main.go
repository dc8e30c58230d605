package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront_billing/internal/adapter/http/routes"
	"storefront_billing/internal/app"
	"storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/infrastructure/logging"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           Storefront Billing API
// @version         1.0
// @description     Payment webhooks, refunds, reconciliation and sales analytics for the storefront.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start the application", zap.Error(err))
	}
	defer a.Close()

	if err := routes.Run(ctx, a); err != nil {
		logger.Error("http server stopped", zap.Error(err))
	}
}
