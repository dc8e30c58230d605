package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"storefront_billing/internal/adapter/persistence/mysqlstore"
	"storefront_billing/internal/adapter/persistence/repository"
	appconfig "storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/infrastructure/database"
	"storefront_billing/internal/infrastructure/events"
	"storefront_billing/internal/infrastructure/payments"
	"storefront_billing/internal/usecase"
	"storefront_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// Repositories is the data access shim. Both store drivers fill every field.
type Repositories struct {
	Payments  interfaces.IPaymentRepository
	Orders    interfaces.IOrderRepository
	Products  interfaces.IProductRepository
	Roles     interfaces.IRoleRepository
	Coupons   interfaces.ICouponRepository
	Addresses interfaces.IAddressRepository
}

type UseCases struct {
	Authorization  *usecase.AuthorizationUseCase
	Webhook        *usecase.WebhookUseCase
	Refund         *usecase.RefundUseCase
	Reconciliation *usecase.ReconciliationUseCase
	Analytics      *usecase.AnalyticsUseCase
	Coupon         *usecase.CouponUseCase
	Address        *usecase.AddressUseCase
	Payment        *usecase.PaymentUseCase
	Order          *usecase.OrderUseCase
}

// App holds the wired dependencies shared by the API server and storectl.
type App struct {
	Config   appconfig.Config
	Logger   *zap.Logger
	Location *time.Location
	Repos    Repositories
	UseCases UseCases

	migrate func(ctx context.Context) error
	closers []io.Closer
}

// New connects the configured store, the event publisher and the card gateway, then
// builds every use case on top of them.
func New(ctx context.Context, cfg appconfig.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Location: loc}

	if err := a.connectStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	publisher := a.eventPublisher()

	var gateway interfaces.IPaymentGateway
	mp, err := payments.NewMercadoPagoGateway(cfg.Providers.MercadoPagoAccessToken, cfg.GatewayMock, logger)
	if err != nil {
		logger.Warn("mercado pago gateway not configured", zap.Error(err))
	} else {
		gateway = mp
	}

	r := a.Repos
	a.UseCases = UseCases{
		Authorization:  usecase.NewAuthorizationUseCase(r.Roles, logger),
		Webhook:        usecase.NewWebhookUseCase(r.Payments, r.Orders, payments.NewWebhookProviders(cfg.Providers, gateway), publisher, logger),
		Refund:         usecase.NewRefundUseCase(r.Payments, r.Orders, r.Products, gateway, publisher, logger),
		Reconciliation: usecase.NewReconciliationUseCase(r.Payments, r.Orders, publisher, loc, logger),
		Analytics:      usecase.NewAnalyticsUseCase(r.Payments, r.Orders, loc, logger),
		Coupon:         usecase.NewCouponUseCase(r.Coupons, logger),
		Address:        usecase.NewAddressUseCase(r.Addresses, logger),
		Payment:        usecase.NewPaymentUseCase(r.Payments, r.Orders, logger),
		Order:          usecase.NewOrderUseCase(r.Orders, r.Products, publisher, logger),
	}
	return a, nil
}

func (a *App) connectStore(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case appconfig.DriverMySQL:
		db, err := database.ConnectMySQL(ctx, a.Config.MySQLDSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db)
		a.Repos = mysqlRepositories(db)
		a.migrate = func(ctx context.Context) error { return mysqlstore.InitSchema(ctx, db) }
		a.Logger.Info("store connected", zap.String("driver", appconfig.DriverMySQL))
		return nil

	case appconfig.DriverDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, a.Config.AWS)
		if err != nil {
			return err
		}
		a.Repos = dynamoRepositories(ddb, a.Config.Tables, a.Location)
		a.migrate = func(ctx context.Context) error {
			created, err := repository.EnsureTables(ctx, ddb, a.Config.Tables, a.Logger)
			if len(created) > 0 {
				a.Logger.Info("tables created", zap.Strings("tables", created))
			}
			return err
		}
		a.Logger.Info("store connected", zap.String("driver", appconfig.DriverDynamoDB), zap.String("region", a.Config.AWS.Region))
		return nil
	}
	return fmt.Errorf("unsupported store driver %q", a.Config.StoreDriver)
}

func dynamoRepositories(ddb repository.DynamoAPI, tables appconfig.TableNames, loc *time.Location) Repositories {
	return Repositories{
		Payments:  repository.NewPaymentDynamoRepository(ddb, tables, loc),
		Orders:    repository.NewOrderDynamoRepository(ddb, tables, loc),
		Products:  repository.NewProductDynamoRepository(ddb, tables.Products),
		Roles:     repository.NewRoleDynamoRepository(ddb, tables.UserRoles),
		Coupons:   repository.NewCouponDynamoRepository(ddb, tables.Coupons),
		Addresses: repository.NewAddressDynamoRepository(ddb, tables.Addresses),
	}
}

func mysqlRepositories(db *sql.DB) Repositories {
	return Repositories{
		Payments:  mysqlstore.NewPaymentRepository(db),
		Orders:    mysqlstore.NewOrderRepository(db),
		Products:  mysqlstore.NewProductRepository(db),
		Roles:     mysqlstore.NewRoleRepository(db),
		Coupons:   mysqlstore.NewCouponRepository(db),
		Addresses: mysqlstore.NewAddressRepository(db),
	}
}

func (a *App) eventPublisher() interfaces.IEventPublisher {
	if len(a.Config.Kafka.Brokers) == 0 {
		a.Logger.Info("no kafka brokers configured, events disabled")
		return events.NoopPublisher{}
	}
	producer, err := events.NewSyncProducer(a.Config.Kafka.Brokers, a.Config.Kafka.ClientID)
	if err != nil {
		a.Logger.Warn("kafka producer unavailable, events disabled", zap.Strings("brokers", a.Config.Kafka.Brokers), zap.Error(err))
		return events.NoopPublisher{}
	}
	publisher := events.NewKafkaPublisher(producer, a.Config.Kafka.Topic, a.Logger)
	a.closers = append(a.closers, publisher)
	return publisher
}

// Migrate creates the DynamoDB tables or the MySQL schema. Existing tables are kept.
func (a *App) Migrate(ctx context.Context) error {
	if a.migrate == nil {
		return errors.New("store not connected")
	}
	return a.migrate(ctx)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
