package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"storefront_billing/internal/adapter/persistence/mysqlstore"
	"storefront_billing/internal/adapter/persistence/repository"
	appconfig "storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/infrastructure/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDynamoRepositories(t *testing.T) {
	repos := dynamoRepositories(dynamodb.New(dynamodb.Options{Region: "us-east-1"}), appconfig.TableNames{Payments: "p"}, time.UTC)

	assert.IsType(t, &repository.PaymentDynamoRepository{}, repos.Payments)
	assert.IsType(t, &repository.OrderDynamoRepository{}, repos.Orders)
	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.Roles)
	assert.NotNil(t, repos.Coupons)
	assert.NotNil(t, repos.Addresses)
}

func TestMySQLRepositories(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos := mysqlRepositories(db)
	assert.IsType(t, &mysqlstore.PaymentRepository{}, repos.Payments)
	assert.IsType(t, &mysqlstore.OrderRepository{}, repos.Orders)
	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.Roles)
	assert.NotNil(t, repos.Coupons)
	assert.NotNil(t, repos.Addresses)
}

func TestEventPublisher_NoBrokers(t *testing.T) {
	a := &App{Config: appconfig.Config{}, Logger: zap.NewNop()}
	assert.IsType(t, events.NoopPublisher{}, a.eventPublisher())
	assert.Empty(t, a.closers)
}

func TestMigrate_NotConnected(t *testing.T) {
	a := &App{Logger: zap.NewNop()}
	assert.Error(t, a.Migrate(context.Background()))
}

func TestMigrate_RunsStoreMigration(t *testing.T) {
	called := 0
	a := &App{Logger: zap.NewNop(), migrate: func(context.Context) error { called++; return nil }}
	require.NoError(t, a.Migrate(context.Background()))
	assert.Equal(t, 1, called)
}

func TestClose_ReverseOrder(t *testing.T) {
	var order []string
	a := &App{Logger: zap.NewNop(), closers: []io.Closer{closerFunc(func() error { order = append(order, "db"); return nil }), closerFunc(func() error { order = append(order, "kafka"); return errors.New("x") })}}
	a.Close()
	assert.Equal(t, []string{"kafka", "db"}, order)
	assert.Nil(t, a.closers)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
