package repository

import (
	"context"
	"errors"

	appconfig "storefront_billing/internal/infrastructure/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

type keyDef struct {
	hash, rangeKey string
}

type tableDef struct {
	name    string
	key     keyDef
	indexes map[string]keyDef
}

// tableDefinitions describes every table the service reads or writes.
func tableDefinitions(t appconfig.TableNames) []tableDef {
	created := keyDef{hash: "created_date", rangeKey: "created_at"}
	return []tableDef{
		{name: t.Payments, key: keyDef{hash: "id"}, indexes: map[string]keyDef{
			paymentsOrderIDIndex:       {hash: "order_id"},
			paymentsTransactionIDIndex: {hash: "transaction_id"},
			createdDateIndex:           created,
		}},
		{name: t.Orders, key: keyDef{hash: "id"}, indexes: map[string]keyDef{
			createdDateIndex: created,
			"user_id-index":  {hash: "user_id"},
		}},
		{name: t.OrderItems, key: keyDef{hash: "order_id", rangeKey: "id"}},
		{name: t.Products, key: keyDef{hash: "id"}},
		{name: t.UserRoles, key: keyDef{hash: "user_id", rangeKey: "role"}},
		{name: t.Coupons, key: keyDef{hash: "code"}},
		{name: t.Addresses, key: keyDef{hash: "user_id", rangeKey: "id"}},
	}
}

// EnsureTables creates missing tables with on-demand billing. Existing tables are left as is.
func EnsureTables(ctx context.Context, ddb DynamoAPI, tables appconfig.TableNames, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var created []string
	for _, def := range tableDefinitions(tables) {
		_, err := ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(def.name)})
		if err == nil {
			logger.Debug("table exists", zap.String("table", def.name))
			continue
		}
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return created, err
		}

		if _, err := ddb.CreateTable(ctx, createTableInput(def)); err != nil {
			logger.Error("create table failed", zap.String("table", def.name), zap.Error(err))
			return created, err
		}
		logger.Info("table created", zap.String("table", def.name))
		created = append(created, def.name)
	}
	return created, nil
}

func createTableInput(def tableDef) *dynamodb.CreateTableInput {
	attrs := map[string]struct{}{}
	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(def.name),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema:   keySchema(def.key, attrs),
	}
	for name, key := range def.indexes {
		in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(name),
			KeySchema:  keySchema(key, attrs),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	for name := range attrs {
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	return in
}

func keySchema(k keyDef, attrs map[string]struct{}) []types.KeySchemaElement {
	attrs[k.hash] = struct{}{}
	schema := []types.KeySchemaElement{{AttributeName: aws.String(k.hash), KeyType: types.KeyTypeHash}}
	if k.rangeKey != "" {
		attrs[k.rangeKey] = struct{}{}
		schema = append(schema, types.KeySchemaElement{AttributeName: aws.String(k.rangeKey), KeyType: types.KeyTypeRange})
	}
	return schema
}
