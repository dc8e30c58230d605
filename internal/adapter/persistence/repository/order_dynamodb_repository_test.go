package repository

import (
	"context"
	"testing"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_GetByID(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewOrderDynamoRepository(ddb, testTables, time.UTC)
	row := marshalItem(t, orderItem{
		ID: "o1", OrderNumber: "ORD-1", Status: "pending", PaymentStatus: "unpaid",
		TotalAmount: dec(d("250")), Subtotal: dec(d("230")), TaxAmount: dec(d("10")),
		ShippingAmount: dec(d("10")), DiscountAmount: dec(decimal.Zero),
		ShippingAddress: shippingAddressItem{RecipientName: "An", City: "HCMC"},
		AdminNotes:      []string{"first"},
		CreatedAt:       "2025-03-01T10:00:00.000000000Z",
	})
	ddb.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return aws.ToString(in.TableName) == "orders" && aws.ToBool(in.ConsistentRead)
	})).Return(&dynamodb.GetItemOutput{Item: row}, nil)

	o, err := repo.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(d("250")))
	assert.Equal(t, "HCMC", o.ShippingAddress.City)
	assert.Equal(t, []string{"first"}, o.AdminNotes)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), o.CreatedAt)
}

func TestOrderRepository_ListItems(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewOrderDynamoRepository(ddb, testTables, time.UTC)
	ddb.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.TableName) == "order_items"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		marshalItem(t, orderLineItem{OrderID: "o1", ID: "i1", ProductID: "sku-1", Quantity: 2, UnitPrice: dec(d("9.99"))}),
	}}, nil)

	items, err := repo.ListItems(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(d("9.99")))
}

func TestOrderRepository_UpdateStatusIfMatch(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewOrderDynamoRepository(ddb, testTables, time.UTC)
	repo.now = func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) }

	ddb.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.ToString(in.ConditionExpression) == "attribute_exists(#id) AND #status = :expected" &&
			in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value == "confirmed" &&
			in.ExpressionAttributeValues[":note"] != nil
	})).Return(&dynamodb.UpdateItemOutput{Attributes: marshalItem(t, orderItem{
		ID: "o1", Status: "processing", TotalAmount: dec(d("1")), Subtotal: dec(d("1")),
		TaxAmount: dec(decimal.Zero), ShippingAmount: dec(decimal.Zero), DiscountAmount: dec(decimal.Zero),
		AdminNotes: []string{"packing"},
	})}, nil).Once()

	o, err := repo.UpdateStatusIfMatch(context.Background(), "o1", entities.OrderStatusConfirmed, entities.OrderStatusProcessing, "packing")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusProcessing, o.Status)

	ddb.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()
	_, err = repo.UpdateStatusIfMatch(context.Background(), "o1", entities.OrderStatusConfirmed, entities.OrderStatusProcessing, "")
	assert.ErrorIs(t, err, interfaces.ErrConcurrentModification)
}

func TestProductRepository_IncrementStock(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewProductDynamoRepository(ddb, "products")

	ddb.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.ToString(in.UpdateExpression) == "ADD #stock :qty" &&
			in.ExpressionAttributeValues[":qty"].(*types.AttributeValueMemberN).Value == "3"
	})).Return(&dynamodb.UpdateItemOutput{}, nil).Once()
	require.NoError(t, repo.IncrementStock(context.Background(), "sku-1", 3))

	ddb.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()
	assert.ErrorIs(t, repo.IncrementStock(context.Background(), "gone", 1), ErrProductNotFound)
}

func TestRoleRepository_ListRoles(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewRoleDynamoRepository(ddb, "user_roles")
	ddb.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		marshalItem(t, userRoleItem{UserID: "u1", Role: "customer"}),
		marshalItem(t, userRoleItem{UserID: "u1", Role: "admin"}),
	}}, nil)

	roles, err := repo.ListRoles(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []entities.Role{entities.RoleCustomer, entities.RoleAdmin}, roles)
}

func TestCouponRepository_GetByCode(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewCouponDynamoRepository(ddb, "coupons")
	limit := 10
	maxDiscount := dec(d("50000"))
	ddb.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, couponItem{
		Code: "SALE10", DiscountType: "percentage", DiscountValue: dec(d("10")), MinimumOrderAmount: dec(d("100000")),
		MaximumDiscount: &maxDiscount, UsageLimit: &limit, UsedCount: 3,
		ValidUntil: "2025-12-31T23:59:59.000000000Z", IsActive: true,
	})}, nil).Once()

	c, err := repo.GetByCode(context.Background(), "SALE10")
	require.NoError(t, err)
	require.NotNil(t, c.MaximumDiscount)
	assert.True(t, c.MaximumDiscount.Equal(d("50000")))
	assert.Equal(t, 10, *c.UsageLimit)
	assert.Nil(t, c.ValidFrom)
	require.NotNil(t, c.ValidUntil)
	assert.Equal(t, 2025, c.ValidUntil.Year())

	ddb.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
	missing, err := repo.GetByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, missing.Code)
}

func TestAddressRepository_SetDefault(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewAddressDynamoRepository(ddb, "addresses")
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	var captured *dynamodb.TransactWriteItemsInput
	ddb.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		captured = in
		return true
	})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

	require.NoError(t, repo.SetDefault(context.Background(), "u1", "a2", "a1", now))
	require.Len(t, captured.TransactItems, 2)
	unset := captured.TransactItems[0].Update
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: false}, unset.ExpressionAttributeValues[":value"])
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: true}, unset.ExpressionAttributeValues[":true"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "a1"}, unset.Key["id"])
	set := captured.TransactItems[1].Update
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: true}, set.ExpressionAttributeValues[":value"])

	require.NoError(t, repo.SetDefault(context.Background(), "u1", "a2", "", now))
	assert.Len(t, captured.TransactItems, 1)
}

func TestEnsureTables(t *testing.T) {
	ddb := &mockDynamo{}
	ddb.On("DescribeTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.DescribeTableInput) bool {
		return aws.ToString(in.TableName) == "payments"
	})).Return(&dynamodb.DescribeTableOutput{}, nil)
	ddb.On("DescribeTable", mock.Anything, mock.Anything).Return(nil, &types.ResourceNotFoundException{})

	var paymentsCreated bool
	ddb.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		if aws.ToString(in.TableName) == "orders" {
			assert.Len(t, in.GlobalSecondaryIndexes, 2)
			assert.Len(t, in.AttributeDefinitions, 4)
		}
		if aws.ToString(in.TableName) == "payments" {
			paymentsCreated = true
		}
		return in.BillingMode == types.BillingModePayPerRequest
	})).Return(&dynamodb.CreateTableOutput{}, nil)

	created, err := EnsureTables(context.Background(), ddb, testTables, nil)
	require.NoError(t, err)
	assert.False(t, paymentsCreated)
	assert.Len(t, created, 6)
}
