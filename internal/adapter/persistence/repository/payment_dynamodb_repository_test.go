package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront_billing/internal/domain/entities"
	appconfig "storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTables = appconfig.TableNames{
	Payments:   "payments",
	Orders:     "orders",
	OrderItems: "order_items",
	Products:   "products",
	UserRoles:  "user_roles",
	Coupons:    "coupons",
	Addresses:  "addresses",
}

var saigon, _ = time.LoadLocation("Asia/Ho_Chi_Minh")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func marshalItem(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, saigon)
	created := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC) // 01:30 on the 2nd in Saigon
	p := entities.Payment{
		ID: "p1", OrderID: "o1", Method: entities.PaymentMethodQRWallet, Provider: "momo",
		TransactionID: "ORD-1", Amount: d("150000.50"), Currency: "VND",
		Status: entities.PaymentStatusPending, RefundedAmount: decimal.Zero, CreatedAt: created, UpdatedAt: created,
	}

	var stored map[string]types.AttributeValue
	ddb.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		stored = in.Item
		return aws.ToString(in.TableName) == "payments" && aws.ToString(in.ConditionExpression) == "attribute_not_exists(#id)"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	_, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2025-03-02"}, stored["created_date"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "150000.5"}, stored["amount"])
	_, hasProcessed := stored["processed_at"]
	assert.False(t, hasProcessed)

	ddb.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: stored}, nil).Once()
	got, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", got.TransactionID)
	assert.True(t, got.Amount.Equal(p.Amount))
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Nil(t, got.ProcessedAt)

	ddb.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
	missing, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestPaymentRepository_CreateDuplicate(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	ddb.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

	_, err := repo.Create(context.Background(), entities.Payment{ID: "p1"})
	assert.ErrorIs(t, err, interfaces.ErrConcurrentModification)
}

func TestPaymentRepository_FindByTransaction(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	row := marshalItem(t, paymentItem{ID: "p1", TransactionID: "T1", Provider: "vnpay", Amount: dec(d("10")), RefundedAmount: dec(decimal.Zero)})

	ddb.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == paymentsTransactionIDIndex &&
			aws.ToString(in.FilterExpression) == "#provider = :provider" &&
			in.ExpressionAttributeValues[":provider"].(*types.AttributeValueMemberS).Value == "vnpay"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{row}}, nil).Once()

	got, err := repo.FindByTransaction(context.Background(), "T1", "vnpay")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	ddb.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()
	none, err := repo.FindByTransaction(context.Background(), "T2", "")
	require.NoError(t, err)
	assert.Empty(t, none.ID)
}

func TestPaymentRepository_ListCreatedBetween_QueriesEachLocalDay(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, saigon)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, saigon)
	to := time.Date(2025, 3, 3, 23, 59, 59, 0, saigon)

	var days []string
	ddb.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		days = append(days, in.ExpressionAttributeValues[":day"].(*types.AttributeValueMemberS).Value)
		return aws.ToString(in.IndexName) == createdDateIndex
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		marshalItem(t, paymentItem{ID: "x", Amount: dec(d("1")), RefundedAmount: dec(decimal.Zero)}),
	}}, nil)

	got, err := repo.ListCreatedBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02", "2025-03-03"}, days)
}

func TestPaymentRepository_ListByOrderID_FollowsPages(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	page := func(id string) map[string]types.AttributeValue {
		return marshalItem(t, paymentItem{ID: id, OrderID: "o1", Amount: dec(d("1")), RefundedAmount: dec(decimal.Zero)})
	}
	lastKey := map[string]types.AttributeValue{"id": stringValue("a")}

	ddb.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool { return in.ExclusiveStartKey == nil })).
		Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{page("a")}, LastEvaluatedKey: lastKey}, nil).Once()
	ddb.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool { return in.ExclusiveStartKey != nil })).
		Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{page("b")}}, nil).Once()

	got, err := repo.ListByOrderID(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
}

func TestPaymentRepository_ApplyTransition(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tr := entities.PaymentTransition{
		PaymentID:       "p1",
		FromStatus:      entities.PaymentStatusPending,
		ToStatus:        entities.PaymentStatusCompleted,
		GatewayResponse: map[string]interface{}{"vnp_ResponseCode": "00"},
		ProcessedAt:     &now,
		UpdatedAt:       now,
		Order: &entities.OrderPaymentUpdate{
			OrderID:         "o1",
			PaymentStatus:   entities.OrderPaymentPaid,
			Status:          entities.OrderStatusConfirmed,
			OrderFromStatus: entities.OrderStatusPending,
		},
	}

	var captured *dynamodb.TransactWriteItemsInput
	ddb.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		captured = in
		return true
	})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

	require.NoError(t, repo.ApplyTransition(context.Background(), tr))
	require.Len(t, captured.TransactItems, 2)
	pay := captured.TransactItems[0].Update
	assert.Equal(t, "#status = :from", aws.ToString(pay.ConditionExpression))
	assert.Contains(t, aws.ToString(pay.UpdateExpression), "#processed_at = :processed_at")
	order := captured.TransactItems[1].Update
	assert.Equal(t, "orders", aws.ToString(order.TableName))
	assert.Equal(t, "attribute_exists(#id) AND #status = :order_from", aws.ToString(order.ConditionExpression))

	ddb.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("None")}, {Code: aws.String("ConditionalCheckFailed")}},
	}).Once()
	err := repo.ApplyTransition(context.Background(), tr)
	assert.ErrorIs(t, err, interfaces.ErrConcurrentModification)
}

func TestPaymentRepository_ApplyRefund(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	app := entities.RefundApplication{
		Refund: entities.Payment{ID: "r1", OrderID: "o1", RefundOfPaymentID: "p1", Amount: d("-100"), Status: entities.PaymentStatusCompleted, CreatedAt: now, UpdatedAt: now},
		Original: entities.OriginalPaymentRefundUpdate{
			PaymentID: "p1", PriorRefunded: decimal.Zero, NewRefunded: d("100"), MarkRefunded: true, UpdatedAt: now,
		},
		Order:         entities.OrderRefundUpdate{OrderID: "o1", Note: "refunded", MarkRefunded: true, UpdatedAt: now},
		StockRestores: []entities.StockDelta{{ProductID: "sku-1", Quantity: 2}, {ProductID: "sku-2", Quantity: 1}},
	}

	var captured *dynamodb.TransactWriteItemsInput
	ddb.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		captured = in
		return true
	})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

	require.NoError(t, repo.ApplyRefund(context.Background(), app))
	require.Len(t, captured.TransactItems, 5)
	assert.NotNil(t, captured.TransactItems[0].Put)

	original := captured.TransactItems[1].Update
	assert.Contains(t, aws.ToString(original.ConditionExpression), "attribute_not_exists(#refunded_amount)")
	assert.Equal(t, &types.AttributeValueMemberN{Value: "100"}, original.ExpressionAttributeValues[":new"])
	assert.Contains(t, aws.ToString(original.UpdateExpression), "#status = :refunded")

	order := captured.TransactItems[2].Update
	assert.Contains(t, aws.ToString(order.UpdateExpression), "list_append")
	assert.Contains(t, aws.ToString(order.UpdateExpression), "#payment_status = :payment_refunded")

	stock := captured.TransactItems[3].Update
	assert.Equal(t, "products", aws.ToString(stock.TableName))
	assert.Equal(t, "ADD #stock :qty", aws.ToString(stock.UpdateExpression))
	assert.Equal(t, "attribute_exists(#id)", aws.ToString(stock.ConditionExpression))
	assert.Equal(t, &types.AttributeValueMemberN{Value: "2"}, stock.ExpressionAttributeValues[":qty"])
}

func TestPaymentRepository_ApplyRefund_CounterGuard(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	app := entities.RefundApplication{
		Refund:   entities.Payment{ID: "r2"},
		Original: entities.OriginalPaymentRefundUpdate{PaymentID: "p1", PriorRefunded: d("30"), NewRefunded: d("50")},
		Order:    entities.OrderRefundUpdate{OrderID: "o1"},
	}
	ddb.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		return aws.ToString(in.TransactItems[1].Update.ConditionExpression) == "#refunded_amount = :prior"
	})).Return(nil, &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("None")}, {Code: aws.String("ConditionalCheckFailed")}},
	})

	err := repo.ApplyRefund(context.Background(), app)
	assert.ErrorIs(t, err, interfaces.ErrConcurrentModification)
}

func TestPaymentRepository_UpdateStatusIfMatch(t *testing.T) {
	ddb := &mockDynamo{}
	repo := NewPaymentDynamoRepository(ddb, testTables, time.UTC)
	ddb.On("UpdateItem", mock.Anything, mock.Anything).Return(&dynamodb.UpdateItemOutput{}, nil).Once()
	require.NoError(t, repo.UpdateStatusIfMatch(context.Background(), "p1", entities.PaymentStatusPending, entities.PaymentStatusCompleted))

	boom := errors.New("throttled")
	ddb.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, boom).Once()
	assert.ErrorIs(t, repo.UpdateStatusIfMatch(context.Background(), "p1", entities.PaymentStatusPending, entities.PaymentStatusCompleted), boom)
}
