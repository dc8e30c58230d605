package repository

import (
	"context"
	"time"

	"storefront_billing/internal/domain/entities"
	appconfig "storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	paymentsOrderIDIndex       = "order_id-index"
	paymentsTransactionIDIndex = "transaction_id-index"
)

type paymentItem struct {
	ID                string                 `dynamodbav:"id"`
	OrderID           string                 `dynamodbav:"order_id"`
	Method            string                 `dynamodbav:"payment_method"`
	Provider          string                 `dynamodbav:"provider"`
	TransactionID     string                 `dynamodbav:"transaction_id,omitempty"`
	Amount            ddbDecimal             `dynamodbav:"amount"`
	Currency          string                 `dynamodbav:"currency"`
	Status            string                 `dynamodbav:"status"`
	GatewayResponse   map[string]interface{} `dynamodbav:"gateway_response,omitempty"`
	RefundOfPaymentID string                 `dynamodbav:"refund_of_payment_id,omitempty"`
	RefundedAmount    ddbDecimal             `dynamodbav:"refunded_amount"`
	CreatedAt         string                 `dynamodbav:"created_at"`
	CreatedDate       string                 `dynamodbav:"created_date"`
	ProcessedAt       string                 `dynamodbav:"processed_at,omitempty"`
	UpdatedAt         string                 `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists Payment rows, refunds included, in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: order_id-index (PK: order_id)
//   - GSI: transaction_id-index (PK: transaction_id)
//   - GSI: created_date-index (PK: created_date, SK: created_at)
//
// Transactional writes also touch the orders and products tables.
type PaymentDynamoRepository struct {
	ddb    DynamoAPI
	tables appconfig.TableNames
	loc    *time.Location
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoAPI, tables appconfig.TableNames, loc *time.Location) *PaymentDynamoRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentDynamoRepository{ddb: ddb, tables: tables, loc: loc}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(r.toItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Payments),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Payment{}, conditionFailed(err)
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Payments),
		Key: map[string]types.AttributeValue{
			"id": stringValue(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Payments),
		IndexName:              aws.String(paymentsOrderIDIndex),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": stringValue(orderID),
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems(raw, fromPaymentItem)
}

func (r *PaymentDynamoRepository) FindByTransaction(ctx context.Context, transactionID, provider string) (entities.Payment, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Payments),
		IndexName:              aws.String(paymentsTransactionIDIndex),
		KeyConditionExpression: aws.String("transaction_id = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": stringValue(transactionID),
		},
	}
	if provider != "" {
		in.FilterExpression = aws.String("#provider = :provider")
		in.ExpressionAttributeNames = map[string]string{"#provider": "provider"}
		in.ExpressionAttributeValues[":provider"] = stringValue(provider)
	}
	raw, err := queryAll(ctx, r.ddb, in)
	if err != nil {
		return entities.Payment{}, err
	}
	payments, err := unmarshalItems(raw, fromPaymentItem)
	if err != nil || len(payments) == 0 {
		return entities.Payment{}, err
	}
	return payments[0], nil
}

func (r *PaymentDynamoRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error) {
	raw, err := queryCreatedBetween(ctx, r.ddb, r.tables.Payments, from, to, r.loc)
	if err != nil {
		return nil, err
	}
	return unmarshalItems(raw, fromPaymentItem)
}

func (r *PaymentDynamoRepository) UpdateStatusIfMatch(ctx context.Context, id string, expected, next entities.PaymentStatus) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tables.Payments),
		Key: map[string]types.AttributeValue{
			"id": stringValue(id),
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :expected"),
		UpdateExpression:    aws.String("SET #status = :next, #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": stringValue(string(expected)),
			":next":     stringValue(string(next)),
			":now":      stringValue(formatTime(time.Now())),
		},
	})
	return conditionFailed(err)
}

// ApplyTransition writes the payment status and, when present, the order update in one
// transaction conditioned on both rows still holding the statuses read by the caller.
func (r *PaymentDynamoRepository) ApplyTransition(ctx context.Context, t entities.PaymentTransition) error {
	set := "SET #status = :to, #updated_at = :now"
	names := map[string]string{"#status": "status", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{
		":from": stringValue(string(t.FromStatus)),
		":to":   stringValue(string(t.ToStatus)),
		":now":  stringValue(formatTime(t.UpdatedAt)),
	}
	if t.GatewayResponse != nil {
		gr, err := attributevalue.Marshal(t.GatewayResponse)
		if err != nil {
			return err
		}
		set += ", #gateway_response = :gr"
		names["#gateway_response"] = "gateway_response"
		values[":gr"] = gr
	}
	if t.ProcessedAt != nil {
		set += ", #processed_at = :processed_at"
		names["#processed_at"] = "processed_at"
		values[":processed_at"] = stringValue(formatTime(*t.ProcessedAt))
	}

	items := []types.TransactWriteItem{{
		Update: &types.Update{
			TableName:                 aws.String(r.tables.Payments),
			Key:                       map[string]types.AttributeValue{"id": stringValue(t.PaymentID)},
			ConditionExpression:       aws.String("#status = :from"),
			UpdateExpression:          aws.String(set),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		},
	}}
	if t.Order != nil {
		items = append(items, types.TransactWriteItem{Update: r.orderPaymentUpdate(*t.Order, t.UpdatedAt)})
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return conditionFailed(err)
}

func (r *PaymentDynamoRepository) orderPaymentUpdate(u entities.OrderPaymentUpdate, now time.Time) *types.Update {
	set := "SET #updated_at = :now"
	names := map[string]string{"#id": "id", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{":now": stringValue(formatTime(now))}
	cond := "attribute_exists(#id)"
	if u.PaymentStatus != "" {
		set += ", #payment_status = :payment_status"
		names["#payment_status"] = "payment_status"
		values[":payment_status"] = stringValue(string(u.PaymentStatus))
	}
	if u.Status != "" {
		set += ", #status = :status"
		cond += " AND #status = :order_from"
		names["#status"] = "status"
		values[":status"] = stringValue(string(u.Status))
		values[":order_from"] = stringValue(string(u.OrderFromStatus))
	}
	return &types.Update{
		TableName:                 aws.String(r.tables.Orders),
		Key:                       map[string]types.AttributeValue{"id": stringValue(u.OrderID)},
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String(set),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

// ApplyRefund books the refund row, moves the original payment's refunded_amount counter,
// annotates the order and restores stock in a single transaction.
func (r *PaymentDynamoRepository) ApplyRefund(ctx context.Context, app entities.RefundApplication) error {
	refundAV, err := attributevalue.MarshalMap(r.toItem(app.Refund))
	if err != nil {
		return err
	}
	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:                aws.String(r.tables.Payments),
			Item:                     refundAV,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}},
		{Update: r.originalRefundUpdate(app.Original)},
		{Update: r.orderRefundUpdate(app.Order)},
	}
	for _, s := range app.StockRestores {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName:                 aws.String(r.tables.Products),
			Key:                       map[string]types.AttributeValue{"id": stringValue(s.ProductID)},
			ConditionExpression:       aws.String("attribute_exists(#id)"),
			UpdateExpression:          aws.String("ADD #stock :qty"),
			ExpressionAttributeNames:  map[string]string{"#id": "id", "#stock": "stock_quantity"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":qty": &types.AttributeValueMemberN{Value: itoa(s.Quantity)}},
		}})
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return conditionFailed(err)
}

func (r *PaymentDynamoRepository) originalRefundUpdate(u entities.OriginalPaymentRefundUpdate) *types.Update {
	set := "SET #refunded_amount = :new, #updated_at = :now"
	names := map[string]string{"#refunded_amount": "refunded_amount", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{
		":prior": numberValue(u.PriorRefunded),
		":new":   numberValue(u.NewRefunded),
		":now":   stringValue(formatTime(u.UpdatedAt)),
	}
	cond := "#refunded_amount = :prior"
	if u.PriorRefunded.IsZero() {
		// rows written before the counter existed
		cond = "(attribute_not_exists(#refunded_amount) OR #refunded_amount = :prior)"
	}
	if u.MarkRefunded {
		set += ", #status = :refunded"
		names["#status"] = "status"
		values[":refunded"] = stringValue(string(entities.PaymentStatusRefunded))
	}
	return &types.Update{
		TableName:                 aws.String(r.tables.Payments),
		Key:                       map[string]types.AttributeValue{"id": stringValue(u.PaymentID)},
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String(set),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

func (r *PaymentDynamoRepository) orderRefundUpdate(u entities.OrderRefundUpdate) *types.Update {
	set := "SET #updated_at = :now"
	names := map[string]string{"#id": "id", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{":now": stringValue(formatTime(u.UpdatedAt))}
	if u.Note != "" {
		set += ", #admin_notes = list_append(if_not_exists(#admin_notes, :empty), :note)"
		names["#admin_notes"] = "admin_notes"
		values[":empty"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
		values[":note"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{stringValue(u.Note)}}
	}
	if u.MarkRefunded {
		set += ", #status = :refunded, #payment_status = :payment_refunded"
		names["#status"] = "status"
		names["#payment_status"] = "payment_status"
		values[":refunded"] = stringValue(string(entities.OrderStatusRefunded))
		values[":payment_refunded"] = stringValue(string(entities.OrderPaymentRefunded))
	}
	return &types.Update{
		TableName:                 aws.String(r.tables.Orders),
		Key:                       map[string]types.AttributeValue{"id": stringValue(u.OrderID)},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(set),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

func (r *PaymentDynamoRepository) toItem(p entities.Payment) paymentItem {
	return paymentItem{
		ID:                p.ID,
		OrderID:           p.OrderID,
		Method:            string(p.Method),
		Provider:          p.Provider,
		TransactionID:     p.TransactionID,
		Amount:            dec(p.Amount),
		Currency:          p.Currency,
		Status:            string(p.Status),
		GatewayResponse:   p.GatewayResponse,
		RefundOfPaymentID: p.RefundOfPaymentID,
		RefundedAmount:    dec(p.RefundedAmount),
		CreatedAt:         formatTime(p.CreatedAt),
		CreatedDate:       p.CreatedAt.In(r.loc).Format("2006-01-02"),
		ProcessedAt:       formatOptionalTime(p.ProcessedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	return entities.Payment{
		ID:                it.ID,
		OrderID:           it.OrderID,
		Method:            entities.PaymentMethod(it.Method),
		Provider:          it.Provider,
		TransactionID:     it.TransactionID,
		Amount:            it.Amount.Decimal,
		Currency:          it.Currency,
		Status:            entities.PaymentStatus(it.Status),
		GatewayResponse:   it.GatewayResponse,
		RefundOfPaymentID: it.RefundOfPaymentID,
		RefundedAmount:    it.RefundedAmount.Decimal,
		CreatedAt:         parseTime(it.CreatedAt),
		ProcessedAt:       parseOptionalTime(it.ProcessedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
}
