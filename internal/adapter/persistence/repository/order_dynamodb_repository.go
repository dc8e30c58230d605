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

type shippingAddressItem struct {
	RecipientName string `dynamodbav:"recipient_name"`
	Phone         string `dynamodbav:"phone"`
	Line1         string `dynamodbav:"line1"`
	Ward          string `dynamodbav:"ward,omitempty"`
	District      string `dynamodbav:"district,omitempty"`
	City          string `dynamodbav:"city"`
}

type orderItem struct {
	ID              string              `dynamodbav:"id"`
	OrderNumber     string              `dynamodbav:"order_number"`
	UserID          string              `dynamodbav:"user_id,omitempty"`
	Status          string              `dynamodbav:"status"`
	PaymentStatus   string              `dynamodbav:"payment_status"`
	TotalAmount     ddbDecimal          `dynamodbav:"total_amount"`
	Subtotal        ddbDecimal          `dynamodbav:"subtotal"`
	TaxAmount       ddbDecimal          `dynamodbav:"tax_amount"`
	ShippingAmount  ddbDecimal          `dynamodbav:"shipping_amount"`
	DiscountAmount  ddbDecimal          `dynamodbav:"discount_amount"`
	CouponCode      string              `dynamodbav:"coupon_code,omitempty"`
	PaymentMethod   string              `dynamodbav:"payment_method,omitempty"`
	ShippingAddress shippingAddressItem `dynamodbav:"shipping_address"`
	AdminNotes      []string            `dynamodbav:"admin_notes,omitempty"`
	CreatedAt       string              `dynamodbav:"created_at"`
	CreatedDate     string              `dynamodbav:"created_date"`
	UpdatedAt       string              `dynamodbav:"updated_at"`
}

type orderLineItem struct {
	OrderID     string     `dynamodbav:"order_id"`
	ID          string     `dynamodbav:"id"`
	ProductID   string     `dynamodbav:"product_id"`
	ProductName string     `dynamodbav:"product_name"`
	Quantity    int        `dynamodbav:"quantity"`
	UnitPrice   ddbDecimal `dynamodbav:"unit_price"`
}

// OrderDynamoRepository reads orders and their items and applies conditional status
// changes.
//
// Table requirements:
//   - orders PK: id (string); GSI created_date-index (PK: created_date, SK: created_at)
//   - order_items PK: order_id, SK: id
type OrderDynamoRepository struct {
	ddb    DynamoAPI
	tables appconfig.TableNames
	loc    *time.Location
	now    func() time.Time
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb DynamoAPI, tables appconfig.TableNames, loc *time.Location) *OrderDynamoRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderDynamoRepository{ddb: ddb, tables: tables, loc: loc, now: time.Now}
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Orders),
		Key: map[string]types.AttributeValue{
			"id": stringValue(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func (r *OrderDynamoRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]entities.Order, error) {
	raw, err := queryCreatedBetween(ctx, r.ddb, r.tables.Orders, from, to, r.loc)
	if err != nil {
		return nil, err
	}
	return unmarshalItems(raw, fromOrderItem)
}

func (r *OrderDynamoRepository) ListItems(ctx context.Context, orderID string) ([]entities.OrderItem, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.OrderItems),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": stringValue(orderID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems(raw, fromOrderLineItem)
}

func (r *OrderDynamoRepository) UpdateStatusIfMatch(ctx context.Context, id string, expected, next entities.OrderStatus, note string) (entities.Order, error) {
	set := "SET #status = :next, #updated_at = :now"
	names := map[string]string{"#id": "id", "#status": "status", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{
		":expected": stringValue(string(expected)),
		":next":     stringValue(string(next)),
		":now":      stringValue(formatTime(r.now())),
	}
	if note != "" {
		set += ", #admin_notes = list_append(if_not_exists(#admin_notes, :empty), :note)"
		names["#admin_notes"] = "admin_notes"
		values[":empty"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
		values[":note"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{stringValue(note)}}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tables.Orders),
		Key: map[string]types.AttributeValue{
			"id": stringValue(id),
		},
		ConditionExpression:       aws.String("attribute_exists(#id) AND #status = :expected"),
		UpdateExpression:          aws.String(set),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.Order{}, conditionFailed(err)
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func fromOrderItem(it orderItem) entities.Order {
	return entities.Order{
		ID:             it.ID,
		OrderNumber:    it.OrderNumber,
		UserID:         it.UserID,
		Status:         entities.OrderStatus(it.Status),
		PaymentStatus:  entities.OrderPaymentStatus(it.PaymentStatus),
		TotalAmount:    it.TotalAmount.Decimal,
		Subtotal:       it.Subtotal.Decimal,
		TaxAmount:      it.TaxAmount.Decimal,
		ShippingAmount: it.ShippingAmount.Decimal,
		DiscountAmount: it.DiscountAmount.Decimal,
		CouponCode:     it.CouponCode,
		PaymentMethod:  entities.PaymentMethod(it.PaymentMethod),
		ShippingAddress: entities.ShippingAddress{
			RecipientName: it.ShippingAddress.RecipientName,
			Phone:         it.ShippingAddress.Phone,
			Line1:         it.ShippingAddress.Line1,
			Ward:          it.ShippingAddress.Ward,
			District:      it.ShippingAddress.District,
			City:          it.ShippingAddress.City,
		},
		AdminNotes: it.AdminNotes,
		CreatedAt:  parseTime(it.CreatedAt),
		UpdatedAt:  parseTime(it.UpdatedAt),
	}
}

func fromOrderLineItem(it orderLineItem) entities.OrderItem {
	return entities.OrderItem{
		ID:          it.ID,
		OrderID:     it.OrderID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice.Decimal,
	}
}
