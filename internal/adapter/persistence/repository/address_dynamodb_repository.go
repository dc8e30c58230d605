package repository

import (
	"context"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type addressItem struct {
	UserID        string `dynamodbav:"user_id"`
	ID            string `dynamodbav:"id"`
	RecipientName string `dynamodbav:"recipient_name"`
	Phone         string `dynamodbav:"phone"`
	Line1         string `dynamodbav:"line1"`
	Ward          string `dynamodbav:"ward,omitempty"`
	District      string `dynamodbav:"district,omitempty"`
	City          string `dynamodbav:"city"`
	IsDefault     bool   `dynamodbav:"is_default"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// AddressDynamoRepository stores addresses under their owner (PK: user_id, SK: id).
type AddressDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IAddressRepository = (*AddressDynamoRepository)(nil)

func NewAddressDynamoRepository(ddb DynamoAPI, tableName string) *AddressDynamoRepository {
	return &AddressDynamoRepository{ddb: ddb, tableName: tableName}
}

func addressKey(userID, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": stringValue(userID),
		"id":      stringValue(id),
	}
}

func (r *AddressDynamoRepository) GetByID(ctx context.Context, userID, id string) (entities.Address, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            addressKey(userID, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Address{}, err
	}
	if len(out.Item) == 0 {
		return entities.Address{}, nil
	}

	var it addressItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Address{}, err
	}
	return fromAddressItem(it), nil
}

func (r *AddressDynamoRepository) ListByUser(ctx context.Context, userID string) ([]entities.Address, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": stringValue(userID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems(raw, fromAddressItem)
}

// SetDefault flips both flags in one transaction so a user never ends up with two defaults.
func (r *AddressDynamoRepository) SetDefault(ctx context.Context, userID, id, previousID string, now time.Time) error {
	flag := func(addressID string, value bool, cond string) types.TransactWriteItem {
		return types.TransactWriteItem{Update: &types.Update{
			TableName:           aws.String(r.tableName),
			Key:                 addressKey(userID, addressID),
			ConditionExpression: aws.String(cond),
			UpdateExpression:    aws.String("SET #is_default = :value, #updated_at = :now"),
			ExpressionAttributeNames: map[string]string{
				"#id":         "id",
				"#is_default": "is_default",
				"#updated_at": "updated_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":value": &types.AttributeValueMemberBOOL{Value: value},
				":now":   stringValue(formatTime(now)),
			},
		}}
	}

	items := make([]types.TransactWriteItem, 0, 2)
	if previousID != "" && previousID != id {
		items = append(items, flag(previousID, false, "attribute_exists(#id) AND #is_default = :true"))
	}
	items = append(items, flag(id, true, "attribute_exists(#id)"))
	if len(items) == 2 {
		items[0].Update.ExpressionAttributeValues[":true"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return conditionFailed(err)
}

func fromAddressItem(it addressItem) entities.Address {
	return entities.Address{
		ID:            it.ID,
		UserID:        it.UserID,
		RecipientName: it.RecipientName,
		Phone:         it.Phone,
		Line1:         it.Line1,
		Ward:          it.Ward,
		District:      it.District,
		City:          it.City,
		IsDefault:     it.IsDefault,
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
}
