package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrProductNotFound = errors.New("product not found")

type productItem struct {
	ID            string     `dynamodbav:"id"`
	Name          string     `dynamodbav:"name"`
	Price         ddbDecimal `dynamodbav:"price"`
	StockQuantity int        `dynamodbav:"stock_quantity"`
}

// ProductDynamoRepository only reads products and bumps stock; the catalog lives elsewhere.
//
// Table requirements:
//   - PK: id (string)
type ProductDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IProductRepository = (*ProductDynamoRepository)(nil)

func NewProductDynamoRepository(ddb DynamoAPI, tableName string) *ProductDynamoRepository {
	return &ProductDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ProductDynamoRepository) GetByID(ctx context.Context, id string) (entities.Product, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringValue(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Product{}, err
	}
	if len(out.Item) == 0 {
		return entities.Product{}, nil
	}

	var it productItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Product{}, err
	}
	return entities.Product{ID: it.ID, Name: it.Name, Price: it.Price.Decimal, StockQuantity: it.StockQuantity}, nil
}

// IncrementStock uses ADD so concurrent restores never lose an update.
func (r *ProductDynamoRepository) IncrementStock(ctx context.Context, productID string, quantity int) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringValue(productID),
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("ADD #stock :qty"),
		ExpressionAttributeNames: map[string]string{
			"#id":    "id",
			"#stock": "stock_quantity",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qty": &types.AttributeValueMemberN{Value: itoa(quantity)},
		},
	})
	if err = conditionFailed(err); errors.Is(err, interfaces.ErrConcurrentModification) {
		return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	return err
}
