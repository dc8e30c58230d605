package repository

import (
	"context"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type userRoleItem struct {
	UserID string `dynamodbav:"user_id"`
	Role   string `dynamodbav:"role"`
}

// RoleDynamoRepository reads the user_roles table (PK: user_id, SK: role).
type RoleDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IRoleRepository = (*RoleDynamoRepository)(nil)

func NewRoleDynamoRepository(ddb DynamoAPI, tableName string) *RoleDynamoRepository {
	return &RoleDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *RoleDynamoRepository) ListRoles(ctx context.Context, userID string) ([]entities.Role, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": stringValue(userID),
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems(raw, func(it userRoleItem) entities.Role { return entities.Role(it.Role) })
}
