package repository

import (
	"context"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type couponItem struct {
	Code               string      `dynamodbav:"code"`
	Description        string      `dynamodbav:"description,omitempty"`
	DiscountType       string      `dynamodbav:"discount_type"`
	DiscountValue      ddbDecimal  `dynamodbav:"discount_value"`
	MinimumOrderAmount ddbDecimal  `dynamodbav:"minimum_order_amount"`
	MaximumDiscount    *ddbDecimal `dynamodbav:"maximum_discount,omitempty"`
	UsageLimit         *int        `dynamodbav:"usage_limit,omitempty"`
	UsedCount          int         `dynamodbav:"used_count"`
	ValidFrom          string      `dynamodbav:"valid_from,omitempty"`
	ValidUntil         string      `dynamodbav:"valid_until,omitempty"`
	IsActive           bool        `dynamodbav:"is_active"`
}

// CouponDynamoRepository reads coupons keyed by upper-case code (PK: code).
type CouponDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ICouponRepository = (*CouponDynamoRepository)(nil)

func NewCouponDynamoRepository(ddb DynamoAPI, tableName string) *CouponDynamoRepository {
	return &CouponDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *CouponDynamoRepository) GetByCode(ctx context.Context, code string) (entities.Coupon, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"code": stringValue(code),
		},
	})
	if err != nil {
		return entities.Coupon{}, err
	}
	if len(out.Item) == 0 {
		return entities.Coupon{}, nil
	}

	var it couponItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Coupon{}, err
	}
	return fromCouponItem(it), nil
}

func fromCouponItem(it couponItem) entities.Coupon {
	c := entities.Coupon{
		Code:               it.Code,
		Description:        it.Description,
		DiscountType:       entities.DiscountType(it.DiscountType),
		DiscountValue:      it.DiscountValue.Decimal,
		MinimumOrderAmount: it.MinimumOrderAmount.Decimal,
		UsageLimit:         it.UsageLimit,
		UsedCount:          it.UsedCount,
		ValidFrom:          parseOptionalTime(it.ValidFrom),
		ValidUntil:         parseOptionalTime(it.ValidUntil),
		IsActive:           it.IsActive,
	}
	if it.MaximumDiscount != nil {
		limit := it.MaximumDiscount.Decimal
		c.MaximumDiscount = &limit
	}
	return c
}

