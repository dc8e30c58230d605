package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// DynamoAPI is the subset of *dynamodb.Client the repositories use.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// storedTimeLayout is fixed width so range conditions on created_at compare correctly.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

const createdDateIndex = "created_date-index"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

// ddbDecimal stores money as a DynamoDB number so conditions compare numerically.
type ddbDecimal struct {
	decimal.Decimal
}

func dec(d decimal.Decimal) ddbDecimal { return ddbDecimal{d} }

func (d ddbDecimal) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: d.Decimal.String()}, nil
}

func (d *ddbDecimal) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		d.Decimal = decimal.Zero
		return nil
	default:
		return fmt.Errorf("unsupported decimal attribute %T", av)
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	d.Decimal = parsed
	return nil
}

func numberValue(d decimal.Decimal) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: d.String()}
}

func stringValue(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

// localDays lists the created_date partition keys covering [from, to] in loc.
func localDays(from, to time.Time, loc *time.Location) []string {
	start := from.In(loc)
	end := to.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	var out []string
	for !day.After(end) {
		out = append(out, day.Format("2006-01-02"))
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func queryAll(ctx context.Context, ddb DynamoAPI, in *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(ddb, in)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// queryCreatedBetween reads a created_date-index across every local day of the range.
func queryCreatedBetween(ctx context.Context, ddb DynamoAPI, table string, from, to time.Time, loc *time.Location) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for _, day := range localDays(from, to, loc) {
		page, err := queryAll(ctx, ddb, &dynamodb.QueryInput{
			TableName:              aws.String(table),
			IndexName:              aws.String(createdDateIndex),
			KeyConditionExpression: aws.String("#created_date = :day AND #created_at BETWEEN :from AND :to"),
			ExpressionAttributeNames: map[string]string{
				"#created_date": "created_date",
				"#created_at":   "created_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":day":  stringValue(day),
				":from": stringValue(formatTime(from)),
				":to":   stringValue(formatTime(to)),
			},
		})
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
	}
	return items, nil
}

func unmarshalItems[T any, E any](raw []map[string]types.AttributeValue, convert func(T) E) ([]E, error) {
	out := make([]E, 0, len(raw))
	for _, r := range raw {
		var it T
		if err := attributevalue.UnmarshalMap(r, &it); err != nil {
			return nil, err
		}
		out = append(out, convert(it))
	}
	return out, nil
}

// conditionFailed maps failed condition checks, single or transactional, to
// ErrConcurrentModification.
func conditionFailed(err error) error {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return interfaces.ErrConcurrentModification
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return interfaces.ErrConcurrentModification
			}
		}
	}
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
