package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/dynamodb/token"
	"philcali.me/nutrition/internal/exceptions"
)

const (
	batchWriteLimit    = 25
	transactWriteLimit = 100
	batchWriteAttempts = 8
	batchWriteBackoff  = 50 * time.Millisecond
	batchWriteMaxDelay = 2 * time.Second
)

// RepositoryDynamoDBService stores every item of a resource for an account
// under the partition "<accountId>:<Name>", keyed by SK.
type RepositoryDynamoDBService[T interface{}] struct {
	DynamoDB       *dynamodb.Client
	TableName      string
	TokenMarshaler token.TokenMarshaler
	Name           string
	Shim           func(pk string, sk string) T
	GetSK          func(T) string
}

func PrimaryKey(accountId string, name string) string {
	return fmt.Sprintf("%s:%s", accountId, name)
}

func IsConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func key(pks string, sks string) (map[string]types.AttributeValue, error) {
	pk, err := attributevalue.Marshal(pks)
	if err != nil {
		return nil, err
	}
	sk, err := attributevalue.Marshal(sks)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{"PK": pk, "SK": sk}, nil
}

func (rs *RepositoryDynamoDBService[T]) resource() string {
	return strings.ToLower(rs.Name)
}

func (rs *RepositoryDynamoDBService[T]) PK(accountId string) string {
	return PrimaryKey(accountId, rs.Name)
}

func (rs *RepositoryDynamoDBService[T]) List(accountId string, params data.QueryParams) (data.QueryResults[T], error) {
	keyEx := expression.Key("PK").Equal(expression.Value(rs.PK(accountId)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	startKey, err := rs.TokenMarshaler.Unmarshal(accountId, params.NextToken)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.InvalidInput("nextToken is not valid")
	}
	output, err := rs.DynamoDB.Query(context.TODO(), &dynamodb.QueryInput{
		TableName:                 aws.String(rs.TableName),
		Limit:                     params.GetLimit(),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	items := make([]T, 0, len(output.Items))
	if err = attributevalue.UnmarshalListOfMaps(output.Items, &items); err != nil {
		return data.QueryResults[T]{}, err
	}
	nextToken, err := rs.TokenMarshaler.Marshal(accountId, output.LastEvaluatedKey)
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	return data.QueryResults[T]{
		Items:     items,
		NextToken: nextToken,
	}, nil
}

// QueryAll reads the whole partition, following LastEvaluatedKey.
func (rs *RepositoryDynamoDBService[T]) QueryAll(accountId string) ([]T, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(rs.PK(accountId)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return nil, err
	}
	paginator := dynamodb.NewQueryPaginator(rs.DynamoDB, &dynamodb.QueryInput{
		TableName:                 aws.String(rs.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	items := make([]T, 0)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(context.TODO())
		if err != nil {
			return nil, err
		}
		var page []T
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, err
		}
		items = append(items, page...)
	}
	return items, nil
}

func (rs *RepositoryDynamoDBService[T]) Create(shim T) (T, error) {
	item, err := attributevalue.MarshalMap(shim)
	if err != nil {
		return shim, err
	}
	expr, err := expression.NewBuilder().WithCondition(expression.Name("PK").AttributeNotExists().And(expression.Name("SK").AttributeNotExists())).Build()
	if err != nil {
		return shim, err
	}
	_, err = rs.DynamoDB.PutItem(context.TODO(), &dynamodb.PutItemInput{
		Item:                     item,
		TableName:                aws.String(rs.TableName),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if IsConditionFailure(err) {
		return shim, exceptions.Conflict(rs.resource(), rs.GetSK(shim))
	}
	return shim, err
}

// BatchCreate writes items in chunks, resubmitting anything the table left
// unprocessed with an exponential backoff between attempts.
func (rs *RepositoryDynamoDBService[T]) BatchCreate(items []T) error {
	for start := 0; start < len(items); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(items) {
			end = len(items)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, shim := range items[start:end] {
			item, err := attributevalue.MarshalMap(shim)
			if err != nil {
				return err
			}
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		pending := map[string][]types.WriteRequest{rs.TableName: requests}
		delay := batchWriteBackoff
		for attempt := 1; len(pending) > 0; attempt++ {
			if attempt > batchWriteAttempts {
				return fmt.Errorf("%s batch write left %d items unprocessed after %d attempts", rs.resource(), len(pending[rs.TableName]), batchWriteAttempts)
			}
			if attempt > 1 {
				time.Sleep(delay)
				delay = min(delay*2, batchWriteMaxDelay)
			}
			output, err := rs.DynamoDB.BatchWriteItem(context.TODO(), &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return err
			}
			pending = output.UnprocessedItems
		}
	}
	return nil
}

// Update applies the builder returned by onUpdate to an existing item.
// A failed condition surfaces as the raw ConditionalCheckFailedException so
// callers with their own conditions can retry.
func (rs *RepositoryDynamoDBService[T]) Update(
	accountId string,
	itemId string,
	onUpdate func(expression.UpdateBuilder) expression.UpdateBuilder,
	onCondition *expression.ConditionBuilder) (T, error) {
	pk := rs.PK(accountId)
	shim := rs.Shim(pk, itemId)
	key, err := key(pk, itemId)
	if err != nil {
		return shim, err
	}
	update := onUpdate(expression.UpdateBuilder{})
	condition := expression.Name("PK").AttributeExists().And(expression.Name("SK").AttributeExists())
	if onCondition != nil {
		condition = condition.And(*onCondition)
	}
	expr, err := expression.NewBuilder().WithCondition(condition).WithUpdate(update).Build()
	if err != nil {
		return shim, err
	}
	response, err := rs.DynamoDB.UpdateItem(context.TODO(), &dynamodb.UpdateItemInput{
		TableName:                 aws.String(rs.TableName),
		Key:                       key,
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return shim, err
	}
	err = attributevalue.UnmarshalMap(response.Attributes, &shim)
	return shim, err
}

func (rs *RepositoryDynamoDBService[T]) Get(accountId string, itemId string) (T, error) {
	pk := rs.PK(accountId)
	shim := rs.Shim(pk, itemId)
	key, err := key(pk, itemId)
	if err != nil {
		return shim, err
	}
	response, err := rs.DynamoDB.GetItem(context.TODO(), &dynamodb.GetItemInput{
		TableName:      aws.String(rs.TableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return shim, err
	}
	if response.Item == nil {
		return shim, exceptions.NotFound(rs.resource(), itemId)
	}
	err = attributevalue.UnmarshalMap(response.Item, &shim)
	return shim, err
}

func (rs *RepositoryDynamoDBService[T]) Delete(accountId string, itemId string) error {
	key, err := key(rs.PK(accountId), itemId)
	if err != nil {
		return err
	}
	_, err = rs.DynamoDB.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
		TableName: aws.String(rs.TableName),
		Key:       key,
	})
	return err
}

// CreateAll puts every item or none of them. An item whose key is already
// taken cancels the whole write with a ConflictError naming it.
func (rs *RepositoryDynamoDBService[T]) CreateAll(items []T) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > transactWriteLimit {
		return exceptions.InvalidInput(fmt.Sprintf("cannot create more than %d %s items at once", transactWriteLimit, rs.resource()))
	}
	expr, err := expression.NewBuilder().WithCondition(expression.Name("PK").AttributeNotExists().And(expression.Name("SK").AttributeNotExists())).Build()
	if err != nil {
		return err
	}
	writes := make([]types.TransactWriteItem, len(items))
	for i, shim := range items {
		item, err := attributevalue.MarshalMap(shim)
		if err != nil {
			return err
		}
		writes[i] = types.TransactWriteItem{
			Put: &types.Put{
				Item:                     item,
				TableName:                aws.String(rs.TableName),
				ConditionExpression:      expr.Condition(),
				ExpressionAttributeNames: expr.Names(),
			},
		}
	}
	_, err = rs.DynamoDB.TransactWriteItems(context.TODO(), &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for i, reason := range canceled.CancellationReasons {
			if i < len(items) && aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return exceptions.Conflict(rs.resource(), rs.GetSK(items[i]))
			}
		}
	}
	return err
}
