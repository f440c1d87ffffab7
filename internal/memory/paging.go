package memory

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/dynamodb/token"
	"philcali.me/nutrition/internal/exceptions"
)

// Page slices items the same way a DynamoDB query would, resuming after the
// sort key carried in the encrypted next token.
func Page[T any](
	items []T,
	pk string,
	sk func(T) string,
	accountId string,
	params data.QueryParams,
	marshaler token.TokenMarshaler) (data.QueryResults[T], error) {
	start := 0
	lastKey, err := marshaler.Unmarshal(accountId, params.NextToken)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.InvalidInput("nextToken is not valid")
	}
	if lastKey != nil {
		if last, ok := lastKey["SK"].(*types.AttributeValueMemberS); ok {
			start = len(items)
			for i, item := range items {
				if sk(item) == last.Value {
					start = i + 1
					break
				}
			}
		}
	}
	end := start + int(*params.GetLimit())
	if end > len(items) {
		end = len(items)
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	var next []byte
	if end < len(items) && end > 0 {
		next, err = marshaler.Marshal(accountId, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk(items[end-1])},
		})
		if err != nil {
			return data.QueryResults[T]{}, err
		}
	}
	return data.QueryResults[T]{
		Items:     page,
		NextToken: next,
	}, nil
}
