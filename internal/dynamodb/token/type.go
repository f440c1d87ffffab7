package token

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// TokenMarshaler converts the last evaluated key of a page into an opaque
// token that can only be read back by the same account.
type TokenMarshaler interface {
	Marshal(accountId string, lastKey map[string]types.AttributeValue) ([]byte, error)

	Unmarshal(accountId string, token []byte) (map[string]types.AttributeValue, error)
}
