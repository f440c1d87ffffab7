package data

type QueryParams struct {
	Limit     int    `json:"limit"`
	NextToken []byte `json:"nextToken"`
}

func (q *QueryParams) GetLimit() *int32 {
	limit := int32(100)
	if q.Limit > 0 && q.Limit < 100 {
		limit = int32(q.Limit)
	}
	return &limit
}

type QueryResults[T interface{}] struct {
	Items     []T    `json:"items"`
	NextToken []byte `json:"nextToken"`
}

// NextToken is the plaintext form of a paging token: attribute name to
// a single-entry map of DynamoDB type to value.
type NextToken map[string]map[string]string
