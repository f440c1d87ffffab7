package util

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/routes"
)

// usernameFromEvent pulls the identity from JWT claims, falling back to a Lambda
// authorizer context shaped as {"jwt": {"username": ...}} or {"username": ...}.
func usernameFromEvent(event events.APIGatewayV2HTTPRequest) (string, bool) {
	authorizer := event.RequestContext.Authorizer
	if authorizer == nil {
		return "", false
	}
	if authorizer.JWT != nil {
		if username, ok := authorizer.JWT.Claims["username"]; ok && username != "" {
			return username, true
		}
	}
	if claims, ok := authorizer.Lambda["jwt"].(map[string]interface{}); ok {
		if username, ok := claims["username"]; ok {
			return fmt.Sprintf("%v", username), true
		}
	}
	if username, ok := authorizer.Lambda["username"]; ok {
		return fmt.Sprintf("%v", username), true
	}
	return "", false
}

func AuthorizedRoute(route routes.Route) routes.Route {
	return func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		if username, ok := usernameFromEvent(event); ok {
			return route(event, context.WithValue(ctx, routes.USERNAME_KEY, username))
		}
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer("Unexpected internal error")
	}
}

func Username(ctx context.Context) string {
	username, _ := ctx.Value(routes.USERNAME_KEY).(string)
	return username
}

func RequestParam(ctx context.Context, name string) string {
	return routes.Param(ctx, name)
}

func ParseBody[T interface{}](event events.APIGatewayV2HTTPRequest) (T, error) {
	var input T
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return input, exceptions.InvalidInput(fmt.Sprintf("Request body is malformed: %s", err))
	}
	return input, nil
}

func QueryParams(event events.APIGatewayV2HTTPRequest) (data.QueryParams, error) {
	var params data.QueryParams
	if sLimit, ok := event.QueryStringParameters["limit"]; ok {
		limit, err := strconv.Atoi(sLimit)
		if err != nil {
			return params, exceptions.InvalidInput("Limit parameter was not a number type.")
		}
		params.Limit = limit
	}
	if token, ok := event.QueryStringParameters["nextToken"]; ok && token != "" {
		params.NextToken = []byte(token)
	}
	return params, nil
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 204,
	}, nil
}

func Identity[T interface{}](thing T) T {
	return thing
}

// Page is a query result as returned to clients, with the next token as
// the opaque string to send back.
type Page[R interface{}] struct {
	Items     []R     `json:"items"`
	NextToken *string `json:"nextToken,omitempty"`
}

func ConvertQueryResults[D interface{}, R interface{}](items data.QueryResults[D], thunk func(D) R) Page[R] {
	page := Page[R]{
		Items: MapOnList(items.Items, thunk),
	}
	if len(items.NextToken) > 0 {
		token := string(items.NextToken)
		page.NextToken = &token
	}
	return page
}

func ConvertQueryResultsPartial[D interface{}, R interface{}](thunk func(D) R) func(data.QueryResults[D]) Page[R] {
	return func(d data.QueryResults[D]) Page[R] {
		return ConvertQueryResults(d, thunk)
	}
}

func MapOnList[D interface{}, R interface{}](items []D, thunk func(D) R) []R {
	results := make([]R, len(items))
	for i, item := range items {
		results[i] = thunk(item)
	}
	return results
}

func MapOnListPartial[D interface{}, R interface{}](thunk func(D) R) func([]D) []R {
	return func(items []D) []R {
		return MapOnList(items, thunk)
	}
}
