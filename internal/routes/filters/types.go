package filters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  *context.Context
}

type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

type CorsFilter struct {
	Methods []string
	Origins []string
	Headers []string
}

func (cf *CorsFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.HTTP.Method != "OPTIONS" {
		return ctx, false
	}
	headers := ctx.Response.Headers
	if headers == nil {
		headers = make(map[string]string, 4)
	}
	headers["content-length"] = "0"
	headers["access-control-allow-headers"] = strings.Join(cf.Headers, ", ")
	headers["access-control-allow-methods"] = strings.Join(cf.Methods, ", ")
	headers["access-control-allow-origin"] = strings.Join(cf.Origins, ", ")
	return &FilterContext{
		Request: ctx.Request,
		Context: ctx.Context,
		Response: &events.APIGatewayV2HTTPResponse{
			Headers:    headers,
			StatusCode: ctx.Response.StatusCode,
		},
	}, true
}

// AuthorizedScopeFilter lets through requests carrying JWT claims, or a
// Lambda authorizer context whose scopes cover the requested resource.
// A scope "meals" grants every method under /meals, "meals.readonly" only GET.
type AuthorizedScopeFilter struct {
	ScopeField string
}

func (af *AuthorizedScopeFilter) IdentityScopes(ctx *FilterContext) ([]string, bool) {
	if collection, ok := ctx.Request.RequestContext.Authorizer.Lambda[af.ScopeField]; ok {
		if scopes, ok := collection.([]interface{}); ok {
			var rtn []string
			for _, scope := range scopes {
				rtn = append(rtn, fmt.Sprintf("%s", scope))
			}
			return rtn, true
		}
	}
	return nil, false
}

func grants(scope string, method string, path string) bool {
	resource, access, limited := strings.Cut(scope, ".")
	prefix := "/" + resource
	if path != prefix && !strings.HasPrefix(path, prefix+"/") {
		return false
	}
	return !limited || (access == "readonly" && method == "GET")
}

func (af *AuthorizedScopeFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.HTTP.Method == "OPTIONS" {
		return ctx, false
	}
	authorizer := ctx.Request.RequestContext.Authorizer
	if authorizer != nil {
		if authorizer.JWT != nil && len(authorizer.JWT.Claims) > 0 {
			return ctx, false
		}
		if scopes, ok := af.IdentityScopes(ctx); ok {
			for _, scope := range scopes {
				if grants(scope, ctx.Request.RequestContext.HTTP.Method, ctx.Request.RawPath) {
					return ctx, false
				}
			}
		}
	}
	body, _ := json.Marshal(map[string]string{"message": "Unauthorized"})
	return &FilterContext{
		Request: ctx.Request,
		Context: ctx.Context,
		Response: &events.APIGatewayV2HTTPResponse{
			Headers: map[string]string{
				"Content-Type":   "application/json",
				"Content-Length": strconv.Itoa(len(body)),
			},
			StatusCode: 401,
			Body:       string(body),
		},
	}, true
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
		},
		Context: &ctx,
	}
}

func DefaultCorsFilter() *CorsFilter {
	return &CorsFilter{
		Methods: []string{"GET", "POST", "DELETE"},
		Headers: []string{"Content-Type", "Content-Length", "Authorization"},
		Origins: []string{"*"},
	}
}

func DefaultAuthorizationFilter() *AuthorizedScopeFilter {
	return &AuthorizedScopeFilter{
		ScopeField: "scopes",
	}
}
