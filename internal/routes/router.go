package routes

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/routes/filters"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type contextKey string

const (
	PARAMS_KEY   contextKey = "Params"
	USERNAME_KEY contextKey = "Username"
)

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

var paramPattern = regexp.MustCompile(":[^/]+")

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		regexPath := paramPattern.ReplaceAllStringFunc(regexp.QuoteMeta(path), func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	if event.RawPath == cr.Path {
		return map[string]string{}, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(event.RawPath)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
	Logger  *zap.Logger
}

// NewRouter orders routes so that literal paths are tried before
// parameterized ones.
func NewRouter(services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			routes = append(routes, CachedRoute{
				Method: parts[0],
				Path:   parts[1],
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			})
		}
	}
	sort.SliceStable(routes, func(i, j int) bool {
		pi, pj := strings.Count(routes[i].Path, ":"), strings.Count(routes[j].Path, ":")
		if pi != pj {
			return pi < pj
		}
		return routes[i].Method+routes[i].Path < routes[j].Method+routes[j].Path
	})
	return &Router{
		Routes: routes,
		Filters: []filters.RequestFilter{
			filters.DefaultCorsFilter(),
			filters.DefaultAuthorizationFilter(),
		},
		Logger: zap.NewNop(),
	}
}

func Param(ctx context.Context, name string) string {
	if params, ok := ctx.Value(PARAMS_KEY).(map[string]string); ok {
		return params[name]
	}
	return ""
}

func StatusCode(err error) int {
	var se *exceptions.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var re exceptions.RequestError
	if errors.As(err, &re) {
		return re.ToServiceError().StatusCode
	}
	return 500
}

func (r *Router) translateError(event events.APIGatewayV2HTTPRequest, err error) events.APIGatewayV2HTTPResponse {
	statusCode := StatusCode(err)
	message := err.Error()
	fields := []zap.Field{
		zap.String("method", event.RequestContext.HTTP.Method),
		zap.String("path", event.RawPath),
		zap.Int("status", statusCode),
		zap.Error(err),
	}
	if statusCode >= 500 {
		r.Logger.Error("Request failed", fields...)
		if statusCode == 500 {
			message = "Unexpected internal error"
		}
	} else {
		r.Logger.Info("Request rejected", fields...)
	}
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"Content-Length": strconv.Itoa(len(body)),
		},
	}
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(*filterContext.Request); ok {
			resp, err := route.Route(event, context.WithValue(*filterContext.Context, PARAMS_KEY, params))
			if err != nil {
				return r.translateError(event, err)
			}
			return resp
		}
	}
	return r.translateError(event, exceptions.NotFound("route", event.RawPath))
}
