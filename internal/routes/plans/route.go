package plans

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/nutrition/internal/generation"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/util"
)

type Planner interface {
	ProvidePersonalizedPlan(ctx context.Context, input generation.PlanInput) (generation.PlanOutput, error)
}

type PlanService struct {
	planner  Planner
	inFlight *generation.InFlight
}

func NewRoute(planner Planner, inFlight *generation.InFlight) routes.Service {
	return &PlanService{
		planner:  planner,
		inFlight: inFlight,
	}
}

func (ps *PlanService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/plans": util.AuthorizedRoute(ps.CreatePlan),
	}
}

// CreatePlan answers with a weekly plan. Plans are not stored.
func (ps *PlanService) CreatePlan(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	body, err := util.ParseBody[PlanInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	input, err := body.toData()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	var plan generation.PlanOutput
	err = ps.inFlight.Run(util.Username(ctx), func() error {
		plan, err = ps.planner.ProvidePersonalizedPlan(ctx, input)
		return err
	})
	return util.SerializeResponseOK(NewPlan, plan, err)
}
