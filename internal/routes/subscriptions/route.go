package subscriptions

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/nutrition/internal/notifications"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/util"
)

// SubscriptionService lets an account receive its own goal alerts. The
// subscription lives only in the notification topic.
type SubscriptionService struct {
	notifications notifications.NotificationService
}

func NewRoute(notifications notifications.NotificationService) routes.Service {
	return &SubscriptionService{
		notifications: notifications,
	}
}

func (s *SubscriptionService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/subscriptions":                 util.AuthorizedRoute(s.CreateSubscription),
		"DELETE:/subscriptions/:subscriberId": util.AuthorizedRoute(s.DeleteSubscription),
	}
}

func (s *SubscriptionService) CreateSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[SubscriptionInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	output, err := s.notifications.Subscribe(ctx, util.Username(ctx), input.toData())
	return util.SerializeResponseOK(func(out *notifications.SubscribeOutput) Subscription {
		return Subscription{
			Id:       out.SubscriberId,
			Endpoint: *input.Endpoint,
			Protocol: *input.Protocol,
		}
	}, output, err)
}

func (s *SubscriptionService) DeleteSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeResponseNoContent(s.notifications.Unsubscribe(ctx, util.Username(ctx), util.RequestParam(ctx, "subscriberId")))
}
