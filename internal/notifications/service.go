package notifications

import (
	"context"

	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
)

// Alert is raised when a logged meal pushes the day's totals past one or
// more goals.
type Alert struct {
	AccountId string               `json:"accountId"`
	Meal      string               `json:"meal"`
	Goals     []string             `json:"goals"`
	Totals    data.NutritionTotals `json:"totals"`
	Targets   data.NutritionGoals  `json:"targets"`
}

type SubscribeInput struct {
	Endpoint *string `validate:"required"`
	Protocol *string `validate:"required,oneof=email email-json sms https http"`
}

type SubscribeOutput struct {
	SubscriberId string
}

type NotificationService interface {
	Notify(ctx context.Context, alert Alert) error
	Subscribe(ctx context.Context, accountId string, input SubscribeInput) (*SubscribeOutput, error)
	Unsubscribe(ctx context.Context, accountId string, subscriberId string) error
}

// NoopNotificationService drops alerts when no topic is configured.
type NoopNotificationService struct{}

func (NoopNotificationService) Notify(ctx context.Context, alert Alert) error {
	return nil
}

func (NoopNotificationService) Subscribe(ctx context.Context, accountId string, input SubscribeInput) (*SubscribeOutput, error) {
	return nil, exceptions.InvalidInput("Goal alerts are not enabled")
}

func (NoopNotificationService) Unsubscribe(ctx context.Context, accountId string, subscriberId string) error {
	return exceptions.NotFound("subscription", subscriberId)
}
