package subscriptions

import "philcali.me/nutrition/internal/notifications"

type Subscription struct {
	Id       string `json:"subscriberId"`
	Endpoint string `json:"endpoint"`
	Protocol string `json:"protocol"`
}

type SubscriptionInput struct {
	Endpoint *string `json:"endpoint"`
	Protocol *string `json:"protocol"`
}

func (s SubscriptionInput) toData() notifications.SubscribeInput {
	return notifications.SubscribeInput{
		Endpoint: s.Endpoint,
		Protocol: s.Protocol,
	}
}
