package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/notifications"
	"philcali.me/nutrition/internal/validation"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
	GetSubscriptionAttributes(ctx context.Context, params *sns.GetSubscriptionAttributesInput, optFns ...func(*sns.Options)) (*sns.GetSubscriptionAttributesOutput, error)
}

// NotificationSNSService fans goal alerts out through one topic; each
// subscription filters on the accountId message attribute.
type NotificationSNSService struct {
	Sns      SNSAPI
	TopicArn string
}

func NewNotificationService(client SNSAPI, topicArn string) *NotificationSNSService {
	return &NotificationSNSService{
		Sns:      client,
		TopicArn: topicArn,
	}
}

func stringAttribute(value string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

func filterPolicy(accountId string) (string, error) {
	policy, err := json.Marshal(map[string][]string{"accountId": {accountId}})
	return string(policy), err
}

func (n *NotificationSNSService) Notify(ctx context.Context, alert notifications.Alert) error {
	message, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	_, err = n.Sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.TopicArn),
		Subject:  aws.String(fmt.Sprintf("Daily %s goal reached", strings.Join(alert.Goals, ", "))),
		Message:  aws.String(string(message)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"accountId": stringAttribute(alert.AccountId),
			"goal":      stringAttribute(strings.Join(alert.Goals, ",")),
		},
	})
	return err
}

func (n *NotificationSNSService) Subscribe(ctx context.Context, accountId string, input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	policy, err := filterPolicy(accountId)
	if err != nil {
		return nil, err
	}
	output, err := n.Sns.Subscribe(ctx, &sns.SubscribeInput{
		Endpoint:              input.Endpoint,
		Protocol:              input.Protocol,
		TopicArn:              aws.String(n.TopicArn),
		ReturnSubscriptionArn: true,
		Attributes: map[string]string{
			"FilterPolicy": policy,
		},
	})
	if err != nil {
		return nil, err
	}
	return &notifications.SubscribeOutput{
		SubscriberId: strings.TrimPrefix(aws.ToString(output.SubscriptionArn), n.TopicArn+":"),
	}, nil
}

// Unsubscribe only removes subscriptions whose filter policy belongs to the
// calling account. Subscriber ids are the subscription ARN without the topic.
func (n *NotificationSNSService) Unsubscribe(ctx context.Context, accountId string, subscriberId string) error {
	subscriptionArn := fmt.Sprintf("%s:%s", n.TopicArn, subscriberId)
	attributes, err := n.Sns.GetSubscriptionAttributes(ctx, &sns.GetSubscriptionAttributesInput{
		SubscriptionArn: aws.String(subscriptionArn),
	})
	var notFound *types.NotFoundException
	if errors.As(err, &notFound) {
		return exceptions.NotFound("subscription", subscriberId)
	}
	if err != nil {
		return err
	}
	var policy map[string][]string
	if err := json.Unmarshal([]byte(attributes.Attributes["FilterPolicy"]), &policy); err != nil {
		return exceptions.NotFound("subscription", subscriberId)
	}
	if owners := policy["accountId"]; len(owners) != 1 || owners[0] != accountId {
		return exceptions.NotFound("subscription", subscriberId)
	}
	_, err = n.Sns.Unsubscribe(ctx, &sns.UnsubscribeInput{
		SubscriptionArn: aws.String(subscriptionArn),
	})
	return err
}
