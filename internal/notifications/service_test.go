package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"philcali.me/nutrition/internal/exceptions"
)

func TestNoopNotificationService(t *testing.T) {
	var service NotificationService = NoopNotificationService{}
	ctx := context.Background()

	assert.NoError(t, service.Notify(ctx, Alert{AccountId: "nobody", Goals: []string{"calories"}}))

	endpoint, protocol := "nobody@email.com", "email"
	output, err := service.Subscribe(ctx, "nobody", SubscribeInput{Endpoint: &endpoint, Protocol: &protocol})
	assert.Nil(t, output)
	var invalid *exceptions.InvalidInputError
	assert.True(t, errors.As(err, &invalid), "expected invalid input, got %v", err)

	err = service.Unsubscribe(ctx, "nobody", "abc")
	var notFound *exceptions.NotFoundError
	assert.True(t, errors.As(err, &notFound), "expected not found, got %v", err)
}
