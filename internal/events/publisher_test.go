package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/ekatra-normalizer/internal/models"
)

// MockStreamClient is a mock for the Redis stream client
type MockStreamClient struct {
	mock.Mock
}

func (m *MockStreamClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func (m *MockStreamClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishProductNormalized(t *testing.T) {
	ctx := context.Background()

	t.Run("writes event to stream", func(t *testing.T) {
		client := new(MockStreamClient)
		pub := NewPublisher(client, "", testLogger())

		client.On("XAdd", ctx, mock.MatchedBy(func(args *redis.XAddArgs) bool {
			values, ok := args.Values.(map[string]interface{})
			if !ok || args.Stream != DefaultStream {
				return false
			}
			var body map[string]any
			if err := json.Unmarshal([]byte(values["payload"].(string)), &body); err != nil {
				return false
			}
			product, _ := body["product"].(map[string]any)
			return values["event_type"] == string(EventTypeProductNormalized) &&
				values["product_id"] == "P1" &&
				product["productId"] == "P1"
		})).Return(nil)

		payload := &ProductNormalizedPayload{Entry: "flexible", Product: &models.Product{ProductID: "P1", Title: "T"}}
		id, err := pub.PublishProductNormalized(ctx, payload)

		require.NoError(t, err)
		assert.Equal(t, "1234567890-0", id)
		assert.NotEmpty(t, payload.EventID)
		assert.False(t, payload.Timestamp.IsZero())
		client.AssertExpectations(t)
	})

	t.Run("redis failure", func(t *testing.T) {
		client := new(MockStreamClient)
		pub := NewPublisher(client, "stream:test", testLogger())
		client.On("XAdd", ctx, mock.Anything).Return(errors.New("connection refused"))

		_, err := pub.PublishProductNormalized(ctx, &ProductNormalizedPayload{Product: &models.Product{ProductID: "P1"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish event")
	})

	t.Run("missing product", func(t *testing.T) {
		client := new(MockStreamClient)
		pub := NewPublisher(client, "", testLogger())

		_, err := pub.PublishProductNormalized(ctx, &ProductNormalizedPayload{})

		require.Error(t, err)
		client.AssertNotCalled(t, "XAdd", mock.Anything, mock.Anything)
	})
}

func TestClose(t *testing.T) {
	client := new(MockStreamClient)
	client.On("Close").Return(nil)

	require.NoError(t, NewPublisher(client, "", testLogger()).Close())
	client.AssertExpectations(t)
}
