package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/domain/model/alert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func (m *MockProducer) Close() error {
	return m.Called().Error(0)
}

func TestAlertPublisher_Publish(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	a, err := alert.NewAlert("WH-1", "O1", alert.InsufficientBalance, "wallet balance low", at)
	require.NoError(t, err)

	t.Run("sends json keyed by vendor", func(t *testing.T) {
		producer := &MockProducer{}
		var sent []byte
		producer.On("SendMessage", mock.Anything, "vendor-alerts", []byte("WH-1"), mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(3).([]byte) }).
			Return(nil).Once()

		err := kafka.NewAlertPublisher(producer, "vendor-alerts").Publish(context.Background(), a)

		require.NoError(t, err)
		producer.AssertExpectations(t)

		var msg kafka.AlertMessage
		require.NoError(t, json.Unmarshal(sent, &msg))
		assert.Equal(t, a.ID().String(), msg.ID)
		assert.Equal(t, "O1", msg.OrderID)
		assert.Equal(t, "insufficient_balance", msg.Category)
		assert.Equal(t, alert.InsufficientBalance.Title(), msg.Title)
		assert.Equal(t, at, msg.CreatedAt)
	})

	t.Run("wraps producer error", func(t *testing.T) {
		producer := &MockProducer{}
		boom := errors.New("broker down")
		producer.On("SendMessage", mock.Anything, "vendor-alerts", mock.Anything, mock.Anything).Return(boom).Once()

		err := kafka.NewAlertPublisher(producer, "vendor-alerts").Publish(context.Background(), a)

		require.ErrorIs(t, err, boom)
	})
}

func TestLogProducer(t *testing.T) {
	p := kafka.NewLogProducer(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, p.SendMessage(context.Background(), "t", []byte("k"), []byte("v")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.SendMessage(ctx, "t", nil, nil), context.Canceled)
	require.NoError(t, p.Close())
}
