package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"badgr/internal/logger"
	"badgr/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPublisherWithWriter(writer, logger.NewNop())

	event := models.TrackEvent{
		ID:         "evt-1",
		Event:      "option_selected",
		ShopDomain: "test-shop.myshopify.com",
		Data:       map[string]interface{}{"provider": "klarna"},
		ReceivedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "test-shop.myshopify.com", string(msg.Key))
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, "option_selected", string(msg.Headers[0].Value))

	var decoded models.TrackEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, "klarna", decoded.Data["provider"])

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherError(t *testing.T) {
	p := NewPublisherWithWriter(&fakeWriter{err: errors.New("broker down")}, logger.NewNop())
	err := p.Publish(context.Background(), models.TrackEvent{Event: "x"})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewSelectsPublisher(t *testing.T) {
	assert.IsType(t, &LogPublisher{}, New(nil, "widget-events", logger.NewNop()))

	p := New([]string{"localhost:9092"}, "widget-events", logger.NewNop())
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}
