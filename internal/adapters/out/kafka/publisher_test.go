package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafkago.Message
	failWith error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failWith != nil {
		return w.failWith
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) snapshot() []kafkago.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafkago.Message(nil), w.messages...)
}

func newIntent(t *testing.T, orderID *kernel.UUID) *notification.Intent {
	t.Helper()
	intent, err := notification.NewIntent(kernel.NewUUID(), notification.Message{
		Tag:       notification.TagOrderSubmitted,
		Category:  notification.CategoryStock,
		Recipient: "stock@acme.test",
		CC:        []string{"crm@acme.test"},
		Subject:   "New Order: Water Purifier",
		Body:      "<p>new order</p>",
		OrderID:   orderID,
	}, t0)
	require.NoError(t, err)
	return intent
}

func newTestPublisher(writer messageWriter) *Publisher {
	return NewPublisher(writer, PublisherConfig{
		Producer:     "fulfillment",
		PixelBaseURL: "https://ops.acme.test/api/v1/",
	}, clock.NewFixed(t0), slog.New(slog.DiscardHandler))
}

func TestPublisher_SendEncodesEnvelopeKeyedByOrder(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newTestPublisher(writer)
	orderID := kernel.NewUUID()
	intent := newIntent(t, &orderID)

	require.NoError(t, publisher.Send(context.Background(), intent))

	messages := writer.snapshot()
	require.Len(t, messages, 1)
	assert.Equal(t, orderID.String(), string(messages[0].Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(messages[0].Value, &env))
	assert.Equal(t, EventNotificationRequested, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "fulfillment", env.Producer)
	assert.Equal(t, orderID.String(), env.CorrelationID)
	assert.True(t, t0.Equal(env.OccurredAt))

	payload, err := decodePayload[NotificationPayload](messages[0].Value, EventNotificationRequested)
	require.NoError(t, err)
	assert.Equal(t, intent.ID().String(), payload.IntentID)
	assert.Equal(t, "stock@acme.test", payload.To)
	assert.Equal(t, []string{"crm@acme.test"}, payload.CC)
	assert.Equal(t, "order-submitted", payload.Tag)
	assert.Equal(t, "https://ops.acme.test/api/v1/notifications/"+intent.ID().String()+"/open", payload.OpenPixel)
}

func TestPublisher_StandaloneIntentIsKeyedByIntent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newTestPublisher(writer)
	intent := newIntent(t, nil)

	require.NoError(t, publisher.Send(context.Background(), intent))

	messages := writer.snapshot()
	require.Len(t, messages, 1)
	assert.Equal(t, intent.ID().String(), string(messages[0].Key))
}

func TestPublisher_SendAfterCloseIsRejected(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newTestPublisher(writer)

	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close())

	assert.True(t, writer.closed)
	assert.ErrorIs(t, publisher.Send(context.Background(), newIntent(t, nil)), ErrPublisherClosed)
	assert.Empty(t, writer.snapshot())
}

func TestPublisher_WriteFailureIsReturned(t *testing.T) {
	brokerDown := errors.New("leader not available")
	publisher := newTestPublisher(&recordingWriter{failWith: brokerDown})

	err := publisher.Send(context.Background(), newIntent(t, nil))

	assert.ErrorIs(t, err, brokerDown)
}

type fixedPlanner struct{ messages []notification.Message }

func (p fixedPlanner) Plan(services.Event) ([]notification.Message, error) { return p.messages, nil }

type notificationUoWFactory struct{ store *memory.Store }

func (f notificationUoWFactory) Create() commands.NotificationUoW { return f.store.Create() }

func TestPublisher_BrokerOutageLeavesIntentFailed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	writer := &recordingWriter{failWith: errors.New("leader not available")}
	orderID := kernel.NewUUID()
	dispatcher := commands.NewNotificationDispatcher(
		fixedPlanner{messages: []notification.Message{{
			Tag:       notification.TagOrderSubmitted,
			Category:  notification.CategoryStock,
			Recipient: "stock@acme.test",
			Subject:   "New Order: Water Purifier",
			OrderID:   &orderID,
		}}},
		newTestPublisher(writer),
		notificationUoWFactory{store: store},
		clock.NewFixed(t0),
		slog.New(slog.DiscardHandler),
	)

	intents := dispatcher.Notify(ctx, services.Event{Tag: notification.TagOrderSubmitted})
	require.Len(t, intents, 1)

	stored, err := store.Create().NotificationRepository().Get(ctx, intents[0].ID())
	require.NoError(t, err)
	assert.Equal(t, notification.DeliveryFailed, stored.DeliveryStatus())
	assert.Equal(t, 1, stored.Attempts())
	assert.Contains(t, stored.LastError(), "leader not available")

	undelivered, err := store.Create().NotificationRepository().ListUndelivered(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, undelivered, 1)
	assert.Equal(t, intents[0].ID(), undelivered[0].ID())
}
