package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/clock"

	kafkago "github.com/segmentio/kafka-go"
)

var ErrPublisherClosed = errors.New("notification publisher is closed")

const writeTimeout = 5 * time.Second

func newEventID() string {
	return kernel.NewUUID().String()
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter returns a writer that keys messages to partitions by hash, so all
// notifications of one order stay in order.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

type PublisherConfig struct {
	Producer     string
	PixelBaseURL string
}

// Publisher implements ports.NotificationSender. Send waits for the broker
// acknowledgement, at most writeTimeout, so the caller records the real
// outcome on the intent and the redelivery job picks up broker outages.
type Publisher struct {
	writer  messageWriter
	cfg     PublisherConfig
	clock   clock.Clock
	logger  *slog.Logger
	stopped atomic.Bool
}

func NewPublisher(writer messageWriter, cfg PublisherConfig, clk clock.Clock, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		cfg:    cfg,
		clock:  clk,
		logger: logger.With("component", "NotificationPublisher"),
	}
}

func (p *Publisher) Send(ctx context.Context, intent *notification.Intent) error {
	if p.stopped.Load() {
		return ErrPublisherClosed
	}

	var key, correlationID string
	if id := intent.OrderID(); id != nil {
		correlationID = id.String()
		key = correlationID
	} else {
		key = intent.ID().String()
	}

	value, err := encode(EventNotificationRequested, p.cfg.Producer, correlationID, p.clock.Now(),
		newNotificationPayload(intent, p.cfg.PixelBaseURL))
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Time:  p.clock.Now(),
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(EventNotificationRequested)},
			{Key: "tag", Value: []byte(intent.Tag())},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WarnContext(ctx, "failed to publish notification",
			"intent_id", intent.ID().String(), "key", key, "error", err)
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Close rejects further sends and closes the writer, flushing what it holds.
func (p *Publisher) Close() error {
	if p.stopped.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
