package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewReader returns a consumer-group reader with manual commits.
func NewReader(brokers []string, groupID, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
}

type openRecorder interface {
	Handle(ctx context.Context, command commands.RecordNotificationOpenedCommand) error
}

const (
	maxReceiptAttempts  = 3
	receiptRetryBackoff = 200 * time.Millisecond
	commitTimeout       = 5 * time.Second
)

// ReceiptConsumer counts notification opens reported on the receipts topic.
// Malformed messages and receipts for unknown intents are skipped; store
// failures are retried a few times before the receipt is dropped. Open counts
// are advisory, so a dropped receipt only undercounts.
type ReceiptConsumer struct {
	reader   messageReader
	recorder openRecorder
	workers  int
	logger   *slog.Logger
}

func NewReceiptConsumer(reader messageReader, recorder openRecorder, workers int, logger *slog.Logger) *ReceiptConsumer {
	if workers <= 0 {
		workers = 1
	}
	return &ReceiptConsumer{
		reader:   reader,
		recorder: recorder,
		workers:  workers,
		logger:   logger.With("component", "ReceiptConsumer"),
	}
}

// fetchedReceipt is a message tagged with its position in the fetch stream.
type fetchedReceipt struct {
	seq     uint64
	msg     kafkago.Message
	settled bool
}

// Run fetches until ctx is done. It returns nil on shutdown and the fetch
// error otherwise. Workers record opens concurrently; offsets are committed by
// a single goroutine in fetch order, so the group offset never moves back.
func (c *ReceiptConsumer) Run(ctx context.Context) error {
	defer func() { _ = c.reader.Close() }()

	jobs := make(chan fetchedReceipt, c.workers)
	processed := make(chan fetchedReceipt, c.workers)
	g, gctx := errgroup.WithContext(ctx)

	var workers errgroup.Group
	for range c.workers {
		workers.Go(func() error {
			for r := range jobs {
				r.settled = c.process(gctx, r.msg)
				processed <- r
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(processed)
		return workers.Wait()
	})

	g.Go(func() error {
		c.commitInOrder(ctx, processed)
		return nil
	})

	g.Go(func() error {
		defer close(jobs)
		for seq := uint64(0); ; seq++ {
			msg, err := c.reader.FetchMessage(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("fetch receipt: %w", err)
			}
			select {
			case jobs <- fetchedReceipt{seq: seq, msg: msg}:
			case <-gctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}

// commitInOrder commits the longest settled prefix of the fetch stream. A
// receipt abandoned on shutdown leaves a gap, and nothing after it is
// committed.
func (c *ReceiptConsumer) commitInOrder(ctx context.Context, processed <-chan fetchedReceipt) {
	var next uint64
	settled := make(map[uint64]kafkago.Message)

	for r := range processed {
		if !r.settled {
			continue
		}
		settled[r.seq] = r.msg

		var batch []kafkago.Message
		for {
			msg, ok := settled[next]
			if !ok {
				break
			}
			delete(settled, next)
			batch = append(batch, msg)
			next++
		}
		if len(batch) == 0 {
			continue
		}

		last := batch[len(batch)-1]
		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
		if err := c.reader.CommitMessages(commitCtx, batch...); err != nil {
			c.logger.ErrorContext(ctx, "failed to commit receipt offset",
				"partition", last.Partition, "offset", last.Offset, "error", err)
		}
		cancel()
	}
}

// process reports whether the receipt is settled: recorded, skipped or
// dropped after retries. It is unsettled only when ctx ended mid-retry.
func (c *ReceiptConsumer) process(ctx context.Context, msg kafkago.Message) bool {
	var err error
	for attempt := 1; attempt <= maxReceiptAttempts; attempt++ {
		if err = c.handle(ctx, msg); err == nil {
			return true
		}
		c.logger.WarnContext(ctx, "receipt not recorded",
			"partition", msg.Partition, "offset", msg.Offset, "attempt", attempt, "error", err)
		if attempt == maxReceiptAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Duration(attempt) * receiptRetryBackoff):
		}
	}
	c.logger.ErrorContext(ctx, "dropping receipt after retries",
		"partition", msg.Partition, "offset", msg.Offset, "error", err)
	return true
}

// handle returns an error only for failures worth retrying.
func (c *ReceiptConsumer) handle(ctx context.Context, msg kafkago.Message) error {
	payload, err := decodePayload[OpenedPayload](msg.Value, EventNotificationOpened)
	if err != nil {
		c.logger.WarnContext(ctx, "skipping malformed receipt", "offset", msg.Offset, "error", err)
		return nil
	}

	id, err := kernel.UUIDFromString(payload.IntentID)
	if err != nil {
		c.logger.WarnContext(ctx, "skipping receipt with invalid intent id", "intent_id", payload.IntentID)
		return nil
	}
	cmd, err := commands.NewRecordNotificationOpenedCommand(id)
	if err != nil {
		return nil
	}

	err = c.recorder.Handle(ctx, cmd)
	if errors.Is(err, errs.ErrObjectNotFound) {
		c.logger.WarnContext(ctx, "receipt for unknown notification", "intent_id", payload.IntentID)
		return nil
	}
	return err
}

// EncodeOpenedReceipt builds the receipt message the mail relay publishes.
func EncodeOpenedReceipt(intentID kernel.UUID, openedAt time.Time, producer string) (kafkago.Message, error) {
	value, err := encode(EventNotificationOpened, producer, "", openedAt, OpenedPayload{
		IntentID: intentID.String(),
		OpenedAt: openedAt.UTC(),
	})
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{Key: []byte(intentID.String()), Value: value, Time: openedAt}, nil
}
