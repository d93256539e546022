package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scriptedReader hands out its messages and then blocks until the context ends.
type scriptedReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []int64
	drained   chan struct{}
	closed    bool
}

func newScriptedReader(msgs ...kafkago.Message) *scriptedReader {
	for i := range msgs {
		msgs[i].Offset = int64(i)
	}
	return &scriptedReader{pending: msgs, drained: make(chan struct{})}
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *scriptedReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func (r *scriptedReader) committedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type MockOpenRecorder struct {
	mock.Mock
}

func (m *MockOpenRecorder) Handle(ctx context.Context, command commands.RecordNotificationOpenedCommand) error {
	args := m.Called(ctx, command.IntentID())
	return args.Error(0)
}

func receipt(t *testing.T, id kernel.UUID) kafkago.Message {
	t.Helper()
	msg, err := EncodeOpenedReceipt(id, t0, "mail-relay")
	require.NoError(t, err)
	return msg
}

func runUntilCommitted(t *testing.T, consumer *ReceiptConsumer, reader *scriptedReader, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	require.Eventually(t, func() bool { return reader.commits() == want }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestReceiptConsumer_RecordsOpensAndCommits(t *testing.T) {
	first, second := kernel.NewUUID(), kernel.NewUUID()
	reader := newScriptedReader(receipt(t, first), receipt(t, second), receipt(t, first))

	recorder := new(MockOpenRecorder)
	recorder.On("Handle", mock.Anything, first).Return(nil).Twice()
	recorder.On("Handle", mock.Anything, second).Return(nil).Once()

	consumer := NewReceiptConsumer(reader, recorder, 2, slog.New(slog.DiscardHandler))
	runUntilCommitted(t, consumer, reader, 3)

	recorder.AssertExpectations(t)
	assert.True(t, reader.closed)
}

func TestReceiptConsumer_SkipsMalformedAndUnknown(t *testing.T) {
	unknown := kernel.NewUUID()
	reader := newScriptedReader(
		kafkago.Message{Value: []byte("not json")},
		kafkago.Message{Value: []byte(`{"eventType":"Something","payload":{}}`)},
		receipt(t, unknown),
	)

	recorder := new(MockOpenRecorder)
	recorder.On("Handle", mock.Anything, unknown).Return(errs.NewObjectNotFoundError("notification intent", unknown.String())).Once()

	consumer := NewReceiptConsumer(reader, recorder, 1, slog.New(slog.DiscardHandler))
	runUntilCommitted(t, consumer, reader, 3)

	recorder.AssertExpectations(t)
}

func TestReceiptConsumer_RetriesStoreFailures(t *testing.T) {
	id := kernel.NewUUID()
	reader := newScriptedReader(receipt(t, id))

	recorder := new(MockOpenRecorder)
	recorder.On("Handle", mock.Anything, id).Return(errors.New("connection reset")).Once()
	recorder.On("Handle", mock.Anything, id).Return(nil).Once()

	consumer := NewReceiptConsumer(reader, recorder, 1, slog.New(slog.DiscardHandler))
	runUntilCommitted(t, consumer, reader, 1)

	recorder.AssertNumberOfCalls(t, "Handle", 2)
}

func TestReceiptConsumer_CommitsInFetchOrder(t *testing.T) {
	slow, fast := kernel.NewUUID(), kernel.NewUUID()
	reader := newScriptedReader(receipt(t, slow), receipt(t, fast))

	release := make(chan struct{})
	fastDone := make(chan struct{})
	recorder := new(MockOpenRecorder)
	recorder.On("Handle", mock.Anything, slow).Run(func(mock.Arguments) { <-release }).Return(nil).Once()
	recorder.On("Handle", mock.Anything, fast).Run(func(mock.Arguments) { close(fastDone) }).Return(nil).Once()

	consumer := NewReceiptConsumer(reader, recorder, 2, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	<-fastDone
	assert.Never(t, func() bool { return reader.commits() > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	close(release)
	require.Eventually(t, func() bool { return reader.commits() == 2 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{0, 1}, reader.committedOffsets())
	recorder.AssertExpectations(t)
}
