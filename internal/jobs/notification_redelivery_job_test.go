package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRedeliverer struct {
	mock.Mock
}

func (m *MockRedeliverer) Handle(ctx context.Context, cmd commands.RedeliverNotificationsCommand) (commands.RedeliveryReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RedeliveryReport), args.Error(1)
}

func TestNotificationRedeliveryJob_RunOncePassesLimits(t *testing.T) {
	handler := &MockRedeliverer{}
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RedeliverNotificationsCommand) bool {
		return cmd.MaxAttempts() == 3 && cmd.Batch() == 20
	})).Return(commands.RedeliveryReport{Attempted: 2, Sent: 1, Failed: 1}, nil).Once()

	job := NewNotificationRedeliveryJob(handler, "", 3, 20, slog.New(slog.DiscardHandler))
	job.runOnce()

	handler.AssertExpectations(t)
	assert.Equal(t, DefaultRedeliverySchedule, job.schedule)
}

func TestNotificationRedeliveryJob_RunOnceSurvivesHandlerError(t *testing.T) {
	handler := &MockRedeliverer{}
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.RedeliveryReport{}, errors.New("database unavailable")).Twice()

	job := NewNotificationRedeliveryJob(handler, "", 0, 0, slog.New(slog.DiscardHandler))
	job.runOnce()
	job.runOnce()

	handler.AssertExpectations(t)
}

func TestNotificationRedeliveryJob_StartRejectsBadSchedule(t *testing.T) {
	job := NewNotificationRedeliveryJob(&MockRedeliverer{}, "every now and then", 0, 0, slog.New(slog.DiscardHandler))

	require.Error(t, job.Start())
}

func TestNotificationRedeliveryJob_RunsOnSchedule(t *testing.T) {
	calls := make(chan struct{}, 10)
	handler := &MockRedeliverer{}
	handler.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls <- struct{}{} }).
		Return(commands.RedeliveryReport{}, nil)

	job := NewNotificationRedeliveryJob(handler, "* * * * * *", 0, 0, slog.New(slog.DiscardHandler))
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("redelivery sweep did not run")
	}
}

type stubJob struct {
	name    string
	failErr error
	events  *[]string
}

func (s stubJob) Start() error {
	if s.failErr != nil {
		return s.failErr
	}
	*s.events = append(*s.events, "start "+s.name)
	return nil
}

func (s stubJob) Stop() { *s.events = append(*s.events, "stop "+s.name) }

func TestJobManager_StartAllStopsStartedJobsOnFailure(t *testing.T) {
	var events []string
	jm := &JobManager{jobs: []namedJob{
		{name: "a", job: stubJob{name: "a", events: &events}},
		{name: "b", job: stubJob{name: "b", events: &events}},
		{name: "c", job: stubJob{name: "c", failErr: errors.New("bad schedule"), events: &events}},
	}}

	err := jm.StartAll()

	require.ErrorContains(t, err, "failed to start c job")
	assert.Equal(t, []string{"start a", "start b", "stop a", "stop b"}, events)
}

func TestJobManager_StopAllInReverseOrder(t *testing.T) {
	var events []string
	jm := &JobManager{jobs: []namedJob{
		{name: "a", job: stubJob{name: "a", events: &events}},
		{name: "b", job: stubJob{name: "b", events: &events}},
	}}

	require.NoError(t, jm.StartAll())
	jm.StopAll()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
}
