package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_Register(t *testing.T) {
	s := New(Config{}, zap.NewNop())
	job := JobFunc{JobName: "noop", Fn: func(context.Context) error { return nil }}

	require.NoError(t, s.Register(job, time.Minute))
	assert.ErrorIs(t, s.Register(job, time.Minute), ErrJobAlreadyRegistered)
	assert.ErrorIs(t, s.Register(JobFunc{JobName: "zero"}, 0), ErrInvalidConfig)

	states := s.States()
	require.Len(t, states, 1)
	assert.Equal(t, JobStatusPending, states[0].Status)
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	var calls atomic.Int32
	s := New(Config{JobTimeout: time.Second}, nil)
	require.NoError(t, s.Register(JobFunc{JobName: "tick", Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}}, 10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	state := s.States()[0]
	assert.Equal(t, JobStatusSuccess, state.Status)
	assert.GreaterOrEqual(t, state.Runs, 2)
}

func TestScheduler_Trigger(t *testing.T) {
	s := New(Config{}, nil)
	boom := errors.New("db down")
	require.NoError(t, s.Register(JobFunc{JobName: "fails", Fn: func(context.Context) error { return boom }}, time.Hour))
	require.NoError(t, s.Register(JobFunc{JobName: "panics", Fn: func(context.Context) error { panic("nil map") }}, time.Hour))

	assert.ErrorIs(t, s.Trigger("fails"), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	assert.ErrorIs(t, s.Trigger("missing"), ErrJobNotFound)
	assert.ErrorIs(t, s.Trigger("fails"), boom)

	err := s.Trigger("panics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	states := s.States()
	assert.Equal(t, JobStatusFailed, states[0].Status)
	assert.Equal(t, "db down", states[0].LastError)
	assert.Equal(t, 1, states[1].Failures)
}

func TestScheduler_NoOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	s := New(Config{}, nil)
	require.NoError(t, s.Register(JobFunc{JobName: "slow", Fn: func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}}, time.Hour))
	require.NoError(t, s.Start(context.Background()))

	done := make(chan error, 1)
	go func() { done <- s.Trigger("slow") }()
	<-started

	assert.ErrorIs(t, s.Trigger("slow"), ErrJobBusy)
	close(release)
	require.NoError(t, <-done)
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_RunOnStart(t *testing.T) {
	var calls atomic.Int32
	s := New(Config{RunOnStart: true}, nil)
	require.NoError(t, s.Register(JobFunc{JobName: "once", Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}}, time.Hour))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

type fakeExpirer struct {
	remaining int
	calls     int
	err       error
	now       time.Time
}

func (f *fakeExpirer) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	f.calls++
	f.now = now
	if f.err != nil {
		return 0, f.err
	}
	n := min(limit, f.remaining)
	f.remaining -= n
	return n, nil
}

func TestSubscriptionExpiryJob_Run(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC)

	t.Run("drains in batches", func(t *testing.T) {
		exp := &fakeExpirer{remaining: 25}
		job := NewSubscriptionExpiryJob(exp, 10, nil)
		job.now = func() time.Time { return fixed }

		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, 3, exp.calls)
		assert.Zero(t, exp.remaining)
		assert.Equal(t, fixed, exp.now)
		assert.Equal(t, SubscriptionExpiryJobName, job.Name())
	})

	t.Run("exact multiple needs one extra empty call", func(t *testing.T) {
		exp := &fakeExpirer{remaining: 20}
		job := NewSubscriptionExpiryJob(exp, 10, nil)
		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, 3, exp.calls)
	})

	t.Run("stops on error", func(t *testing.T) {
		exp := &fakeExpirer{remaining: 5, err: errors.New("timeout")}
		job := NewSubscriptionExpiryJob(exp, 10, nil)
		assert.EqualError(t, job.Run(context.Background()), "timeout")
		assert.Equal(t, 1, exp.calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exp := &fakeExpirer{remaining: 5}
		job := NewSubscriptionExpiryJob(exp, 10, nil)
		assert.ErrorIs(t, job.Run(ctx), context.Canceled)
		assert.Zero(t, exp.calls)
	})
}
