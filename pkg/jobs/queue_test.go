package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitForState(t *testing.T, q *Queue, id string, state State) Status {
	t.Helper()
	var last Status
	require.Eventually(t, func() bool {
		st, ok := q.Status(id)
		last = st
		return ok && st.State == state
	}, 2*time.Second, 5*time.Millisecond)
	return last
}

func TestQueueRecordsSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		return job.Payload.(string) + "-done", nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "a", Type: "echo", Payload: "a"}))
	st := waitForState(t, q, "a", StateSucceeded)
	assert.Equal(t, "a-done", st.Result)
	assert.Equal(t, 1, st.Attempts)
	assert.NotNil(t, st.FinishedAt)

	q.Stop()
}

func TestQueueRetriesThenFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls int32
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("dataset missing")
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "b", Type: "seed"}))
	st := waitForState(t, q, "b", StateFailed)
	assert.Equal(t, "dataset missing", st.Error)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 3, st.Attempts)

	q.Stop()
}

func TestQueueRejectsBeforeStartAndWithoutID(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) { return nil, nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(context.Background(), Job{ID: "x"}))

	q.Start(context.Background())
	defer q.Stop()
	assert.Error(t, q.Enqueue(context.Background(), Job{}))

	_, ok := q.Status("missing")
	assert.False(t, ok)
}

func TestQueueStopCancelsPendingRetry(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		return nil, errors.New("fail")
	}, QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: time.Hour})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "c"}))
	require.Eventually(t, func() bool {
		st, _ := q.Status("c")
		return st.Error != ""
	}, time.Second, 5*time.Millisecond)

	q.Stop()
}

func TestQueueRejectsWhenBufferFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil, nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{ID: "running"}))
	waitForState(t, q, "running", StateRunning)
	require.NoError(t, q.Enqueue(ctx, Job{ID: "buffered"}))

	err := q.Enqueue(ctx, Job{ID: "overflow"})
	assert.ErrorIs(t, err, ErrQueueFull)
	_, ok := q.Status("overflow")
	assert.False(t, ok)

	close(release)
	waitForState(t, q, "buffered", StateSucceeded)
	q.Stop()
}

func TestQueueRejectsCancelledCaller(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) { return nil, nil }, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, Job{ID: "late"}), context.Canceled)
	_, ok := q.Status("late")
	assert.False(t, ok)
}

func TestQueuePermanentFailureSkipsRetries(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls int32
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, Permanent(errors.New("dataset malformed"))
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "p"}))
	st := waitForState(t, q, "p", StateFailed)
	assert.Equal(t, "dataset malformed", st.Error)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	q.Stop()
}

func TestQueuePrunesFinishedStatuses(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) { return nil, nil },
		QueueConfig{Workers: 1, StatusTTL: 20 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "old"}))
	waitForState(t, q, "old", StateSucceeded)
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "new"}))
	_, ok := q.Status("old")
	assert.False(t, ok)
	waitForState(t, q, "new", StateSucceeded)

	q.Stop()
}
