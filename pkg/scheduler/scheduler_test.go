package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type refresherMock struct {
	calls int32
	err   error
}

func (r *refresherMock) Refresh(ctx context.Context) error {
	atomic.AddInt32(&r.calls, 1)
	return r.err
}

func TestScheduler_PeriodicRefresh(t *testing.T) {
	mock := &refresherMock{}
	s := New(mock, 20*time.Millisecond)

	s.Start(context.Background())
	time.Sleep(110 * time.Millisecond)
	s.Stop()

	calls := atomic.LoadInt32(&mock.calls)
	assert.GreaterOrEqual(t, calls, int32(3), "expected several ticks, got %d", calls)

	// no further refreshes after stop
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(&mock.calls))
}

func TestScheduler_KeepsTickingOnError(t *testing.T) {
	mock := &refresherMock{err: errors.New("backend down")}
	s := New(mock, 20*time.Millisecond)

	s.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&mock.calls), int32(2), "failures must not stop the timer")
}

func TestScheduler_DefaultInterval(t *testing.T) {
	s := New(&refresherMock{}, 0)
	assert.Equal(t, 30*time.Minute, s.interval)
}

func TestScheduler_ContextCancel(t *testing.T) {
	mock := &refresherMock{}
	s := New(mock, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}
