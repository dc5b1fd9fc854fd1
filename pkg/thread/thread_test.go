package thread

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestThreadRunsPeriodically(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	var runs atomic.Int32
	th := New(ctx, logrus.New(), "test thread", 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	th.Start()

	require.Eventually(func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	th.Stop()
	stopped := runs.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(stopped, runs.Load())
}

func TestSchedulerReplacesNamedTask(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := NewScheduler(ctx, logrus.New())
	defer s.StopAll()

	var first, second atomic.Int32
	s.Schedule("monitor", 10*time.Millisecond, func(context.Context) {
		first.Add(1)
	})
	require.Eventually(func() bool {
		return first.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	// rescheduling the same name must replace, not stack
	s.Schedule("monitor", 10*time.Millisecond, func(context.Context) {
		second.Add(1)
	})
	require.Equal(1, s.Count())

	firstAfterReplace := first.Load()
	require.Eventually(func() bool {
		return second.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	require.Equal(firstAfterReplace, first.Load())
}

func TestSchedulerStop(t *testing.T) {
	require := require.New(t)
	s := NewScheduler(context.Background(), logrus.New())

	s.Schedule("locate", 10*time.Millisecond, func(context.Context) {})
	require.True(s.IsScheduled("locate"))

	s.Stop("locate")
	require.False(s.IsScheduled("locate"))

	// stopping an unknown name is a no-op
	s.Stop("unknown")
	require.Equal(0, s.Count())
}
