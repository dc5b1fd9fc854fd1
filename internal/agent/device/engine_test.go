package device

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/finlock/finlock-agent/internal/util"
	"github.com/stretchr/testify/require"
)

type testTaskType string

const (
	monitorTask  testTaskType = "Monitor"
	locationTask testTaskType = "Location"
	policyTask   testTaskType = "PolicySync"
)

func runEngine(t *testing.T, engine *Engine, mockClock *mockClock, intervals int, step time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = engine.Run(ctx)
	}()
	<-engine.startedCh // wait for ticker to start

	for i := 0; i < intervals; i++ {
		mockClock.Advance(step)
	}
}

func TestEngineRunsAllLoops(t *testing.T) {
	require := require.New(t)

	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mockClock := newMockClock(startTime)

	var (
		mu     sync.Mutex
		counts = map[testTaskType]int{}
	)
	record := func(task testTaskType) func(context.Context) {
		return func(ctx context.Context) {
			mu.Lock()
			defer mu.Unlock()
			counts[task]++
		}
	}

	engine := Engine{
		monitorInterval:  util.Duration(100 * time.Millisecond),
		monitorFn:        record(monitorTask),
		locationInterval: util.Duration(200 * time.Millisecond),
		locationFn:       record(locationTask),
		policySyncFn:     record(policyTask),
		clock:            mockClock,
		startedCh:        make(chan struct{}),
	}

	runEngine(t, &engine, mockClock, 20, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// the first monitor pass fires before the ticker starts
	require.GreaterOrEqual(counts[monitorTask], 2)
	require.GreaterOrEqual(counts[locationTask], 1)
	// policy sync rides along with every monitor pass; the last pass may
	// still be in flight when the engine is stopped
	require.InDelta(counts[monitorTask], counts[policyTask], 1)
	// location runs at half the monitor rate
	require.Less(counts[locationTask], counts[monitorTask])
}

func TestEngineZeroLocationIntervalDisablesSampling(t *testing.T) {
	require := require.New(t)

	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mockClock := newMockClock(startTime)

	var (
		mu        sync.Mutex
		locations int
	)

	engine := Engine{
		monitorInterval: util.Duration(100 * time.Millisecond),
		monitorFn:       func(ctx context.Context) {},
		locationFn: func(ctx context.Context) {
			mu.Lock()
			defer mu.Unlock()
			locations++
		},
		policySyncFn: func(ctx context.Context) {},
		clock:        mockClock,
		startedCh:    make(chan struct{}),
	}

	runEngine(t, &engine, mockClock, 20, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Zero(locations)
}

func TestEngineFirstMonitorPassIsImmediate(t *testing.T) {
	require := require.New(t)

	mockClock := newMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		mu       sync.Mutex
		monitors int
	)

	engine := Engine{
		monitorInterval: util.Duration(time.Hour),
		monitorFn: func(ctx context.Context) {
			mu.Lock()
			defer mu.Unlock()
			monitors++
		},
		locationFn:   func(ctx context.Context) {},
		policySyncFn: func(ctx context.Context) {},
		clock:        mockClock,
		startedCh:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = engine.Run(ctx)
	}()
	<-engine.startedCh

	mu.Lock()
	defer mu.Unlock()
	require.Equal(1, monitors)
}

type mockClock struct {
	now   time.Time
	ticks map[time.Duration]*mockTicker
}

type mockTicker struct {
	c          chan time.Time
	d          time.Duration
	nextTickAt time.Time // next time to send into c channel.
	clock      *mockClock
}

func newMockClock(start time.Time) *mockClock {
	return &mockClock{
		now:   start,
		ticks: make(map[time.Duration]*mockTicker),
	}
}

func (m *mockClock) Now() time.Time {
	return m.now
}

// NewTicker creates a mock ticker, storing its nextTickAt as now + duration.
func (m *mockClock) NewTicker(d time.Duration) Ticker {
	t := &mockTicker{
		c:          make(chan time.Time, 1),
		d:          d,
		nextTickAt: m.now.Add(d),
		clock:      m,
	}
	m.ticks[d] = t
	return t
}

func (m *mockTicker) C() <-chan time.Time {
	return m.c
}

func (m *mockTicker) Stop() {
	close(m.c)
}

func (m *mockClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
	// check how many intervals (dur) we crossed,
	// send ticks for each crossing.
	for dur, t := range m.ticks {
		for !t.nextTickAt.After(m.now) {
			// send a tick
			t.c <- t.nextTickAt
			// move forward by its interval.
			t.nextTickAt = t.nextTickAt.Add(dur)
		}
	}
}
