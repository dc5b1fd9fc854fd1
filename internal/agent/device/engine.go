package device

import (
	"context"
	"time"

	"github.com/finlock/finlock-agent/internal/util"
)

// Engine drives the periodic loops from a single ticker: the monitor resync,
// location sampling, and the policy sync schedule check.
type Engine struct {
	monitorInterval  util.Duration
	monitorFn        func(context.Context)
	locationInterval util.Duration
	locationFn       func(context.Context)
	policySyncFn     func(context.Context)

	clock Clock
	// startedCh is used to signal when the ticker has started used for testing
	startedCh chan struct{}
}

// NewEngine creates a new agent engine. A zero locationInterval disables
// periodic location sampling; policySyncFn is consulted every monitor pass
// and is expected to gate itself on its own schedule.
func NewEngine(
	monitorInterval util.Duration,
	monitorFn func(context.Context),
	locationInterval util.Duration,
	locationFn func(context.Context),
	policySyncFn func(context.Context),
) *Engine {
	return &Engine{
		monitorInterval:  monitorInterval,
		monitorFn:        monitorFn,
		locationInterval: locationInterval,
		locationFn:       locationFn,
		policySyncFn:     policySyncFn,
		clock:            &realClock{},
		startedCh:        make(chan struct{}),
	}
}

func (e *Engine) calculateTickerInterval() time.Duration {
	minInterval := e.monitorInterval
	if e.locationInterval > 0 && e.locationInterval < minInterval {
		minInterval = e.locationInterval
	}

	if minInterval <= 0 {
		// default to 1 second
		minInterval = util.Duration(1 * time.Second)
	}

	// return half of the min interval
	return time.Duration(minInterval / 2)
}

func (e *Engine) next(interval util.Duration, lastSync time.Time, now time.Time) bool {
	return now.Sub(lastSync) >= time.Duration(interval)
}

func (e *Engine) Run(ctx context.Context) error {
	// track the last run times to ensure even distribution across loops
	var lastMonitor, lastLocation time.Time

	tickerInterval := e.calculateTickerInterval()
	timeTicker := e.clock.NewTicker(tickerInterval)
	defer timeTicker.Stop()

	// fire the first monitor pass immediately so a restart converges fast
	now := e.clock.Now()
	e.monitorFn(ctx)
	e.policySyncFn(ctx)
	lastMonitor = now

	close(e.startedCh)
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-timeTicker.C():
			if now.IsZero() {
				// clock was stopped
				return nil
			}
			if e.next(e.monitorInterval, lastMonitor, now) {
				lastMonitor = now
				e.monitorFn(ctx)
				e.policySyncFn(ctx)
			}

			if e.locationInterval > 0 && e.next(e.locationInterval, lastLocation, now) {
				lastLocation = now
				e.locationFn(ctx)
			}
		}
	}
}

// Clock interface allows us to mock time in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is an interface that resembles time.Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// realClock is a Clock interface implementation that uses the real time package.
type realClock struct{}

func (r *realClock) Now() time.Time {
	return time.Now()
}

func (r *realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{time.NewTicker(d)}
}

type realTicker struct {
	*time.Ticker
}

func (r *realTicker) C() <-chan time.Time {
	return r.Ticker.C
}
