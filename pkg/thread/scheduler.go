package thread

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sirupsen/logrus"
)

// Scheduler manages named periodic threads. Scheduling a name that is
// already scheduled replaces the previous schedule instead of stacking a
// second one, so callers can re-schedule freely on every sync.
type Scheduler struct {
	ctx     context.Context
	log     logrus.FieldLogger
	threads cmap.ConcurrentMap[string, *Thread]
}

func NewScheduler(ctx context.Context, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		ctx:     ctx,
		log:     log,
		threads: cmap.New[*Thread](),
	}
}

// Schedule starts a periodic task under the given name. Any previous task
// with the same name is stopped first.
func (s *Scheduler) Schedule(name string, interval time.Duration, exec func(context.Context)) {
	t := New(s.ctx, s.log, name, interval, exec)
	if prev, ok := s.threads.Get(name); ok {
		prev.Stop()
	}
	s.threads.Set(name, t)
	t.Start()
}

// Stop cancels the named task. Unknown names are a no-op.
func (s *Scheduler) Stop(name string) {
	if t, ok := s.threads.Get(name); ok {
		t.Stop()
		s.threads.Remove(name)
	}
}

// StopAll cancels every scheduled task.
func (s *Scheduler) StopAll() {
	for entry := range s.threads.IterBuffered() {
		entry.Val.Stop()
	}
	s.threads.Clear()
}

// IsScheduled reports whether a task with the given name is active.
func (s *Scheduler) IsScheduled(name string) bool {
	return s.threads.Has(name)
}

// Count returns the number of active scheduled tasks.
func (s *Scheduler) Count() int {
	return s.threads.Count()
}
