package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/internal/agent/device/lock"
	"github.com/finlock/finlock-agent/pkg/log"
)

// defaultWorkTimeout bounds one dispatched unit of work. Generous compared
// to the OS broadcast budget because the work runs off the broadcast path.
const defaultWorkTimeout = 2 * time.Minute

// EventHandler receives platform triggers. Implementations must return
// quickly; platform broadcast delivery is time-budgeted.
type EventHandler interface {
	OnBoot()
	OnScreenOn()
	OnUserPresent()
	OnCommand(msg client.PushMessage)
	OnPushTokenRotated(token string)
	OnTick()
}

type resyncer interface {
	Resync(ctx context.Context, origin lock.TriggerOrigin) error
}

type commandHandler interface {
	HandleCommand(ctx context.Context, msg client.PushMessage) error
}

type tokenAnnouncer interface {
	SetPushToken(ctx context.Context, token string) error
	AnnouncePending(ctx context.Context) error
}

type focusAsserter interface {
	OnFocusLost()
}

// Dispatcher adapts platform triggers into reconciliation work. Every entry
// point hands off to a background goroutine immediately, so callers stay
// inside the broadcast budget regardless of how slow persistence or the
// network is.
type Dispatcher struct {
	ctx         context.Context
	reconciler  resyncer
	commands    commandHandler
	identity    tokenAnnouncer
	presenter   focusAsserter
	workTimeout time.Duration

	wg  sync.WaitGroup
	log *log.PrefixLogger
}

func NewDispatcher(
	ctx context.Context,
	reconciler resyncer,
	commands commandHandler,
	identity tokenAnnouncer,
	presenter focusAsserter,
	log *log.PrefixLogger,
) *Dispatcher {
	return &Dispatcher{
		ctx:         ctx,
		reconciler:  reconciler,
		commands:    commands,
		identity:    identity,
		presenter:   presenter,
		workTimeout: defaultWorkTimeout,
		log:         log,
	}
}

// OnBoot re-drives the persisted lock state and flushes any push token
// registration that never reached the backend.
func (d *Dispatcher) OnBoot() {
	d.dispatch("boot", func(ctx context.Context) error {
		if err := d.reconciler.Resync(ctx, lock.OriginBoot); err != nil {
			return err
		}
		return d.identity.AnnouncePending(ctx)
	})
}

// OnScreenOn reconciles on every screen wake, the cheapest recurring chance
// to repair a missed enforcement step.
func (d *Dispatcher) OnScreenOn() {
	d.dispatch("screen-on", func(ctx context.Context) error {
		return d.reconciler.Resync(ctx, lock.OriginScreen)
	})
}

// OnUserPresent re-asserts the lock surface after unlock of the keyguard.
func (d *Dispatcher) OnUserPresent() {
	d.presenter.OnFocusLost()
	d.dispatch("user-present", func(ctx context.Context) error {
		return d.reconciler.Resync(ctx, lock.OriginScreen)
	})
}

// OnCommand routes one remote command.
func (d *Dispatcher) OnCommand(msg client.PushMessage) {
	d.dispatch("command", func(ctx context.Context) error {
		return d.commands.HandleCommand(ctx, msg)
	})
}

// OnPushTokenRotated persists and announces a rotated push token.
func (d *Dispatcher) OnPushTokenRotated(token string) {
	d.dispatch("push-token", func(ctx context.Context) error {
		return d.identity.SetPushToken(ctx, token)
	})
}

// OnTick is the periodic monitor trigger.
func (d *Dispatcher) OnTick() {
	d.dispatch("tick", func(ctx context.Context) error {
		if err := d.reconciler.Resync(ctx, lock.OriginMonitor); err != nil {
			return err
		}
		return d.identity.AnnouncePending(ctx)
	})
}

// Wait blocks until all dispatched work has drained. Used on shutdown and
// by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(d.ctx, d.workTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			// triggers are level-driven, a later one repairs what this missed
			d.log.Errorf("Trigger %s failed: %v", name, err)
		}
	}()
}

var _ EventHandler = (*Dispatcher)(nil)
