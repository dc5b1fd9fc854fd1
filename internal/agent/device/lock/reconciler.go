package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/pkg/log"
)

// TriggerOrigin tags where a lock/unlock request came from. Origins are used
// for reporting and logging only, never for trust decisions: authentication
// happens upstream at the transport layer, so every origin reaching the
// reconciler is equally authoritative.
type TriggerOrigin string

const (
	OriginPush    TriggerOrigin = "push"
	OriginBoot    TriggerOrigin = "boot"
	OriginScreen  TriggerOrigin = "screen"
	OriginMonitor TriggerOrigin = "monitor"
	OriginAdmin   TriggerOrigin = "admin"
)

// DefaultLockMessage is shown when a lock command carries no message.
const DefaultLockMessage = "This device has been locked by your financing provider."

type stateStore interface {
	LockState() (*store.DeviceLockState, error)
	SetLocked(message string, now time.Time) error
	SetUnlocked() error
}

type enforcer interface {
	IsCapable() bool
	EnterRestrictedMode(allowedPackage string)
	ExitRestrictedMode()
}

type presenter interface {
	EnsureShown()
	RequestDismiss()
}

type reporter interface {
	ReportLockOutcome(action client.LockAction, origin string, success bool, opErr error)
}

// Reconciler is the single authority deciding whether the device should be
// locked and with what message. All trigger sources funnel into RequestLock,
// RequestUnlock, or Resync.
//
// Ordering is persist-first: the durable store write is the recovery anchor.
// A crash after the write leaves enforcement partially applied at worst, and
// every later trigger re-reads the store and re-drives enforcement, so
// enforcement steps are best-effort and individually retryable.
type Reconciler struct {
	store     stateStore
	enforcer  enforcer
	presenter presenter
	reporter  reporter

	// allowedPackage is the kiosk allow-list entry, our own package
	allowedPackage string
	defaultMessage string

	// nowFn is swappable in tests
	nowFn func() time.Time

	log *log.PrefixLogger
}

func NewReconciler(
	store stateStore,
	enforcer enforcer,
	presenter presenter,
	reporter reporter,
	allowedPackage string,
	defaultMessage string,
	log *log.PrefixLogger,
) *Reconciler {
	if defaultMessage == "" {
		defaultMessage = DefaultLockMessage
	}
	return &Reconciler{
		store:          store,
		enforcer:       enforcer,
		presenter:      presenter,
		reporter:       reporter,
		allowedPackage: allowedPackage,
		defaultMessage: defaultMessage,
		nowFn:          time.Now,
		log:            log,
	}
}

// RequestLock durably records the locked state, then best-effort applies
// kiosk enforcement and presents the lock UI. Returns an error only when
// the store write fails; callers should then ask the transport to retry.
// Calling while already locked overwrites message and timestamp.
func (r *Reconciler) RequestLock(ctx context.Context, message string, origin TriggerOrigin) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if message == "" {
		message = r.defaultMessage
	}

	// the logical lock state is authoritative independent of whether kiosk
	// enforcement can currently be applied: the capability can be lost while
	// the business state (payment overdue) remains true
	if !r.enforcer.IsCapable() {
		r.log.Warnf("Locking without enforcement capability, recording state only (origin: %s)", origin)
	}

	if err := r.store.SetLocked(message, r.nowFn()); err != nil {
		err = fmt.Errorf("persisting lock state: %w", err)
		r.reporter.ReportLockOutcome(client.ActionLock, string(origin), false, err)
		return err
	}
	r.log.Infof("Device locked (origin: %s): %s", origin, message)

	// best-effort from here on, failures are logged inside
	r.enforcer.EnterRestrictedMode(r.allowedPackage)
	r.presenter.EnsureShown()

	r.reporter.ReportLockOutcome(client.ActionLock, string(origin), true, nil)
	return nil
}

// RequestUnlock durably records the unlocked state, then releases kiosk
// restrictions and broadcasts the dismiss signal. Symmetric to RequestLock;
// calling while already unlocked is a harmless re-apply.
func (r *Reconciler) RequestUnlock(ctx context.Context, origin TriggerOrigin) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := r.store.SetUnlocked(); err != nil {
		err = fmt.Errorf("persisting unlock state: %w", err)
		r.reporter.ReportLockOutcome(client.ActionUnlock, string(origin), false, err)
		return err
	}
	r.log.Infof("Device unlocked (origin: %s)", origin)

	r.enforcer.ExitRestrictedMode()
	// fire-and-forget: a UI presented later re-checks state on its own
	r.presenter.RequestDismiss()

	r.reporter.ReportLockOutcome(client.ActionUnlock, string(origin), true, nil)
	return nil
}

// Resync re-derives the desired enforcement purely from persisted state and
// re-drives it. This is the recovery path for boot, screen-on and the
// periodic monitor tick; it relies on no in-memory assumptions surviving a
// process death.
func (r *Reconciler) Resync(ctx context.Context, origin TriggerOrigin) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	state, err := r.store.LockState()
	if err != nil {
		return fmt.Errorf("reading lock state: %w", err)
	}

	if locked, message := state.Locked(); locked {
		r.log.Debugf("Resync (origin: %s): device is locked, re-driving enforcement: %s", origin, message)
		r.enforcer.EnterRestrictedMode(r.allowedPackage)
		r.presenter.EnsureShown()
		return nil
	}

	r.log.Debugf("Resync (origin: %s): device is unlocked", origin)
	r.enforcer.ExitRestrictedMode()
	r.presenter.RequestDismiss()
	return nil
}

// SetMessage overwrites the lock message while locked. Only effective while
// locked: on an unlocked device it is logged and ignored.
func (r *Reconciler) SetMessage(ctx context.Context, message string, origin TriggerOrigin) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	state, err := r.store.LockState()
	if err != nil {
		return fmt.Errorf("reading lock state: %w", err)
	}
	if !state.IsLocked {
		r.log.Warnf("Ignoring lock message update while unlocked (origin: %s)", origin)
		return nil
	}

	// re-locking with a new message reuses the idempotent lock path
	return r.RequestLock(ctx, message, origin)
}
