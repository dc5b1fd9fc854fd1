package presentation

import (
	"sync"

	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/kataras/go-events"
)

// State of the blocking lock presentation.
type State string

const (
	StateNotShown      State = "NOT_SHOWN"
	StateShownEnforced State = "SHOWN_ENFORCED"
	StateDismissing    State = "DISMISSING"
)

// dismissEvent is the local broadcast asking a presented lock UI to go away.
const dismissEvent events.EventName = "lockui.dismiss"

// Presenter abstracts the UI layer that renders the blocking full-screen
// lock presentation. Implementations must be safe to call repeatedly: Show
// on an already-visible presentation updates the message in place.
type Presenter interface {
	Show(message string) error
	BringToFront() error
	Dismiss() error
}

type stateReader interface {
	LockState() (*store.DeviceLockState, error)
}

// Manager drives the presentation visibility state machine. Every transition
// re-reads the persisted lock state as the last step before acting: neither
// the trigger that fired nor a dismiss event is trusted on its own, since
// state may have changed between the trigger firing and it being handled.
type Manager struct {
	store     stateReader
	presenter Presenter
	bus       events.EventEmmiter

	mu    sync.Mutex
	state State

	log *log.PrefixLogger
}

func NewManager(store stateReader, presenter Presenter, log *log.PrefixLogger) *Manager {
	m := &Manager{
		store:     store,
		presenter: presenter,
		bus:       events.New(),
		state:     StateNotShown,
		log:       log,
	}
	m.bus.On(dismissEvent, func(...interface{}) {
		m.handleDismiss()
	})
	return m
}

// State returns the current presentation state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// EnsureShown presents the lock UI if, and only if, the freshest read of the
// persisted state says the device is locked. Safe to call from every trigger
// source; showing while already shown refreshes the message.
func (m *Manager) EnsureShown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// freshest read, last thing before presenting
	state, err := m.store.LockState()
	if err != nil {
		m.log.Errorf("Skipping lock presentation, state unreadable: %v", err)
		return
	}
	locked, message := state.Locked()
	if !locked {
		// an unlock may have raced the trigger; converge instead of trusting it
		m.dismissLocked()
		return
	}

	if err := m.presenter.Show(message); err != nil {
		m.log.Errorf("Failed to present lock screen: %v", err)
		return
	}
	m.state = StateShownEnforced
}

// RequestDismiss broadcasts the dismiss signal. Fire-and-forget: if no lock
// UI is currently presented this is a no-op, and a UI presented later must
// independently re-check state on its own startup path.
func (m *Manager) RequestDismiss() {
	m.bus.Emit(dismissEvent)
}

// OnFocusLost is the self-healing hook: while enforced, a presentation that
// lost the foreground re-asserts itself, unless the persisted state says we
// are no longer locked.
func (m *Manager) OnFocusLost() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateShownEnforced {
		return
	}

	state, err := m.store.LockState()
	if err != nil {
		m.log.Errorf("Focus-lost recheck failed, reasserting presentation: %v", err)
		if err := m.presenter.BringToFront(); err != nil {
			m.log.Errorf("Failed to re-assert lock screen: %v", err)
		}
		return
	}
	if !state.IsLocked {
		m.dismissLocked()
		return
	}

	if err := m.presenter.BringToFront(); err != nil {
		m.log.Errorf("Failed to re-assert lock screen: %v", err)
	}
}

func (m *Manager) handleDismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// a dismiss event may carry stale intent; the persisted state decides
	state, err := m.store.LockState()
	if err != nil {
		m.log.Errorf("Ignoring dismiss signal, state unreadable: %v", err)
		return
	}
	if state.IsLocked {
		m.log.Warn("Ignoring dismiss signal while device is still locked")
		return
	}

	m.dismissLocked()
}

// dismissLocked runs the SHOWN_ENFORCED -> DISMISSING -> NOT_SHOWN path.
// Callers hold m.mu.
func (m *Manager) dismissLocked() {
	if m.state != StateShownEnforced {
		return
	}
	m.state = StateDismissing
	if err := m.presenter.Dismiss(); err != nil {
		m.log.Errorf("Failed to dismiss lock screen: %v", err)
	}
	m.state = StateNotShown
}
