package presentation

import (
	"sync"
	"testing"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/stretchr/testify/require"
)

type fakePresenter struct {
	mu           sync.Mutex
	shows        []string
	bringToFront int
	dismissed    int
}

func (f *fakePresenter) Show(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows = append(f.shows, message)
	return nil
}

func (f *fakePresenter) BringToFront() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bringToFront++
	return nil
}

func (f *fakePresenter) Dismiss() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed++
	return nil
}

func (f *fakePresenter) showCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shows)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	rw := fileio.NewReadWriter()
	rw.SetRootdir(t.TempDir())
	s := store.NewStore("/var/lib/finlock", rw, log.NewPrefixLogger("test"))
	require.NoError(t, s.Ensure())
	return s
}

func TestEnsureShownPresentsWhenLocked(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	require.NoError(s.SetLocked("Payment overdue", time.Now()))

	m.EnsureShown()
	require.Equal(StateShownEnforced, m.State())
	require.Equal([]string{"Payment overdue"}, presenter.shows)
}

func TestEnsureShownNoopWhenUnlocked(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	// trigger fired, but the freshest state read says unlocked
	m.EnsureShown()
	require.Equal(StateNotShown, m.State())
	require.Zero(presenter.showCount())
}

func TestUnlockThenDismissSignal(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	require.NoError(s.SetLocked("overdue", time.Now()))
	m.EnsureShown()
	require.Equal(StateShownEnforced, m.State())

	require.NoError(s.SetUnlocked())
	m.RequestDismiss()

	require.Equal(StateNotShown, m.State())
	require.Equal(1, presenter.dismissed)
}

func TestStaleDismissSignalIsIgnoredWhileLocked(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	require.NoError(s.SetLocked("overdue", time.Now()))
	m.EnsureShown()

	// dismiss arrives but persisted state still says locked
	m.RequestDismiss()
	require.Equal(StateShownEnforced, m.State())
	require.Zero(presenter.dismissed)
}

func TestDismissWithNoPresentationIsNoop(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	m.RequestDismiss()
	require.Equal(StateNotShown, m.State())
	require.Zero(presenter.dismissed)
}

func TestFocusLostReassertsWhileLocked(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	require.NoError(s.SetLocked("overdue", time.Now()))
	m.EnsureShown()

	m.OnFocusLost()
	require.Equal(1, presenter.bringToFront)
	require.Equal(StateShownEnforced, m.State())
}

func TestFocusLostConvergesAfterUnlock(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	require.NoError(s.SetLocked("overdue", time.Now()))
	m.EnsureShown()

	// unlock persisted, but the dismiss broadcast was lost
	require.NoError(s.SetUnlocked())
	m.OnFocusLost()

	require.Equal(StateNotShown, m.State())
	require.Equal(1, presenter.dismissed)
	require.Zero(presenter.bringToFront)
}

func TestEnsureShownWhileAlreadyShownRefreshesMessage(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)
	presenter := &fakePresenter{}
	m := NewManager(s, presenter, log.NewPrefixLogger("test"))

	require.NoError(s.SetLocked("first", time.Now()))
	m.EnsureShown()
	require.NoError(s.SetLocked("second", time.Now()))
	m.EnsureShown()

	require.Equal([]string{"first", "second"}, presenter.shows)
	require.Equal(StateShownEnforced, m.State())
}
