package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	rw := fileio.NewReadWriter()
	rw.SetRootdir(tmpDir)
	s := NewStore("/var/lib/finlock", rw, log.NewPrefixLogger("test"))
	require.NoError(t, s.Ensure())
	return s, tmpDir
}

func TestEnsureCreatesInitialUnlockedState(t *testing.T) {
	require := require.New(t)
	s, _ := newTestStore(t)

	state, err := s.LockState()
	require.NoError(err)
	require.False(state.IsLocked)
	require.Nil(state.LockMessage)
	require.Nil(state.LockTimestamp)
}

func TestLockStatePairingInvariant(t *testing.T) {
	require := require.New(t)
	s, _ := newTestStore(t)

	now := time.Now()
	require.NoError(s.SetLocked("Payment overdue", now))

	state, err := s.LockState()
	require.NoError(err)
	require.True(state.IsLocked)
	require.NotNil(state.LockMessage)
	require.Equal("Payment overdue", *state.LockMessage)
	require.NotNil(state.LockTimestamp)
	require.Equal(now.UnixMilli(), *state.LockTimestamp)

	require.NoError(s.SetUnlocked())
	state, err = s.LockState()
	require.NoError(err)
	require.False(state.IsLocked)
	require.Nil(state.LockMessage)
	require.Nil(state.LockTimestamp)
}

func TestLockStateSurvivesRestart(t *testing.T) {
	require := require.New(t)
	tmpDir := t.TempDir()
	rw := fileio.NewReadWriter()
	rw.SetRootdir(tmpDir)

	s := NewStore("/var/lib/finlock", rw, log.NewPrefixLogger("test"))
	require.NoError(s.Ensure())
	require.NoError(s.SetLocked("Payment overdue", time.Now()))

	// simulate process restart: fresh store over the same directory
	restarted := NewStore("/var/lib/finlock", rw, log.NewPrefixLogger("test"))
	require.NoError(restarted.Ensure())

	state, err := restarted.LockState()
	require.NoError(err)
	locked, message := state.Locked()
	require.True(locked)
	require.Equal("Payment overdue", message)
}

func TestConcurrentLockUnlockConverges(t *testing.T) {
	require := require.New(t)
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.SetLocked("A", time.Now())
	}()
	go func() {
		defer wg.Done()
		_ = s.SetUnlocked()
	}()
	wg.Wait()

	state, err := s.LockState()
	require.NoError(err)
	// exactly one of the two final states, never a mixed pairing
	if state.IsLocked {
		require.NotNil(state.LockMessage)
		require.Equal("A", *state.LockMessage)
		require.NotNil(state.LockTimestamp)
	} else {
		require.Nil(state.LockMessage)
		require.Nil(state.LockTimestamp)
	}
}

func TestBootMirrorFastPath(t *testing.T) {
	require := require.New(t)
	s, tmpDir := newTestStore(t)

	require.NoError(s.SetLocked("overdue", time.Now()))
	require.NoError(s.UpdateIdentity(func(identity *EnrollmentIdentity) {
		identity.DeviceID = "d-1"
		identity.SetupComplete = true
	}))

	// read the mirror directly from disk, no store needed
	mirror, err := ReadBootMirror(filepath.Join(tmpDir, BootMirrorPath("/var/lib/finlock")))
	require.NoError(err)
	require.True(mirror.IsLocked)
	require.True(mirror.SetupComplete)

	require.NoError(s.SetUnlocked())
	mirror, err = ReadBootMirror(filepath.Join(tmpDir, BootMirrorPath("/var/lib/finlock")))
	require.NoError(err)
	require.False(mirror.IsLocked)
	require.True(mirror.SetupComplete)
}

func TestBootMirrorMissingReadsAsDefaults(t *testing.T) {
	require := require.New(t)
	mirror, err := ReadBootMirror(filepath.Join(t.TempDir(), BootMirrorFile))
	require.NoError(err)
	require.False(mirror.IsLocked)
	require.False(mirror.SetupComplete)
}

func TestIdentityUpdate(t *testing.T) {
	require := require.New(t)
	s, _ := newTestStore(t)

	require.NoError(s.UpdateIdentity(func(identity *EnrollmentIdentity) {
		identity.DeviceID = "d-42"
		identity.TenantID = "shop-7"
		identity.PushToken = "tok-1"
	}))

	identity, err := s.Identity()
	require.NoError(err)
	require.Equal("d-42", identity.DeviceID)
	require.Equal("shop-7", identity.TenantID)
	require.Equal("tok-1", identity.PushToken)

	require.NoError(s.UpdateIdentity(func(identity *EnrollmentIdentity) {
		identity.PushToken = "tok-2"
		identity.PushTokenPendingAnnounce = true
	}))

	identity, err = s.Identity()
	require.NoError(err)
	require.Equal("d-42", identity.DeviceID)
	require.Equal("tok-2", identity.PushToken)
	require.True(identity.PushTokenPendingAnnounce)
}

func TestResetClearsState(t *testing.T) {
	require := require.New(t)
	s, _ := newTestStore(t)

	require.NoError(s.SetLocked("overdue", time.Now()))
	require.NoError(s.UpdateIdentity(func(identity *EnrollmentIdentity) {
		identity.DeviceID = "d-1"
		identity.SetupComplete = true
	}))

	require.NoError(s.Reset())

	state, err := s.LockState()
	require.NoError(err)
	require.False(state.IsLocked)

	identity, err := s.Identity()
	require.NoError(err)
	require.Empty(identity.DeviceID)
	require.False(identity.SetupComplete)
}
