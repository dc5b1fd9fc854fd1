package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/errors"
	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/samber/lo"
)

const (
	lockStateFile = "lock_state.json"
	identityFile  = "identity.json"
	// BootMirrorFile is the compact sidecar consulted on the boot fast path.
	BootMirrorFile = "boot_mirror.json"
)

// DeviceLockState is the canonical persisted lock entity. LockMessage and
// LockTimestamp are present if and only if IsLocked is true; the only
// mutators are SetLocked and SetUnlocked, so no partial pairing is ever
// written.
type DeviceLockState struct {
	IsLocked      bool    `json:"isLocked"`
	LockMessage   *string `json:"lockMessage,omitempty"`
	LockTimestamp *int64  `json:"lockTimestamp,omitempty"`
}

// Locked reports the lock flag together with the message, empty when unlocked.
func (s *DeviceLockState) Locked() (bool, string) {
	if !s.IsLocked {
		return false, ""
	}
	return true, lo.FromPtr(s.LockMessage)
}

// LockedAt returns the lock transition time, zero when unlocked.
func (s *DeviceLockState) LockedAt() time.Time {
	if s.LockTimestamp == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.LockTimestamp)
}

// EnrollmentIdentity binds the device install to a tenant and backend
// credential. Written once at provisioning; the push token sub-field may be
// refreshed at any time by the platform.
type EnrollmentIdentity struct {
	DeviceID             string `json:"deviceId"`
	Serial               string `json:"serial,omitempty"`
	IMEI                 string `json:"imei,omitempty"`
	TenantID             string `json:"tenantId"`
	EnrollmentCredential string `json:"enrollmentCredential,omitempty"`
	PushToken            string `json:"pushToken,omitempty"`
	// PushTokenPendingAnnounce is set when a rotated token has been persisted
	// but not yet acknowledged by the backend.
	PushTokenPendingAnnounce bool `json:"pushTokenPendingAnnounce,omitempty"`
	SetupComplete            bool `json:"setupComplete"`
}

// BootMirror is the synchronously readable subset of persisted state needed
// before the full store is constructed, within the OS boot broadcast budget.
type BootMirror struct {
	IsLocked      bool `json:"isLocked"`
	SetupComplete bool `json:"setupComplete"`
}

// Store owns the persisted device state. All read-modify-write sequences are
// serialized behind a single mutex; concurrent lock and unlock requests
// resolve to one consistent final state.
type Store struct {
	dataDir    string
	readWriter fileio.ReadWriter

	mu  sync.Mutex
	log *log.PrefixLogger
}

func NewStore(dataDir string, readWriter fileio.ReadWriter, log *log.PrefixLogger) *Store {
	return &Store{
		dataDir:    dataDir,
		readWriter: readWriter,
		log:        log,
	}
}

// Ensure creates any missing state files with initial values. Existing state
// survives untouched, so a process restart recovers the prior lock state.
func (s *Store) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.readWriter.PathExists(s.path(lockStateFile))
	if err != nil {
		return err
	}
	if !exists {
		s.log.Warnf("Lock state file does not exist, resetting to unlocked")
		if err := s.writeLockState(&DeviceLockState{}); err != nil {
			return err
		}
	}

	exists, err = s.readWriter.PathExists(s.path(identityFile))
	if err != nil {
		return err
	}
	if !exists {
		if err := s.writeIdentity(&EnrollmentIdentity{}); err != nil {
			return err
		}
	}

	return nil
}

// LockState returns a point-in-time snapshot of the persisted lock state.
func (s *Store) LockState() (*DeviceLockState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLockState()
}

// SetLocked persists the locked state with its message and timestamp as one
// atomic write, then refreshes the boot mirror.
func (s *Store) SetLocked(message string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &DeviceLockState{
		IsLocked:      true,
		LockMessage:   lo.ToPtr(message),
		LockTimestamp: lo.ToPtr(now.UnixMilli()),
	}
	return s.writeLockState(state)
}

// SetUnlocked persists the unlocked state, clearing message and timestamp.
func (s *Store) SetUnlocked() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLockState(&DeviceLockState{})
}

// Identity returns the persisted enrollment identity.
func (s *Store) Identity() (*EnrollmentIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIdentity()
}

// SetIdentity persists the enrollment identity wholesale.
func (s *Store) SetIdentity(identity *EnrollmentIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeIdentity(identity); err != nil {
		return err
	}
	return s.writeBootMirror()
}

// UpdateIdentity applies the mutation to the persisted identity under the
// store lock, avoiding lost updates from concurrent writers.
func (s *Store) UpdateIdentity(mutate func(*EnrollmentIdentity)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, err := s.readIdentity()
	if err != nil {
		return err
	}
	mutate(identity)
	if err := s.writeIdentity(identity); err != nil {
		return err
	}
	return s.writeBootMirror()
}

// Reset clears all persisted state back to first-provisioning defaults. Test
// and debug data-clear path only.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeIdentity(&EnrollmentIdentity{}); err != nil {
		return err
	}
	// writing the lock state last also refreshes the boot mirror
	return s.writeLockState(&DeviceLockState{})
}

// ReadBootMirror reads the compact boot mirror without constructing a Store.
// It exists for the platform's boot receiver, which must decide whether to
// throw up the lock screen before the agent process has assembled. A missing
// mirror reads as unlocked and setup-incomplete, which causes the boot path
// to fall through to the full store.
func ReadBootMirror(path string) (*BootMirror, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &BootMirror{}, nil
		}
		return nil, fmt.Errorf("%w: reading boot mirror: %w", errors.ErrReadingState, err)
	}

	var mirror BootMirror
	if err := json.Unmarshal(data, &mirror); err != nil {
		return nil, fmt.Errorf("%w: boot mirror: %w", errors.ErrUnmarshalState, err)
	}
	return &mirror, nil
}

// BootMirrorPath returns the on-disk location of the boot mirror for the
// given data directory, so the boot receiver and the Store agree on the
// path without sharing an instance.
func BootMirrorPath(dataDir string) string {
	return filepath.Join(dataDir, BootMirrorFile)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Store) readLockState() (*DeviceLockState, error) {
	var state DeviceLockState
	if err := s.readJSON(lockStateFile, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) writeLockState(state *DeviceLockState) error {
	if err := s.writeJSON(lockStateFile, state); err != nil {
		return err
	}
	return s.writeBootMirror()
}

func (s *Store) readIdentity() (*EnrollmentIdentity, error) {
	var identity EnrollmentIdentity
	if err := s.readJSON(identityFile, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *Store) writeIdentity(identity *EnrollmentIdentity) error {
	return s.writeJSON(identityFile, identity)
}

// writeBootMirror rewrites the sidecar from current full state. Mirror
// failures are logged but not fatal: the mirror is an optimization, the full
// state files remain the source of truth.
func (s *Store) writeBootMirror() error {
	state, err := s.readLockState()
	if err != nil {
		s.log.Warnf("Skipping boot mirror update, lock state unreadable: %v", err)
		return nil
	}
	identity, err := s.readIdentity()
	if err != nil {
		// identity file may not exist yet during Ensure
		identity = &EnrollmentIdentity{}
	}

	mirror := BootMirror{
		IsLocked:      state.IsLocked,
		SetupComplete: identity.SetupComplete,
	}
	if err := s.writeJSON(BootMirrorFile, &mirror); err != nil {
		s.log.Warnf("Failed to update boot mirror: %v", err)
	}
	return nil
}

func (s *Store) readJSON(name string, out interface{}) error {
	data, err := s.readWriter.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q: %w", errors.ErrMissingState, name, err)
		}
		return fmt.Errorf("%w: %q: %w", errors.ErrReadingState, name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %q: %w", errors.ErrUnmarshalState, name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, in interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", errors.ErrWritingState, name, err)
	}
	if err := s.readWriter.WriteFile(s.path(name), data, fileio.DefaultFilePermissions); err != nil {
		return fmt.Errorf("%w: %q: %w", errors.ErrWritingState, name, err)
	}
	return nil
}
