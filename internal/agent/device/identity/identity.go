package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/errors"
	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/finlock/finlock-agent/pkg/poll"
	"github.com/google/uuid"
)

var announceBackoff = &poll.Config{
	BaseDelay:   500 * time.Millisecond,
	Factor:      2,
	MaxDelay:    5 * time.Second,
	MaxAttempts: 3,
}

type identityStore interface {
	Identity() (*store.EnrollmentIdentity, error)
	SetIdentity(identity *store.EnrollmentIdentity) error
	UpdateIdentity(mutate func(*store.EnrollmentIdentity)) error
}

type tokenRegistrar interface {
	RegisterPushToken(ctx context.Context, deviceID, token string) error
}

// ProvisionRequest carries the enrollment inputs collected during device
// setup. DeviceID is optional; a fresh one is generated when absent.
type ProvisionRequest struct {
	DeviceID             string
	Serial               string
	IMEI                 string
	TenantID             string
	EnrollmentCredential string
}

// Manager owns the enrollment identity lifecycle: one-time provisioning,
// push token rotation, and the setup-complete transition.
type Manager struct {
	store   identityStore
	backend tokenRegistrar
	log     *log.PrefixLogger
}

func NewManager(store identityStore, backend tokenRegistrar, log *log.PrefixLogger) *Manager {
	return &Manager{
		store:   store,
		backend: backend,
		log:     log,
	}
}

// Provision writes the enrollment identity. Provisioning an already
// provisioned device is rejected; re-enrollment goes through a state reset
// first.
func (m *Manager) Provision(req ProvisionRequest) (*store.EnrollmentIdentity, error) {
	current, err := m.store.Identity()
	if err != nil {
		return nil, err
	}
	if current.DeviceID != "" {
		return nil, fmt.Errorf("%w: device %s already provisioned", errors.ErrNoRetry, current.DeviceID)
	}
	if req.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", errors.ErrNoRetry)
	}

	identity := &store.EnrollmentIdentity{
		DeviceID:             req.DeviceID,
		Serial:               req.Serial,
		IMEI:                 req.IMEI,
		TenantID:             req.TenantID,
		EnrollmentCredential: req.EnrollmentCredential,
	}
	if identity.DeviceID == "" {
		identity.DeviceID = uuid.NewString()
	}
	if err := m.store.SetIdentity(identity); err != nil {
		return nil, err
	}

	m.log.Infof("Provisioned device %s for tenant %s", identity.DeviceID, identity.TenantID)
	return identity, nil
}

// IsProvisioned reports whether an enrollment identity exists.
func (m *Manager) IsProvisioned() (bool, error) {
	identity, err := m.store.Identity()
	if err != nil {
		return false, err
	}
	return identity.DeviceID != "", nil
}

// CompleteSetup marks the guided setup flow finished. The flag feeds the
// boot mirror so the boot fast path can tell a half-enrolled install apart
// from a managed one.
func (m *Manager) CompleteSetup() error {
	return m.store.UpdateIdentity(func(identity *store.EnrollmentIdentity) {
		identity.SetupComplete = true
	})
}

// SetPushToken persists a rotated push token, then announces it to the
// backend. Persist happens first: a token the backend never heard about is
// recoverable via AnnouncePending, a token only the backend knows is lost on
// restart.
func (m *Manager) SetPushToken(ctx context.Context, token string) error {
	identity, err := m.store.Identity()
	if err != nil {
		return err
	}
	if identity.DeviceID == "" {
		return errors.ErrNotProvisioned
	}
	if identity.PushToken == token && !identity.PushTokenPendingAnnounce {
		return nil
	}

	if err := m.store.UpdateIdentity(func(identity *store.EnrollmentIdentity) {
		identity.PushToken = token
		identity.PushTokenPendingAnnounce = true
	}); err != nil {
		return err
	}

	return m.announce(ctx, identity.DeviceID, token)
}

// AnnouncePending retries the backend announcement for a persisted token
// whose registration never succeeded. Called on startup and from the
// periodic monitor; a no-op when nothing is pending.
func (m *Manager) AnnouncePending(ctx context.Context) error {
	identity, err := m.store.Identity()
	if err != nil {
		return err
	}
	if !identity.PushTokenPendingAnnounce || identity.DeviceID == "" {
		return nil
	}
	m.log.Infof("Re-announcing push token pending since last run")
	return m.announce(ctx, identity.DeviceID, identity.PushToken)
}

func (m *Manager) announce(ctx context.Context, deviceID, token string) error {
	err := poll.Retry(ctx, announceBackoff, func(ctx context.Context) (bool, error) {
		if err := m.backend.RegisterPushToken(ctx, deviceID, token); err != nil {
			m.log.Warnf("Push token registration failed: %v", err)
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		// token stays flagged as pending, a later trigger re-announces it
		return fmt.Errorf("announcing push token: %w", err)
	}

	return m.store.UpdateIdentity(func(identity *store.EnrollmentIdentity) {
		// a newer rotation may have raced the announcement
		if identity.PushToken == token {
			identity.PushTokenPendingAnnounce = false
		}
	})
}
