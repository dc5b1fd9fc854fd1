package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/errors"
	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/finlock/finlock-agent/pkg/poll"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	calls    int
	failures int
	tokens   []string
}

func (f *fakeRegistrar) RegisterPushToken(_ context.Context, _, token string) error {
	f.calls++
	if f.calls <= f.failures {
		return fmt.Errorf("push gateway unavailable")
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *store.Store, *fakeRegistrar) {
	tmpDir := t.TempDir()
	rw := fileio.NewReadWriter()
	rw.SetRootdir(tmpDir)
	s := store.NewStore("/var/lib/finlock", rw, log.NewPrefixLogger("store"))
	require.NoError(t, s.Ensure())

	registrar := &fakeRegistrar{}
	return NewManager(s, registrar, log.NewPrefixLogger("identity")), s, registrar
}

func fastBackoff(t *testing.T) {
	t.Helper()
	orig := announceBackoff
	announceBackoff = &poll.Config{
		BaseDelay:   time.Millisecond,
		Factor:      1,
		MaxAttempts: orig.MaxAttempts,
	}
	t.Cleanup(func() { announceBackoff = orig })
}

func TestProvisionGeneratesDeviceID(t *testing.T) {
	require := require.New(t)
	m, s, _ := newTestManager(t)

	identity, err := m.Provision(ProvisionRequest{TenantID: "tenant-1", Serial: "SN123"})
	require.NoError(err)
	require.NotEmpty(identity.DeviceID)

	persisted, err := s.Identity()
	require.NoError(err)
	require.Equal(identity.DeviceID, persisted.DeviceID)
	require.Equal("tenant-1", persisted.TenantID)
	require.Equal("SN123", persisted.Serial)
	require.False(persisted.SetupComplete)

	provisioned, err := m.IsProvisioned()
	require.NoError(err)
	require.True(provisioned)
}

func TestProvisionKeepsCallerDeviceID(t *testing.T) {
	require := require.New(t)
	m, _, _ := newTestManager(t)

	identity, err := m.Provision(ProvisionRequest{DeviceID: "dev-7", TenantID: "tenant-1"})
	require.NoError(err)
	require.Equal("dev-7", identity.DeviceID)
}

func TestProvisionRejectsSecondEnrollment(t *testing.T) {
	require := require.New(t)
	m, _, _ := newTestManager(t)

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)

	_, err = m.Provision(ProvisionRequest{TenantID: "tenant-2"})
	require.ErrorIs(err, errors.ErrNoRetry)
}

func TestProvisionRequiresTenant(t *testing.T) {
	require := require.New(t)
	m, _, _ := newTestManager(t)

	_, err := m.Provision(ProvisionRequest{})
	require.ErrorIs(err, errors.ErrNoRetry)
}

func TestCompleteSetupPersists(t *testing.T) {
	require := require.New(t)
	m, s, _ := newTestManager(t)

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)
	require.NoError(m.CompleteSetup())

	identity, err := s.Identity()
	require.NoError(err)
	require.True(identity.SetupComplete)
}

func TestSetPushTokenPersistsThenAnnounces(t *testing.T) {
	require := require.New(t)
	m, s, registrar := newTestManager(t)

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)
	require.NoError(m.SetPushToken(context.Background(), "tok-1"))

	require.Equal([]string{"tok-1"}, registrar.tokens)
	identity, err := s.Identity()
	require.NoError(err)
	require.Equal("tok-1", identity.PushToken)
	require.False(identity.PushTokenPendingAnnounce)
}

func TestSetPushTokenBeforeProvisioningFails(t *testing.T) {
	require := require.New(t)
	m, _, _ := newTestManager(t)

	err := m.SetPushToken(context.Background(), "tok-1")
	require.ErrorIs(err, errors.ErrNotProvisioned)
}

func TestSetPushTokenKeepsTokenWhenAnnounceFails(t *testing.T) {
	require := require.New(t)
	fastBackoff(t)
	m, s, registrar := newTestManager(t)
	registrar.failures = 100

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)

	err = m.SetPushToken(context.Background(), "tok-1")
	require.Error(err)
	require.Equal(announceBackoff.MaxAttempts, registrar.calls)

	// the token itself must survive the failed announcement
	identity, err := s.Identity()
	require.NoError(err)
	require.Equal("tok-1", identity.PushToken)
	require.True(identity.PushTokenPendingAnnounce)
}

func TestAnnouncePendingSelfHeals(t *testing.T) {
	require := require.New(t)
	fastBackoff(t)
	m, s, registrar := newTestManager(t)
	registrar.failures = announceBackoff.MaxAttempts

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)
	require.Error(m.SetPushToken(context.Background(), "tok-1"))

	// next trigger retries and clears the pending flag
	require.NoError(m.AnnouncePending(context.Background()))
	require.Equal([]string{"tok-1"}, registrar.tokens)

	identity, err := s.Identity()
	require.NoError(err)
	require.False(identity.PushTokenPendingAnnounce)
}

func TestAnnouncePendingNoopWhenNothingPending(t *testing.T) {
	require := require.New(t)
	m, _, registrar := newTestManager(t)

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)
	require.NoError(m.AnnouncePending(context.Background()))
	require.Zero(registrar.calls)
}

func TestSetPushTokenUnchangedTokenIsNoop(t *testing.T) {
	require := require.New(t)
	m, _, registrar := newTestManager(t)

	_, err := m.Provision(ProvisionRequest{TenantID: "tenant-1"})
	require.NoError(err)
	require.NoError(m.SetPushToken(context.Background(), "tok-1"))
	require.NoError(m.SetPushToken(context.Background(), "tok-1"))
	require.Equal(1, registrar.calls)
}
