package agent

import (
	"context"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/internal/agent/device/admin"
	"github.com/finlock/finlock-agent/internal/agent/device/location"
	"github.com/finlock/finlock-agent/internal/agent/device/presentation"
)

// Platform bundles the host-side capability adapters the agent core drives.
// The embedding application supplies real implementations; absent adapters
// fall back to inert defaults so the core still runs headless.
type Platform struct {
	Admin     admin.DeviceAdmin
	Presenter presentation.Presenter
	Location  location.Provider
}

func (p Platform) withDefaults() Platform {
	if p.Admin == nil {
		p.Admin = noopAdmin{}
	}
	if p.Presenter == nil {
		p.Presenter = noopPresenter{}
	}
	if p.Location == nil {
		p.Location = noopLocation{}
	}
	return p
}

// noopAdmin reports no management capability; every enforcement call is
// accepted and ignored.
type noopAdmin struct{}

func (noopAdmin) IsDeviceOwner() bool { return false }
func (noopAdmin) SetLockTaskPackages([]string) error { return nil }
func (noopAdmin) SetStatusBarDisabled(bool) error { return nil }
func (noopAdmin) SetKeyguardDisabled(bool) error { return nil }
func (noopAdmin) SetUserRestriction(string, bool) error { return nil }
func (noopAdmin) SetCameraDisabled(bool) error { return nil }
func (noopAdmin) SetAppHidden(string, bool) error { return nil }
func (noopAdmin) SetMaximumTimeToLock(time.Duration) error { return nil }
func (noopAdmin) ResetPasscode(string) error { return nil }
func (noopAdmin) Reboot() error { return nil }

type noopPresenter struct{}

func (noopPresenter) Show(string) error { return nil }
func (noopPresenter) BringToFront() error { return nil }
func (noopPresenter) Dismiss() error { return nil }

type noopLocation struct{}

func (noopLocation) CurrentFix(context.Context) (*client.LocationFix, error) {
	return nil, nil
}
