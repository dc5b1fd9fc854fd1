package admin

import (
	"errors"
	"time"
)

var (
	// ErrUnsupportedAPILevel indicates the OS version on this handset does not
	// implement the requested setter.
	ErrUnsupportedAPILevel = errors.New("setter unsupported at this API level")
	// ErrManagementMode indicates the call requires a management mode the app
	// does not currently hold (device owner revoked or never granted).
	ErrManagementMode = errors.New("call rejected for current management mode")
)

// User restriction keys understood by the device-owner API.
const (
	RestrictionFactoryReset    = "no_factory_reset"
	RestrictionInstallApps     = "no_install_unknown_sources"
	RestrictionSafeBoot        = "no_safe_boot"
	RestrictionUsbFileTransfer = "no_usb_file_transfer"
	RestrictionAddUser         = "no_add_user"
)

// DeviceAdmin is a thin capability over the OS device-administration
// primitives. Every setter is independently idempotent and retryable; the
// capability may or may not be held (IsDeviceOwner) and callers decide how
// to degrade when it is not.
type DeviceAdmin interface {
	// IsDeviceOwner reports whether the app holds the device-owner privilege.
	IsDeviceOwner() bool

	// SetLockTaskPackages sets the kiosk allow-list. An empty list clears it.
	SetLockTaskPackages(packages []string) error
	// SetStatusBarDisabled suppresses the status bar and quick settings.
	SetStatusBarDisabled(disabled bool) error
	// SetKeyguardDisabled suppresses the lock screen keyguard.
	SetKeyguardDisabled(disabled bool) error
	// SetUserRestriction toggles a named user restriction.
	SetUserRestriction(restriction string, enabled bool) error
	// SetCameraDisabled toggles the camera disable policy.
	SetCameraDisabled(disabled bool) error
	// SetAppHidden hides or reveals an installed package.
	SetAppHidden(pkg string, hidden bool) error
	// SetMaximumTimeToLock caps the screen-off timeout.
	SetMaximumTimeToLock(d time.Duration) error
	// ResetPasscode replaces the device passcode.
	ResetPasscode(pin string) error
	// Reboot restarts the device.
	Reboot() error
}
