package admin

import (
	"errors"

	"github.com/finlock/finlock-agent/pkg/log"
)

// NonComplianceReason classifies why a policy field could not be enforced.
type NonComplianceReason string

const (
	NonComplianceAPILevel       NonComplianceReason = "API_LEVEL"
	NonComplianceManagementMode NonComplianceReason = "MANAGEMENT_MODE"
	NonComplianceUnknown        NonComplianceReason = "UNKNOWN"
)

// NonComplianceEntry records a single policy field that could not be
// enforced on this device. An empty list means fully compliant.
type NonComplianceEntry struct {
	Setting string              `json:"setting"`
	Reason  NonComplianceReason `json:"reason"`
	Detail  string              `json:"detail,omitempty"`
}

// Enforcer translates lock decisions and enterprise policy documents into
// device-admin calls. Restricted-mode transitions never fail the caller:
// partial failures are logged and the next trigger retries them.
type Enforcer struct {
	admin DeviceAdmin
	log   *log.PrefixLogger
}

func NewEnforcer(admin DeviceAdmin, log *log.PrefixLogger) *Enforcer {
	return &Enforcer{
		admin: admin,
		log:   log,
	}
}

// IsCapable reports whether enforcement is currently possible.
func (e *Enforcer) IsCapable() bool {
	return e.admin.IsDeviceOwner()
}

// EnterRestrictedMode pins the foreground to the allowed package and
// disables every escape surface the OS allows us to. Each step is
// independently retryable; failures are logged and skipped so the remaining
// steps still run.
func (e *Enforcer) EnterRestrictedMode(allowedPackage string) {
	if !e.admin.IsDeviceOwner() {
		e.log.Warn("Device owner capability not held, skipping kiosk enforcement")
		return
	}

	if err := e.admin.SetLockTaskPackages([]string{allowedPackage}); err != nil {
		e.log.Errorf("Failed to set lock task allow-list: %v", err)
	}
	if err := e.admin.SetStatusBarDisabled(true); err != nil {
		e.log.Errorf("Failed to disable status bar: %v", err)
	}
	if err := e.admin.SetKeyguardDisabled(true); err != nil {
		e.log.Errorf("Failed to disable keyguard: %v", err)
	}
	if err := e.admin.SetUserRestriction(RestrictionSafeBoot, true); err != nil {
		e.log.Errorf("Failed to disable safe boot: %v", err)
	}
	if err := e.admin.SetUserRestriction(RestrictionFactoryReset, true); err != nil {
		e.log.Errorf("Failed to disable factory reset: %v", err)
	}
}

// ExitRestrictedMode clears the kiosk allow-list and re-enables the system
// surfaces disabled on entry, except factory reset: that restriction guards
// the agent itself on a financed device and is owned by the enterprise
// policy document (FactoryResetDisabled), which lifts it when the financing
// settles, not when the device unlocks.
func (e *Enforcer) ExitRestrictedMode() {
	if !e.admin.IsDeviceOwner() {
		e.log.Warn("Device owner capability not held, skipping kiosk release")
		return
	}

	if err := e.admin.SetLockTaskPackages(nil); err != nil {
		e.log.Errorf("Failed to clear lock task allow-list: %v", err)
	}
	if err := e.admin.SetStatusBarDisabled(false); err != nil {
		e.log.Errorf("Failed to re-enable status bar: %v", err)
	}
	if err := e.admin.SetKeyguardDisabled(false); err != nil {
		e.log.Errorf("Failed to re-enable keyguard: %v", err)
	}
	if err := e.admin.SetUserRestriction(RestrictionSafeBoot, false); err != nil {
		e.log.Errorf("Failed to re-enable safe boot: %v", err)
	}
}

// ApplyPolicyDocument applies every present field of the document, field by
// field. Failing fields are recorded as non-compliance entries instead of
// aborting the whole application: a heterogeneous fleet of OS versions is
// expected, so policy application is best-effort and partial. Setters are
// idempotent and order-insensitive, which lets the caller re-apply the
// whole document on every sync without diffing.
func (e *Enforcer) ApplyPolicyDocument(doc *PolicyDocument) []NonComplianceEntry {
	entries := []NonComplianceEntry{}
	if doc == nil {
		return entries
	}

	for _, applier := range doc.appliers(e.admin) {
		if !applier.present {
			continue
		}
		if err := applier.apply(); err != nil {
			e.log.Warnf("Policy field %s not enforced: %v", applier.setting, err)
			entries = append(entries, NonComplianceEntry{
				Setting: applier.setting,
				Reason:  classifyReason(err),
				Detail:  err.Error(),
			})
			continue
		}
		e.log.Debugf("Policy field %s enforced", applier.setting)
	}
	return entries
}

func classifyReason(err error) NonComplianceReason {
	switch {
	case errors.Is(err, ErrUnsupportedAPILevel):
		return NonComplianceAPILevel
	case errors.Is(err, ErrManagementMode):
		return NonComplianceManagementMode
	default:
		return NonComplianceUnknown
	}
}
