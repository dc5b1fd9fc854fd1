package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// PolicyDocument is the sparse enterprise policy consumed by the enforcer.
// It reflects an external, partially-trusted schema: every field is
// optional, and only present fields are enforced. Unknown fields in the
// source document are ignored.
type PolicyDocument struct {
	CameraDisabled          *bool    `mapstructure:"cameraDisabled" json:"cameraDisabled,omitempty"`
	StatusBarDisabled       *bool    `mapstructure:"statusBarDisabled" json:"statusBarDisabled,omitempty"`
	KeyguardDisabled        *bool    `mapstructure:"keyguardDisabled" json:"keyguardDisabled,omitempty"`
	FactoryResetDisabled    *bool    `mapstructure:"factoryResetDisabled" json:"factoryResetDisabled,omitempty"`
	InstallAppsDisabled     *bool    `mapstructure:"installAppsDisabled" json:"installAppsDisabled,omitempty"`
	SafeBootDisabled        *bool    `mapstructure:"safeBootDisabled" json:"safeBootDisabled,omitempty"`
	UsbFileTransferDisabled *bool    `mapstructure:"usbFileTransferDisabled" json:"usbFileTransferDisabled,omitempty"`
	AddUserDisabled         *bool    `mapstructure:"addUserDisabled" json:"addUserDisabled,omitempty"`
	MaximumTimeToLockMs     *int64   `mapstructure:"maximumTimeToLock" json:"maximumTimeToLock,omitempty"`
	HiddenPackages          []string `mapstructure:"hiddenPackages" json:"hiddenPackages,omitempty"`
}

// DecodePolicyDocument decodes a loose document (as delivered by the
// backend) into a PolicyDocument, tolerating JSON numbers and weak typing.
func DecodePolicyDocument(raw map[string]interface{}) (*PolicyDocument, error) {
	var doc PolicyDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building policy decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding policy document: %w", err)
	}
	return &doc, nil
}

// appliers returns the field-by-field dispatch table for the document. Each
// applier reports whether its field was present; order is irrelevant since
// no setter depends on another having run first.
func (doc *PolicyDocument) appliers(admin DeviceAdmin) []policyApplier {
	return []policyApplier{
		{
			setting: "cameraDisabled",
			present: doc.CameraDisabled != nil,
			apply: func() error {
				return admin.SetCameraDisabled(lo.FromPtr(doc.CameraDisabled))
			},
		},
		{
			setting: "statusBarDisabled",
			present: doc.StatusBarDisabled != nil,
			apply: func() error {
				return admin.SetStatusBarDisabled(lo.FromPtr(doc.StatusBarDisabled))
			},
		},
		{
			setting: "keyguardDisabled",
			present: doc.KeyguardDisabled != nil,
			apply: func() error {
				return admin.SetKeyguardDisabled(lo.FromPtr(doc.KeyguardDisabled))
			},
		},
		{
			setting: "factoryResetDisabled",
			present: doc.FactoryResetDisabled != nil,
			apply: func() error {
				return admin.SetUserRestriction(RestrictionFactoryReset, lo.FromPtr(doc.FactoryResetDisabled))
			},
		},
		{
			setting: "installAppsDisabled",
			present: doc.InstallAppsDisabled != nil,
			apply: func() error {
				return admin.SetUserRestriction(RestrictionInstallApps, lo.FromPtr(doc.InstallAppsDisabled))
			},
		},
		{
			setting: "safeBootDisabled",
			present: doc.SafeBootDisabled != nil,
			apply: func() error {
				return admin.SetUserRestriction(RestrictionSafeBoot, lo.FromPtr(doc.SafeBootDisabled))
			},
		},
		{
			setting: "usbFileTransferDisabled",
			present: doc.UsbFileTransferDisabled != nil,
			apply: func() error {
				return admin.SetUserRestriction(RestrictionUsbFileTransfer, lo.FromPtr(doc.UsbFileTransferDisabled))
			},
		},
		{
			setting: "addUserDisabled",
			present: doc.AddUserDisabled != nil,
			apply: func() error {
				return admin.SetUserRestriction(RestrictionAddUser, lo.FromPtr(doc.AddUserDisabled))
			},
		},
		{
			setting: "maximumTimeToLock",
			present: doc.MaximumTimeToLockMs != nil,
			apply: func() error {
				return admin.SetMaximumTimeToLock(time.Duration(lo.FromPtr(doc.MaximumTimeToLockMs)) * time.Millisecond)
			},
		},
		{
			setting: "hiddenPackages",
			present: len(doc.HiddenPackages) > 0,
			apply: func() error {
				var errs []error
				for _, pkg := range doc.HiddenPackages {
					if err := admin.SetAppHidden(pkg, true); err != nil {
						errs = append(errs, fmt.Errorf("hiding %s: %w", pkg, err))
					}
				}
				if len(errs) > 0 {
					return errors.Join(errs...)
				}
				return nil
			},
		},
	}
}

type policyApplier struct {
	setting string
	present bool
	apply   func() error
}
