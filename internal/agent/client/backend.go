package client

import (
	"context"

	"github.com/finlock/finlock-agent/internal/agent/device/admin"
)

// LockAction identifies the reconciler action an outcome report describes.
type LockAction string

const (
	ActionLock   LockAction = "LOCK"
	ActionUnlock LockAction = "UNLOCK"
)

// LockOutcomeReport tells the backend what a lock or unlock action did
// locally. Reporting is decoupled from enforcement: these reports are
// informational and their delivery never gates device state.
type LockOutcomeReport struct {
	DeviceID  string     `json:"deviceId"`
	Action    LockAction `json:"action"`
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
	Origin    string     `json:"origin,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// ComplianceReport describes which parts of the last applied policy could
// and could not be enforced on this device.
type ComplianceReport struct {
	DeviceID  string                     `json:"deviceId"`
	Entries   []admin.NonComplianceEntry `json:"entries"`
	Timestamp int64                      `json:"timestamp"`
}

// LocationFix is a single device position sample.
type LocationFix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Backend is the HTTP API surface of the management service, treated as
// unreliable: every call may fail transiently and callers retry with
// bounded backoff or drop the call.
type Backend interface {
	RegisterPushToken(ctx context.Context, deviceID, token string) error
	ReportLockOutcome(ctx context.Context, report *LockOutcomeReport) error
	FetchEnterprisePolicy(ctx context.Context, deviceID string) (map[string]interface{}, error)
	ReportCompliance(ctx context.Context, report *ComplianceReport) error
	UploadLocation(ctx context.Context, deviceID string, fix *LocationFix) error
	Ping(ctx context.Context, deviceID string) error
}
