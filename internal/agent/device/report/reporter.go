package report

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/internal/agent/device/admin"
	"github.com/finlock/finlock-agent/pkg/log"
)

const (
	defaultQueueSize   = 64
	defaultMaxRetries  = 2 // 3 attempts total
	defaultInitialWait = 500 * time.Millisecond
)

// Reporter asynchronously informs the backend of local outcomes. Enqueueing
// never blocks and delivery failures never reach the caller: the local
// enforcement decision is authoritative regardless of whether the backend
// heard about it.
type Reporter struct {
	backend    client.Backend
	deviceIDFn func() string
	queue      chan func(context.Context) error

	log *log.PrefixLogger
}

func NewReporter(backend client.Backend, deviceIDFn func() string, log *log.PrefixLogger) *Reporter {
	return &Reporter{
		backend:    backend,
		deviceIDFn: deviceIDFn,
		queue:      make(chan func(context.Context) error, defaultQueueSize),
		log:        log,
	}
}

// Run consumes the report queue until the context is canceled. Each report
// is sent with bounded backoff; exhausted retries are dropped with a log
// entry, never escalated.
func (r *Reporter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case send := <-r.queue:
			r.deliver(ctx, send)
		}
	}
}

// ReportLockOutcome enqueues a lock/unlock outcome report. Fire-and-forget
// from the reconciler's point of view.
func (r *Reporter) ReportLockOutcome(action client.LockAction, origin string, success bool, opErr error) {
	report := &client.LockOutcomeReport{
		DeviceID:  r.deviceIDFn(),
		Action:    action,
		Success:   success,
		Origin:    origin,
		Timestamp: time.Now().UnixMilli(),
	}
	if opErr != nil {
		report.Error = opErr.Error()
	}
	r.enqueue(func(ctx context.Context) error {
		return r.backend.ReportLockOutcome(ctx, report)
	})
}

// ReportCompliance enqueues a compliance report. An empty entry list means
// fully compliant and is still reported.
func (r *Reporter) ReportCompliance(entries []admin.NonComplianceEntry) {
	report := &client.ComplianceReport{
		DeviceID:  r.deviceIDFn(),
		Entries:   entries,
		Timestamp: time.Now().UnixMilli(),
	}
	r.enqueue(func(ctx context.Context) error {
		return r.backend.ReportCompliance(ctx, report)
	})
}

// ReportLocation enqueues a location fix upload.
func (r *Reporter) ReportLocation(fix *client.LocationFix) {
	deviceID := r.deviceIDFn()
	r.enqueue(func(ctx context.Context) error {
		return r.backend.UploadLocation(ctx, deviceID, fix)
	})
}

func (r *Reporter) enqueue(send func(context.Context) error) {
	select {
	case r.queue <- send:
	default:
		// dropping is preferable to blocking a trigger path; the next
		// periodic resync regenerates current state reports
		r.log.Warn("Report queue full, dropping report")
	}
}

func (r *Reporter) deliver(ctx context.Context, send func(context.Context) error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(defaultInitialWait),
		), defaultMaxRetries),
		ctx,
	)
	err := backoff.Retry(func() error {
		return send(ctx)
	}, policy)
	if err != nil {
		r.log.Warnf("Dropping report after retries: %v", err)
	}
}
