package policy

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/admin"
	"github.com/finlock/finlock-agent/internal/agent/device/errors"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/robfig/cron/v3"
)

// DefaultSyncSchedule re-pulls the enterprise policy hourly. Pushes cover
// the urgent path; the schedule is the drift safety net.
const DefaultSyncSchedule = "0 * * * *"

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

type policyFetcher interface {
	FetchEnterprisePolicy(ctx context.Context, deviceID string) (map[string]interface{}, error)
}

type policyEnforcer interface {
	ApplyPolicyDocument(doc *admin.PolicyDocument) []admin.NonComplianceEntry
}

type complianceSink interface {
	ReportCompliance(entries []admin.NonComplianceEntry)
}

// Syncer pulls the enterprise policy document from the backend, applies it
// through the device admin capability, and reports any settings the device
// could not honor.
type Syncer struct {
	backend    policyFetcher
	enforcer   policyEnforcer
	sink       complianceSink
	deviceIDFn func() string
	schedule   cron.Schedule

	mu       sync.Mutex
	nextSync time.Time
	lastDoc  *admin.PolicyDocument

	log *log.PrefixLogger
}

func NewSyncer(
	backend policyFetcher,
	enforcer policyEnforcer,
	sink complianceSink,
	deviceIDFn func() string,
	scheduleSpec string,
	log *log.PrefixLogger,
) (*Syncer, error) {
	if scheduleSpec == "" {
		scheduleSpec = DefaultSyncSchedule
	}
	schedule, err := scheduleParser.Parse(scheduleSpec)
	if err != nil {
		return nil, fmt.Errorf("parsing policy sync schedule %q: %w", scheduleSpec, err)
	}
	return &Syncer{
		backend:    backend,
		enforcer:   enforcer,
		sink:       sink,
		deviceIDFn: deviceIDFn,
		schedule:   schedule,
		log:        log,
	}, nil
}

// SyncDue reports whether the schedule calls for a sync at the given time.
// The first call after construction is always due so a restart never waits a
// full schedule period with a stale policy.
func (s *Syncer) SyncDue(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextSync.IsZero() {
		return true
	}
	return !now.Before(s.nextSync)
}

// Sync performs one fetch-apply-report cycle. An unchanged document is not
// reapplied; a fetch error leaves the previously applied policy in force.
func (s *Syncer) Sync(ctx context.Context) error {
	deviceID := s.deviceIDFn()
	if deviceID == "" {
		return errors.ErrNotProvisioned
	}

	s.mu.Lock()
	s.nextSync = s.schedule.Next(time.Now())
	s.mu.Unlock()

	raw, err := s.backend.FetchEnterprisePolicy(ctx, deviceID)
	if err != nil {
		if errors.Is(err, errors.ErrNoContent) {
			s.log.Debug("No enterprise policy assigned")
			return nil
		}
		return fmt.Errorf("fetching enterprise policy: %w", err)
	}

	doc, err := admin.DecodePolicyDocument(raw)
	if err != nil {
		return fmt.Errorf("decoding enterprise policy: %w", err)
	}

	s.mu.Lock()
	unchanged := s.lastDoc != nil && reflect.DeepEqual(s.lastDoc, doc)
	s.mu.Unlock()
	if unchanged {
		s.log.Debug("Enterprise policy unchanged, skipping apply")
		return nil
	}

	entries := s.enforcer.ApplyPolicyDocument(doc)
	if len(entries) > 0 {
		s.log.Warnf("Policy applied with %d non-compliant settings", len(entries))
		s.sink.ReportCompliance(entries)
		// not cached, so the next cycle retries the failed settings
		return nil
	}

	s.log.Info("Policy applied, device compliant")
	s.mu.Lock()
	s.lastDoc = doc
	s.mu.Unlock()
	return nil
}
