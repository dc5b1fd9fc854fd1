package location

import (
	"context"
	"fmt"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/pkg/log"
)

// DefaultFixTimeout bounds how long a single position request may block on
// the platform location services.
const DefaultFixTimeout = 30 * time.Second

// Provider is the platform adapter producing position samples. CurrentFix
// blocks until a fix is available, the timeout expires, or ctx is canceled.
type Provider interface {
	CurrentFix(ctx context.Context) (*client.LocationFix, error)
}

type locationSink interface {
	ReportLocation(fix *client.LocationFix)
}

// Service serves on-demand and periodic location requests. All uploads go
// through the reporting sink, so a flaky network never blocks the caller.
type Service struct {
	provider   Provider
	sink       locationSink
	fixTimeout time.Duration
	log        *log.PrefixLogger
}

func NewService(provider Provider, sink locationSink, log *log.PrefixLogger) *Service {
	return &Service{
		provider:   provider,
		sink:       sink,
		fixTimeout: DefaultFixTimeout,
		log:        log,
	}
}

// LocateNow requests a single fix and enqueues it for upload.
func (s *Service) LocateNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.fixTimeout)
	defer cancel()

	fix, err := s.provider.CurrentFix(ctx)
	if err != nil {
		return fmt.Errorf("requesting location fix: %w", err)
	}
	if fix == nil {
		s.log.Warnf("Location provider returned no fix")
		return nil
	}
	if fix.Timestamp == 0 {
		fix.Timestamp = time.Now().UnixMilli()
	}

	s.sink.ReportLocation(fix)
	return nil
}

// Tick is the periodic sampling entry point. Provider errors are logged and
// swallowed; the next interval retries.
func (s *Service) Tick(ctx context.Context) {
	if err := s.LocateNow(ctx); err != nil {
		s.log.Warnf("Periodic location sample failed: %v", err)
	}
}
