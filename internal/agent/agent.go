package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/internal/agent/config"
	"github.com/finlock/finlock-agent/internal/agent/device"
	"github.com/finlock/finlock-agent/internal/agent/device/admin"
	"github.com/finlock/finlock-agent/internal/agent/device/command"
	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/internal/agent/device/identity"
	"github.com/finlock/finlock-agent/internal/agent/device/location"
	"github.com/finlock/finlock-agent/internal/agent/device/lock"
	"github.com/finlock/finlock-agent/internal/agent/device/policy"
	"github.com/finlock/finlock-agent/internal/agent/device/presentation"
	"github.com/finlock/finlock-agent/internal/agent/device/report"
	"github.com/finlock/finlock-agent/internal/agent/device/store"
	"github.com/finlock/finlock-agent/internal/agent/device/trigger"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/finlock/finlock-agent/pkg/thread"
	"github.com/sirupsen/logrus"
)

// watchdogInterval re-asserts the lock presentation while enforced. Cheap, a
// no-op when nothing is presented.
const watchdogInterval = 30 * time.Second

// Agent wires the device management core together and runs the periodic
// engine. All collaborators are built inside Run from the config; there are
// no package-level singletons, so tests can run multiple agents side by side.
type Agent struct {
	config   *config.Config
	platform Platform
	log      *logrus.Logger

	mu       sync.Mutex
	events   trigger.EventHandler
	identity *identity.Manager
}

func New(log *logrus.Logger, cfg *config.Config, platform Platform) *Agent {
	return &Agent{
		config:   cfg,
		platform: platform.withDefaults(),
		log:      log,
	}
}

func (a *Agent) GetLogPrefix() string {
	return a.config.LogPrefix
}

// Events returns the trigger entry points for the embedding platform layer.
// Nil until Run has assembled the agent.
func (a *Agent) Events() trigger.EventHandler {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events
}

// Identity returns the enrollment manager for the setup flow. Nil until Run
// has assembled the agent.
func (a *Agent) Identity() *identity.Manager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity
}

func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if level, err := logrus.ParseLevel(a.config.LogLevel); err == nil {
		a.log.SetLevel(level)
	}

	readWriter := fileio.NewReadWriter()
	if a.config.GetTestRootDir() != "" {
		a.log.Warn("Setting testRootDir is intended for testing only. Do not use in production.")
		readWriter.SetRootdir(a.config.GetTestRootDir())
	}

	stateStore := store.NewStore(a.config.DataDir, readWriter, log.NewPrefixLogger("store"))
	if err := stateStore.Ensure(); err != nil {
		return fmt.Errorf("ensuring device state: %w", err)
	}

	deviceIdentity, err := stateStore.Identity()
	if err != nil {
		return fmt.Errorf("reading enrollment identity: %w", err)
	}
	deviceIDFn := func() string {
		identity, err := stateStore.Identity()
		if err != nil {
			return ""
		}
		return identity.DeviceID
	}

	backend := client.NewHTTPBackend(a.config.Endpoint, deviceIdentity.EnrollmentCredential, log.NewPrefixLogger("client"))

	reporter := report.NewReporter(backend, deviceIDFn, log.NewPrefixLogger("report"))
	go reporter.Run(ctx)

	enforcer := admin.NewEnforcer(a.platform.Admin, log.NewPrefixLogger("admin"))
	presenter := presentation.NewManager(stateStore, a.platform.Presenter, log.NewPrefixLogger("presentation"))

	reconciler := lock.NewReconciler(
		stateStore,
		enforcer,
		presenter,
		reporter,
		a.config.AllowedPackage,
		a.config.DefaultLockMessage,
		log.NewPrefixLogger("lock"),
	)

	identityManager := identity.NewManager(stateStore, backend, log.NewPrefixLogger("identity"))
	locationService := location.NewService(a.platform.Location, reporter, log.NewPrefixLogger("location"))

	policySyncer, err := policy.NewSyncer(
		backend,
		enforcer,
		reporter,
		deviceIDFn,
		a.config.PolicySyncSchedule,
		log.NewPrefixLogger("policy"),
	)
	if err != nil {
		return err
	}

	dedup := command.NewDeduplicator(time.Duration(a.config.DedupWindow))
	ping := func(ctx context.Context) error {
		return backend.Ping(ctx, deviceIDFn())
	}
	commandHandler := command.NewHandler(reconciler, locationService, a.platform.Admin, dedup, ping, log.NewPrefixLogger("command"))

	dispatcher := trigger.NewDispatcher(
		ctx,
		reconciler,
		commandHandler,
		identityManager,
		presenter,
		log.NewPrefixLogger("trigger"),
	)

	a.mu.Lock()
	a.events = dispatcher
	a.identity = identityManager
	a.mu.Unlock()

	// the scheduler context must outlive the engine: threads are stopped via
	// the StopAll handshake, not by cancellation
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	scheduler := thread.NewScheduler(schedulerCtx, a.log)
	scheduler.Schedule("presentation-watchdog", watchdogInterval, func(context.Context) {
		presenter.OnFocusLost()
	})
	defer scheduler.StopAll()

	policySync := func(ctx context.Context) {
		if !policySyncer.SyncDue(time.Now()) {
			return
		}
		if err := policySyncer.Sync(ctx); err != nil {
			a.log.Errorf("Policy sync failed: %v", err)
		}
	}
	monitor := func(ctx context.Context) {
		if err := reconciler.Resync(ctx, lock.OriginMonitor); err != nil {
			a.log.Errorf("Monitor resync failed: %v", err)
		}
		if err := identityManager.AnnouncePending(ctx); err != nil {
			a.log.Warnf("Push token announce failed: %v", err)
		}
	}

	engine := device.NewEngine(
		a.config.MonitorInterval,
		monitor,
		a.config.LocationInterval,
		locationService.Tick,
		policySync,
	)

	a.log.Infof("Agent running against %s, data dir %s", a.config.Endpoint, a.config.DataDir)
	err = engine.Run(ctx)

	// drain dispatched trigger work before tearing down
	cancel()
	dispatcher.Wait()
	return err
}
