package command

import (
	"context"
	"fmt"
	"regexp"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/finlock/finlock-agent/internal/agent/device/admin"
	"github.com/finlock/finlock-agent/internal/agent/device/errors"
	"github.com/finlock/finlock-agent/internal/agent/device/lock"
	"github.com/finlock/finlock-agent/pkg/log"
)

var passcodePattern = regexp.MustCompile(`^\d{4}$`)

type locker interface {
	RequestLock(ctx context.Context, message string, origin lock.TriggerOrigin) error
	RequestUnlock(ctx context.Context, origin lock.TriggerOrigin) error
	SetMessage(ctx context.Context, message string, origin lock.TriggerOrigin) error
}

type locator interface {
	LocateNow(ctx context.Context) error
}

// Handler is the single ingestion point for remote commands delivered by
// the push transport. A returned error means the durable operation did not
// happen and the transport should redeliver; use errors.IsRetryable to
// distinguish malformed commands, which redelivery cannot fix.
type Handler struct {
	locker  locker
	locator locator
	admin   admin.DeviceAdmin
	dedup   *Deduplicator
	ping    func(ctx context.Context) error

	log *log.PrefixLogger
}

func NewHandler(
	locker locker,
	locator locator,
	deviceAdmin admin.DeviceAdmin,
	dedup *Deduplicator,
	ping func(ctx context.Context) error,
	log *log.PrefixLogger,
) *Handler {
	return &Handler{
		locker:  locker,
		locator: locator,
		admin:   deviceAdmin,
		dedup:   dedup,
		ping:    ping,
		log:     log,
	}
}

// HandleCommand routes one push message. Unrecognized kinds are logged and
// ignored; duplicates within the dedup window are suppressed.
func (h *Handler) HandleCommand(ctx context.Context, msg client.PushMessage) error {
	if !h.dedup.Accept(msg.Kind) {
		h.log.Infof("Suppressing duplicate %s command within dedup window", msg.Kind)
		return nil
	}

	err := h.route(ctx, msg)
	if err != nil {
		// the window must only start for commands that completed: a failed
		// persist needs the transport redelivery the error asks for, and a
		// malformed command must not suppress its corrected successor
		h.dedup.Forget(msg.Kind)
	}
	return err
}

func (h *Handler) route(ctx context.Context, msg client.PushMessage) error {
	switch msg.Kind {
	case client.CommandLock:
		return h.locker.RequestLock(ctx, msg.Payload["message"], lock.OriginPush)

	case client.CommandUnlock:
		return h.locker.RequestUnlock(ctx, lock.OriginPush)

	case client.CommandSetMessage:
		message, ok := msg.Payload["message"]
		if !ok || message == "" {
			h.log.Warnf("Rejecting SET_MESSAGE command without a message")
			return fmt.Errorf("%w: SET_MESSAGE requires a message", errors.ErrMalformedCommand)
		}
		return h.locker.SetMessage(ctx, message, lock.OriginPush)

	case client.CommandLocateNow:
		if err := h.locator.LocateNow(ctx); err != nil {
			// location is best-effort; the next periodic fix self-heals
			h.log.Warnf("Locate failed: %v", err)
		}
		return nil

	case client.CommandSetPasscode:
		pin := msg.Payload["pin"]
		if !passcodePattern.MatchString(pin) {
			h.log.Warnf("Rejecting SET_PASSCODE command with invalid pin")
			return fmt.Errorf("%w: %w", errors.ErrMalformedCommand, errors.ErrInvalidPasscode)
		}
		if err := h.admin.ResetPasscode(pin); err != nil {
			// OS-level rejection surfaces via compliance reporting, not here
			h.log.Errorf("Failed to reset passcode: %v", err)
		}
		return nil

	case client.CommandPing:
		if err := h.ping(ctx); err != nil {
			h.log.Warnf("Ping failed: %v", err)
		}
		return nil

	case client.CommandReboot:
		if !h.admin.IsDeviceOwner() {
			h.log.Warn("Ignoring REBOOT command without device owner capability")
			return nil
		}
		if err := h.admin.Reboot(); err != nil {
			h.log.Errorf("Failed to reboot device: %v", err)
		}
		return nil

	default:
		h.log.Warnf("Ignoring unrecognized command kind: %s", msg.Kind)
		return nil
	}
}
