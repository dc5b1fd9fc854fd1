package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrRetryable = errors.New("retryable error")
	ErrNoRetry   = errors.New("no retry")

	// store
	ErrReadingState   = fmt.Errorf("reading device state")
	ErrWritingState   = fmt.Errorf("writing device state")
	ErrMissingState   = fmt.Errorf("missing device state")
	ErrUnmarshalState = fmt.Errorf("unmarshalling device state")

	// commands
	ErrUnknownCommand   = errors.New("unknown command kind")
	ErrMalformedCommand = errors.New("malformed command")
	ErrInvalidPasscode  = errors.New("passcode must be exactly 4 digits")

	// enforcement
	ErrNotDeviceOwner = errors.New("device owner capability not held")

	// identity
	ErrNotProvisioned = errors.New("device is not provisioned")

	// networking
	ErrNoContent   = fmt.Errorf("no content")
	ErrNilResponse = fmt.Errorf("received nil response")
)

func IsRetryable(err error) bool {
	switch {
	case IsTimeoutError(err):
		return true
	case errors.Is(err, ErrRetryable):
		return true
	case errors.Is(err, ErrNoRetry):
		return false
	case errors.Is(err, ErrMalformedCommand):
		// redelivery of a malformed command cannot make it well-formed
		return false
	default:
		return true
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func New(msg string) error {
	return errors.New(msg)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
