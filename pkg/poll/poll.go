package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidBaseDelay = errors.New("BaseDelay must be greater than 0")
	ErrInvalidAttempts  = errors.New("MaxAttempts must be greater than 0")
	ErrInvalidTimeout   = errors.New("timeout must be greater than 0")
	ErrTimeout          = errors.New("operation timed out")
)

// Config defines parameters for backoff polling. A Factor of 1.0 yields a
// linear delay between attempts.
type Config struct {
	// Initial delay before first retry
	BaseDelay time.Duration
	// Multiplier for delay on each retry
	Factor float64
	// Optional maximum delay between retries
	MaxDelay time.Duration
	// Maximum number of attempts for bounded retry, see Retry.
	MaxAttempts int
}

// BackoffWithContext repeatedly calls the operation until timeout is reached,
// it returns true, an error, or the context is canceled. It waits between
// attempts using backoff starting from Config.BaseDelay and increasing by
// Config.Factor, capped by Config.MaxDelay if set.
func BackoffWithContext(ctx context.Context, cfg *Config, timeout time.Duration, opFn func(context.Context) (bool, error)) error {
	if timeout <= 0 {
		return ErrInvalidTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := cfg.BaseDelay
	if delay <= 0 {
		return fmt.Errorf("invalid Config: %w", ErrInvalidBaseDelay)
	}

	for {
		done, err := opFn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-time.After(delay):
			delay = nextDelay(cfg, delay)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Retry calls the operation up to Config.MaxAttempts times, waiting between
// attempts per the backoff configuration. The operation returns true to stop
// early. The last attempt's error is returned if all attempts fail; a nil
// error with attempts exhausted returns ErrTimeout.
func Retry(ctx context.Context, cfg *Config, opFn func(context.Context) (bool, error)) error {
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("invalid Config: %w", ErrInvalidAttempts)
	}
	if cfg.BaseDelay <= 0 {
		return fmt.Errorf("invalid Config: %w", ErrInvalidBaseDelay)
	}

	delay := cfg.BaseDelay
	var lastErr error
	for attempt := 1; ; attempt++ {
		done, err := opFn(ctx)
		if done {
			return nil
		}
		lastErr = err

		if attempt >= cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(delay):
			delay = nextDelay(cfg, delay)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if lastErr != nil {
		return lastErr
	}
	return ErrTimeout
}

// CalculateBackoffDelay calculates the backoff delay for a given number of
// tries using the provided configuration.
func CalculateBackoffDelay(cfg *Config, tries int) time.Duration {
	if tries <= 0 {
		return 0
	}

	delay := float64(cfg.BaseDelay)
	for i := 1; i < tries; i++ {
		delay *= cfg.Factor
	}

	delayDuration := time.Duration(delay)

	// cap max delay
	if cfg.MaxDelay > 0 && delayDuration > cfg.MaxDelay {
		delayDuration = cfg.MaxDelay
	}

	return delayDuration
}

func nextDelay(cfg *Config, current time.Duration) time.Duration {
	next := time.Duration(float64(current) * cfg.Factor)
	if next <= 0 {
		next = current
	}
	if cfg.MaxDelay > 0 && next > cfg.MaxDelay {
		next = cfg.MaxDelay
	}
	return next
}
