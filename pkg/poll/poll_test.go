package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffWithContext(t *testing.T) {
	require := require.New(t)
	opErr := errors.New("fatal op error")

	tests := []struct {
		name      string
		timeout   time.Duration
		config    Config
		operation func() func(context.Context) (bool, error)
		expectErr error
	}{
		{
			name:    "immediate success",
			timeout: 1 * time.Second,
			config:  Config{BaseDelay: 10 * time.Millisecond, Factor: 2},
			operation: func() func(context.Context) (bool, error) {
				return func(context.Context) (bool, error) {
					return true, nil
				}
			},
			expectErr: nil,
		},
		{
			name:    "succeeds after retries",
			timeout: 500 * time.Millisecond,
			config:  Config{BaseDelay: 10 * time.Millisecond, Factor: 2},
			operation: func() func(context.Context) (bool, error) {
				attempts := 0
				return func(context.Context) (bool, error) {
					attempts++
					if attempts >= 3 {
						return true, nil
					}
					return false, nil
				}
			},
			expectErr: nil,
		},
		{
			name:    "fails with permanent error",
			timeout: 1 * time.Second,
			config:  Config{BaseDelay: 10 * time.Millisecond, Factor: 2},
			operation: func() func(context.Context) (bool, error) {
				return func(context.Context) (bool, error) {
					return false, opErr
				}
			},
			expectErr: opErr,
		},
		{
			name:    "context timeout cancels retries",
			timeout: 50 * time.Millisecond,
			config:  Config{BaseDelay: 30 * time.Millisecond, Factor: 2},
			operation: func() func(context.Context) (bool, error) {
				return func(context.Context) (bool, error) {
					return false, nil
				}
			},
			expectErr: context.DeadlineExceeded,
		},
		{
			name:    "invalid base delay",
			timeout: 50 * time.Millisecond,
			config:  Config{BaseDelay: 0, Factor: 2},
			operation: func() func(context.Context) (bool, error) {
				return func(context.Context) (bool, error) {
					return false, nil
				}
			},
			expectErr: ErrInvalidBaseDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BackoffWithContext(context.Background(), &tt.config, tt.timeout, tt.operation())
			if tt.expectErr != nil {
				require.ErrorIs(err, tt.expectErr)
				return
			}
			require.NoError(err)
		})
	}
}

func TestRetry(t *testing.T) {
	require := require.New(t)
	opErr := errors.New("send failed")

	t.Run("stops after max attempts and returns last error", func(t *testing.T) {
		attempts := 0
		cfg := &Config{BaseDelay: time.Millisecond, Factor: 1.0, MaxAttempts: 3}
		err := Retry(context.Background(), cfg, func(context.Context) (bool, error) {
			attempts++
			return false, opErr
		})
		require.ErrorIs(err, opErr)
		require.Equal(3, attempts)
	})

	t.Run("succeeds mid-way", func(t *testing.T) {
		attempts := 0
		cfg := &Config{BaseDelay: time.Millisecond, Factor: 1.0, MaxAttempts: 5}
		err := Retry(context.Background(), cfg, func(context.Context) (bool, error) {
			attempts++
			return attempts == 2, nil
		})
		require.NoError(err)
		require.Equal(2, attempts)
	})

	t.Run("requires positive attempts", func(t *testing.T) {
		cfg := &Config{BaseDelay: time.Millisecond, Factor: 1.0}
		err := Retry(context.Background(), cfg, func(context.Context) (bool, error) {
			return true, nil
		})
		require.ErrorIs(err, ErrInvalidAttempts)
	})

	t.Run("canceled context stops retry", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cfg := &Config{BaseDelay: 10 * time.Millisecond, Factor: 1.0, MaxAttempts: 3}
		err := Retry(ctx, cfg, func(context.Context) (bool, error) {
			return false, nil
		})
		require.ErrorIs(err, context.Canceled)
	})
}

func TestCalculateBackoffDelay(t *testing.T) {
	require := require.New(t)
	cfg := &Config{BaseDelay: 100 * time.Millisecond, Factor: 2, MaxDelay: 300 * time.Millisecond}

	require.Equal(time.Duration(0), CalculateBackoffDelay(cfg, 0))
	require.Equal(100*time.Millisecond, CalculateBackoffDelay(cfg, 1))
	require.Equal(200*time.Millisecond, CalculateBackoffDelay(cfg, 2))
	// capped by MaxDelay
	require.Equal(300*time.Millisecond, CalculateBackoffDelay(cfg, 3))
	require.Equal(300*time.Millisecond, CalculateBackoffDelay(cfg, 10))
}
