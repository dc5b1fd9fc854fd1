package agent

import (
	"context"
	"testing"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/config"
	"github.com/finlock/finlock-agent/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestAgentRunAssemblesAndStops(t *testing.T) {
	require := require.New(t)

	cfg := config.NewDefault()
	cfg.SetTestRootDir(t.TempDir())
	cfg.MonitorInterval = util.Duration(time.Hour)
	cfg.LocationInterval = 0
	require.NoError(cfg.Validate())

	agent := New(logrus.New(), cfg, Platform{})
	require.Nil(agent.Events())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- agent.Run(ctx)
	}()

	require.Eventually(func() bool {
		return agent.Events() != nil && agent.Identity() != nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("agent did not stop after context cancel")
	}
}

func TestAgentRunRecoversPersistedState(t *testing.T) {
	require := require.New(t)

	rootDir := t.TempDir()
	cfg := config.NewDefault()
	cfg.SetTestRootDir(rootDir)
	cfg.MonitorInterval = util.Duration(time.Hour)
	cfg.LocationInterval = 0
	require.NoError(cfg.Validate())

	runOnce := func() {
		agent := New(logrus.New(), cfg, Platform{})
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- agent.Run(ctx)
		}()
		require.Eventually(func() bool {
			return agent.Identity() != nil
		}, 5*time.Second, 10*time.Millisecond)
		cancel()
		require.NoError(<-errCh)
	}

	runOnce()
	// a second run over the same data dir picks up the existing state files
	runOnce()
}
