package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/command"
	"github.com/finlock/finlock-agent/internal/agent/device/fileio"
	"github.com/finlock/finlock-agent/internal/agent/device/lock"
	"github.com/finlock/finlock-agent/internal/util"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMonitorInterval is the default interval between two periodic
	// reconciliation passes.
	DefaultMonitorInterval = util.Duration(60 * time.Second)
	// DefaultLocationInterval is the default interval between two periodic
	// location samples. Zero disables periodic sampling.
	DefaultLocationInterval = util.Duration(15 * time.Minute)
	// MinMonitorInterval is the minimum interval allowed for the periodic
	// reconciliation and location loops.
	MinMonitorInterval = util.Duration(2 * time.Second)
	// DefaultConfigDir is the default directory where the agent's configuration is stored
	DefaultConfigDir = "/etc/finlock"
	// DefaultConfigFile is the default path to the agent's configuration file
	DefaultConfigFile = DefaultConfigDir + "/config.yaml"
	// DefaultDataDir is the default directory where the agent's state is stored
	DefaultDataDir = "/var/lib/finlock"
	// DefaultEndpoint is the default address of the device management backend
	DefaultEndpoint = "https://localhost:7443"
	// DefaultAllowedPackage is the only package allowed to run while the
	// device is in restricted mode.
	DefaultAllowedPackage = "com.finlock.agent"
	// TestRootDirEnvKey is the environment variable key used to set the file system root when testing.
	TestRootDirEnvKey = "FINLOCK_TEST_ROOT_DIR"
)

type Config struct {
	// ConfigDir is the directory where the agent's configuration is stored
	ConfigDir string `yaml:"-" json:"-"`
	// DataDir is the directory where the agent's state is stored
	DataDir string `yaml:"data-dir,omitempty" json:"data-dir,omitempty"`

	// Endpoint is the base URL of the device management backend
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// MonitorInterval is the interval between two periodic reconciliation passes
	MonitorInterval util.Duration `yaml:"monitor-interval,omitempty" json:"monitor-interval,omitempty"`
	// LocationInterval is the interval between two periodic location samples.
	// Zero disables periodic sampling.
	LocationInterval util.Duration `yaml:"location-interval,omitempty" json:"location-interval,omitempty"`
	// PolicySyncSchedule is a cron expression gating full policy resyncs
	PolicySyncSchedule string `yaml:"policy-sync-schedule,omitempty" json:"policy-sync-schedule,omitempty"`

	// DedupWindow collapses duplicate remote commands of the same kind
	// arriving within the window. Zero disables deduplication.
	DedupWindow util.Duration `yaml:"dedup-window,omitempty" json:"dedup-window,omitempty"`

	// DefaultLockMessage is shown on the lock surface when a lock command
	// carries no message
	DefaultLockMessage string `yaml:"default-lock-message,omitempty" json:"default-lock-message,omitempty"`
	// AllowedPackage is the only package allowed in restricted mode
	AllowedPackage string `yaml:"allowed-package,omitempty" json:"allowed-package,omitempty"`

	// LogLevel is the level of logging. Can be: "panic", "fatal", "error",
	// "warn"/"warning", "info", "debug" or "trace"; any other is treated as "info"
	LogLevel string `yaml:"log-level,omitempty" json:"log-level,omitempty"`
	// LogPrefix is the log prefix used for testing
	LogPrefix string `yaml:"log-prefix,omitempty" json:"log-prefix,omitempty"`

	// testRootDir is the root directory of the test agent
	testRootDir string
	readWriter  fileio.ReadWriter
}

func NewDefault() *Config {
	c := &Config{
		ConfigDir:          DefaultConfigDir,
		DataDir:            DefaultDataDir,
		Endpoint:           DefaultEndpoint,
		MonitorInterval:    DefaultMonitorInterval,
		LocationInterval:   DefaultLocationInterval,
		DedupWindow:        util.Duration(command.DefaultDedupWindow),
		DefaultLockMessage: lock.DefaultLockMessage,
		AllowedPackage:     DefaultAllowedPackage,
		LogLevel:           logrus.InfoLevel.String(),
		readWriter:         fileio.NewReadWriter(),
	}

	if value := os.Getenv(TestRootDirEnvKey); value != "" {
		logrus.Warning("Setting testRootDir is intended for testing only. Do not use in production.")
		c.testRootDir = filepath.Clean(value)
		c.readWriter.SetRootdir(c.testRootDir)
	}

	return c
}

func (cfg *Config) GetTestRootDir() string {
	return cfg.testRootDir
}

// SetTestRootDir chroots all config file access under rootDir. Testing only.
func (cfg *Config) SetTestRootDir(rootDir string) {
	cfg.testRootDir = rootDir
	cfg.readWriter.SetRootdir(rootDir)
}

// Complete fills in defaults for fields the config file left unset.
func (cfg *Config) Complete() error {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.AllowedPackage == "" {
		cfg.AllowedPackage = DefaultAllowedPackage
	}
	if cfg.DefaultLockMessage == "" {
		cfg.DefaultLockMessage = lock.DefaultLockMessage
	}
	return nil
}

// Validate checks that the required fields are set and ensures that the paths exist.
func (cfg *Config) Validate() error {
	if err := cfg.validateIntervals(); err != nil {
		return err
	}

	requiredFields := []struct {
		value string
		name  string
	}{
		{cfg.ConfigDir, "config-dir"},
		{cfg.DataDir, "data-dir"},
	}

	for _, field := range requiredFields {
		if field.value == "" {
			return fmt.Errorf("%s is required", field.name)
		}
		exists, err := cfg.readWriter.PathExists(field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		if !exists {
			logrus.Infof("Creating missing required directory: %s", field.value)
			if err := cfg.readWriter.MkdirAll(field.value, fileio.DefaultDirPermissions); err != nil {
				return fmt.Errorf("creating %s: %w", field.name, err)
			}
		}
	}

	return nil
}

// ParseConfigFile reads the config file and unmarshals it into the Config struct
func (cfg *Config) ParseConfigFile(cfgFile string) error {
	contents, err := cfg.readWriter.ReadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return fmt.Errorf("unmarshalling config file: %w", err)
	}
	return nil
}

// LoadOrGenerate loads the config file, writing a default one first if none
// exists.
func (cfg *Config) LoadOrGenerate(cfgFile string) error {
	exists, err := cfg.readWriter.PathExists(cfgFile)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		contents, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshalling default config: %w", err)
		}
		if err := cfg.readWriter.WriteFile(cfgFile, contents, 0o644); err != nil {
			return fmt.Errorf("writing default config file: %w", err)
		}
	}
	if err := cfg.ParseConfigFile(cfgFile); err != nil {
		return err
	}
	if err := cfg.Complete(); err != nil {
		return err
	}
	return cfg.Validate()
}

// Load returns the effective config from the given file path.
func Load(cfgFile string) (*Config, error) {
	cfg := NewDefault()
	if err := cfg.LoadOrGenerate(cfgFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) String() string {
	contents, err := json.Marshal(cfg)
	if err != nil {
		return "<error>"
	}
	return string(contents)
}

func (cfg *Config) validateIntervals() error {
	if cfg.MonitorInterval < MinMonitorInterval {
		return fmt.Errorf("minimum monitor interval is %s have %s", MinMonitorInterval, cfg.MonitorInterval)
	}
	if cfg.LocationInterval != 0 && cfg.LocationInterval < MinMonitorInterval {
		return fmt.Errorf("minimum location interval is %s have %s", MinMonitorInterval, cfg.LocationInterval)
	}
	if cfg.DedupWindow < 0 {
		return fmt.Errorf("dedup window must not be negative, have %s", cfg.DedupWindow)
	}
	return nil
}
