package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	envPollInterval    = "LINEUP_POLL_INTERVAL"
	envMaxSamples      = "LINEUP_MAX_SAMPLES"
	envStableThreshold = "LINEUP_STABLE_THRESHOLD"
	envForceExtend     = "LINEUP_FORCE_EXTEND"
	envDryRun          = "LINEUP_DRY_RUN"
	envPreviewPath     = "LINEUP_PREVIEW_PATH"
	envLogLevel        = "LINEUP_LOG_LEVEL"
)

const (
	defaultPollInterval    = 500 * time.Millisecond
	defaultMaxSamples      = 20
	defaultStableThreshold = 4
	defaultLogLevel        = "info"
)

// AppConfig holds application configuration
type AppConfig struct {
	logger          *zap.Logger
	pollInterval    time.Duration
	maxSamples      int
	stableThreshold int
	forceExtend     bool
	dryRun          bool
	previewPath     string
	sequence        string
}

// NewAppConfig builds the configuration from the environment, an optional
// .env file and the command line flags. Flags take precedence over the
// environment, which takes precedence over .env.
func NewAppConfig(logger *zap.Logger, flags Flags) (*AppConfig, error) {
	if err := loadDotEnvIfPresent(".env"); err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		logger:          logger,
		pollInterval:    defaultPollInterval,
		maxSamples:      defaultMaxSamples,
		stableThreshold: defaultStableThreshold,
		forceExtend:     true,
	}

	if value, ok := lookupTrimmed(envPollInterval); ok {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envPollInterval, err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("%s must be greater than zero", envPollInterval)
		}
		cfg.pollInterval = interval
	}

	var err error
	if cfg.maxSamples, err = positiveInt(envMaxSamples, cfg.maxSamples); err != nil {
		return nil, err
	}
	if cfg.stableThreshold, err = positiveInt(envStableThreshold, cfg.stableThreshold); err != nil {
		return nil, err
	}
	if cfg.forceExtend, err = boolValue(envForceExtend, cfg.forceExtend); err != nil {
		return nil, err
	}
	if cfg.dryRun, err = boolValue(envDryRun, cfg.dryRun); err != nil {
		return nil, err
	}
	if value, ok := lookupTrimmed(envPreviewPath); ok {
		cfg.previewPath = value
	}

	cfg.applyFlags(flags)
	cfg.previewPath = expandPath(cfg.previewPath)

	logger.Info("Configuration loaded",
		zap.Duration("pollInterval", cfg.pollInterval),
		zap.Int("maxSamples", cfg.maxSamples),
		zap.Int("stableThreshold", cfg.stableThreshold),
		zap.Bool("forceExtend", cfg.forceExtend),
		zap.Bool("dryRun", cfg.dryRun),
		zap.String("previewPath", cfg.previewPath))

	return cfg, nil
}

func (c *AppConfig) applyFlags(flags Flags) {
	if flags.Sequence != "" {
		c.sequence = flags.Sequence
	}
	if flags.DryRun {
		c.dryRun = true
	}
	if flags.NoExtend {
		c.forceExtend = false
	}
	if flags.PreviewPath != "" {
		c.previewPath = flags.PreviewPath
	}
}

// GetPollInterval returns the delay before each topology sample
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetMaxSamples returns the size of the stabilization window in samples
func (c *AppConfig) GetMaxSamples() int {
	return c.maxSamples
}

// GetStableThreshold returns the number of steady samples that end the window
func (c *AppConfig) GetStableThreshold() int {
	return c.stableThreshold
}

// GetForceExtend reports whether extended mode is forced before sampling
func (c *AppConfig) GetForceExtend() bool {
	return c.forceExtend
}

// GetDryRun reports whether plans are only logged
func (c *AppConfig) GetDryRun() bool {
	return c.dryRun
}

// GetPreviewPath returns the preview PNG path, or "" when disabled
func (c *AppConfig) GetPreviewPath() string {
	return c.previewPath
}

// GetSequence returns the sequence given on the command line, if any
func (c *AppConfig) GetSequence() string {
	return c.sequence
}

// LogLevel reads the log level before the logger exists
func LogLevel() string {
	if value, ok := lookupTrimmed(envLogLevel); ok {
		return strings.ToLower(value)
	}
	return defaultLogLevel
}

func loadDotEnvIfPresent(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func lookupTrimmed(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func positiveInt(key string, fallback int) (int, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", key)
	}
	return n, nil
}

func boolValue(key string, fallback bool) (bool, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
