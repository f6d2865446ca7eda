package stabilizer

import (
	"context"
	"fmt"
	"time"

	"github.com/genricoloni/lineup/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultInterval  = 500 * time.Millisecond
	defaultSamples   = 20
	defaultThreshold = 4
)

// Probe samples the attached displays
type Probe interface {
	Displays() ([]domain.Display, error)
}

// Result is the outcome of one stabilization window
type Result struct {
	// Displays is the final, authoritative sample
	Displays []domain.Display
	// Samples is the number of samples taken inside the window (the final one excluded)
	Samples int
	// Stable is false when the window timed out
	Stable bool
}

// Stabilizer waits for the monitor count to settle after a hot-plug or docking event.
// The OS may report a new topology in several steps, so a single read races the hardware.
type Stabilizer struct {
	logger    *zap.Logger
	probe     Probe
	interval  time.Duration
	samples   int
	threshold int
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewStabilizer creates a stabilizer using the configured window
func NewStabilizer(logger *zap.Logger, probe domain.DisplaySystem, cfg domain.Config) *Stabilizer {
	s := New(logger, probe)
	if d := cfg.GetPollInterval(); d > 0 {
		s.interval = d
	}
	if n := cfg.GetMaxSamples(); n > 0 {
		s.samples = n
	}
	if n := cfg.GetStableThreshold(); n > 0 {
		s.threshold = n
	}
	return s
}

// New creates a stabilizer with the default window (20 samples every 500ms, 4 steady samples)
func New(logger *zap.Logger, probe Probe) *Stabilizer {
	return &Stabilizer{
		logger:    logger,
		probe:     probe,
		interval:  defaultInterval,
		samples:   defaultSamples,
		threshold: defaultThreshold,
		sleep:     sleepCtx,
	}
}

// Wait samples the topology until the count is plural and unchanged for the
// threshold number of consecutive samples, or until the window elapses.
// It then takes one final sample and returns it.
//
// A timed out window is not an error: the result has Stable=false and the
// caller proceeds with the final sample. ErrInsufficientMonitors is returned
// when the final sample has fewer than two displays.
func (s *Stabilizer) Wait(ctx context.Context) (*Result, error) {
	stableCount := 0
	lastCount := 0
	taken := 0
	stable := false

	for i := 0; i < s.samples; i++ {
		if err := s.sleep(ctx, s.interval); err != nil {
			return nil, err
		}
		taken++

		count := 0
		displays, err := s.probe.Displays()
		if err != nil {
			s.logger.Warn("Topology sample failed", zap.Int("sample", taken), zap.Error(err))
		} else {
			count = len(displays)
		}

		if count > 1 && count == lastCount {
			stableCount++
		} else {
			stableCount = 0
		}
		lastCount = count

		s.logger.Debug("Topology sample",
			zap.Int("sample", taken),
			zap.Int("monitors", count),
			zap.Int("stable", stableCount))

		if stableCount >= s.threshold {
			stable = true
			break
		}
	}

	if !stable {
		s.logger.Warn("Proceeding with best available topology",
			zap.Int("samples", taken),
			zap.Error(domain.ErrTopologyUnstable))
	}

	displays, err := s.probe.Displays()
	if err != nil {
		return nil, fmt.Errorf("final topology sample: %w", err)
	}

	s.logger.Info("Topology sampled",
		zap.Int("monitors", len(displays)),
		zap.Int("samples", taken),
		zap.Bool("stable", stable))

	if len(displays) < 2 {
		return nil, fmt.Errorf("%w: found %d", domain.ErrInsufficientMonitors, len(displays))
	}

	return &Result{Displays: displays, Samples: taken, Stable: stable}, nil
}

// sleepCtx blocks for d, or until ctx is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
