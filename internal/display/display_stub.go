//go:build !linux && !windows
// +build !linux,!windows

package display

import (
	"fmt"

	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/status"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

// ReadOnlySystem reports the topology through the screenshot library but
// cannot reconfigure displays (macOS, BSD, etc.)
type ReadOnlySystem struct {
	logger *zap.Logger
}

// NewSystem creates a read-only display system for unsupported platforms
func NewSystem(logger *zap.Logger) (*ReadOnlySystem, error) {
	logger.Warn("Display arrangement is not implemented for this platform, running read-only")
	return &ReadOnlySystem{logger: logger}, nil
}

// ForceExtend is a no-op on this platform
func (s *ReadOnlySystem) ForceExtend() error {
	return nil
}

// Displays lists the active displays; index 0 is the main display
func (s *ReadOnlySystem) Displays() ([]domain.Display, error) {
	n := screenshot.NumActiveDisplays()
	displays := make([]domain.Display, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		displays = append(displays, domain.Display{
			DeviceName: fmt.Sprintf("display%d", i),
			Primary:    i == 0,
			Bounds:     domain.Rect{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()},
		})
	}
	return displays, nil
}

// CurrentMode reads the bounds of a display by its index name
func (s *ReadOnlySystem) CurrentMode(deviceName string) (domain.Mode, error) {
	var idx int
	if _, err := fmt.Sscanf(deviceName, "display%d", &idx); err != nil {
		return domain.Mode{}, fmt.Errorf("unknown display %q: %w", deviceName, err)
	}
	if idx < 0 || idx >= screenshot.NumActiveDisplays() {
		return domain.Mode{}, fmt.Errorf("display %q is no longer active", deviceName)
	}
	b := screenshot.GetDisplayBounds(idx)
	return domain.Mode{Width: b.Dx(), Height: b.Dy(), X: b.Min.X, Y: b.Min.Y}, nil
}

// StagePosition always fails on this platform
func (s *ReadOnlySystem) StagePosition(deviceName string, x, y int) (int32, error) {
	return status.CodeFailed, domain.ErrUnsupported
}

// CommitStaged always fails on this platform
func (s *ReadOnlySystem) CommitStaged() int32 {
	return status.CodeFailed
}

// Close is a no-op
func (s *ReadOnlySystem) Close() error {
	return nil
}
