package domain

import (
	"context"
	"time"
)

// DisplaySystem is the narrow gateway to the OS display configuration.
// It is the only place where live display state is read or mutated.
//
//go:generate mockgen -destination=mocks/display_system_mock.go -package=mocks github.com/genricoloni/lineup/internal/domain DisplaySystem
type DisplaySystem interface {
	// ForceExtend switches the topology to independent (extended) displays
	ForceExtend() error

	// Displays samples the attached displays in OS enumeration order
	Displays() ([]Display, error)

	// CurrentMode re-reads the current native mode of a display
	CurrentMode(deviceName string) (Mode, error)

	// StagePosition persists a new position for the display without applying it.
	// The returned code is in the DISP_CHANGE space (see status.Translate).
	// A non-nil error means the request could not be submitted at all.
	StagePosition(deviceName string, x, y int) (int32, error)

	// CommitStaged applies every staged change in one request
	CommitStaged() int32

	// Close releases any OS connection held by the backend
	Close() error
}

// Notifier shows a user-facing notice outside of the log stream
type Notifier interface {
	// Notify displays a short message to the operator
	Notify(ctx context.Context, title, message string) error
}

// Config defines the interface for application configuration
type Config interface {
	// GetPollInterval returns the delay before each topology sample
	GetPollInterval() time.Duration

	// GetMaxSamples returns the maximum number of samples in the stabilization window
	GetMaxSamples() int

	// GetStableThreshold returns how many consecutive steady samples end the window early
	GetStableThreshold() int

	// GetForceExtend reports whether the topology is switched to extended mode first
	GetForceExtend() bool

	// GetDryRun reports whether plans are logged without being staged
	GetDryRun() bool

	// GetPreviewPath returns where the layout preview is written, or "" when disabled
	GetPreviewPath() string

	// GetSequence returns a sequence supplied up front, or "" for interactive input
	GetSequence() string
}
