package domain

import (
	"fmt"

	"github.com/genricoloni/lineup/internal/status"
	"go.uber.org/multierr"
)

// Rect describes a rectangular region in desktop coordinates
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display is one entry of a raw topology sample, in OS enumeration order
type Display struct {
	// DeviceName is the opaque OS handle used for every later call
	DeviceName string
	// Primary marks the display the OS anchors the desktop origin to
	Primary bool
	// Bounds as reported at sampling time
	Bounds Rect
}

// MonitorDescriptor is a display with its per-run catalog ID
type MonitorDescriptor struct {
	// ID is assigned 1..N in enumeration order and is only valid for this run
	ID         int
	DeviceName string
	Primary    bool
	// Bounds at discovery time. Only used for labelling, never for planning.
	Bounds Rect
}

// Mode holds the current native resolution and position of a display
type Mode struct {
	Width  int
	Height int
	X      int
	Y      int
}

// PlannedOffsets maps catalog IDs to their target X coordinate (Y is always 0)
type PlannedOffsets map[int]int

// StageResult reports the staging attempt for a single monitor
type StageResult struct {
	ID         int
	DeviceName string
	X          int
	Code       int32
	Status     status.Status
	// Err is set when the backend could not even submit the request
	Err error
}

// OK reports whether the monitor was staged successfully
func (r StageResult) OK() bool {
	return r.Err == nil && r.Status.Kind == status.Success
}

// TransactionOutcome is the report of one stage-and-commit attempt
type TransactionOutcome struct {
	Stages       []StageResult
	CommitCode   int32
	CommitStatus status.Status
}

// Committed reports whether the OS accepted the new layout
func (o *TransactionOutcome) Committed() bool {
	return o.CommitStatus.Kind == status.Success
}

// Err aggregates every per-monitor staging failure and the commit failure.
// Returns nil when everything succeeded.
func (o *TransactionOutcome) Err() error {
	var err error
	for _, st := range o.Stages {
		if st.OK() {
			continue
		}
		if st.Err != nil {
			err = multierr.Append(err, fmt.Errorf("monitor %d: %w: %w", st.ID, ErrStageFailed, st.Err))
			continue
		}
		err = multierr.Append(err, fmt.Errorf("monitor %d: %w: %s", st.ID, ErrStageFailed, st.Status))
	}
	if !o.Committed() {
		err = multierr.Append(err, fmt.Errorf("%w: %s", ErrCommitFailed, o.CommitStatus))
	}
	return err
}
