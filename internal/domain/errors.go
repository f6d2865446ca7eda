package domain

import "errors"

var (
	// ErrTopologyUnstable is reported when the stabilization window elapsed
	// without a steady plural count. Not fatal.
	ErrTopologyUnstable = errors.New("display topology did not stabilize")

	// ErrInsufficientMonitors aborts the run before any OS mutation
	ErrInsufficientMonitors = errors.New("fewer than two monitors detected")

	// ErrInvalidSequence rejects operator input before planning
	ErrInvalidSequence = errors.New("invalid monitor sequence")

	// ErrResolutionRead is a per-monitor planning failure; the monitor is skipped
	ErrResolutionRead = errors.New("could not read display settings")

	// ErrStageFailed is a per-monitor staging failure
	ErrStageFailed = errors.New("staging failed")

	// ErrCommitFailed means the OS rejected the final apply. Staged changes are not rolled back.
	ErrCommitFailed = errors.New("commit failed")

	// ErrUnsupported is returned by backends that cannot reconfigure displays
	ErrUnsupported = errors.New("display configuration not supported on this platform")
)
