//go:build !linux && !windows
// +build !linux,!windows

package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier only writes notices to the log on unsupported platforms
type LogNotifier struct {
	logger *zap.Logger
}

// New creates a log-only notifier
func New(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message
func (n *LogNotifier) Notify(ctx context.Context, title, message string) error {
	n.logger.Warn(title, zap.String("notice", message))
	return nil
}

// Close is a no-op
func (n *LogNotifier) Close() error {
	return nil
}
