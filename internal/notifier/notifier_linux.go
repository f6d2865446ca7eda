//go:build linux
// +build linux

package notifier

import "go.uber.org/zap"

// New creates the platform notifier (Linux implementation)
func New(logger *zap.Logger) *DBusNotifier {
	return NewDBusNotifier(logger)
}
