package notifier

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	appName         = "lineup"
	notifyTimeoutMs = 10000
)

// DBusNotifier raises freedesktop desktop notifications over the session bus
type DBusNotifier struct {
	logger *zap.Logger
	dial   func() (DBusClient, error)

	mu   sync.Mutex
	conn DBusClient
}

// NewDBusNotifier creates a notifier that connects lazily on first use
func NewDBusNotifier(logger *zap.Logger) *DBusNotifier {
	return &DBusNotifier{
		logger: logger,
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
	}
}

// Notify shows the message as a desktop notification.
// The message is always written to the log as well, so a missing
// notification daemon never hides the notice.
func (n *DBusNotifier) Notify(ctx context.Context, title, message string) error {
	n.logger.Warn(title, zap.String("notice", message))

	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		conn, err := n.dial()
		if err != nil {
			return fmt.Errorf("session bus connection failed: %w", err)
		}
		n.conn = conn
	}

	id, err := n.conn.Notify(appName, title, message, notifyTimeoutMs)
	if err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}

	n.logger.Debug("Desktop notification sent", zap.Uint32("id", id))
	return nil
}

// Close releases the D-Bus connection if one was opened
func (n *DBusNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}
