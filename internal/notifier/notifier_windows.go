//go:build windows
// +build windows

package notifier

import (
	"context"
	"fmt"

	"github.com/lxn/win"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// MessageBoxNotifier shows a blocking warning dialog
type MessageBoxNotifier struct {
	logger *zap.Logger
}

// New creates the platform notifier (Windows implementation)
func New(logger *zap.Logger) *MessageBoxNotifier {
	return &MessageBoxNotifier{logger: logger}
}

// Notify shows the message in a MessageBox and logs it
func (n *MessageBoxNotifier) Notify(ctx context.Context, title, message string) error {
	n.logger.Warn(title, zap.String("notice", message))

	if err := ctx.Err(); err != nil {
		return err
	}

	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return fmt.Errorf("invalid notice text: %w", err)
	}
	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return fmt.Errorf("invalid notice title: %w", err)
	}

	win.MessageBox(0, text, caption, win.MB_OK|win.MB_ICONWARNING|win.MB_SETFOREGROUND)
	return nil
}

// Close is a no-op
func (n *MessageBoxNotifier) Close() error {
	return nil
}
