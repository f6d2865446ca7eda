package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/genricoloni/lineup/internal/config"
	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/domain/mocks"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type silentNotifier struct{}

func (silentNotifier) Notify(ctx context.Context, title, message string) error { return nil }

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(
		AppOptions,
		fx.Supply(config.Flags{}),
		fx.Supply(Input{Reader: strings.NewReader("")}),
	)

	if err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	logger.Info("Test logger initialization")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	t.Setenv("LINEUP_LOG_LEVEL", "loud")
	if _, err := newLogger(); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

// TestEndToEndSession runs a whole session against a mocked backend and
// checks the exit code delivered through the shutdowner
func TestEndToEndSession(t *testing.T) {
	tests := []struct {
		name         string
		sequence     string
		setupMock    func(*mocks.MockDisplaySystem)
		expectedCode int
	}{
		{
			name:     "Success - Layout Applied",
			sequence: "21",
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().Displays().Return([]domain.Display{
					{DeviceName: "A", Primary: true, Bounds: domain.Rect{Width: 1920, Height: 1080}},
					{DeviceName: "B", Bounds: domain.Rect{X: 1920, Width: 1920, Height: 1080}},
				}, nil).AnyTimes()
				m.EXPECT().CurrentMode(gomock.Any()).Return(domain.Mode{Width: 1920, Height: 1080}, nil).Times(2)
				m.EXPECT().StagePosition("B", -1920, 0).Return(int32(0), nil)
				m.EXPECT().StagePosition("A", 0, 0).Return(int32(0), nil)
				m.EXPECT().CommitStaged().Return(int32(0))
			},
			expectedCode: 0,
		},
		{
			name:     "Error - Single Monitor",
			sequence: "1",
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().Displays().Return([]domain.Display{
					{DeviceName: "A", Primary: true, Bounds: domain.Rect{Width: 1920, Height: 1080}},
				}, nil).AnyTimes()
			},
			expectedCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINEUP_POLL_INTERVAL", "1ms")
			t.Setenv("LINEUP_FORCE_EXTEND", "false")

			ctrl := gomock.NewController(t)
			sys := mocks.NewMockDisplaySystem(ctrl)
			tt.setupMock(sys)
			sys.EXPECT().Close().Return(nil)

			app := fx.New(
				AppOptions,
				fx.NopLogger, // Silence Fx logs during tests
				fx.Supply(config.Flags{Sequence: tt.sequence}),
				fx.Supply(Input{Reader: strings.NewReader("")}),
				fx.Decorate(func() domain.DisplaySystem { return sys }),
				fx.Decorate(func() domain.Notifier { return silentNotifier{} }),
			)

			if err := app.Start(t.Context()); err != nil {
				t.Fatalf("App failed to start: %v", err)
			}

			sig := <-app.Wait()
			if sig.ExitCode != tt.expectedCode {
				t.Errorf("expected exit code %d, got %d", tt.expectedCode, sig.ExitCode)
			}

			if err := app.Stop(t.Context()); err != nil {
				t.Fatalf("App failed to stop: %v", err)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "Success", err: nil, expected: 0},
		{name: "Interrupted", err: context.Canceled, expected: 0},
		{name: "Insufficient Monitors", err: fmt.Errorf("%w: found 1", domain.ErrInsufficientMonitors), expected: 1},
		{name: "Commit Failed", err: domain.ErrCommitFailed, expected: 1},
		{name: "Other", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(zap.NewNop(), tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
