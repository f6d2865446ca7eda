package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/domain/mocks"
	"github.com/genricoloni/lineup/internal/planner"
	"github.com/genricoloni/lineup/internal/preview"
	"github.com/genricoloni/lineup/internal/stabilizer"
	"github.com/genricoloni/lineup/internal/status"
	"github.com/genricoloni/lineup/internal/transaction"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testConfig struct {
	forceExtend bool
	dryRun      bool
	previewPath string
	sequence    string
}

func (c testConfig) GetPollInterval() time.Duration { return time.Millisecond }
func (c testConfig) GetMaxSamples() int { return 5 }
func (c testConfig) GetStableThreshold() int { return 1 }
func (c testConfig) GetForceExtend() bool { return c.forceExtend }
func (c testConfig) GetDryRun() bool { return c.dryRun }
func (c testConfig) GetPreviewPath() string { return c.previewPath }
func (c testConfig) GetSequence() string { return c.sequence }

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, title, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

// laptopAndPortrait is a primary laptop panel with a portrait monitor on its right
func laptopAndPortrait() []domain.Display {
	return []domain.Display{
		{DeviceName: "eDP-1", Primary: true, Bounds: domain.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{DeviceName: "HDMI-1", Bounds: domain.Rect{X: 1920, Y: 0, Width: 1080, Height: 1920}},
	}
}

func expectModes(m *mocks.MockDisplaySystem) {
	m.EXPECT().CurrentMode("eDP-1").Return(domain.Mode{Width: 1920, Height: 1080}, nil).AnyTimes()
	m.EXPECT().CurrentMode("HDMI-1").Return(domain.Mode{Width: 1080, Height: 1920, X: 1920}, nil).AnyTimes()
}

// expectSwap expects the portrait monitor moved to the left of the primary
func expectSwap(m *mocks.MockDisplaySystem, commit int32) {
	gomock.InOrder(
		m.EXPECT().StagePosition("HDMI-1", -1080, 0).Return(status.CodeSuccess, nil),
		m.EXPECT().StagePosition("eDP-1", 0, 0).Return(status.CodeSuccess, nil),
		m.EXPECT().CommitStaged().Return(commit),
	)
}

func newTestEngine(logger *zap.Logger, sys domain.DisplaySystem, cfg domain.Config, n domain.Notifier) *Engine {
	return NewEngine(
		logger,
		cfg,
		sys,
		n,
		stabilizer.NewStabilizer(logger, sys, cfg),
		planner.NewPlanner(logger, sys),
		transaction.NewTransaction(logger, sys),
		preview.NewRenderer(logger),
	)
}

func TestRun_OneShot(t *testing.T) {
	tests := []struct {
		name          string
		cfg           testConfig
		setupMock     func(*mocks.MockDisplaySystem)
		expectedError error
	}{
		{
			name: "Success - Swap Applied",
			cfg:  testConfig{forceExtend: true, sequence: "21"},
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().ForceExtend().Return(nil)
				m.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
				expectModes(m)
				expectSwap(m, status.CodeSuccess)
			},
		},
		{
			name: "Success - Extend Failure Is Not Fatal",
			cfg:  testConfig{forceExtend: true, sequence: "2 1"},
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().ForceExtend().Return(errors.New("topology locked"))
				m.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
				expectModes(m)
				expectSwap(m, status.CodeSuccess)
			},
		},
		{
			name: "Error - Commit Rejected",
			cfg:  testConfig{sequence: "21"},
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
				expectModes(m)
				expectSwap(m, status.CodeBadMode)
			},
			expectedError: domain.ErrCommitFailed,
		},
		{
			name: "Error - Unreadable Monitor Fails The Run",
			cfg:  testConfig{sequence: "21"},
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
				m.EXPECT().CurrentMode("HDMI-1").Return(domain.Mode{}, errors.New("EnumDisplaySettings failed"))
				m.EXPECT().CurrentMode("eDP-1").Return(domain.Mode{Width: 1920, Height: 1080}, nil)
				gomock.InOrder(
					m.EXPECT().StagePosition("eDP-1", 0, 0).Return(status.CodeSuccess, nil),
					m.EXPECT().CommitStaged().Return(status.CodeSuccess),
				)
			},
			expectedError: domain.ErrResolutionRead,
		},
		{
			name: "Error - Invalid Sequence Stages Nothing",
			cfg:  testConfig{sequence: "112"},
			setupMock: func(m *mocks.MockDisplaySystem) {
				m.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
			},
			expectedError: domain.ErrInvalidSequence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sys := mocks.NewMockDisplaySystem(ctrl)
			tt.setupMock(sys)

			e := newTestEngine(zap.NewNop(), sys, tt.cfg, &recordingNotifier{})
			err := e.Run(t.Context(), strings.NewReader(""))

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRun_InsufficientMonitorsNotifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)
	sys.EXPECT().Displays().Return(laptopAndPortrait()[:1], nil).AnyTimes()

	n := &recordingNotifier{}
	e := newTestEngine(zap.NewNop(), sys, testConfig{sequence: "1"}, n)

	err := e.Run(t.Context(), strings.NewReader(""))
	if !errors.Is(err, domain.ErrInsufficientMonitors) {
		t.Fatalf("expected ErrInsufficientMonitors, got %v", err)
	}
	if len(n.messages) != 1 || n.messages[0] != insufficientNotice {
		t.Errorf("expected one notice, got %v", n.messages)
	}
}

func TestRun_Interactive(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)
	sys.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
	expectModes(sys)
	expectSwap(sys, status.CodeSuccess)

	core, logs := observer.New(zapcore.InfoLevel)
	e := newTestEngine(zap.New(core), sys, testConfig{}, &recordingNotifier{})

	// Two rejected attempts, one applied, then quit; the trailing line is never read
	input := "abc\n3 1\n\n21\nQuit\n12\n"
	if err := e.Run(t.Context(), strings.NewReader(input)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := logs.FilterMessage("Sequence rejected, try again").Len(); n != 2 {
		t.Errorf("expected 2 rejections, got %d", n)
	}
	if n := logs.FilterMessage("Starting rearrangement...").Len(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
	if n := logs.FilterMessage("Sequence finished. Check that the layout is correct.").Len(); n != 1 {
		t.Errorf("expected 1 finished attempt, got %d", n)
	}
}

func TestRun_InteractiveEOF(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)
	sys.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()

	e := newTestEngine(zap.NewNop(), sys, testConfig{}, &recordingNotifier{})
	if err := e.Run(t.Context(), strings.NewReader("")); err != nil {
		t.Fatalf("expected clean exit on EOF, got %v", err)
	}
}

func TestRun_CancelledBeforeSampling(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	e := newTestEngine(zap.NewNop(), sys, testConfig{sequence: "21"}, &recordingNotifier{})
	if err := e.Run(ctx, strings.NewReader("")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestArrange_DryRunWritesPreview(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)
	sys.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()
	expectModes(sys)
	// no StagePosition or CommitStaged expected

	path := filepath.Join(t.TempDir(), "layout.png")
	core, logs := observer.New(zapcore.InfoLevel)
	e := newTestEngine(zap.New(core), sys, testConfig{dryRun: true, previewPath: path}, &recordingNotifier{})

	cat, err := e.Prepare(t.Context())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if n := logs.FilterMessage("Monitor").Len(); n != 2 {
		t.Errorf("expected 2 catalog lines, got %d", n)
	}

	outcome, err := e.Arrange(t.Context(), cat, "21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != nil {
		t.Errorf("expected no outcome for a dry run, got %+v", outcome)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("preview not written: %v", err)
	}

	planned := logs.FilterMessage("Planned position").All()
	if len(planned) != 2 {
		t.Fatalf("expected 2 planned positions, got %d", len(planned))
	}
	if x := planned[0].ContextMap()["x"]; x != int64(-1080) {
		t.Errorf("expected first monitor at -1080, got %v", x)
	}
}

func TestStop_ClosesBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)
	sys.EXPECT().Close().Return(nil)

	e := newTestEngine(zap.NewNop(), sys, testConfig{}, &recordingNotifier{})
	if err := e.Stop(t.Context()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSampleSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := mocks.NewMockDisplaySystem(ctrl)
	sys.EXPECT().Displays().Return(laptopAndPortrait(), nil).AnyTimes()

	e := newTestEngine(zap.NewNop(), sys, testConfig{}, &recordingNotifier{})
	cat, err := e.Prepare(t.Context())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if got := sampleSequence(cat); got != "21" {
		t.Errorf("expected 21, got %s", got)
	}
}
