//go:build linux
// +build linux

package display

import (
	"fmt"
	"math"
	"sync"

	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/status"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
	"go.uber.org/zap"
)

// output is an active RandR output and the CRTC driving it
type output struct {
	name string
	id   randr.Output
	crtc randr.Crtc
}

type crtcRef struct {
	crtc   randr.Crtc
	config xproto.Timestamp
}

// X11System drives the X server through the RandR extension.
// Positions are buffered by StagePosition and applied together by
// CommitStaged inside a server grab.
type X11System struct {
	logger *zap.Logger

	mu      sync.Mutex
	conn    *xgb.Conn
	root    xproto.Window
	pending []pendingPosition
}

// NewSystem creates the platform display system (Linux implementation).
// The X connection is opened on first use.
func NewSystem(logger *zap.Logger) (*X11System, error) {
	logger.Info("X11 RandR display system initialized")
	return &X11System{logger: logger}, nil
}

// connect opens the X connection once. Callers hold s.mu.
func (s *X11System) connect() error {
	if s.conn != nil {
		return nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("x11 connection failed: %w", err)
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return fmt.Errorf("randr init failed: %w", err)
	}

	s.conn = conn
	s.root = xproto.Setup(conn).DefaultScreen(conn).Root
	return nil
}

// ForceExtend is not applicable: RandR already exposes every active CRTC
// as an independent region. Mirrored outputs share one CRTC and show up once.
func (s *X11System) ForceExtend() error {
	s.logger.Debug("Extended mode is implicit under RandR")
	return nil
}

// Displays lists the active CRTCs in resource order
func (s *X11System) Displays() ([]domain.Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(); err != nil {
		return nil, err
	}

	outputs, res, err := s.activeOutputs()
	if err != nil {
		return nil, err
	}

	primary, err := randr.GetOutputPrimary(s.conn, s.root).Reply()
	if err != nil {
		s.logger.Warn("Could not query primary output", zap.Error(err))
	}

	displays := make([]domain.Display, 0, len(outputs))
	for _, o := range outputs {
		info, err := randr.GetCrtcInfo(s.conn, o.crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		displays = append(displays, domain.Display{
			DeviceName: o.name,
			Primary:    primary != nil && primary.Output == o.id,
			Bounds: domain.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	return displays, nil
}

// CurrentMode reads the CRTC geometry currently driving the output
func (s *X11System) CurrentMode(deviceName string) (domain.Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(); err != nil {
		return domain.Mode{}, err
	}

	info, _, err := s.crtcFor(deviceName)
	if err != nil {
		return domain.Mode{}, err
	}

	return domain.Mode{
		Width:  int(info.Width),
		Height: int(info.Height),
		X:      int(info.X),
		Y:      int(info.Y),
	}, nil
}

// StagePosition re-reads the output's CRTC and buffers the new position
func (s *X11System) StagePosition(deviceName string, x, y int) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(); err != nil {
		return status.CodeFailed, err
	}

	info, _, err := s.crtcFor(deviceName)
	if err != nil {
		return status.CodeFailed, err
	}
	if x < math.MinInt16 || x > math.MaxInt16 || y < math.MinInt16 || y > math.MaxInt16 {
		return status.CodeBadMode, nil
	}

	s.pending = append(s.pending, pendingPosition{
		device: deviceName,
		x:      x,
		y:      y,
		width:  int(info.Width),
		height: int(info.Height),
	})
	return status.CodeSuccess, nil
}

// CommitStaged applies the buffered positions under a server grab.
// The first failing request decides the returned code.
func (s *X11System) CommitStaged() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending
	s.pending = nil
	if len(pending) == 0 {
		return status.CodeSuccess
	}
	if err := s.connect(); err != nil {
		s.logger.Error("Commit failed", zap.Error(err))
		return status.CodeFailed
	}

	placed, width, height := normalizeOrigin(pending)
	if width > math.MaxUint16 || height > math.MaxUint16 {
		return status.CodeBadMode
	}

	if err := xproto.GrabServerChecked(s.conn).Check(); err != nil {
		s.logger.Error("Could not grab X server", zap.Error(err))
		return status.CodeFailed
	}
	defer func() {
		if err := xproto.UngrabServerChecked(s.conn).Check(); err != nil {
			s.logger.Warn("Could not release X server grab", zap.Error(err))
		}
	}()

	screen := xproto.Setup(s.conn).DefaultScreen(s.conn)
	grow := width > int(screen.WidthInPixels) || height > int(screen.HeightInPixels)
	if grow {
		if code := s.resizeScreen(max(width, int(screen.WidthInPixels)), max(height, int(screen.HeightInPixels))); code != status.CodeSuccess {
			return code
		}
	}

	for _, p := range placed {
		info, ref, err := s.crtcFor(p.device)
		if err != nil {
			s.logger.Error("Output disappeared before commit", zap.String("device", p.device), zap.Error(err))
			return status.CodeFailed
		}
		reply, err := randr.SetCrtcConfig(s.conn, ref.crtc, xproto.TimeCurrentTime, ref.config,
			int16(p.x), int16(p.y), info.Mode, info.Rotation, info.Outputs).Reply()
		if err != nil {
			s.logger.Error("SetCrtcConfig rejected", zap.String("device", p.device), zap.Error(err))
			return status.CodeBadMode
		}
		if code := setConfigCode(reply.Status); code != status.CodeSuccess {
			return code
		}
	}

	// Outputs left out of the commit keep their place and must stay on screen
	unstaged, err := s.unstagedPositions(placed)
	if err != nil {
		s.logger.Warn("Could not read unstaged outputs, keeping the screen size", zap.Error(err))
		return status.CodeSuccess
	}
	width, height = coverExtent(width, height, unstaged)

	return s.resizeScreen(width, height)
}

// unstagedPositions returns the current geometry of active outputs that are
// not part of placed
func (s *X11System) unstagedPositions(placed []pendingPosition) ([]pendingPosition, error) {
	staged := make(map[string]bool, len(placed))
	for _, p := range placed {
		staged[p.device] = true
	}

	outputs, res, err := s.activeOutputs()
	if err != nil {
		return nil, err
	}

	var out []pendingPosition
	for _, o := range outputs {
		if staged[o.name] {
			continue
		}
		info, err := randr.GetCrtcInfo(s.conn, o.crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("crtc info for %s: %w", o.name, err)
		}
		out = append(out, pendingPosition{
			device: o.name,
			x:      int(info.X),
			y:      int(info.Y),
			width:  int(info.Width),
			height: int(info.Height),
		})
	}
	return out, nil
}

// Close releases the X connection
func (s *X11System) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}

func (s *X11System) resizeScreen(width, height int) int32 {
	err := randr.SetScreenSizeChecked(s.conn, s.root, uint16(width), uint16(height),
		millimetres(width), millimetres(height)).Check()
	if err != nil {
		s.logger.Error("SetScreenSize rejected", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		return status.CodeBadMode
	}
	return status.CodeSuccess
}

// activeOutputs returns outputs driven by an enabled CRTC, in CRTC order
func (s *X11System) activeOutputs() ([]output, *randr.GetScreenResourcesCurrentReply, error) {
	res, err := randr.GetScreenResourcesCurrent(s.conn, s.root).Reply()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []output
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(s.conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("crtc-%d", crtc)
		outInfo, err := randr.GetOutputInfo(s.conn, info.Outputs[0], res.ConfigTimestamp).Reply()
		if err == nil {
			name = string(outInfo.Name)
		}
		outputs = append(outputs, output{name: name, id: info.Outputs[0], crtc: crtc})
	}

	return outputs, res, nil
}

// crtcFor looks up the CRTC driving deviceName and the configuration
// timestamp it was read under
func (s *X11System) crtcFor(deviceName string) (*randr.GetCrtcInfoReply, crtcRef, error) {
	outputs, res, err := s.activeOutputs()
	if err != nil {
		return nil, crtcRef{}, err
	}
	for _, o := range outputs {
		if o.name != deviceName {
			continue
		}
		info, err := randr.GetCrtcInfo(s.conn, o.crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, crtcRef{}, fmt.Errorf("crtc info for %s: %w", deviceName, err)
		}
		return info, crtcRef{crtc: o.crtc, config: res.ConfigTimestamp}, nil
	}
	return nil, crtcRef{}, fmt.Errorf("output %s is not active", deviceName)
}

// setConfigCode maps RandR SetConfig statuses into the DISP_CHANGE space
func setConfigCode(st byte) int32 {
	switch st {
	case randr.SetConfigSuccess:
		return status.CodeSuccess
	case randr.SetConfigInvalidConfigTime, randr.SetConfigInvalidTime:
		return status.CodeBadParam
	default:
		return status.CodeFailed
	}
}
