//go:build windows
// +build windows

package display

import (
	"fmt"
	"unsafe"

	"github.com/genricoloni/lineup/internal/domain"
	"github.com/genricoloni/lineup/internal/status"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	enumCurrentSettings = 0xFFFFFFFF

	cdsUpdateRegistry = 0x00000001
	cdsNoReset        = 0x10000000

	dmPosition   = 0x00000020
	dmPelsWidth  = 0x00080000
	dmPelsHeight = 0x00100000

	displayDeviceAttachedToDesktop = 0x00000001
	displayDevicePrimaryDevice     = 0x00000004
	displayDeviceMirroringDriver   = 0x00000008

	sdcTopologyExtend = 0x00000004
	sdcApply          = 0x00000080
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumDisplayDevicesW      = user32.NewProc("EnumDisplayDevicesW")
	procEnumDisplaySettingsW     = user32.NewProc("EnumDisplaySettingsW")
	procChangeDisplaySettingsExW = user32.NewProc("ChangeDisplaySettingsExW")
	procSetDisplayConfig         = user32.NewProc("SetDisplayConfig")
	procSetProcessDPIAware       = user32.NewProc("SetProcessDPIAware")
)

// displayDevice mirrors DISPLAY_DEVICEW
type displayDevice struct {
	cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [128]uint16
	DeviceKey    [128]uint16
}

// devMode mirrors the display variant of DEVMODEW
type devMode struct {
	DeviceName         [32]uint16
	SpecVersion        uint16
	DriverVersion      uint16
	Size               uint16
	DriverExtra        uint16
	Fields             uint32
	PositionX          int32
	PositionY          int32
	DisplayOrientation uint32
	DisplayFixedOutput uint32
	Color              int16
	Duplex             int16
	YResolution        int16
	TTOption           int16
	Collate            int16
	FormName           [32]uint16
	LogPixels          uint16
	BitsPerPel         uint32
	PelsWidth          uint32
	PelsHeight         uint32
	DisplayFlags       uint32
	DisplayFrequency   uint32
	ICMMethod          uint32
	ICMIntent          uint32
	MediaType          uint32
	DitherType         uint32
	Reserved1          uint32
	Reserved2          uint32
	PanningWidth       uint32
	PanningHeight      uint32
}

// WindowsSystem drives the user32 display settings API
type WindowsSystem struct {
	logger *zap.Logger
}

// NewSystem creates the platform display system (Windows implementation).
// The process is marked DPI aware so modes are reported in physical pixels.
func NewSystem(logger *zap.Logger) (*WindowsSystem, error) {
	if err := procSetProcessDPIAware.Find(); err == nil {
		if r, _, _ := procSetProcessDPIAware.Call(); r == 0 {
			logger.Warn("SetProcessDPIAware failed, resolutions may be scaled")
		}
	}

	logger.Info("Windows display system initialized")
	return &WindowsSystem{logger: logger}, nil
}

// ForceExtend switches the topology to extended mode
func (s *WindowsSystem) ForceExtend() error {
	r, _, _ := procSetDisplayConfig.Call(0, 0, 0, 0, uintptr(sdcApply|sdcTopologyExtend))
	if code := int32(r); code != 0 {
		return fmt.Errorf("SetDisplayConfig(extend) returned %d", code)
	}
	s.logger.Info("Topology switched to extended mode")
	return nil
}

// Displays enumerates the adapters attached to the desktop
func (s *WindowsSystem) Displays() ([]domain.Display, error) {
	var out []domain.Display

	for i := uint32(0); ; i++ {
		var dd displayDevice
		dd.cb = uint32(unsafe.Sizeof(dd))
		r, _, _ := procEnumDisplayDevicesW.Call(0, uintptr(i), uintptr(unsafe.Pointer(&dd)), 0)
		if r == 0 {
			break
		}
		if dd.StateFlags&displayDeviceAttachedToDesktop == 0 || dd.StateFlags&displayDeviceMirroringDriver != 0 {
			continue
		}

		name := windows.UTF16ToString(dd.DeviceName[:])
		mode, err := s.CurrentMode(name)
		if err != nil {
			s.logger.Debug("Skipping display without current settings",
				zap.String("device", name), zap.Error(err))
			continue
		}

		out = append(out, domain.Display{
			DeviceName: name,
			Primary:    dd.StateFlags&displayDevicePrimaryDevice != 0,
			Bounds:     domain.Rect{X: mode.X, Y: mode.Y, Width: mode.Width, Height: mode.Height},
		})
	}

	return out, nil
}

// CurrentMode reads ENUM_CURRENT_SETTINGS for the device
func (s *WindowsSystem) CurrentMode(deviceName string) (domain.Mode, error) {
	dm, err := currentDevMode(deviceName)
	if err != nil {
		return domain.Mode{}, err
	}
	return domain.Mode{
		Width:  int(dm.PelsWidth),
		Height: int(dm.PelsHeight),
		X:      int(dm.PositionX),
		Y:      int(dm.PositionY),
	}, nil
}

// StagePosition re-reads the full mode, overwrites its position and persists it
// to the registry without resetting the hardware
func (s *WindowsSystem) StagePosition(deviceName string, x, y int) (int32, error) {
	dm, err := currentDevMode(deviceName)
	if err != nil {
		return status.CodeFailed, err
	}

	dm.PositionX = int32(x)
	dm.PositionY = int32(y)
	dm.Fields = dmPosition | dmPelsWidth | dmPelsHeight

	name, err := windows.UTF16PtrFromString(deviceName)
	if err != nil {
		return status.CodeBadParam, err
	}

	r, _, _ := procChangeDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(dm)),
		0,
		uintptr(cdsUpdateRegistry|cdsNoReset),
		0,
	)
	return int32(r), nil
}

// CommitStaged applies every staged registry change at once
func (s *WindowsSystem) CommitStaged() int32 {
	r, _, _ := procChangeDisplaySettingsExW.Call(0, 0, 0, 0, 0)
	return int32(r)
}

// Close is a no-op; user32 holds no per-session handle
func (s *WindowsSystem) Close() error {
	return nil
}

func currentDevMode(deviceName string) (*devMode, error) {
	name, err := windows.UTF16PtrFromString(deviceName)
	if err != nil {
		return nil, err
	}

	dm := &devMode{}
	dm.Size = uint16(unsafe.Sizeof(*dm))
	r, _, _ := procEnumDisplaySettingsW.Call(
		uintptr(unsafe.Pointer(name)),
		uintptr(enumCurrentSettings),
		uintptr(unsafe.Pointer(dm)),
	)
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplaySettings(%s) failed", deviceName)
	}
	return dm, nil
}
