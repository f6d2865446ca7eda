package planner

import (
	"fmt"

	"github.com/genricoloni/lineup/internal/catalog"
	"github.com/genricoloni/lineup/internal/domain"
	"go.uber.org/zap"
)

// ModeReader reads the live native mode of a display
type ModeReader interface {
	CurrentMode(deviceName string) (domain.Mode, error)
}

// Placement is one monitor's target slot in the row
type Placement struct {
	ID         int
	DeviceName string
	X          int
	Width      int
	Height     int
}

// Skipped records a monitor left out of the plan
type Skipped struct {
	ID         int
	DeviceName string
	Err        error
}

// Plan is a single-row, edge-to-edge layout. It is never mutated after Plan returns.
type Plan struct {
	// Placements in sequence order, left to right
	Placements []Placement
	// Skipped monitors whose resolution could not be read
	Skipped []Skipped
	// PrimaryID is 0 when the catalog has no primary monitor
	PrimaryID int
	// GlobalOffset is added to every provisional X so the primary lands at 0
	GlobalOffset int
	// Anchored is false when the primary could not be placed at X=0
	Anchored bool
}

// Offsets returns the planned {id -> X} mapping
func (p *Plan) Offsets() domain.PlannedOffsets {
	out := make(domain.PlannedOffsets, len(p.Placements))
	for _, pl := range p.Placements {
		out[pl.ID] = pl.X
	}
	return out
}

// Planner converts an operator sequence into horizontal offsets
type Planner struct {
	logger *zap.Logger
	modes  ModeReader
}

// NewPlanner creates a planner reading live modes from the display system
func NewPlanner(logger *zap.Logger, modes domain.DisplaySystem) *Planner {
	return New(logger, modes)
}

// New creates a planner over any ModeReader
func New(logger *zap.Logger, modes ModeReader) *Planner {
	return &Planner{logger: logger, modes: modes}
}

// Plan lays the monitors out left to right in the given order.
//
// Each monitor's resolution is re-read from the OS. A monitor whose read fails
// is skipped and the running sum continues as if it were absent. The primary
// monitor is shifted to X=0; without a placed primary the offset is zero and
// the plan is flagged unanchored.
func (p *Planner) Plan(order []int, cat *catalog.Catalog) (*Plan, error) {
	if err := cat.Validate(order); err != nil {
		return nil, err
	}

	plan := &Plan{}
	provisional := make(map[int]int, len(order))
	runningX := 0

	for _, id := range order {
		m, _ := cat.Get(id)

		mode, err := p.modes.CurrentMode(m.DeviceName)
		if err == nil && mode.Width <= 0 {
			err = fmt.Errorf("reported width %d", mode.Width)
		}
		if err != nil {
			err = fmt.Errorf("%w: monitor %d (%s): %w", domain.ErrResolutionRead, id, m.DeviceName, err)
			p.logger.Error("Could not read settings, monitor skipped",
				zap.Int("id", id),
				zap.String("device", m.DeviceName),
				zap.Error(err))
			plan.Skipped = append(plan.Skipped, Skipped{ID: id, DeviceName: m.DeviceName, Err: err})
			continue
		}

		p.logger.Info("Resolution detected",
			zap.Int("id", id),
			zap.String("device", m.DeviceName),
			zap.Int("width", mode.Width),
			zap.Int("height", mode.Height))

		provisional[id] = runningX
		plan.Placements = append(plan.Placements, Placement{
			ID:         id,
			DeviceName: m.DeviceName,
			X:          runningX,
			Width:      mode.Width,
			Height:     mode.Height,
		})
		runningX += mode.Width
	}

	if primaryID, ok := cat.Primary(); ok {
		plan.PrimaryID = primaryID
		if x, placed := provisional[primaryID]; placed {
			plan.GlobalOffset = -x
			plan.Anchored = true
		}
	}

	if plan.Anchored {
		p.logger.Info("Offset calculated, shifting so primary is at 0,0",
			zap.Int("primary", plan.PrimaryID),
			zap.Int("offset", plan.GlobalOffset))
	} else {
		p.logger.Warn("Primary monitor not placed, layout is unanchored and may be rejected",
			zap.Int("primary", plan.PrimaryID))
	}

	for i := range plan.Placements {
		plan.Placements[i].X += plan.GlobalOffset
	}

	return plan, nil
}
