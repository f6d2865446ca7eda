package catalog

import (
	"fmt"
	"sort"

	"github.com/genricoloni/lineup/internal/domain"
)

// Catalog is the immutable {id -> monitor} table of one run.
// IDs follow OS enumeration order and are not sorted by position.
type Catalog struct {
	monitors map[int]domain.MonitorDescriptor
}

// Build assigns IDs 1..N to a stabilized snapshot. It does not query the OS.
func Build(displays []domain.Display) (*Catalog, error) {
	if len(displays) == 0 {
		return nil, fmt.Errorf("empty display snapshot")
	}

	monitors := make(map[int]domain.MonitorDescriptor, len(displays))
	for i, d := range displays {
		id := i + 1
		monitors[id] = domain.MonitorDescriptor{
			ID:         id,
			DeviceName: d.DeviceName,
			Primary:    d.Primary,
			Bounds:     d.Bounds,
		}
	}

	return &Catalog{monitors: monitors}, nil
}

// Len returns the number of monitors in the catalog
func (c *Catalog) Len() int {
	return len(c.monitors)
}

// IDs returns the catalog keys in ascending order
func (c *Catalog) IDs() []int {
	ids := make([]int, 0, len(c.monitors))
	for id := range c.monitors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Get returns the descriptor for id
func (c *Catalog) Get(id int) (domain.MonitorDescriptor, bool) {
	m, ok := c.monitors[id]
	return m, ok
}

// Primary returns the ID of the first monitor flagged primary.
// ok is false when the OS reported no primary display.
func (c *Catalog) Primary() (int, bool) {
	for _, id := range c.IDs() {
		if c.monitors[id].Primary {
			return id, true
		}
	}
	return 0, false
}

// Bounds returns a copy of {id -> bounds}, suitable for drawing identification labels
func (c *Catalog) Bounds() map[int]domain.Rect {
	out := make(map[int]domain.Rect, len(c.monitors))
	for id, m := range c.monitors {
		out[id] = m.Bounds
	}
	return out
}
