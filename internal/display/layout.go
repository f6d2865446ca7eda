package display

import "sort"

// pendingPosition is a staged position waiting for commit
type pendingPosition struct {
	device string
	x, y   int
	width  int
	height int
}

// normalizeOrigin shifts staged positions so the top-left corner of their
// bounding box sits at (0,0) and returns the resulting screen size.
// X11 anchors the root window at its top-left corner rather than at the
// primary output, so negative positions have to be folded back.
func normalizeOrigin(pending []pendingPosition) ([]pendingPosition, int, int) {
	if len(pending) == 0 {
		return nil, 0, 0
	}

	minX, minY := pending[0].x, pending[0].y
	for _, p := range pending[1:] {
		minX = min(minX, p.x)
		minY = min(minY, p.y)
	}

	out := make([]pendingPosition, len(pending))
	width, height := 0, 0
	for i, p := range pending {
		p.x -= minX
		p.y -= minY
		out[i] = p
		width = max(width, p.x+p.width)
		height = max(height, p.y+p.height)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].x < out[j].x })
	return out, width, height
}

// coverExtent grows a width and height so every position in others fits
func coverExtent(width, height int, others []pendingPosition) (int, int) {
	for _, p := range others {
		width = max(width, p.x+p.width)
		height = max(height, p.y+p.height)
	}
	return width, height
}

// millimetres converts a pixel length to a physical size assuming 96 DPI
func millimetres(px int) uint32 {
	return uint32(float64(px) * 25.4 / 96.0)
}
