package preview

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/lineup/internal/planner"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"go.uber.org/zap"
)

const (
	defaultCanvasWidth = 1200
	defaultPadding     = 40
	defaultBorder      = 4
	labelScale         = 8
)

var (
	backgroundColor = color.NRGBA{R: 24, G: 24, B: 24, A: 255}
	monitorColor    = color.NRGBA{R: 58, G: 90, B: 140, A: 255}
	primaryColor    = color.NRGBA{R: 70, G: 140, B: 90, A: 255}
	borderColor     = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
)

// RendererConfig holds configuration for preview rendering
type RendererConfig struct {
	CanvasWidth int
	Padding     int
	Border      int
}

// Renderer draws a plan as labelled rectangles, scaled to fit the canvas
type Renderer struct {
	logger *zap.Logger
	config RendererConfig
}

// NewRenderer creates a new preview renderer
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{
		logger: logger,
		config: RendererConfig{
			CanvasWidth: defaultCanvasWidth,
			Padding:     defaultPadding,
			Border:      defaultBorder,
		},
	}
}

// Render draws the placements of plan left to right. The primary monitor is
// drawn in a different colour. Returns an error for a plan without placements.
func (r *Renderer) Render(plan *planner.Plan) (*image.NRGBA, error) {
	if len(plan.Placements) == 0 {
		return nil, fmt.Errorf("plan has no placements")
	}

	minX := plan.Placements[0].X
	maxRight, maxHeight := 0, 0
	for _, pl := range plan.Placements {
		minX = min(minX, pl.X)
		maxRight = max(maxRight, pl.X+pl.Width)
		maxHeight = max(maxHeight, pl.Height)
	}
	span := maxRight - minX
	if span <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("invalid layout extent: %dx%d", span, maxHeight)
	}

	inner := r.config.CanvasWidth - 2*r.config.Padding
	scale := float64(inner) / float64(span)
	canvasHeight := int(float64(maxHeight)*scale) + 2*r.config.Padding

	r.logger.Debug("Rendering layout preview",
		zap.Int("span", span),
		zap.Float64("scale", scale),
		zap.Int("h", canvasHeight))

	canvas := imaging.New(r.config.CanvasWidth, canvasHeight, backgroundColor)

	for _, pl := range plan.Placements {
		w := max(int(float64(pl.Width)*scale), 2*r.config.Border+1)
		h := max(int(float64(pl.Height)*scale), 2*r.config.Border+1)
		x := r.config.Padding + int(float64(pl.X-minX)*scale)
		y := r.config.Padding

		fill := monitorColor
		if pl.ID == plan.PrimaryID && plan.Anchored {
			fill = primaryColor
		}

		frame := imaging.New(w, h, borderColor)
		body := imaging.New(w-2*r.config.Border, h-2*r.config.Border, fill)
		frame = imaging.Paste(frame, body, image.Pt(r.config.Border, r.config.Border))

		label := renderLabel(strconv.Itoa(pl.ID))
		label = imaging.Fit(label, (w-2*r.config.Border)/2, (h-2*r.config.Border)/2, imaging.NearestNeighbor)
		lb := label.Bounds()
		frame = imaging.Overlay(frame, label, image.Pt((w-lb.Dx())/2, (h-lb.Dy())/2), 1.0)

		canvas = imaging.Paste(canvas, frame, image.Pt(x, y))
	}

	return canvas, nil
}

// Save renders plan and writes it as PNG to path
func (r *Renderer) Save(plan *planner.Plan, path string) (string, error) {
	img, err := r.Render(plan)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create preview directory: %w", err)
		}
	}

	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}

	r.logger.Info("Layout preview written", zap.String("path", absPath))
	return absPath, nil
}

// renderLabel draws text with the basic bitmap face and upscales it
func renderLabel(text string) *image.NRGBA {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	return imaging.Resize(img, width*labelScale, height*labelScale, imaging.NearestNeighbor)
}
