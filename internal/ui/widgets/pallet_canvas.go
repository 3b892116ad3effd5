// Package widgets provides custom Fyne widgets for the PalletPad UI.
package widgets

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/palletworks/palletpad/internal/editor"
	"github.com/palletworks/palletpad/internal/model"
)

// boxPalette is the fill color cycle for boxes, indexed by draw order. The
// PDF exporter uses the same cycle so printouts match the screen.
var boxPalette = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 255},  // green
	{R: 33, G: 150, B: 243, A: 255}, // blue
	{R: 255, G: 152, B: 0, A: 255},  // orange
	{R: 156, G: 39, B: 176, A: 255}, // purple
	{R: 0, G: 188, B: 212, A: 255},  // cyan
	{R: 244, G: 67, B: 54, A: 255},  // red
	{R: 255, G: 235, B: 59, A: 255}, // yellow
	{R: 121, G: 85, B: 72, A: 255},  // brown
}

var (
	backgroundColor = color.NRGBA{R: 40, G: 42, B: 46, A: 255}
	palletColor     = color.NRGBA{R: 222, G: 203, B: 164, A: 255}
	palletBorder    = color.NRGBA{R: 90, G: 75, B: 50, A: 255}
	gridColor       = color.NRGBA{R: 190, G: 172, B: 136, A: 255}
	boxBorder       = color.NRGBA{R: 25, G: 25, B: 25, A: 255}
	selectionColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// minGridPixels is the smallest on-screen grid spacing still worth drawing.
const minGridPixels = 4.0

// PalletCanvas is the interactive pattern editing surface. It renders the
// pallet and boxes through a software raster and feeds pointer events to an
// editor.Controller. Redraws are coalesced by a render scheduler so a burst
// of mutations paints once.
type PalletCanvas struct {
	widget.BaseWidget

	controller *editor.Controller
	raster     *fynecanvas.Raster
	scheduler  *editor.RenderScheduler

	// OnPatternChanged fires after every visible change, on the UI loop.
	// The app shell uses it to refresh the box list and status bar.
	OnPatternChanged func()

	// OnEditError surfaces refused edits, e.g. the box limit on double-tap.
	OnEditError func(error)
}

// NewPalletCanvas builds the canvas over a pattern. The controller and
// render scheduler are owned by the widget.
func NewPalletCanvas(pattern *model.Pattern, cfg editor.Config) *PalletCanvas {
	pc := &PalletCanvas{}
	pc.controller = editor.NewController(pattern, cfg, func() {
		pc.scheduler.MarkDirty()
	})
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.scheduler = editor.NewRenderScheduler(
		func(frame func()) { fyne.Do(frame) },
		func() {
			pc.raster.Refresh()
			if pc.OnPatternChanged != nil {
				pc.OnPatternChanged()
			}
		},
	)
	pc.ExtendBaseWidget(pc)
	return pc
}

// Controller exposes the interaction controller for menu and toolbar
// actions (fit view, delete selection, rotate).
func (pc *PalletCanvas) Controller() *editor.Controller { return pc.controller }

// MarkDirty requests a coalesced repaint, for mutations made outside the
// controller (imports, PLC reads).
func (pc *PalletCanvas) MarkDirty() { pc.scheduler.MarkDirty() }

func (pc *PalletCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *PalletCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// ─── Pointer input ──────────────────────────────────────────

func (pc *PalletCanvas) MouseDown(ev *desktop.MouseEvent) {
	btn := editor.ButtonPrimary
	if ev.Button == desktop.MouseButtonSecondary {
		btn = editor.ButtonSecondary
	}
	pc.controller.PointerDown(float64(ev.Position.X), float64(ev.Position.Y), btn)
}

func (pc *PalletCanvas) MouseUp(_ *desktop.MouseEvent) {
	pc.controller.PointerUp()
}

func (pc *PalletCanvas) MouseIn(_ *desktop.MouseEvent) {}

func (pc *PalletCanvas) MouseMoved(ev *desktop.MouseEvent) {
	pc.controller.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
}

func (pc *PalletCanvas) MouseOut() {
	// A fast drag can momentarily leave the widget; keep the drag alive and
	// let MouseUp end it. Anything else cancels.
	if pc.controller.State() == editor.StateDraggingBox {
		return
	}
	pc.controller.PointerCancel()
}

func (pc *PalletCanvas) Scrolled(ev *fyne.ScrollEvent) {
	pc.controller.Wheel(float64(ev.Position.X), float64(ev.Position.Y), float64(ev.Scrolled.DY))
}

func (pc *PalletCanvas) DoubleTapped(ev *fyne.PointEvent) {
	err := pc.controller.DoubleTap(float64(ev.Position.X), float64(ev.Position.Y))
	if err != nil && pc.OnEditError != nil {
		pc.OnEditError(err)
	}
}

// FitView frames the whole pallet in the current widget size.
func (pc *PalletCanvas) FitView() {
	size := pc.Size()
	pc.controller.FitView(float64(size.Width), float64(size.Height))
}

// ─── Rendering ──────────────────────────────────────────────

// draw renders the scene at the raster's pixel size. Pointer events arrive
// in Fyne points, so the viewport maps world to points and the pixel ratio
// is applied here.
func (pc *PalletCanvas) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	widgetW := float64(pc.Size().Width)
	px := 1.0
	if widgetW > 0 {
		px = float64(w) / widgetW
	}

	view := pc.controller.Viewport()
	pattern := pc.controller.Pattern()
	cfg := pattern.Config()

	toPixel := func(wx, wy float64) (float64, float64) {
		sx, sy := view.WorldToScreen(wx, wy)
		return sx * px, sy * px
	}

	// Pallet surface
	x0, y0 := toPixel(0, 0)
	x1, y1 := toPixel(cfg.Width, cfg.Depth)
	fillRect(img, x0, y0, x1, y1, palletColor)

	// Grid, skipped when too dense to read
	if cfg.Grid > 1 && cfg.Grid*view.Scale*px >= minGridPixels {
		for gx := cfg.Grid; gx < cfg.Width; gx += cfg.Grid {
			lx, _ := toPixel(gx, 0)
			vline(img, lx, y0, y1, gridColor)
		}
		for gy := cfg.Grid; gy < cfg.Depth; gy += cfg.Grid {
			_, ly := toPixel(0, gy)
			hline(img, ly, x0, x1, gridColor)
		}
	}

	strokeRect(img, x0, y0, x1, y1, 2, palletBorder)

	// Boxes in id order so overlap matches insertion stacking
	for i, b := range pattern.Boxes() {
		hw, hd := b.HalfExtents()
		bx0, by0 := toPixel(b.X-hw, b.Y-hd)
		bx1, by1 := toPixel(b.X+hw, b.Y+hd)

		fillRect(img, bx0, by0, bx1, by1, boxPalette[i%len(boxPalette)])
		strokeRect(img, bx0, by0, bx1, by1, 1, boxBorder)
		if pattern.IsSelected(b.ID) {
			strokeRect(img, bx0-2, by0-2, bx1+2, by1+2, 2, selectionColor)
		}
	}

	return img
}

// fillRect fills the pixel-space rectangle, clipped to the image.
func fillRect(img *image.RGBA, x0, y0, x1, y1 float64, c color.NRGBA) {
	r := clipRect(img, x0, y0, x1, y1)
	if r.Empty() {
		return
	}
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// strokeRect draws a rectangle outline of the given pixel thickness.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 float64, thickness int, c color.NRGBA) {
	t := float64(thickness)
	fillRect(img, x0, y0, x1, y0+t, c) // top
	fillRect(img, x0, y1-t, x1, y1, c) // bottom
	fillRect(img, x0, y0, x0+t, y1, c) // left
	fillRect(img, x1-t, y0, x1, y1, c) // right
}

func vline(img *image.RGBA, x, y0, y1 float64, c color.NRGBA) {
	fillRect(img, x, y0, x+1, y1, c)
}

func hline(img *image.RGBA, y, x0, x1 float64, c color.NRGBA) {
	fillRect(img, x0, y, x1, y+1, c)
}

// clipRect converts a float rectangle to image coordinates clipped to img.
func clipRect(img *image.RGBA, x0, y0, x1, y1 float64) image.Rectangle {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1)).Intersect(img.Bounds())
}
