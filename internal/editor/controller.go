// Package editor contains the toolkit-independent interaction logic of the
// pattern editor: a single-pointer state machine that turns pointer and
// wheel input into pattern mutations and viewport changes, and a render
// scheduler that coalesces redraw requests.
package editor

import (
	"github.com/palletworks/palletpad/internal/geometry"
	"github.com/palletworks/palletpad/internal/model"
)

// State identifies the interaction state machine's current mode.
type State int

const (
	StateIdle State = iota
	StatePanningViewport
	StateDraggingBox
)

// Button identifies the pointer button that produced an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// ZoomStep is the multiplicative scale change per wheel notch.
const ZoomStep = 1.25

// Config selects the pointer input scheme for a controller.
type Config struct {
	Scheme model.InputScheme
}

// Controller translates raw pointer input into model mutations and viewport
// changes. It is single-pointer: a second simultaneous pointer is ignored
// by the host widget before events reach here.
type Controller struct {
	pattern *model.Pattern
	view    geometry.Viewport
	cfg     Config

	state    State
	dragID   int
	dragOffX float64 // world-space offset from pointer to box center,
	dragOffY float64 // captured at drag start so the box never jumps
	panLastX float64
	panLastY float64

	onChange func()
}

// NewController creates a controller over the given pattern. onChange fires
// after every visible change (typically the render scheduler's MarkDirty);
// nil is allowed.
func NewController(pattern *model.Pattern, cfg Config, onChange func()) *Controller {
	if cfg.Scheme == "" {
		cfg.Scheme = model.SchemeDesktop
	}
	return &Controller{
		pattern:  pattern,
		view:     geometry.NewViewport(),
		cfg:      cfg,
		onChange: onChange,
	}
}

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Viewport returns the current world/screen mapping.
func (c *Controller) Viewport() geometry.Viewport { return c.view }

// Pattern returns the pattern this controller mutates.
func (c *Controller) Pattern() *model.Pattern { return c.pattern }

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// PointerDown starts a drag or pan depending on what lies under the pointer
// and the configured input scheme.
func (c *Controller) PointerDown(sx, sy float64, btn Button) {
	if c.state != StateIdle {
		return
	}
	wx, wy := c.view.ScreenToWorld(sx, sy)

	if btn == ButtonPrimary {
		if hit, ok := c.pattern.HitTest(wx, wy); ok {
			c.state = StateDraggingBox
			c.dragID = hit.ID
			c.dragOffX = hit.X - wx
			c.dragOffY = hit.Y - wy
			c.pattern.Select(hit.ID)
			c.changed()
			return
		}
		// Empty space: touch pans, desktop clears the selection.
		if c.cfg.Scheme == model.SchemeTouch {
			c.startPan(sx, sy)
			return
		}
		c.pattern.ClearSelection()
		c.changed()
		return
	}

	// Secondary button pans regardless of what is underneath.
	c.startPan(sx, sy)
}

func (c *Controller) startPan(sx, sy float64) {
	c.state = StatePanningViewport
	c.panLastX, c.panLastY = sx, sy
}

// PointerMove advances an active drag or pan. Idle moves are ignored.
func (c *Controller) PointerMove(sx, sy float64) {
	switch c.state {
	case StateDraggingBox:
		wx, wy := c.view.ScreenToWorld(sx, sy)
		if c.pattern.MoveBox(c.dragID, wx+c.dragOffX, wy+c.dragOffY) {
			c.changed()
		}
	case StatePanningViewport:
		// Pure screen-space translation, no snapping.
		c.view = c.view.Pan(sx-c.panLastX, sy-c.panLastY)
		c.panLastX, c.panLastY = sx, sy
		c.changed()
	}
}

// PointerUp ends any drag or pan. The selection survives the release.
func (c *Controller) PointerUp() {
	if c.state == StateIdle {
		return
	}
	c.state = StateIdle
	c.dragID = 0
	c.changed()
}

// PointerCancel is equivalent to PointerUp: transient drag state is
// discarded, selection kept.
func (c *Controller) PointerCancel() { c.PointerUp() }

// Wheel zooms by a fixed multiplicative step per notch, anchored at the
// pointer's screen position. Zoom is independent of the drag/pan state.
func (c *Controller) Wheel(sx, sy, notches float64) {
	if notches == 0 {
		return
	}
	factor := ZoomStep
	if notches < 0 {
		factor = 1 / ZoomStep
	}
	c.view = c.view.ZoomAt(sx, sy, factor)
	c.changed()
}

// DoubleTap adds a box at the tapped world position when the tap lands on
// empty pallet space. Returns the model's error when the box limit is hit.
func (c *Controller) DoubleTap(sx, sy float64) error {
	wx, wy := c.view.ScreenToWorld(sx, sy)
	if _, ok := c.pattern.HitTest(wx, wy); ok {
		return nil
	}
	b, err := c.pattern.AddBoxAt(wx, wy)
	if err != nil {
		return err
	}
	c.pattern.Select(b.ID)
	c.changed()
	return nil
}

// FitView repositions the viewport so the pallet fills the given screen
// area, as after an import or PLC read.
func (c *Controller) FitView(screenW, screenH float64) {
	cfg := c.pattern.Config()
	c.view = geometry.FitView(cfg.Width, cfg.Depth, screenW, screenH)
	c.changed()
}

// DeleteSelected removes the selected boxes, if any.
func (c *Controller) DeleteSelected() {
	ids := c.pattern.Selected()
	if len(ids) == 0 {
		return
	}
	c.pattern.RemoveBoxes(ids...)
	c.changed()
}

// RotateSelected toggles rotation on the selected boxes.
func (c *Controller) RotateSelected() {
	ids := c.pattern.Selected()
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		c.pattern.RotateBox(id)
	}
	c.changed()
}
