package editor

import (
	"errors"
	"testing"

	"github.com/palletworks/palletpad/internal/model"
)

func newTestController(t *testing.T, scheme model.InputScheme) (*Controller, *int) {
	t.Helper()
	p, err := model.NewPattern(model.PalletConfig{Width: 1200, Depth: 800, Grid: 50}, 20, 300, 200)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	changes := 0
	c := NewController(p, Config{Scheme: scheme}, func() { changes++ })
	return c, &changes
}

func TestPointerDownOnBoxStartsDrag(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	b, _ := c.Pattern().AddBox() // center (600, 400), viewport 1:1

	c.PointerDown(600, 400, ButtonPrimary)
	if c.State() != StateDraggingBox {
		t.Fatalf("state = %v, want dragging", c.State())
	}
	if !c.Pattern().IsSelected(b.ID) {
		t.Error("hit box was not selected")
	}
}

func TestDragKeepsPointerOffset(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	b, _ := c.Pattern().AddBox() // center (600, 400)

	// Grab the box 40mm right and 30mm below its center.
	c.PointerDown(640, 430, ButtonPrimary)
	c.PointerMove(840, 530)

	got, _ := c.Pattern().Box(b.ID)
	// Pointer world target (840, 530) plus captured offset (-40, -30)
	// gives (800, 500), already on the 50mm grid.
	if got.X != 800 || got.Y != 500 {
		t.Errorf("dragged center = (%v, %v), want (800, 500)", got.X, got.Y)
	}
}

func TestPointerUpEndsDragKeepsSelection(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	b, _ := c.Pattern().AddBox()

	c.PointerDown(600, 400, ButtonPrimary)
	c.PointerUp()
	if c.State() != StateIdle {
		t.Errorf("state after release = %v, want idle", c.State())
	}
	if !c.Pattern().IsSelected(b.ID) {
		t.Error("selection cleared by pointer release")
	}
}

func TestDesktopPrimaryOnEmptyClearsSelection(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	b, _ := c.Pattern().AddBox()
	c.Pattern().Select(b.ID)

	c.PointerDown(10, 10, ButtonPrimary)
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if len(c.Pattern().Selected()) != 0 {
		t.Error("selection not cleared by empty-space click")
	}
}

func TestDesktopSecondaryPans(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	c.Pattern().AddBox()

	c.PointerDown(600, 400, ButtonSecondary) // even over a box
	if c.State() != StatePanningViewport {
		t.Fatalf("state = %v, want panning", c.State())
	}

	c.PointerMove(650, 380)
	v := c.Viewport()
	if v.OriginX != -50 || v.OriginY != 20 {
		t.Errorf("origin = (%v, %v), want (-50, 20)", v.OriginX, v.OriginY)
	}

	c.PointerUp()
	if c.State() != StateIdle {
		t.Errorf("state after release = %v, want idle", c.State())
	}
}

func TestTouchPrimaryOnEmptyPans(t *testing.T) {
	c, _ := newTestController(t, model.SchemeTouch)

	c.PointerDown(10, 10, ButtonPrimary)
	if c.State() != StatePanningViewport {
		t.Fatalf("state = %v, want panning in touch scheme", c.State())
	}
}

func TestTouchPrimaryOnBoxStillDrags(t *testing.T) {
	c, _ := newTestController(t, model.SchemeTouch)
	c.Pattern().AddBox()

	c.PointerDown(600, 400, ButtonPrimary)
	if c.State() != StateDraggingBox {
		t.Errorf("state = %v, want dragging", c.State())
	}
}

func TestPanIgnoresGrid(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)

	c.PointerDown(100, 100, ButtonSecondary)
	c.PointerMove(103, 107) // deltas far below grid spacing
	v := c.Viewport()
	if v.OriginX != -3 || v.OriginY != -7 {
		t.Errorf("pan snapped: origin = (%v, %v), want (-3, -7)", v.OriginX, v.OriginY)
	}
}

func TestWheelZoomAnchorsPointer(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	const sx, sy = 320.0, 240.0

	before := c.Viewport()
	wx, wy := before.ScreenToWorld(sx, sy)

	c.Wheel(sx, sy, 1)
	after := c.Viewport()
	if after.Scale != before.Scale*ZoomStep {
		t.Errorf("scale = %v, want %v", after.Scale, before.Scale*ZoomStep)
	}
	gx, gy := after.WorldToScreen(wx, wy)
	if absDiff(gx, sx) > 1e-9 || absDiff(gy, sy) > 1e-9 {
		t.Errorf("anchor moved to (%v, %v), want (%v, %v)", gx, gy, sx, sy)
	}

	// Zooming back out restores the scale.
	c.Wheel(sx, sy, -1)
	if absDiff(c.Viewport().Scale, before.Scale) > 1e-9 {
		t.Errorf("scale after in+out = %v, want %v", c.Viewport().Scale, before.Scale)
	}
}

func TestDoubleTapAddsBoxOnEmptySpace(t *testing.T) {
	c, changes := newTestController(t, model.SchemeDesktop)

	if err := c.DoubleTap(300, 200); err != nil {
		t.Fatalf("DoubleTap: %v", err)
	}
	if c.Pattern().Count() != 1 {
		t.Fatalf("count = %d, want 1", c.Pattern().Count())
	}
	b := c.Pattern().Boxes()[0]
	if b.X != 300 || b.Y != 200 {
		t.Errorf("box at (%v, %v), want (300, 200)", b.X, b.Y)
	}
	if !c.Pattern().IsSelected(b.ID) {
		t.Error("added box not selected")
	}
	if *changes == 0 {
		t.Error("no change notification fired")
	}
}

func TestDoubleTapOnBoxIsNoop(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	c.Pattern().AddBox()

	if err := c.DoubleTap(600, 400); err != nil {
		t.Fatalf("DoubleTap: %v", err)
	}
	if c.Pattern().Count() != 1 {
		t.Errorf("count = %d, want 1 (no box added over a box)", c.Pattern().Count())
	}
}

func TestDoubleTapSurfacesBoxLimit(t *testing.T) {
	p, err := model.NewPattern(model.PalletConfig{Width: 1200, Depth: 800, Grid: 50}, 1, 300, 200)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	c := NewController(p, Config{}, nil)
	p.AddBoxAt(200, 200)

	if err := c.DoubleTap(900, 600); !errors.Is(err, model.ErrBoxLimit) {
		t.Errorf("expected ErrBoxLimit, got %v", err)
	}
}

func TestDeleteAndRotateSelected(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	b, _ := c.Pattern().AddBox()
	c.Pattern().Select(b.ID)

	c.RotateSelected()
	got, _ := c.Pattern().Box(b.ID)
	if got.Rot != model.Rot90 {
		t.Errorf("rot = %v, want 90", got.Rot)
	}

	c.DeleteSelected()
	if c.Pattern().Count() != 0 {
		t.Errorf("count = %d after delete, want 0", c.Pattern().Count())
	}
}

func TestFitViewFramesPallet(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	c.FitView(600, 600)

	v := c.Viewport()
	x0, y0 := v.WorldToScreen(0, 0)
	x1, y1 := v.WorldToScreen(1200, 800)
	if x0 < 0 || y0 < 0 || x1 > 600 || y1 > 600 {
		t.Errorf("pallet (%v,%v)-(%v,%v) not framed by 600x600", x0, y0, x1, y1)
	}
}

func TestSecondPointerDownIgnoredWhileDragging(t *testing.T) {
	c, _ := newTestController(t, model.SchemeDesktop)
	c.Pattern().AddBox()

	c.PointerDown(600, 400, ButtonPrimary)
	c.PointerDown(10, 10, ButtonSecondary)
	if c.State() != StateDraggingBox {
		t.Errorf("state = %v, want dragging preserved", c.State())
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
