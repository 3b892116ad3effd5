// Package geometry provides the pure math used by the pattern editor:
// clamping, grid snapping, rotation-aware box extents, and the affine
// world/screen viewport transform. All functions are total and stateless.
package geometry

import "math"

// Viewport scale limits in screen pixels per world millimeter.
const (
	MinScale = 0.05
	MaxScale = 4.0
)

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Snap rounds v to the nearest multiple of step. Steps of 1mm or less
// disable snapping entirely.
func Snap(v, step float64) float64 {
	if step <= 1 {
		return v
	}
	return math.Round(v/step) * step
}

// HalfExtents returns the half-width and half-depth of a w x d box under
// the given rotation. Only 0 and 90 degrees are meaningful; 90 swaps the
// axes.
func HalfExtents(w, d float64, rot int) (hw, hd float64) {
	if rot == 90 {
		return d / 2, w / 2
	}
	return w / 2, d / 2
}

// Viewport maps world coordinates (mm) to screen coordinates (px).
// OriginX/OriginY hold the world-space point that appears at the screen
// origin, expressed in screen-pixel equivalents; Scale is px per mm.
type Viewport struct {
	OriginX float64
	OriginY float64
	Scale   float64
}

// NewViewport returns a viewport at 1:1 scale with no offset.
func NewViewport() Viewport {
	return Viewport{Scale: 1.0}
}

// WorldToScreen converts a world position to screen pixels.
func (v Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx*v.Scale - v.OriginX, wy*v.Scale - v.OriginY
}

// ScreenToWorld converts a screen position to world millimeters. It is the
// inverse of WorldToScreen to floating-point precision.
func (v Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return (sx + v.OriginX) / v.Scale, (sy + v.OriginY) / v.Scale
}

// Pan translates the viewport origin by a screen-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.OriginX -= dx
	v.OriginY -= dy
	return v
}

// ZoomAt multiplies the scale by factor, anchored at the screen position
// (sx, sy): the world point under that position before the zoom maps to the
// same screen position afterwards. The resulting scale stays within
// [MinScale, MaxScale].
func (v Viewport) ZoomAt(sx, sy, factor float64) Viewport {
	newScale := Clamp(v.Scale*factor, MinScale, MaxScale)
	if newScale == v.Scale {
		return v
	}
	wx, wy := v.ScreenToWorld(sx, sy)
	v.Scale = newScale
	// Solve origin so (wx, wy) lands back on (sx, sy).
	v.OriginX = wx*newScale - sx
	v.OriginY = wy*newScale - sy
	return v
}

// FitView returns a viewport that frames a worldW x worldD region inside a
// screenW x screenH area with a small margin, centered on both axes.
func FitView(worldW, worldD, screenW, screenH float64) Viewport {
	if worldW <= 0 || worldD <= 0 || screenW <= 0 || screenH <= 0 {
		return NewViewport()
	}
	scale := screenW / worldW
	if s := screenH / worldD; s < scale {
		scale = s
	}
	scale = Clamp(scale*0.9, MinScale, MaxScale) // leave a margin
	v := Viewport{Scale: scale}
	// Center the region.
	v.OriginX = (worldW*scale - screenW) / 2
	v.OriginY = (worldD*scale - screenH) / 2
	return v
}
