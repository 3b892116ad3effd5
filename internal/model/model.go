// Package model holds the in-memory pallet pattern: the pallet
// configuration, the box collection, and the selection. Every mutation is
// funneled through Pattern methods so the boundary invariant (each box fully
// inside the pallet) holds after every operation.
package model

import (
	"errors"
	"fmt"

	"github.com/palletworks/palletpad/internal/geometry"
)

// Pallet dimension floor in mm. Anything smaller is a configuration error.
const MinPalletDim = 100.0

// ErrBoxLimit is returned when adding a box would exceed the configured
// maximum box count.
var ErrBoxLimit = errors.New("box limit reached")

// Rotation is a box footprint rotation in degrees. Only 0 and 90 are valid;
// NormalizeRotation coerces anything else to 0.
type Rotation int

const (
	Rot0  Rotation = 0
	Rot90 Rotation = 90
)

// NormalizeRotation maps any value outside {0, 90} to 0.
func NormalizeRotation(r int) Rotation {
	if r == 90 {
		return Rot90
	}
	return Rot0
}

// Box is a placed rectangular footprint. X/Y are the center in world
// millimeters; W/D are the nominal width/depth before rotation.
type Box struct {
	ID  int      `json:"id"`
	X   float64  `json:"x"`
	Y   float64  `json:"y"`
	W   float64  `json:"w"`
	D   float64  `json:"d"`
	Rot Rotation `json:"rot"`
}

// HalfExtents returns the rotation-adjusted half-width and half-depth.
func (b Box) HalfExtents() (hw, hd float64) {
	return geometry.HalfExtents(b.W, b.D, int(b.Rot))
}

// Contains reports whether the world point lies inside the box's rotated
// bounding rectangle.
func (b Box) Contains(wx, wy float64) bool {
	hw, hd := b.HalfExtents()
	return wx >= b.X-hw && wx <= b.X+hw && wy >= b.Y-hd && wy <= b.Y+hd
}

// BoxSpec describes a box without an identity, as carried by recipes and
// PLC reads. IDs are assigned by the pattern on insertion.
type BoxSpec struct {
	X   float64  `json:"x"`
	Y   float64  `json:"y"`
	W   float64  `json:"w"`
	D   float64  `json:"d"`
	Rot Rotation `json:"rot"`
}

// PalletConfig describes the working surface and grid spacing, all in mm.
type PalletConfig struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
	Grid  float64 `json:"grid"`
}

// Validate rejects pallet configurations the editor cannot work with.
func (c PalletConfig) Validate() error {
	if c.Width < MinPalletDim || c.Depth < MinPalletDim {
		return fmt.Errorf("pallet must be at least %.0fx%.0f mm, got %.0fx%.0f", MinPalletDim, MinPalletDim, c.Width, c.Depth)
	}
	if c.Grid <= 0 {
		return fmt.Errorf("grid spacing must be positive, got %v", c.Grid)
	}
	return nil
}

// Pattern owns the box collection for one editing session.
type Pattern struct {
	cfg       PalletConfig
	boxes     []Box
	selection map[int]struct{}

	maxBoxes    int
	defaultBoxW float64
	defaultBoxD float64
}

// NewPattern creates an empty pattern. maxBoxes bounds the collection size;
// defaultW/defaultD are the dimensions used for newly added boxes.
func NewPattern(cfg PalletConfig, maxBoxes int, defaultW, defaultD float64) (*Pattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if maxBoxes <= 0 {
		return nil, fmt.Errorf("max box count must be positive, got %d", maxBoxes)
	}
	if defaultW <= 0 || defaultD <= 0 {
		return nil, fmt.Errorf("default box dimensions must be positive, got %vx%v", defaultW, defaultD)
	}
	return &Pattern{
		cfg:         cfg,
		selection:   make(map[int]struct{}),
		maxBoxes:    maxBoxes,
		defaultBoxW: defaultW,
		defaultBoxD: defaultD,
	}, nil
}

// Config returns the current pallet configuration.
func (p *Pattern) Config() PalletConfig { return p.cfg }

// MaxBoxes returns the configured collection limit.
func (p *Pattern) MaxBoxes() int { return p.maxBoxes }

// SetDefaultBoxSize updates the dimensions used by AddBox/AddBoxAt.
// Non-positive values are ignored.
func (p *Pattern) SetDefaultBoxSize(w, d float64) {
	if w > 0 && d > 0 {
		p.defaultBoxW, p.defaultBoxD = w, d
	}
}

// Count returns the number of boxes in the pattern.
func (p *Pattern) Count() int { return len(p.boxes) }

// Boxes returns a copy of the box collection in insertion order.
func (p *Pattern) Boxes() []Box {
	out := make([]Box, len(p.boxes))
	copy(out, p.boxes)
	return out
}

// Box returns the box with the given id.
func (p *Pattern) Box(id int) (Box, bool) {
	for _, b := range p.boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// nextID allocates max existing id + 1, or 1 for an empty collection.
func (p *Pattern) nextID() int {
	max := 0
	for _, b := range p.boxes {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

// clampToPallet snaps the box center to the grid and pulls it back inside
// the pallet bounds. Boxes larger than the pallet end up centered on the
// exceeded axis.
func (p *Pattern) clampToPallet(b Box) Box {
	hw, hd := b.HalfExtents()
	b.X = geometry.Snap(b.X, p.cfg.Grid)
	b.Y = geometry.Snap(b.Y, p.cfg.Grid)
	if hw*2 >= p.cfg.Width {
		b.X = p.cfg.Width / 2
	} else {
		b.X = geometry.Clamp(b.X, hw, p.cfg.Width-hw)
	}
	if hd*2 >= p.cfg.Depth {
		b.Y = p.cfg.Depth / 2
	} else {
		b.Y = geometry.Clamp(b.Y, hd, p.cfg.Depth-hd)
	}
	return b
}

// AddBox creates a default-sized box at the pallet center.
func (p *Pattern) AddBox() (Box, error) {
	return p.AddBoxAt(p.cfg.Width/2, p.cfg.Depth/2)
}

// AddBoxAt creates a default-sized box centered at the given world
// position, snapped and clamped. Returns ErrBoxLimit when the collection is
// full.
func (p *Pattern) AddBoxAt(wx, wy float64) (Box, error) {
	if len(p.boxes) >= p.maxBoxes {
		return Box{}, fmt.Errorf("%w (%d boxes)", ErrBoxLimit, p.maxBoxes)
	}
	b := p.clampToPallet(Box{
		ID: p.nextID(),
		X:  wx, Y: wy,
		W: p.defaultBoxW, D: p.defaultBoxD,
	})
	p.boxes = append(p.boxes, b)
	return b, nil
}

// RemoveBoxes deletes the boxes with the given ids and drops them from the
// selection. Unknown ids are ignored.
func (p *Pattern) RemoveBoxes(ids ...int) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(p.selection, id)
	}
	kept := p.boxes[:0]
	for _, b := range p.boxes {
		if _, gone := drop[b.ID]; !gone {
			kept = append(kept, b)
		}
	}
	p.boxes = kept
}

// RotateBox toggles the box between 0 and 90 degrees and re-clamps its
// position, since rotation changes the effective extents. Reports whether
// the id existed.
func (p *Pattern) RotateBox(id int) bool {
	for i, b := range p.boxes {
		if b.ID != id {
			continue
		}
		if b.Rot == Rot90 {
			b.Rot = Rot0
		} else {
			b.Rot = Rot90
		}
		p.boxes[i] = p.clampToPallet(b)
		return true
	}
	return false
}

// MoveBox sets the box center to the grid-snapped target, clamped to the
// pallet. Reports whether the id existed.
func (p *Pattern) MoveBox(id int, wx, wy float64) bool {
	for i, b := range p.boxes {
		if b.ID != id {
			continue
		}
		b.X, b.Y = wx, wy
		p.boxes[i] = p.clampToPallet(b)
		return true
	}
	return false
}

// ResizePallet replaces the pallet configuration and re-snaps and re-clamps
// every box against it. Previously valid layouts may shift; that is
// expected and never an error once the new config validates.
func (p *Pattern) ResizePallet(cfg PalletConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.cfg = cfg
	for i, b := range p.boxes {
		p.boxes[i] = p.clampToPallet(b)
	}
	return nil
}

// HitTest returns the topmost box whose rotated bounding rectangle contains
// the world point. Later-inserted boxes win on overlap.
func (p *Pattern) HitTest(wx, wy float64) (Box, bool) {
	for i := len(p.boxes) - 1; i >= 0; i-- {
		if p.boxes[i].Contains(wx, wy) {
			return p.boxes[i], true
		}
	}
	return Box{}, false
}

// Clear removes all boxes and the selection.
func (p *Pattern) Clear() {
	p.boxes = nil
	p.selection = make(map[int]struct{})
}

// ReplaceBoxes swaps in a whole new collection, as after a recipe import or
// a PLC read. Boxes are numbered 1..N in spec order and snapped/clamped
// against the current pallet. Specs beyond the box limit are dropped.
func (p *Pattern) ReplaceBoxes(specs []BoxSpec) {
	p.Clear()
	for i, s := range specs {
		if i >= p.maxBoxes {
			break
		}
		p.boxes = append(p.boxes, p.clampToPallet(Box{
			ID: i + 1,
			X:  s.X, Y: s.Y,
			W: s.W, D: s.D,
			Rot: NormalizeRotation(int(s.Rot)),
		}))
	}
}

// Select makes the given box the sole selection. Unknown ids clear it.
func (p *Pattern) Select(id int) {
	p.selection = make(map[int]struct{})
	if _, ok := p.Box(id); ok {
		p.selection[id] = struct{}{}
	}
}

// ClearSelection empties the selection.
func (p *Pattern) ClearSelection() {
	p.selection = make(map[int]struct{})
}

// IsSelected reports whether the box id is currently selected.
func (p *Pattern) IsSelected(id int) bool {
	_, ok := p.selection[id]
	return ok
}

// Selected returns the selected ids in collection order.
func (p *Pattern) Selected() []int {
	var ids []int
	for _, b := range p.boxes {
		if _, ok := p.selection[b.ID]; ok {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Specs returns the collection as id-less box specs, the form used by the
// recipe codec and the PLC adapter.
func (p *Pattern) Specs() []BoxSpec {
	out := make([]BoxSpec, len(p.boxes))
	for i, b := range p.boxes {
		out[i] = BoxSpec{X: b.X, Y: b.Y, W: b.W, D: b.D, Rot: b.Rot}
	}
	return out
}
