// Package recipe serializes a pallet pattern to and from its textual
// interchange form: a human-editable YAML document carrying the pallet
// dimensions, grid spacing, and the id-less box list.
package recipe

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/palletworks/palletpad/internal/model"
)

// ErrInvalidRecipe wraps all recipe parse and validation failures.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe is the interchange structure. Box ids are intentionally absent;
// they are reassigned 1..N in array order on import.
type Recipe struct {
	Pallet PalletEntry `yaml:"pallet"`
	Grid   float64     `yaml:"grid"`
	Boxes  []BoxEntry  `yaml:"boxes"`
}

// PalletEntry carries the pallet dimensions in mm.
type PalletEntry struct {
	W float64 `yaml:"w"`
	D float64 `yaml:"d"`
}

// BoxEntry carries one box without an id.
type BoxEntry struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	W   float64 `yaml:"w"`
	D   float64 `yaml:"d"`
	Rot int     `yaml:"rot"`
}

// FromPattern builds the interchange structure for a pattern.
func FromPattern(p *model.Pattern) Recipe {
	cfg := p.Config()
	r := Recipe{
		Pallet: PalletEntry{W: cfg.Width, D: cfg.Depth},
		Grid:   cfg.Grid,
	}
	for _, s := range p.Specs() {
		r.Boxes = append(r.Boxes, BoxEntry{X: s.X, Y: s.Y, W: s.W, D: s.D, Rot: int(s.Rot)})
	}
	return r
}

// Export serializes the pattern's pallet config and boxes to recipe text.
func Export(p *model.Pattern) (string, error) {
	out, err := yaml.Marshal(FromPattern(p))
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe: %w", err)
	}
	return string(out), nil
}

// Parse decodes and validates recipe text without touching any pattern.
func Parse(text string) (Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal([]byte(text), &r); err != nil {
		return Recipe{}, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	if r.Pallet.W <= 0 || r.Pallet.D <= 0 {
		return Recipe{}, fmt.Errorf("%w: pallet dimensions must be positive, got %vx%v", ErrInvalidRecipe, r.Pallet.W, r.Pallet.D)
	}
	if r.Pallet.W < model.MinPalletDim || r.Pallet.D < model.MinPalletDim {
		return Recipe{}, fmt.Errorf("%w: pallet below %v mm minimum", ErrInvalidRecipe, model.MinPalletDim)
	}
	if r.Grid <= 0 {
		return Recipe{}, fmt.Errorf("%w: grid must be positive, got %v", ErrInvalidRecipe, r.Grid)
	}
	for i, b := range r.Boxes {
		if b.W <= 0 || b.D <= 0 {
			return Recipe{}, fmt.Errorf("%w: box %d has non-positive dimensions %vx%v", ErrInvalidRecipe, i+1, b.W, b.D)
		}
	}
	return r, nil
}

// Specs converts the recipe's box entries into model specs, coercing any
// rotation outside {0, 90} to 0.
func (r Recipe) Specs() []model.BoxSpec {
	specs := make([]model.BoxSpec, len(r.Boxes))
	for i, b := range r.Boxes {
		specs[i] = model.BoxSpec{
			X: b.X, Y: b.Y,
			W: b.W, D: b.D,
			Rot: model.NormalizeRotation(b.Rot),
		}
	}
	return specs
}

// Import parses recipe text and, only on success, replaces the pattern's
// pallet config and box collection. Boxes are renumbered 1..N, re-snapped,
// and clamped against the imported pallet. A failed import leaves the
// pattern untouched.
func Import(p *model.Pattern, text string) error {
	r, err := Parse(text)
	if err != nil {
		return err
	}

	cfg := model.PalletConfig{Width: r.Pallet.W, Depth: r.Pallet.D, Grid: r.Grid}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}

	// Validation passed: mutate in one go. ResizePallet cannot fail past
	// cfg.Validate above.
	if err := p.ResizePallet(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	p.ReplaceBoxes(r.Specs())
	return nil
}
