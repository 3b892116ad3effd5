package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/palletworks/palletpad/internal/model"
)

// DXF layer names. CAD tools downstream key their styling off these.
const (
	layerPallet = "PALLET"
	layerBoxes  = "BOXES"
)

// ExportDXF writes the pattern as a 2D DXF drawing: the pallet outline on
// its own layer and one closed polyline per box. Coordinates are world
// millimeters, origin at the pallet's top-left corner.
func ExportDXF(path string, p *model.Pattern) error {
	cfg := p.Config()

	drawing := dxf.NewDrawing()

	if _, err := drawing.AddLayer(layerPallet, color.Grey128, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add pallet layer: %w", err)
	}
	if err := addRect(drawing, 0, 0, cfg.Width, cfg.Depth); err != nil {
		return fmt.Errorf("failed to draw pallet outline: %w", err)
	}

	if _, err := drawing.AddLayer(layerBoxes, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add box layer: %w", err)
	}
	for _, b := range p.Boxes() {
		hw, hd := b.HalfExtents()
		if err := addRect(drawing, b.X-hw, b.Y-hd, 2*hw, 2*hd); err != nil {
			return fmt.Errorf("failed to draw box %d: %w", b.ID, err)
		}
	}

	if err := drawing.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// addRect draws an axis-aligned rectangle as a closed lightweight polyline.
func addRect(drawing *drawing.Drawing, x, y, w, h float64) error {
	_, err := drawing.LwPolyline(true,
		[]float64{x, y},
		[]float64{x + w, y},
		[]float64{x + w, y + h},
		[]float64{x, y + h},
	)
	return err
}
