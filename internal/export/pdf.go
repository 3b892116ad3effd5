// Package export renders pallet patterns to shareable file formats: a PDF
// pattern sheet with an embedded QR-coded recipe, and a DXF drawing.
package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/palletworks/palletpad/internal/model"
	"github.com/palletworks/palletpad/internal/recipe"
)

// boxColor represents an RGB color for a drawn box.
type boxColor struct {
	R, G, B int
}

// boxColors mirrors the color cycle used by the pallet canvas widget.
var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 14.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 32.0
)

// ExportPDF generates a single-page pattern sheet: the pallet drawn to
// scale with every box, dimension annotations, a box legend, and a QR code
// carrying the full recipe so a phone scan reproduces the pattern.
func ExportPDF(path, title string, p *model.Pattern) error {
	cfg := p.Config()
	boxes := p.Boxes()

	recipeText, err := recipe.Export(p)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	if title == "" {
		title = "Pallet Pattern"
	}
	header := fmt.Sprintf("%s (%.0f x %.0f mm)", title, cfg.Width, cfg.Depth)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, header, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes: %d | Grid: %.0f mm", len(boxes), cfg.Grid)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Drawing area, leaving room for the QR code on the right.
	drawWidth := pageWidth - marginLeft - marginRight - qrSize - 8
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/cfg.Width, drawHeight/cfg.Depth)
	canvasW := cfg.Width * scale
	canvasH := cfg.Depth * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Pallet surface
	pdf.SetFillColor(222, 203, 164)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Boxes, drawn in id order so overlap matches the editor's stacking.
	for i, b := range boxes {
		col := boxColors[i%len(boxColors)]
		hw, hd := b.HalfExtents()
		bw := 2 * hw * scale
		bh := 2 * hd * scale
		bx := offsetX + (b.X-hw)*scale
		by := offsetY + (b.Y-hd)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(bx, by, bw, bh, "FD")

		if bw > 12 && bh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("%d", b.ID)
			labelW := pdf.GetStringWidth(label)
			pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, cfg, offsetX, offsetY, canvasW, canvasH)
	drawBoxLegend(pdf, boxes, offsetY+canvasH+6)

	if err := drawRecipeQR(pdf, recipeText, pageWidth-marginRight-qrSize, drawAreaTop); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// drawDimensionAnnotations adds width and depth labels outside the pallet
// rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, cfg model.PalletConfig, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", cfg.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f mm", cfg.Depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawBoxLegend renders a compact per-box listing below the drawing.
func drawBoxLegend(pdf *fpdf.Fpdf, boxes []model.Box, startY float64) {
	if len(boxes) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Boxes:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 16.0
	maxX := pageWidth - marginRight - qrSize - 8

	for i, b := range boxes {
		col := boxColors[i%len(boxColors)]
		label := fmt.Sprintf("#%d %.0fx%.0f @ (%.0f, %.0f)", b.ID, b.W, b.D, b.X, b.Y)
		if b.Rot == model.Rot90 {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// drawRecipeQR encodes the recipe text as a QR image and places it with a
// caption.
func drawRecipeQR(pdf *fpdf.Fpdf, recipeText string, x, y float64) error {
	qrPNG, err := qrcode.Encode(recipeText, qrcode.Medium, 512)
	if err != nil {
		return fmt.Errorf("failed to generate recipe QR code: %w", err)
	}

	pdf.RegisterImageOptionsReader("recipe_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("recipe_qr", x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	caption := "Scan to load recipe"
	capW := pdf.GetStringWidth(caption)
	pdf.SetXY(x+(qrSize-capW)/2, y+qrSize+1)
	pdf.CellFormat(capW, 4, caption, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// labelFontSize picks a font size proportional to the rectangle being
// labelled.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 9
	case minDim > 20:
		return 8
	default:
		return 6
	}
}
