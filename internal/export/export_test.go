package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/palletworks/palletpad/internal/model"
)

func newTestPattern(t *testing.T) *model.Pattern {
	t.Helper()
	p, err := model.NewPattern(model.PalletConfig{Width: 1200, Depth: 800, Grid: 50}, 20, 300, 200)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	return p
}

func TestExportPDFWritesFile(t *testing.T) {
	p := newTestPattern(t)
	p.AddBoxAt(300, 200)
	b, _ := p.AddBoxAt(900, 600)
	p.RotateBox(b.ID)

	path := filepath.Join(t.TempDir(), "pattern.pdf")
	if err := ExportPDF(path, "Euro pallet demo", p); err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PDF file is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("file does not start with a PDF header: %q", data[:8])
	}
}

func TestExportPDFEmptyPattern(t *testing.T) {
	p := newTestPattern(t)

	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, "", p); err != nil {
		t.Fatalf("ExportPDF on empty pattern: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("empty pattern did not produce a PDF: err=%v", err)
	}
}

func TestExportDXFWritesRectangles(t *testing.T) {
	p := newTestPattern(t)
	p.AddBoxAt(300, 200)
	p.AddBoxAt(900, 600)

	path := filepath.Join(t.TempDir(), "pattern.dxf")
	if err := ExportDXF(path, p); err != nil {
		t.Fatalf("ExportDXF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	for _, want := range []string{"LWPOLYLINE", layerPallet, layerBoxes} {
		if !strings.Contains(text, want) {
			t.Errorf("DXF output missing %q", want)
		}
	}
}

func TestExportDXFEmptyPatternHasOutlineOnly(t *testing.T) {
	p := newTestPattern(t)

	path := filepath.Join(t.TempDir(), "empty.dxf")
	if err := ExportDXF(path, p); err != nil {
		t.Fatalf("ExportDXF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "LWPOLYLINE"); n != 1 {
		t.Errorf("polyline count = %d, want 1 (pallet outline only)", n)
	}
}
