package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRecipe = `pallet:
  w: 1200
  d: 800
grid: 50
boxes:
  - {x: 300, y: 200, w: 300, d: 200, rot: 0}
  - {x: 900, y: 600, w: 300, d: 200, rot: 90}
`

func writeSampleRecipe(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pallet.yaml")
	if err := os.WriteFile(path, []byte(sampleRecipe), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPattern(t *testing.T) {
	p, err := loadPattern(writeSampleRecipe(t))
	if err != nil {
		t.Fatalf("loadPattern: %v", err)
	}
	if p.Count() != 2 {
		t.Errorf("box count = %d, want 2", p.Count())
	}
	if cfg := p.Config(); cfg.Width != 1200 || cfg.Depth != 800 || cfg.Grid != 50 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadPatternRejectsBadRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pallet: {w: 0, d: 800}\ngrid: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadPattern(path); err == nil {
		t.Error("expected error for invalid recipe")
	}
}

func TestValidateCmd(t *testing.T) {
	cmd := newValidateCmd()
	cmd.SetArgs([]string{writeSampleRecipe(t)})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestShowCmdListsBoxes(t *testing.T) {
	var out bytes.Buffer
	cmd := newShowCmd()
	cmd.SetArgs([]string{writeSampleRecipe(t)})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("show: %v", err)
	}
	text := out.String()
	for _, want := range []string{"1200 x 800", "Boxes:  2", "300x200", "(900, 600)", "90"} {
		if !strings.Contains(text, want) {
			t.Errorf("show output missing %q:\n%s", want, text)
		}
	}
}

func TestExportCmdPDF(t *testing.T) {
	recipePath := writeSampleRecipe(t)
	outPath := filepath.Join(t.TempDir(), "out.pdf")

	cmd := newExportCmd()
	cmd.SetArgs([]string{recipePath, "--output", outPath})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		t.Errorf("PDF not written: err=%v", err)
	}
}

func TestExportCmdRejectsUnknownExtension(t *testing.T) {
	cmd := newExportCmd()
	cmd.SetArgs([]string{writeSampleRecipe(t), "--output", "out.svg"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
