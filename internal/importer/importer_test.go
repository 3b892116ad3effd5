package importer

import (
	"strings"
	"testing"

	"github.com/palletworks/palletpad/internal/model"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "x,y,w,d\n100,100,300,200\n", ','},
		{"semicolon", "x;y;w;d\n100;100;300;200\n", ';'},
		{"tab", "x\ty\tw\td\n100\t100\t300\t200\n", '\t'},
		{"pipe", "x|y|w|d\n100|100|300|200\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("delimiter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectColumnsWithHeader(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"X", "Y", "Width", "Depth", "Rot", "Qty"})
	if !hasHeader {
		t.Fatal("header not detected")
	}
	if mapping.X != 0 || mapping.Y != 1 || mapping.Width != 2 || mapping.Depth != 3 ||
		mapping.Rotation != 4 || mapping.Quantity != 5 {
		t.Errorf("mapping = %+v", mapping)
	}
}

func TestDetectColumnsAliases(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"pos x", "pos y", "w", "h", "angle"})
	if !hasHeader {
		t.Fatal("header not detected")
	}
	if mapping.Width != 2 || mapping.Depth != 3 || mapping.Rotation != 4 {
		t.Errorf("mapping = %+v", mapping)
	}
	if mapping.Quantity != -1 {
		t.Errorf("quantity = %d, want -1 (absent)", mapping.Quantity)
	}
}

func TestDetectColumnsPositionalFallback(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"100", "100", "300", "200"})
	if hasHeader {
		t.Fatal("numeric row mistaken for header")
	}
	if mapping.X != 0 || mapping.Width != 2 || mapping.Depth != 3 {
		t.Errorf("positional mapping = %+v", mapping)
	}
}

func TestImportCSVFromReader(t *testing.T) {
	data := "x,y,w,d,rot\n300,200,300,200,0\n900,600,300,200,90\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Boxes) != 2 {
		t.Fatalf("box count = %d, want 2", len(result.Boxes))
	}
	if b := result.Boxes[0]; b.X != 300 || b.Y != 200 || b.W != 300 || b.D != 200 || b.Rot != model.Rot0 {
		t.Errorf("box 0 = %+v", b)
	}
	if b := result.Boxes[1]; b.X != 900 || b.Rot != model.Rot90 {
		t.Errorf("box 1 = %+v", b)
	}
}

func TestImportQuantityExpandsRows(t *testing.T) {
	data := "w,d,qty\n300,200,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Boxes) != 3 {
		t.Fatalf("box count = %d, want 3", len(result.Boxes))
	}
	for i, b := range result.Boxes {
		if b.W != 300 || b.D != 200 {
			t.Errorf("box %d = %+v", i, b)
		}
	}
}

func TestImportRowErrorsAreCollected(t *testing.T) {
	data := "x,y,w,d\n100,100,300,200\n100,100,bad,200\n100,100,300,\n100,100,-5,200\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 1 {
		t.Errorf("box count = %d, want 1 (good row survives)", len(result.Boxes))
	}
	if len(result.Errors) != 3 {
		t.Errorf("errors = %v, want 3", result.Errors)
	}
	for _, e := range result.Errors {
		if !strings.HasPrefix(e, "Line ") {
			t.Errorf("error %q lacks a line reference", e)
		}
	}
}

func TestImportUnknownRotationWarnsAndDefaults(t *testing.T) {
	data := "w,d,rot\n300,200,45\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 1 || result.Boxes[0].Rot != model.Rot0 {
		t.Fatalf("boxes = %+v, want one box with rot 0", result.Boxes)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the unknown rotation")
	}
}

func TestImportSkipsEmptyRows(t *testing.T) {
	data := "w,d\n300,200\n,\n\n400,250\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 2 {
		t.Errorf("box count = %d, want 2", len(result.Boxes))
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors: %v", result.Errors)
	}
}

func TestImportMissingRequiredColumns(t *testing.T) {
	data := "x,y,qty\n100,100,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 0 {
		t.Errorf("boxes = %+v, want none", result.Boxes)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Width, Depth") {
		t.Errorf("errors = %v, want missing-columns error", result.Errors)
	}
}

func TestImportEmptyInput(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected an error for empty input")
	}
}
