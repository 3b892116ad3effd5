// Package importer reads box lists from CSV and Excel files. It supports
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/palletworks/palletpad/internal/model"
)

// ImportResult holds the results of an import operation. Boxes carry the
// raw file values; snapping and clamping happen when they enter a pattern.
type ImportResult struct {
	Boxes    []model.BoxSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A -1 index means the role is absent.
type ColumnMapping struct {
	X        int
	Y        int
	Width    int
	Depth    int
	Rotation int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all
// lowercase).
var headerAliases = map[string][]string{
	"x":        {"x", "cx", "center x", "pos x", "posx"},
	"y":        {"y", "cy", "center y", "pos y", "posy"},
	"width":    {"width", "w", "box width", "len", "length"},
	"depth":    {"depth", "d", "box depth", "height", "h"},
	"rotation": {"rotation", "rot", "angle", "orientation"},
	"quantity": {"quantity", "qty", "count", "num", "pcs", "pieces"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab, and pipe. The delimiter producing the most
// consistent multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Matching
// is case-insensitive against known aliases. Returns the mapping and true
// if a header was detected, or the default positional mapping
// (X, Y, Width, Depth, Rotation, Quantity) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{X: -1, Y: -1, Width: -1, Depth: -1, Rotation: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "x":
						if mapping.X == -1 {
							mapping.X = i
						}
					case "y":
						if mapping.Y == -1 {
							mapping.Y = i
						}
					case "width":
						if mapping.Width == -1 {
							mapping.Width = i
						}
					case "depth":
						if mapping.Depth == -1 {
							mapping.Depth = i
						}
					case "rotation":
						if mapping.Rotation == -1 {
							mapping.Rotation = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{X: 0, Y: 1, Width: 2, Depth: 3, Rotation: 4, Quantity: 5}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value by column index. Returns the empty
// string for a negative or out-of-range index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRotation converts a rotation cell to a model.Rotation. Accepts the
// numeric forms 0 and 90 plus a few textual aliases.
func parseRotation(s string) (model.Rotation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "none", "n":
		return model.Rot0, true
	case "90", "r", "rot", "rotated":
		return model.Rot90, true
	default:
		return model.Rot0, false
	}
}

// parseRow extracts box specs from one row using the given column mapping.
// Returns the specs (quantity expands into copies), any error message, and
// any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) ([]model.BoxSpec, string, string) {
	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return nil, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	depthStr := getCell(row, mapping.Depth)
	if depthStr == "" {
		return nil, fmt.Sprintf("%s: Missing depth value", rowLabel), ""
	}
	depth, err := strconv.ParseFloat(depthStr, 64)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid depth '%s'", rowLabel, depthStr), ""
	}

	if width <= 0 || depth <= 0 {
		return nil, fmt.Sprintf("%s: Width and depth must be positive", rowLabel), ""
	}

	var x, y float64
	if s := getCell(row, mapping.X); s != "" {
		if x, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, s), ""
		}
	}
	if s := getCell(row, mapping.Y); s != "" {
		if y, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, s), ""
		}
	}

	var warning string
	rot := model.Rot0
	if s := getCell(row, mapping.Rotation); s != "" {
		parsed, ok := parseRotation(s)
		if ok {
			rot = parsed
		} else {
			warning = fmt.Sprintf("%s: Unknown rotation '%s', defaulting to 0", rowLabel, s)
		}
	}

	qty := 1
	if s := getCell(row, mapping.Quantity); s != "" {
		qty, err = strconv.Atoi(s)
		if err != nil || qty <= 0 {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, s), warning
		}
	}

	specs := make([]model.BoxSpec, qty)
	for i := range specs {
		specs[i] = model.BoxSpec{X: x, Y: y, W: width, D: depth, Rot: rot}
	}
	return specs, "", warning
}

// isEmptyRow reports whether the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports boxes from a CSV file. It detects the delimiter and
// maps columns by header names; comma, semicolon, tab, and pipe delimiters
// are supported.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports boxes from a CSV reader with a known
// delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports boxes from an Excel (.xlsx) file. It reads the first
// sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// No recognized header: if the first data cell is not numeric the
		// row is likely an unrecognized header, skip it but keep the
		// positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		specs, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Boxes = append(result.Boxes, specs...)
	}

	return result
}
