package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// PalletPreset names a standard pallet footprint selectable from the UI.
type PalletPreset struct {
	Name      string  `json:"name"`
	Width     float64 `json:"width_mm"`
	Depth     float64 `json:"depth_mm"`
	Grid      float64 `json:"grid_mm"`
	IsBuiltIn bool    `json:"-"`
}

// BuiltInPresets returns the standard pallet footprints. The slice is
// freshly allocated so callers may append custom presets to it.
func BuiltInPresets() []PalletPreset {
	return []PalletPreset{
		{Name: "EUR/EPAL (1200 x 800)", Width: 1200, Depth: 800, Grid: 50, IsBuiltIn: true},
		{Name: "ISO Industrial (1200 x 1000)", Width: 1200, Depth: 1000, Grid: 50, IsBuiltIn: true},
		{Name: "Half EUR (800 x 600)", Width: 800, Depth: 600, Grid: 25, IsBuiltIn: true},
		{Name: "North American GMA (1219 x 1016)", Width: 1219, Depth: 1016, Grid: 50, IsBuiltIn: true},
		{Name: "Quarter EUR (600 x 400)", Width: 600, Depth: 400, Grid: 25, IsBuiltIn: true},
	}
}

// DefaultPresetsPath returns the file path for user-defined presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets saves user-defined presets to a JSON file.
func SaveCustomPresets(path string, presets []PalletPreset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomPresets loads user-defined presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]PalletPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []PalletPreset{}, nil
		}
		return nil, err
	}

	var presets []PalletPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Loaded presets are never marked built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// AllPresets returns the built-in presets followed by the custom presets
// from path. A missing custom file yields the built-ins alone.
func AllPresets(path string) ([]PalletPreset, error) {
	custom, err := LoadCustomPresets(path)
	if err != nil {
		return BuiltInPresets(), err
	}
	return append(BuiltInPresets(), custom...), nil
}
