package model

// InputScheme selects how pointer buttons map to editor actions.
type InputScheme string

const (
	// SchemeDesktop pans with the secondary button; a primary click on
	// empty space clears the selection.
	SchemeDesktop InputScheme = "desktop"
	// SchemeTouch pans with the primary pointer when it lands on empty
	// space, for single-button and touch input.
	SchemeTouch InputScheme = "touch"
)

// AppConfig holds application-wide preferences and defaults, persisted as
// JSON under the user's home directory.
type AppConfig struct {
	// Editor defaults applied to new sessions
	PalletWidth  float64 `json:"pallet_width"`
	PalletDepth  float64 `json:"pallet_depth"`
	GridSpacing  float64 `json:"grid_spacing"`
	DefaultBoxW  float64 `json:"default_box_width"`
	DefaultBoxD  float64 `json:"default_box_depth"`
	MaxBoxes     int     `json:"max_boxes"`
	LayerCount   int     `json:"layer_count"`
	LayerHeight  float64 `json:"layer_height"`

	// PLC connection
	PLCAddress  string `json:"plc_address"`
	PLCUsername string `json:"plc_username"`
	BaseTagPath string `json:"base_tag_path"`
	MaxSlots    int    `json:"max_slots"`
	PollSeconds int    `json:"poll_seconds"` // 0 = polling disabled

	// Application preferences
	InputScheme   InputScheme `json:"input_scheme"`
	Theme         string      `json:"theme"` // "light", "dark", "system"
	RecentRecipes []string    `json:"recent_recipes"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// for a EUR-pallet workflow.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PalletWidth: 1200,
		PalletDepth: 800,
		GridSpacing: 50,
		DefaultBoxW: 300,
		DefaultBoxD: 200,
		MaxBoxes:    20,
		LayerCount:  1,
		LayerHeight: 150,

		PLCAddress:  "",
		PLCUsername: "",
		BaseTagPath: "PatternDB",
		MaxSlots:    20,
		PollSeconds: 0,

		InputScheme:   SchemeDesktop,
		Theme:         "system",
		RecentRecipes: []string{},
	}
}

// NewPatternFromConfig builds a Pattern using the config's editor defaults.
func NewPatternFromConfig(c AppConfig) (*Pattern, error) {
	cfg := PalletConfig{Width: c.PalletWidth, Depth: c.PalletDepth, Grid: c.GridSpacing}
	return NewPattern(cfg, c.MaxBoxes, c.DefaultBoxW, c.DefaultBoxD)
}
