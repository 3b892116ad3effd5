package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/palletworks/palletpad/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config := model.DefaultAppConfig()
	config.PalletWidth = 1219
	config.PLCAddress = "http://plc.local:8080"
	config.RecentRecipes = []string{"/tmp/a.pallet.yaml"}

	if err := SaveAppConfig(path, config); err != nil {
		t.Fatalf("SaveAppConfig: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if loaded.PalletWidth != 1219 {
		t.Errorf("pallet width = %v, want 1219", loaded.PalletWidth)
	}
	if loaded.PLCAddress != "http://plc.local:8080" {
		t.Errorf("plc address = %q", loaded.PLCAddress)
	}
	if len(loaded.RecentRecipes) != 1 {
		t.Errorf("recent recipes = %v", loaded.RecentRecipes)
	}
}

func TestLoadAppConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	config, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	want := model.DefaultAppConfig()
	if config.PalletWidth != want.PalletWidth || config.MaxBoxes != want.MaxBoxes {
		t.Errorf("config = %+v, want defaults", config)
	}
}

func TestLoadAppConfigCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for corrupt config")
	}
}

func TestAddRecentRecipe(t *testing.T) {
	config := model.DefaultAppConfig()

	AddRecentRecipe(&config, "/a")
	AddRecentRecipe(&config, "/b")
	AddRecentRecipe(&config, "/a")

	if len(config.RecentRecipes) != 2 {
		t.Fatalf("recent = %v, want deduplicated pair", config.RecentRecipes)
	}
	if config.RecentRecipes[0] != "/a" || config.RecentRecipes[1] != "/b" {
		t.Errorf("recent = %v, want [/a /b]", config.RecentRecipes)
	}

	for i := 0; i < 20; i++ {
		AddRecentRecipe(&config, filepath.Join("/r", string(rune('a'+i))))
	}
	if len(config.RecentRecipes) != maxRecentRecipes {
		t.Errorf("recent length = %d, want %d", len(config.RecentRecipes), maxRecentRecipes)
	}
}

func TestSaveAndLoadRecipeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo"+RecipeExt)

	src, err := model.NewPattern(model.PalletConfig{Width: 1200, Depth: 800, Grid: 50}, 20, 300, 200)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	src.AddBoxAt(300, 200)
	src.AddBoxAt(900, 600)

	if err := SaveRecipe(path, src); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}

	dst, err := model.NewPattern(model.PalletConfig{Width: 600, Depth: 400, Grid: 25}, 20, 300, 200)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	if err := LoadRecipe(path, dst); err != nil {
		t.Fatalf("LoadRecipe: %v", err)
	}

	if dst.Config().Width != 1200 || dst.Count() != 2 {
		t.Errorf("loaded pattern: cfg=%+v count=%d", dst.Config(), dst.Count())
	}
}

func TestLoadRecipeMissingFile(t *testing.T) {
	p, err := model.NewPattern(model.PalletConfig{Width: 1200, Depth: 800, Grid: 50}, 20, 300, 200)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	if err := LoadRecipe(filepath.Join(t.TempDir(), "missing.yaml"), p); err == nil {
		t.Error("expected error for missing recipe file")
	}
}

func TestBuiltInPresetsAreSane(t *testing.T) {
	presets := BuiltInPresets()
	if len(presets) == 0 {
		t.Fatal("no built-in presets")
	}
	for _, preset := range presets {
		if preset.Width < model.MinPalletDim || preset.Depth < model.MinPalletDim {
			t.Errorf("preset %q below minimum pallet size", preset.Name)
		}
		if preset.Grid <= 0 {
			t.Errorf("preset %q has non-positive grid", preset.Name)
		}
		if !preset.IsBuiltIn {
			t.Errorf("preset %q not marked built-in", preset.Name)
		}
	}
}

func TestCustomPresetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	custom := []PalletPreset{
		{Name: "Line 3 special", Width: 1100, Depth: 900, Grid: 10, IsBuiltIn: true},
	}
	if err := SaveCustomPresets(path, custom); err != nil {
		t.Fatalf("SaveCustomPresets: %v", err)
	}

	loaded, err := LoadCustomPresets(path)
	if err != nil {
		t.Fatalf("LoadCustomPresets: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Line 3 special" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded[0].IsBuiltIn {
		t.Error("loaded preset kept built-in flag")
	}

	all, err := AllPresets(path)
	if err != nil {
		t.Fatalf("AllPresets: %v", err)
	}
	if len(all) != len(BuiltInPresets())+1 {
		t.Errorf("all presets = %d, want built-ins plus one", len(all))
	}
}

func TestLoadCustomPresetsMissingFile(t *testing.T) {
	presets, err := LoadCustomPresets(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadCustomPresets: %v", err)
	}
	if len(presets) != 0 {
		t.Errorf("presets = %+v, want empty", presets)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	config := model.DefaultAppConfig()
	config.BaseTagPath = "Line4DB"
	presets := []PalletPreset{{Name: "custom", Width: 1000, Depth: 1000, Grid: 20}}

	if err := ExportAllData(path, config, presets); err != nil {
		t.Fatalf("ExportAllData: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData: %v", err)
	}
	if backup.Version == "" || backup.CreatedAt == "" {
		t.Errorf("backup metadata missing: %+v", backup)
	}
	if backup.Config.BaseTagPath != "Line4DB" {
		t.Errorf("config base tag = %q", backup.Config.BaseTagPath)
	}
	if len(backup.Presets) != 1 {
		t.Errorf("presets = %+v", backup.Presets)
	}
}

func TestImportAllDataRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for backup without version")
	}
}
