// Package project persists application state between sessions: the app
// config, recipe files, pallet presets, and full-data backups. Everything
// lives under ~/.palletpad/ as JSON, except recipes which are YAML.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/palletworks/palletpad/internal/model"
)

// DefaultConfigDir returns the default directory for application
// configuration. On all platforms this is ~/.palletpad/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".palletpad")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	var config model.AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentRecipes is never nil
	if config.RecentRecipes == nil {
		config.RecentRecipes = []string{}
	}
	return config, nil
}

// maxRecentRecipes bounds the recent-files list shown in the File menu.
const maxRecentRecipes = 8

// AddRecentRecipe prepends path to the recent-recipes list, deduplicating
// and trimming to the display limit.
func AddRecentRecipe(config *model.AppConfig, path string) {
	recent := []string{path}
	for _, r := range config.RecentRecipes {
		if r != path {
			recent = append(recent, r)
		}
	}
	if len(recent) > maxRecentRecipes {
		recent = recent[:maxRecentRecipes]
	}
	config.RecentRecipes = recent
}
