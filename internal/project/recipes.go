package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/palletworks/palletpad/internal/model"
	"github.com/palletworks/palletpad/internal/recipe"
)

// RecipeExt is the file extension recipe files are saved under.
const RecipeExt = ".pallet.yaml"

// SaveRecipe writes the pattern's recipe text to path, creating parent
// directories as needed.
func SaveRecipe(path string, p *model.Pattern) error {
	text, err := recipe.Export(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create recipe directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// LoadRecipe reads a recipe file and applies it to the pattern. A failed
// load or parse leaves the pattern untouched.
func LoadRecipe(path string, p *model.Pattern) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read recipe file: %w", err)
	}
	return recipe.Import(p, string(data))
}
