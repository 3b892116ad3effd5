package ui

import (
	"testing"
)

func TestRecentRecipeItems(t *testing.T) {
	paths := []string{
		"/patterns/line3.pallet.yaml",
		"/patterns/euro-12.pallet.yaml",
	}

	var opened []string
	items := recentRecipeItems(paths, func(p string) { opened = append(opened, p) })

	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Label != "line3.pallet.yaml" || items[1].Label != "euro-12.pallet.yaml" {
		t.Errorf("labels = %q, %q", items[0].Label, items[1].Label)
	}

	// Each entry opens its own full path, not the loop variable's last value.
	items[1].Action()
	items[0].Action()
	if len(opened) != 2 || opened[0] != paths[1] || opened[1] != paths[0] {
		t.Errorf("opened = %v", opened)
	}
}

func TestRecentRecipeItemsEmpty(t *testing.T) {
	if items := recentRecipeItems(nil, func(string) {}); len(items) != 0 {
		t.Errorf("items = %d, want 0", len(items))
	}
}
