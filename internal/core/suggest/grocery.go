package suggest

import (
	"sort"
	"strings"

	"recipe-suggester/internal/core/ingredient"
)

// GroceryList returns the ingredients needed for the given recipes that the
// pantry does not cover: the union of the recipes' resolved sets minus the
// pantry set, resolved to names, de-duplicated and sorted by name.
//
// Pantry and catalog snapshots must not be nil; passing either is a caller
// bug.
func GroceryList(pantry map[uint]bool, recipes []RecipeIngredients, catalog *ingredient.Catalog) []string {
	if pantry == nil {
		panic("suggest: GroceryList called with nil pantry")
	}
	if catalog == nil {
		panic("suggest: GroceryList called with nil catalog")
	}

	needed := make(map[uint]struct{})
	for _, r := range recipes {
		for _, id := range r.IngredientIDs {
			if !pantry[id] {
				needed[id] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(needed))
	seen := make(map[string]struct{}, len(needed))
	for id := range needed {
		name := catalog.Name(id)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
