package suggest

import (
	"sort"

	"recipe-suggester/internal/core/ingredient"
)

// MaxSuggestions caps the number of rows a suggestion query returns.
const MaxSuggestions = 20

// RecipeIngredients is one recipe's resolved ingredient-id set, the ranker's
// per-recipe input snapshot.
type RecipeIngredients struct {
	RecipeID      uint
	Title         string
	Image         string
	IngredientIDs []uint
}

// SuggestionRow is one ranked suggestion. Rows are transient: computed per
// request, never persisted.
type SuggestionRow struct {
	RecipeID           uint     `json:"id"`
	Title              string   `json:"title"`
	Image              string   `json:"image"`
	MissingCount       int      `json:"missing_count"`
	MissingIngredients []string `json:"missing_ingredients"`
}

// Rank diffs each recipe's resolved set against the pantry, filters, and
// sorts ascending by missing count.
//
// Filter precedence: canMake keeps only rows with nothing missing
// (threshold is ignored); otherwise a non-nil threshold keeps rows with
// 0 < missing <= threshold. Recipes needing nothing are excluded there on
// purpose, threshold asks for "almost there" recipes. Otherwise every row
// survives. The sort is stable, so recipes tying on missing count keep
// their input order. The result is capped at MaxSuggestions.
//
// Pantry and catalog snapshots must not be nil; passing either is a caller
// bug.
func Rank(pantry map[uint]bool, recipes []RecipeIngredients, catalog *ingredient.Catalog, canMake bool, threshold *int) []SuggestionRow {
	if pantry == nil {
		panic("suggest: Rank called with nil pantry")
	}
	if catalog == nil {
		panic("suggest: Rank called with nil catalog")
	}

	rows := make([]SuggestionRow, 0, len(recipes))
	for _, r := range recipes {
		missing := missingIDs(r.IngredientIDs, pantry)

		switch {
		case canMake:
			if len(missing) != 0 {
				continue
			}
		case threshold != nil:
			if len(missing) == 0 || len(missing) > *threshold {
				continue
			}
		}

		names := make([]string, 0, len(missing))
		for _, id := range missing {
			names = append(names, catalog.Name(id))
		}
		rows = append(rows, SuggestionRow{
			RecipeID:           r.RecipeID,
			Title:              r.Title,
			Image:              r.Image,
			MissingCount:       len(missing),
			MissingIngredients: names,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MissingCount < rows[j].MissingCount
	})

	if len(rows) > MaxSuggestions {
		rows = rows[:MaxSuggestions]
	}
	return rows
}

// missingIDs returns the resolved ids absent from the pantry, in resolved
// order.
func missingIDs(ids []uint, pantry map[uint]bool) []uint {
	missing := make([]uint, 0)
	for _, id := range ids {
		if !pantry[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
