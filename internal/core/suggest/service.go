package suggest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"recipe-suggester/internal/core/ingredient"
	"recipe-suggester/internal/pkg/common"
)

// CatalogSource supplies the ingredient catalog snapshot used for
// resolution and display names.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*ingredient.Catalog, error)
}

// PantrySource supplies the set of ingredient ids a user has on hand.
type PantrySource interface {
	IngredientIDs(ctx context.Context, userID uint) (map[uint]bool, error)
}

// RecipeSource supplies recipe ingredient sets for ranking.
type RecipeSource interface {
	IngredientSets(ctx context.Context) ([]RecipeIngredients, error)
	IngredientSetsByID(ctx context.Context, ids []uint) ([]RecipeIngredients, error)
}

// Service answers pantry-gap queries: which recipes are closest to
// cookable with what the user has, and what is missing for a chosen set.
type Service struct {
	catalog CatalogSource
	pantry  PantrySource
	recipes RecipeSource
	cache   *ResponseCache
}

// NewService creates a suggestion service. cache may be nil when the
// redis response cache is disabled.
func NewService(catalog CatalogSource, pantry PantrySource, recipes RecipeSource, cache *ResponseCache) *Service {
	return &Service{
		catalog: catalog,
		pantry:  pantry,
		recipes: recipes,
		cache:   cache,
	}
}

// Suggest ranks all recipes against the user's pantry. thresholdStr is
// the raw query value; anything that does not parse as an integer is
// treated as absent, matching the permissive filter contract.
func (s *Service) Suggest(ctx context.Context, userID uint, canMake bool, thresholdStr string) ([]SuggestionRow, error) {
	var threshold *int
	if thresholdStr != "" {
		if n, err := strconv.Atoi(thresholdStr); err == nil {
			threshold = &n
		}
	}

	if s.cache != nil {
		if rows, ok := s.cache.Get(ctx, userID, canMake, threshold); ok {
			return rows, nil
		}
	}

	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	pantry, err := s.pantry.IngredientIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pantry: %w", err)
	}
	recipes, err := s.recipes.IngredientSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	rows := Rank(pantry, recipes, catalog, canMake, threshold)

	if s.cache != nil {
		s.cache.Set(ctx, userID, canMake, threshold, rows)
	}
	return rows, nil
}

// Grocery builds a shopping list covering the given recipes: the union
// of their ingredients minus the user's pantry, sorted by name.
func (s *Service) Grocery(ctx context.Context, userID uint, recipeIDs []uint) ([]string, error) {
	if len(recipeIDs) == 0 {
		return nil, common.NewValidationError("at least one recipe id is required")
	}

	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	pantry, err := s.pantry.IngredientIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pantry: %w", err)
	}
	recipes, err := s.recipes.IngredientSetsByID(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	return GroceryList(pantry, recipes, catalog), nil
}

// ParseRecipeIDs parses a comma-separated id list from a query string.
// Any malformed entry fails the whole list.
func ParseRecipeIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, common.NewValidationError("recipes parameter is required")
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("invalid recipe id %q", part))
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}
