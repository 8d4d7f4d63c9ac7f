package suggest

import (
	"context"
	"testing"

	"recipe-suggester/internal/core/ingredient"
	"recipe-suggester/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	catalog *ingredient.Catalog
}

func (s *stubCatalog) Snapshot(ctx context.Context) (*ingredient.Catalog, error) {
	return s.catalog, nil
}

type stubPantry struct {
	ids map[uint]bool
}

func (s *stubPantry) IngredientIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	return s.ids, nil
}

type stubRecipes struct {
	sets []RecipeIngredients
}

func (s *stubRecipes) IngredientSets(ctx context.Context) ([]RecipeIngredients, error) {
	return s.sets, nil
}

func (s *stubRecipes) IngredientSetsByID(ctx context.Context, ids []uint) ([]RecipeIngredients, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]RecipeIngredients, 0, len(s.sets))
	for _, set := range s.sets {
		if want[set.RecipeID] {
			out = append(out, set)
		}
	}
	return out, nil
}

func testService() *Service {
	return NewService(
		&stubCatalog{catalog: testCatalog()},
		&stubPantry{ids: map[uint]bool{1: true, 2: true}},
		&stubRecipes{sets: testRecipes()},
		nil,
	)
}

func TestServiceSuggest(t *testing.T) {
	svc := testService()

	rows, err := svc.Suggest(context.Background(), 1, false, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(10), rows[0].RecipeID)
}

func TestServiceSuggestInvalidThresholdIgnored(t *testing.T) {
	svc := testService()

	// An unparsable threshold behaves as if absent.
	rows, err := svc.Suggest(context.Background(), 1, false, "abc")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.Suggest(context.Background(), 1, false, "1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(20), rows[0].RecipeID)
}

func TestServiceGrocery(t *testing.T) {
	svc := testService()

	items, err := svc.Grocery(context.Background(), 1, []uint{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Butter", "Chicken Breast"}, items)
}

func TestServiceGroceryRequiresIDs(t *testing.T) {
	svc := testService()

	_, err := svc.Grocery(context.Background(), 1, nil)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestParseRecipeIDs(t *testing.T) {
	ids, err := ParseRecipeIDs("3,1,2")
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids)

	ids, err = ParseRecipeIDs(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, ids)
}

func TestParseRecipeIDsRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "1,x", "1,,2", "abc", "-1"} {
		_, err := ParseRecipeIDs(raw)
		require.Error(t, err, "raw=%q", raw)
		assert.True(t, common.IsValidationError(err), "raw=%q", raw)
	}
}
