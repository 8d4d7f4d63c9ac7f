package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/core/ingredient"
	"recipe-suggester/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Ingredient{}, &Recipe{}, &Review{}, &Note{}, &Favorite{}))
	return db
}

func newTestService(t *testing.T) (*Service, *catalog.Service) {
	t.Helper()
	db := openTestDB(t)
	catalogSvc := catalog.NewService(db, nil)
	return NewService(db, catalogSvc, nil), catalogSvc
}

func seedCatalog(t *testing.T, catalogSvc *catalog.Service) {
	t.Helper()
	ctx := context.Background()
	for _, ing := range []catalog.Ingredient{
		{Name: "Olive Oil", IsVeganSafe: true, IsNutFree: true, IsKetoFriendly: true},
		{Name: "Flour", ContainsGluten: true, IsVeganSafe: true, IsNutFree: true},
		{Name: "Chicken Breast", IsMeat: true, IsNutFree: true, IsKetoFriendly: true},
	} {
		ing := ing
		require.NoError(t, catalogSvc.Create(ctx, &ing))
	}
}

func TestCreateDerivesIngredientsAndTags(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{
		Title:          "Fried Chicken",
		IngredientText: "2 chicken breasts\n1 cup flour\n3 tbsp olive oil",
	}
	require.NoError(t, svc.Create(ctx, &r))
	require.NotZero(t, r.ID)

	assert.Len(t, []uint(r.IngredientIDs), 3)
	assert.Contains(t, []string(r.DietaryTags), ingredient.TagContainsMeat)
	assert.Contains(t, []string(r.DietaryTags), ingredient.TagContainsGluten)
	assert.NotContains(t, []string(r.DietaryTags), ingredient.TagVegan)
}

func TestCreateEmptyIngredientTextGetsPositiveTags(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{Title: "Mystery Dish"}
	require.NoError(t, svc.Create(ctx, &r))

	assert.Empty(t, []uint(r.IngredientIDs))
	assert.ElementsMatch(t,
		[]string{ingredient.TagVegan, ingredient.TagVegetarian, ingredient.TagNutFree, ingredient.TagKetoFriendly},
		[]string(r.DietaryTags),
	)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Create(context.Background(), &Recipe{Title: "  "})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestUpdateRecomputesDerivedFields(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{Title: "Bread", IngredientText: "2 cups flour"}
	require.NoError(t, svc.Create(ctx, &r))
	assert.Len(t, []uint(r.IngredientIDs), 1)

	updated, err := svc.Update(ctx, r.ID, "Chicken Bread", "", "flour\nchicken breast", "")
	require.NoError(t, err)
	assert.Len(t, []uint(updated.IngredientIDs), 2)
	assert.Contains(t, []string(updated.DietaryTags), ingredient.TagContainsMeat)

	// The persisted row carries the recomputed fields.
	stored, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint(updated.IngredientIDs), []uint(stored.IngredientIDs))
}

func TestDeleteCascades(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{Title: "Doomed"}
	require.NoError(t, svc.Create(ctx, &r))

	_, err := svc.CreateReview(ctx, 1, r.ID, "fine", 4)
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, 1, r.ID, "less salt")
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(ctx, 1, r.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))

	_, err = svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	var reviews int64
	svc.db.Model(&Review{}).Where("recipe_id = ?", r.ID).Count(&reviews)
	assert.Zero(t, reviews)
	var notes int64
	svc.db.Model(&Note{}).Where("recipe_id = ?", r.ID).Count(&notes)
	assert.Zero(t, notes)
	var favorites int64
	svc.db.Model(&Favorite{}).Where("recipe_id = ?", r.ID).Count(&favorites)
	assert.Zero(t, favorites)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMinimalDietFilter(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &Recipe{Title: "Salad", IngredientText: "olive oil"}))
	require.NoError(t, svc.Create(ctx, &Recipe{Title: "Roast", IngredientText: "chicken breast"}))

	all, err := svc.Minimal(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	vegan, err := svc.Minimal(ctx, ingredient.TagVegan)
	require.NoError(t, err)
	require.Len(t, vegan, 1)
	assert.Equal(t, "Salad", vegan[0].Title)
}

func TestMinimalDietFilterSeesPastCap(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, svc.Create(ctx, &Recipe{Title: "Roast", IngredientText: "chicken breast"}))
	}
	require.NoError(t, svc.Create(ctx, &Recipe{Title: "Salad", IngredientText: "olive oil"}))

	vegan, err := svc.Minimal(ctx, ingredient.TagVegan)
	require.NoError(t, err)
	require.Len(t, vegan, 1)
	assert.Equal(t, "Salad", vegan[0].Title)
}

func TestBrowsePagination(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Create(ctx, &Recipe{Title: "Recipe"}))
	}

	page, err := svc.Browse(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.TotalCount)

	page, err = svc.Browse(ctx, 3, 2, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = svc.Browse(ctx, 9, 2, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestToggleFavoriteAndList(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{Title: "Keeper"}
	require.NoError(t, svc.Create(ctx, &r))

	favorited, err := svc.ToggleFavorite(ctx, 1, r.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	favs, err := svc.Favorites(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Keeper", favs[0].Title)

	favorited, err = svc.ToggleFavorite(ctx, 1, r.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	favs, err = svc.Favorites(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestToggleFavoriteUnknownRecipe(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ToggleFavorite(context.Background(), 1, 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReviewRatingValidation(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{Title: "Rated"}
	require.NoError(t, svc.Create(ctx, &r))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(ctx, 1, r.ID, "", rating)
		require.Error(t, err, "rating=%d", rating)
		assert.True(t, common.IsValidationError(err))
	}

	review, err := svc.CreateReview(ctx, 1, r.ID, "great", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)

	reviews, err := svc.ListReviews(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestNotesAreOwnerScoped(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r := Recipe{Title: "Noted"}
	require.NoError(t, svc.Create(ctx, &r))

	note, err := svc.CreateNote(ctx, 1, r.ID, "double the garlic")
	require.NoError(t, err)

	// Another user sees no notes and cannot modify this one.
	others, err := svc.ListNotes(ctx, 2, r.ID)
	require.NoError(t, err)
	assert.Empty(t, others)

	_, err = svc.UpdateNote(ctx, 2, note.ID, "hijacked")
	assert.ErrorIs(t, err, common.ErrNotFound)
	err = svc.DeleteNote(ctx, 2, note.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	updated, err := svc.UpdateNote(ctx, 1, note.ID, "triple the garlic")
	require.NoError(t, err)
	assert.Equal(t, "triple the garlic", updated.Content)

	require.NoError(t, svc.DeleteNote(ctx, 1, note.ID))
}

func TestIngredientSets(t *testing.T) {
	svc, catalogSvc := newTestService(t)
	seedCatalog(t, catalogSvc)
	ctx := context.Background()

	r1 := Recipe{Title: "A", IngredientText: "flour"}
	require.NoError(t, svc.Create(ctx, &r1))
	r2 := Recipe{Title: "B", IngredientText: "olive oil\nchicken breast"}
	require.NoError(t, svc.Create(ctx, &r2))

	sets, err := svc.IngredientSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Len(t, sets[0].IngredientIDs, 1)
	assert.Len(t, sets[1].IngredientIDs, 2)

	subset, err := svc.IngredientSetsByID(ctx, []uint{r2.ID, 999})
	require.NoError(t, err)
	require.Len(t, subset, 1)
	assert.Equal(t, r2.ID, subset[0].RecipeID)
}
