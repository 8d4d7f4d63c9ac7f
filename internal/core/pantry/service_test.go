package pantry

import (
	"context"
	"path/filepath"
	"testing"

	"recipe-suggester/internal/core/catalog"
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
	require.NoError(t, db.AutoMigrate(&catalog.Ingredient{}, &Item{}))
	return db
}

func seedIngredients(t *testing.T, db *gorm.DB, names ...string) []uint {
	t.Helper()
	svc := catalog.NewService(db, nil)
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		ing := catalog.Ingredient{Name: name}
		require.NoError(t, svc.Create(context.Background(), &ing))
		ids = append(ids, ing.ID)
	}
	return ids
}

func TestAddAndList(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour", "Butter")
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, ids[0], 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, ids[1], 0)
	require.NoError(t, err)

	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Flour", items[0].Ingredient.Name)
	assert.Equal(t, float64(2), items[0].Quantity)
	// Zero quantity defaults to 1.
	assert.Equal(t, float64(1), items[1].Quantity)
}

func TestAddDuplicateReturnsExisting(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour")
	svc := NewService(db)
	ctx := context.Background()

	first, err := svc.Add(ctx, 1, ids[0], 3)
	require.NoError(t, err)

	second, err := svc.Add(ctx, 1, ids[0], 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, float64(3), second.Quantity)
}

func TestListScopedToUser(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour")
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, ids[0], 1)
	require.NoError(t, err)

	items, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour")
	svc := NewService(db)
	ctx := context.Background()

	item, err := svc.Add(ctx, 1, ids[0], 1)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, 1, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, float64(5), updated.Quantity)

	// Another user cannot touch the entry.
	_, err = svc.UpdateQuantity(ctx, 2, item.ID, 9)
	assert.ErrorIs(t, err, common.ErrNotFound)
	err = svc.Remove(ctx, 2, item.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.Remove(ctx, 1, item.ID))
	err = svc.Remove(ctx, 1, item.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestToggle(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour")
	svc := NewService(db)
	ctx := context.Background()

	inPantry, err := svc.Toggle(ctx, 1, ids[0])
	require.NoError(t, err)
	assert.True(t, inPantry)

	inPantry, err = svc.Toggle(ctx, 1, ids[0])
	require.NoError(t, err)
	assert.False(t, inPantry)

	set, err := svc.IngredientIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestIngredientIDs(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour", "Butter", "Salt")
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, ids[0], 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, ids[2], 1)
	require.NoError(t, err)

	set, err := svc.IngredientIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{ids[0]: true, ids[2]: true}, set)
}

func TestTrendingCountsAcrossPantries(t *testing.T) {
	db := openTestDB(t)
	ids := seedIngredients(t, db, "Flour", "Butter")
	svc := NewService(db)
	catalogSvc := catalog.NewService(db, nil)
	ctx := context.Background()

	// Flour in two pantries, butter in one.
	_, err := svc.Add(ctx, 1, ids[0], 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, ids[0], 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, ids[1], 1)
	require.NoError(t, err)

	rows, err := catalogSvc.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Flour", rows[0].Name)
	assert.Equal(t, int64(2), rows[0].PantryCount)
	assert.Equal(t, "Butter", rows[1].Name)
	assert.Equal(t, int64(1), rows[1].PantryCount)
}
