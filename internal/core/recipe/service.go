package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-suggester/internal/core/cache"
	"recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/core/ingredient"
	"recipe-suggester/internal/core/suggest"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recipe is one stored recipe. IngredientIDs and DietaryTags are derived
// projections of IngredientText: recomputed on every content write, never
// edited directly.
type Recipe struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	AuthorID       uint                        `gorm:"index" json:"author_id"`
	Title          string                      `gorm:"size:1000;not null" json:"title"`
	Instructions   string                      `gorm:"type:text" json:"instructions"`
	IngredientText string                      `gorm:"type:text" json:"ingredient_text"`
	Image          string                      `gorm:"size:1000" json:"image"`
	SourceURL      string                      `gorm:"size:1000" json:"source_url"`
	IngredientIDs  datatypes.JSONSlice[uint]   `json:"ingredient_ids"`
	DietaryTags    datatypes.JSONSlice[string] `json:"dietary_tags"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// Favorite is one (user, recipe) bookmark pair.
type Favorite struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
}

// Service manages recipes and their derived fields. Every content write
// runs the resolver and classifier against a catalog snapshot taken at
// call time and persists recipe plus derived fields together.
type Service struct {
	db      *gorm.DB
	catalog *catalog.Service
	cache   *cache.Manager
}

// NewService creates the recipe service.
func NewService(db *gorm.DB, catalogService *catalog.Service, cacheManager *cache.Manager) *Service {
	return &Service{
		db:      db,
		catalog: catalogService,
		cache:   cacheManager,
	}
}

// Create stores a new recipe with freshly computed derived fields.
func (s *Service) Create(ctx context.Context, r *Recipe) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return common.NewValidationError("recipe title is required")
	}

	if err := s.refreshDerived(ctx, r); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	s.cache.Invalidate(randomCacheKey)

	common.LogInfo("Recipe created",
		zap.Uint("id", r.ID),
		zap.String("title", r.Title),
		zap.Int("resolved_ingredients", len(r.IngredientIDs)),
	)
	return nil
}

// Update applies the given content fields and recomputes the derived
// fields, persisting everything in one write.
func (s *Service) Update(ctx context.Context, id uint, title, instructions, ingredientText, sourceURL string) (*Recipe, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title = strings.TrimSpace(title); title != "" {
		r.Title = title
	}
	r.Instructions = instructions
	r.IngredientText = ingredientText
	r.SourceURL = sourceURL

	if err := s.refreshDerived(ctx, r); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	s.cache.Invalidate(randomCacheKey)
	return r, nil
}

// refreshDerived is the post-write hook of the derived-field lifecycle:
// resolve the raw ingredient text against a catalog snapshot, then classify
// the resolved set into dietary tags.
func (s *Service) refreshDerived(ctx context.Context, r *Recipe) error {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("refresh derived fields: %w", err)
	}

	ids := ingredient.Resolve(r.IngredientText, snapshot)
	r.IngredientIDs = datatypes.NewJSONSlice(ids)
	r.DietaryTags = datatypes.NewJSONSlice(ingredient.Classify(ids, snapshot))
	return nil
}

// Get returns one recipe by id.
func (s *Service) Get(ctx context.Context, id uint) (*Recipe, error) {
	var r Recipe
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &r, nil
}

// Delete removes a recipe along with its reviews, notes and favorites.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews for recipe %d: %w", id, err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&Note{}).Error; err != nil {
			return fmt.Errorf("delete notes for recipe %d: %w", id, err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&Favorite{}).Error; err != nil {
			return fmt.Errorf("delete favorites for recipe %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(randomCacheKey)
	return nil
}

// SetImage attaches an uploaded image path to a recipe.
func (s *Service) SetImage(ctx context.Context, id uint, imagePath string) (*Recipe, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Image = imagePath
	if err := s.db.WithContext(ctx).Model(r).Update("image", imagePath).Error; err != nil {
		return nil, fmt.Errorf("set image for recipe %d: %w", id, err)
	}
	return r, nil
}

// IngredientSets returns every recipe's resolved id set, the per-recipe
// input snapshot of the gap ranker.
func (s *Service) IngredientSets(ctx context.Context) ([]suggest.RecipeIngredients, error) {
	var rows []Recipe
	if err := s.db.WithContext(ctx).
		Select("id", "title", "image", "ingredient_ids").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("recipe ingredient sets: %w", err)
	}
	return toIngredientSets(rows), nil
}

// IngredientSetsByID is IngredientSets limited to the given recipe ids.
// Unknown ids are skipped, not errors.
func (s *Service) IngredientSetsByID(ctx context.Context, ids []uint) ([]suggest.RecipeIngredients, error) {
	var rows []Recipe
	if err := s.db.WithContext(ctx).
		Select("id", "title", "image", "ingredient_ids").
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("recipe ingredient sets: %w", err)
	}
	return toIngredientSets(rows), nil
}

func toIngredientSets(rows []Recipe) []suggest.RecipeIngredients {
	sets := make([]suggest.RecipeIngredients, len(rows))
	for i, r := range rows {
		sets[i] = suggest.RecipeIngredients{
			RecipeID:      r.ID,
			Title:         r.Title,
			Image:         r.Image,
			IngredientIDs: []uint(r.IngredientIDs),
		}
	}
	return sets
}
