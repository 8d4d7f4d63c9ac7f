package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-suggester/internal/core/cache"
	"recipe-suggester/internal/core/ingredient"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const trendingCacheKey = "trending_ingredients"

// Ingredient is one catalog row. Name is unique case-insensitively; the
// service enforces that on create since not every backend supports
// expression indexes.
type Ingredient struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:1000;not null;uniqueIndex" json:"name"`
	Unit           string    `gorm:"size:50" json:"unit"`
	Description    string    `gorm:"type:text" json:"description"`
	IsMeat         bool      `gorm:"not null;default:false" json:"is_meat"`
	IsDairy        bool      `gorm:"not null;default:false" json:"is_dairy"`
	ContainsGluten bool      `gorm:"not null;default:false" json:"contains_gluten"`
	IsVeganSafe    bool      `gorm:"not null;default:true" json:"is_vegan_safe"`
	IsNutFree      bool      `gorm:"not null;default:true" json:"is_nut_free"`
	IsKetoFriendly bool      `gorm:"not null;default:false" json:"is_keto_friendly"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrendingIngredient is one row of the trending list: an ingredient and how
// many pantries currently hold it.
type TrendingIngredient struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	PantryCount int64  `json:"pantry_count"`
}

// Service provides catalog reads and curator writes, and produces the
// immutable snapshots the core matching code consumes.
type Service struct {
	db    *gorm.DB
	cache *cache.Manager
}

// NewService creates the catalog service.
func NewService(db *gorm.DB, cacheManager *cache.Manager) *Service {
	return &Service{
		db:    db,
		cache: cacheManager,
	}
}

// List returns every catalog row ordered by name.
func (s *Service) List(ctx context.Context) ([]Ingredient, error) {
	var rows []Ingredient
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return rows, nil
}

// Get returns one catalog row by id.
func (s *Service) Get(ctx context.Context, id uint) (*Ingredient, error) {
	var row Ingredient
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get ingredient %d: %w", id, err)
	}
	return &row, nil
}

// Create adds a catalog row, rejecting names that already exist under
// case-insensitive comparison.
func (s *Service) Create(ctx context.Context, ing *Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" {
		return common.NewValidationError("ingredient name is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Ingredient{}).
		Where("LOWER(name) = ?", strings.ToLower(ing.Name)).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check ingredient name: %w", err)
	}
	if count > 0 {
		return common.ErrIngredientExists
	}

	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}
	common.LogInfo("Ingredient created",
		zap.Uint("id", ing.ID),
		zap.String("name", ing.Name),
	)
	return nil
}

// Snapshot materializes the current catalog as an immutable snapshot for
// one resolve/classify/rank call.
func (s *Service) Snapshot(ctx context.Context) (*ingredient.Catalog, error) {
	var rows []Ingredient
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("snapshot catalog: %w", err)
	}

	records := make([]ingredient.Record, len(rows))
	for i, row := range rows {
		records[i] = ingredient.Record{
			ID:             row.ID,
			Name:           row.Name,
			IsMeat:         row.IsMeat,
			IsDairy:        row.IsDairy,
			ContainsGluten: row.ContainsGluten,
			IsVeganSafe:    row.IsVeganSafe,
			IsNutFree:      row.IsNutFree,
			IsKetoFriendly: row.IsKetoFriendly,
		}
	}
	return ingredient.NewCatalog(records), nil
}

// Trending returns the most-stocked ingredients across all pantries,
// cached under a fixed key with the configured cache TTL.
func (s *Service) Trending(ctx context.Context, limit int) ([]TrendingIngredient, error) {
	if limit <= 0 {
		limit = 10
	}

	if cached, ok := s.cache.Get(trendingCacheKey); ok {
		var rows []TrendingIngredient
		if err := json.Unmarshal([]byte(cached), &rows); err == nil {
			return rows, nil
		}
	}

	var rows []TrendingIngredient
	err := s.db.WithContext(ctx).
		Table("pantry_items").
		Select("ingredients.id AS id, ingredients.name AS name, COUNT(pantry_items.id) AS pantry_count").
		Joins("JOIN ingredients ON ingredients.id = pantry_items.ingredient_id").
		Group("ingredients.id, ingredients.name").
		Order("pantry_count DESC, ingredients.name").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("trending ingredients: %w", err)
	}

	if data, err := json.Marshal(rows); err == nil {
		_ = s.cache.Set(trendingCacheKey, string(data))
	}
	return rows, nil
}
