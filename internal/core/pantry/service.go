package pantry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Item is one (user, ingredient) pantry entry. The pair is unique per user.
type Item struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	UserID       uint               `gorm:"not null;uniqueIndex:idx_pantry_user_ingredient" json:"-"`
	IngredientID uint               `gorm:"not null;uniqueIndex:idx_pantry_user_ingredient" json:"ingredient_id"`
	Ingredient   catalog.Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	Quantity     float64            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// TableName keeps the table name stable for the trending join.
func (Item) TableName() string { return "pantry_items" }

// Service manages per-user pantry contents.
type Service struct {
	db *gorm.DB
}

// NewService creates the pantry service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns the user's pantry with ingredient details.
func (s *Service) List(ctx context.Context, userID uint) ([]Item, error) {
	var items []Item
	err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list pantry for user %d: %w", userID, err)
	}
	return items, nil
}

// Add puts an ingredient into the user's pantry. Adding an ingredient that
// is already there returns the existing entry rather than erroring, the
// same silent-skip the original UI relied on.
func (s *Service) Add(ctx context.Context, userID, ingredientID uint, quantity float64) (*Item, error) {
	if quantity <= 0 {
		quantity = 1
	}

	var existing Item
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ingredient_id = ?", userID, ingredientID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check pantry entry: %w", err)
	}

	item := Item{
		UserID:       userID,
		IngredientID: ingredientID,
		Quantity:     quantity,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("add pantry entry: %w", err)
	}
	common.LogInfo("Pantry entry added",
		zap.Uint("user_id", userID),
		zap.Uint("ingredient_id", ingredientID),
	)
	return &item, nil
}

// Get returns one pantry entry, scoped to the owning user.
func (s *Service) Get(ctx context.Context, userID, itemID uint) (*Item, error) {
	var item Item
	err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get pantry entry %d: %w", itemID, err)
	}
	return &item, nil
}

// UpdateQuantity sets the quantity on an entry the user owns.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity float64) (*Item, error) {
	item, err := s.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("update pantry entry %d: %w", itemID, err)
	}
	return item, nil
}

// Remove deletes an entry the user owns.
func (s *Service) Remove(ctx context.Context, userID, itemID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&Item{})
	if res.Error != nil {
		return fmt.Errorf("remove pantry entry %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Toggle adds the ingredient to the pantry when absent and removes it when
// present. Returns true when the ingredient ends up in the pantry.
func (s *Service) Toggle(ctx context.Context, userID, ingredientID uint) (bool, error) {
	var existing Item
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ingredient_id = ?", userID, ingredientID).
		First(&existing).Error
	if err == nil {
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("toggle pantry entry off: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("toggle pantry entry: %w", err)
	}

	if _, err := s.Add(ctx, userID, ingredientID, 1); err != nil {
		return false, err
	}
	return true, nil
}

// IngredientIDs returns the user's pantry as an ingredient-id set, the
// snapshot the ranker and grocery list consume.
func (s *Service) IngredientIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&Item{}).
		Where("user_id = ?", userID).
		Pluck("ingredient_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("pantry ids for user %d: %w", userID, err)
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
