package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"
)

const (
	randomCacheKey = "random_recipes"

	// listCap bounds the unpaginated list endpoints.
	listCap = 20

	defaultPageSize = 50
	maxPageSize     = 50
)

// Summary is the minimal recipe projection used by list views.
type Summary struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	DietaryTags []string `json:"dietary_tags"`
}

// Page is one page of a browse query.
type Page struct {
	Items      []Summary `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// List returns up to listCap full recipes, newest last.
func (s *Service) List(ctx context.Context) ([]Recipe, error) {
	var rows []Recipe
	if err := s.db.WithContext(ctx).Order("id").Limit(listCap).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return rows, nil
}

// Minimal returns up to listCap recipe summaries, optionally filtered to a
// dietary tag. Diet filtering happens on the derived tag column, so it only
// ever sees classifier output. The filter runs before the cap, so a matching
// recipe is found no matter where it sits in the table.
func (s *Service) Minimal(ctx context.Context, diet string) ([]Summary, error) {
	var rows []Recipe
	q := s.db.WithContext(ctx).
		Select("id", "title", "image", "dietary_tags").
		Order("id")
	if diet == "" {
		q = q.Limit(listCap)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("minimal recipes: %w", err)
	}
	summaries := toSummaries(rows)
	if diet != "" {
		summaries = filterByDiet(summaries, diet)
		if len(summaries) > listCap {
			summaries = summaries[:listCap]
		}
	}
	return summaries, nil
}

// Random returns up to listCap random recipe summaries. The sample is
// cached under a fixed key with the configured TTL so repeated front-page
// loads see a stable list.
func (s *Service) Random(ctx context.Context) ([]Summary, error) {
	if cached, ok := s.cache.Get(randomCacheKey); ok {
		var summaries []Summary
		if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
			return summaries, nil
		}
	}

	var ids []uint
	if err := s.db.WithContext(ctx).Model(&Recipe{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("random recipes: %w", err)
	}

	if len(ids) > listCap {
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		ids = ids[:listCap]
	}

	var rows []Recipe
	if err := s.db.WithContext(ctx).
		Select("id", "title", "image", "dietary_tags").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("random recipes: %w", err)
	}

	summaries := toSummaries(rows)
	if data, err := json.Marshal(summaries); err == nil {
		_ = s.cache.Set(randomCacheKey, string(data))
	}
	return summaries, nil
}

// Browse returns a page of recipe summaries, optionally filtered to a
// dietary tag.
func (s *Service) Browse(ctx context.Context, page, pageSize int, diet string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var rows []Recipe
	if err := s.db.WithContext(ctx).
		Select("id", "title", "image", "dietary_tags").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("browse recipes: %w", err)
	}

	summaries := toSummaries(rows)
	if diet != "" {
		summaries = filterByDiet(summaries, diet)
	}

	total := int64(len(summaries))
	start := (page - 1) * pageSize
	if start > len(summaries) {
		start = len(summaries)
	}
	end := start + pageSize
	if end > len(summaries) {
		end = len(summaries)
	}

	return &Page{
		Items:      summaries[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Favorites returns the user's bookmarked recipes as summaries.
func (s *Service) Favorites(ctx context.Context, userID uint) ([]Summary, error) {
	var rows []Recipe
	err := s.db.WithContext(ctx).
		Select("recipes.id", "recipes.title", "recipes.image", "recipes.dietary_tags").
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", userID).
		Order("recipes.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("favorites for user %d: %w", userID, err)
	}
	return toSummaries(rows), nil
}

// ToggleFavorite bookmarks the recipe for the user, or removes the
// bookmark when present. Returns true when the recipe ends up favorited.
func (s *Service) ToggleFavorite(ctx context.Context, userID, recipeID uint) (bool, error) {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return false, err
	}

	var existing Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("unfavorite recipe %d: %w", recipeID, err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	fav := Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		return false, fmt.Errorf("favorite recipe %d: %w", recipeID, err)
	}
	return true, nil
}

// IsFavorite reports whether the user has bookmarked the recipe.
func (s *Service) IsFavorite(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

func toSummaries(rows []Recipe) []Summary {
	summaries := make([]Summary, len(rows))
	for i, r := range rows {
		summaries[i] = Summary{
			ID:          r.ID,
			Title:       r.Title,
			Image:       r.Image,
			DietaryTags: []string(r.DietaryTags),
		}
	}
	return summaries
}

func filterByDiet(summaries []Summary, diet string) []Summary {
	filtered := make([]Summary, 0, len(summaries))
	for _, sum := range summaries {
		for _, tag := range sum.DietaryTags {
			if tag == diet {
				filtered = append(filtered, sum)
				break
			}
		}
	}
	return filtered
}
