package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-suggester/internal/pkg/common"

	"gorm.io/gorm"
)

// Review is a rating plus optional text a user left on a recipe.
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RecipeID   uint      `gorm:"index;not null" json:"recipe_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	ReviewText string    `gorm:"type:text" json:"review_text"`
	Rating     int       `gorm:"not null" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// Note is a private per-user note attached to a recipe. Only its owner
// can read or change it.
type Note struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RecipeID  uint      `gorm:"index;not null" json:"recipe_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListReviews returns all reviews on a recipe, newest first.
func (s *Service) ListReviews(ctx context.Context, recipeID uint) ([]Review, error) {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return nil, err
	}
	var reviews []Review
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews for recipe %d: %w", recipeID, err)
	}
	return reviews, nil
}

// CreateReview records a review. Rating must be between 1 and 5.
func (s *Service) CreateReview(ctx context.Context, userID, recipeID uint, text string, rating int) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, common.NewValidationError("rating must be between 1 and 5")
	}
	if _, err := s.Get(ctx, recipeID); err != nil {
		return nil, err
	}
	review := Review{
		RecipeID:   recipeID,
		UserID:     userID,
		ReviewText: text,
		Rating:     rating,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &review, nil
}

// ListNotes returns the user's own notes on a recipe.
func (s *Service) ListNotes(ctx context.Context, userID, recipeID uint) ([]Note, error) {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return nil, err
	}
	var notes []Note
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Order("created_at").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes for recipe %d: %w", recipeID, err)
	}
	return notes, nil
}

// CreateNote attaches a private note to a recipe.
func (s *Service) CreateNote(ctx context.Context, userID, recipeID uint, content string) (*Note, error) {
	if content == "" {
		return nil, common.NewValidationError("content is required")
	}
	if _, err := s.Get(ctx, recipeID); err != nil {
		return nil, err
	}
	note := Note{
		RecipeID: recipeID,
		UserID:   userID,
		Content:  content,
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &note, nil
}

// UpdateNote rewrites a note's content. Only the owner may update it;
// anyone else gets not-found rather than a hint the note exists.
func (s *Service) UpdateNote(ctx context.Context, userID, noteID uint, content string) (*Note, error) {
	if content == "" {
		return nil, common.NewValidationError("content is required")
	}
	var note Note
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("load note %d: %w", noteID, err)
	}
	note.Content = content
	if err := s.db.WithContext(ctx).Save(&note).Error; err != nil {
		return nil, fmt.Errorf("update note %d: %w", noteID, err)
	}
	return &note, nil
}

// DeleteNote removes a note owned by the user.
func (s *Service) DeleteNote(ctx context.Context, userID, noteID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&Note{})
	if res.Error != nil {
		return fmt.Errorf("delete note %d: %w", noteID, res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
