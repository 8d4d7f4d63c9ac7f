package recipe

import (
	"net/http"
	"strconv"

	"recipe-suggester/internal/api/middleware"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ReviewRequest is the new-review payload.
type ReviewRequest struct {
	ReviewText string `json:"review_text"`
	Rating     int    `json:"rating" binding:"required"`
}

// NoteRequest is the create/update note payload.
type NoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// HandleListReviews returns all reviews on a recipe.
func (h *Handler) HandleListReviews(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	reviews, err := h.recipes.ListReviews(c.Request.Context(), id)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// HandleCreateReview records a review on a recipe.
func (h *Handler) HandleCreateReview(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	review, err := h.recipes.CreateReview(c.Request.Context(), middleware.UserID(c), id, req.ReviewText, req.Rating)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusCreated, review)
}

// HandleListNotes returns the user's own notes on a recipe.
func (h *Handler) HandleListNotes(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	notes, err := h.recipes.ListNotes(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// HandleCreateNote attaches a private note to a recipe.
func (h *Handler) HandleCreateNote(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	note, err := h.recipes.CreateNote(c.Request.Context(), middleware.UserID(c), id, req.Content)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusCreated, note)
}

// HandleUpdateNote rewrites one of the user's notes.
func (h *Handler) HandleUpdateNote(c *gin.Context) {
	noteID, err := strconv.ParseUint(c.Param("noteId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note id"})
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	note, err := h.recipes.UpdateNote(c.Request.Context(), middleware.UserID(c), uint(noteID), req.Content)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, note)
}

// HandleDeleteNote removes one of the user's notes.
func (h *Handler) HandleDeleteNote(c *gin.Context) {
	noteID, err := strconv.ParseUint(c.Param("noteId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note id"})
		return
	}

	if err := h.recipes.DeleteNote(c.Request.Context(), middleware.UserID(c), uint(noteID)); err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleFavorites returns the user's bookmarked recipes.
func (h *Handler) HandleFavorites(c *gin.Context) {
	rows, err := h.recipes.Favorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HandleToggleFavorite bookmarks a recipe or removes the bookmark.
func (h *Handler) HandleToggleFavorite(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	favorited, err := h.recipes.ToggleFavorite(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
