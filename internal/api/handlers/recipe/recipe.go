package recipe

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"recipe-suggester/internal/api/middleware"
	recipeService "recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateRequest is the new-recipe payload. Ingredients arrive as free
// text, one per line; the service derives the structured fields.
type CreateRequest struct {
	Title          string `json:"title" binding:"required"`
	Instructions   string `json:"instructions"`
	IngredientText string `json:"ingredient_text"`
	SourceURL      string `json:"source_url"`
}

// UpdateRequest carries the editable recipe fields.
type UpdateRequest struct {
	Title          string `json:"title" binding:"required"`
	Instructions   string `json:"instructions"`
	IngredientText string `json:"ingredient_text"`
	SourceURL      string `json:"source_url"`
}

// Handler serves the recipe endpoints.
type Handler struct {
	recipes *recipeService.Service
	media   *config.MediaConfig
}

// NewHandler creates a recipe handler.
func NewHandler(recipes *recipeService.Service, media *config.MediaConfig) *Handler {
	return &Handler{
		recipes: recipes,
		media:   media,
	}
}

// HandleCreate creates a recipe and derives its ingredient ids and
// dietary tags from the submitted text.
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	r := recipeService.Recipe{
		AuthorID:       middleware.UserID(c),
		Title:          req.Title,
		Instructions:   req.Instructions,
		IngredientText: req.IngredientText,
		SourceURL:      req.SourceURL,
	}
	if err := h.recipes.Create(c.Request.Context(), &r); err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("recipe create failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// HandleGet returns one recipe with derived fields.
func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleUpdate rewrites a recipe's fields and re-derives ingredient
// ids and dietary tags.
func (h *Handler) HandleUpdate(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	r, err := h.recipes.Update(c.Request.Context(), id, req.Title, req.Instructions, req.IngredientText, req.SourceURL)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("recipe update failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleDelete removes a recipe and its reviews, notes and favorites.
func (h *Handler) HandleDelete(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleList returns full recipes for the main list view.
func (h *Handler) HandleList(c *gin.Context) {
	rows, err := h.recipes.List(c.Request.Context())
	if err != nil {
		common.LogError("recipe list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HandleMinimal returns summaries, optionally filtered by dietary tag.
func (h *Handler) HandleMinimal(c *gin.Context) {
	rows, err := h.recipes.Minimal(c.Request.Context(), c.Query("diet"))
	if err != nil {
		common.LogError("minimal recipe list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HandleRandom returns a cached random sample of recipe summaries.
func (h *Handler) HandleRandom(c *gin.Context) {
	rows, err := h.recipes.Random(c.Request.Context())
	if err != nil {
		common.LogError("random recipe list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HandleBrowse returns a page of summaries.
func (h *Handler) HandleBrowse(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	result, err := h.recipes.Browse(c.Request.Context(), page, pageSize, c.Query("diet"))
	if err != nil {
		common.LogError("recipe browse failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to browse recipes"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleUploadImage stores a recipe image under the media directory and
// records its path on the recipe.
func (h *Handler) HandleUploadImage(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		status, code, msg := common.ErrorStatus(common.ErrInvalidImageType)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	if file.Size > h.media.MaxSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	if err := os.MkdirAll(h.media.Dir, 0o755); err != nil {
		common.LogError("media dir create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	name := fmt.Sprintf("%s%s", common.GenerateUUID(), ext)
	dst := filepath.Join(h.media.Dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		common.LogError("image save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	r, err := h.recipes.SetImage(c.Request.Context(), id, name)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return 0, false
	}
	return uint(id), true
}
