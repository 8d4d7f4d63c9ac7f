package pantry

import (
	"net/http"
	"strconv"

	"recipe-suggester/internal/api/middleware"
	pantryService "recipe-suggester/internal/core/pantry"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddRequest is the add-to-pantry payload.
type AddRequest struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity"`
}

// UpdateRequest changes an item's quantity.
type UpdateRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}

// ToggleRequest flips an ingredient in or out of the pantry.
type ToggleRequest struct {
	IngredientID uint `json:"ingredient_id" binding:"required"`
}

// Handler serves the authenticated pantry endpoints.
type Handler struct {
	pantry *pantryService.Service
}

// NewHandler creates a pantry handler.
func NewHandler(pantry *pantryService.Service) *Handler {
	return &Handler{pantry: pantry}
}

// HandleList returns the user's pantry with ingredient details.
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.pantry.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		common.LogError("pantry list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pantry"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleAdd puts an ingredient in the pantry. Adding an ingredient
// already present returns the existing item.
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item, err := h.pantry.Add(c.Request.Context(), middleware.UserID(c), req.IngredientID, req.Quantity)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("pantry add failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// HandleUpdate changes an item's quantity.
func (h *Handler) HandleUpdate(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item, err := h.pantry.UpdateQuantity(c.Request.Context(), middleware.UserID(c), uint(itemID), req.Quantity)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleRemove deletes an item from the pantry.
func (h *Handler) HandleRemove(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	if err := h.pantry.Remove(c.Request.Context(), middleware.UserID(c), uint(itemID)); err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleToggle flips an ingredient in or out of the pantry and reports
// the resulting state.
func (h *Handler) HandleToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	inPantry, err := h.pantry.Toggle(c.Request.Context(), middleware.UserID(c), req.IngredientID)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_pantry": inPantry})
}
