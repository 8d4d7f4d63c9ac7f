package ingredient

import (
	"net/http"
	"strconv"

	catalogService "recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateRequest is the new-ingredient payload. Dietary flags default
// to the safest assumption for an unknown ingredient.
type CreateRequest struct {
	Name           string `json:"name" binding:"required"`
	Unit           string `json:"unit"`
	Description    string `json:"description"`
	IsMeat         bool   `json:"is_meat"`
	IsDairy        bool   `json:"is_dairy"`
	ContainsGluten bool   `json:"contains_gluten"`
	IsVeganSafe    *bool  `json:"is_vegan_safe"`
	IsNutFree      *bool  `json:"is_nut_free"`
	IsKetoFriendly bool   `json:"is_keto_friendly"`
}

// Handler serves the ingredient catalog endpoints.
type Handler struct {
	catalog *catalogService.Service
}

// NewHandler creates an ingredient handler.
func NewHandler(catalog *catalogService.Service) *Handler {
	return &Handler{catalog: catalog}
}

// HandleList returns the whole catalog sorted by name.
func (h *Handler) HandleList(c *gin.Context) {
	rows, err := h.catalog.List(c.Request.Context())
	if err != nil {
		common.LogError("ingredient list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ingredients"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HandleGet returns one ingredient by id.
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingredient id"})
		return
	}

	row, err := h.catalog.Get(c.Request.Context(), uint(id))
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, row)
}

// HandleCreate adds a new catalog entry.
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ing := catalogService.Ingredient{
		Name:           req.Name,
		Unit:           req.Unit,
		Description:    req.Description,
		IsMeat:         req.IsMeat,
		IsDairy:        req.IsDairy,
		ContainsGluten: req.ContainsGluten,
		IsVeganSafe:    true,
		IsNutFree:      true,
		IsKetoFriendly: req.IsKetoFriendly,
	}
	if req.IsVeganSafe != nil {
		ing.IsVeganSafe = *req.IsVeganSafe
	}
	if req.IsNutFree != nil {
		ing.IsNutFree = *req.IsNutFree
	}

	if err := h.catalog.Create(c.Request.Context(), &ing); err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("ingredient create failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusCreated, ing)
}

// HandleTrending returns the ingredients most kept in pantries.
func (h *Handler) HandleTrending(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	rows, err := h.catalog.Trending(c.Request.Context(), limit)
	if err != nil {
		common.LogError("trending ingredients failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trending ingredients"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
