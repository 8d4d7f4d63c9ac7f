package recipe

import (
	"net/http"

	"recipe-suggester/internal/api/middleware"
	"recipe-suggester/internal/core/suggest"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuggestionHandler serves pantry-gap suggestions and grocery lists.
type SuggestionHandler struct {
	suggestions *suggest.Service
}

// NewSuggestionHandler creates a suggestion handler.
func NewSuggestionHandler(suggestions *suggest.Service) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// HandleSuggestions ranks recipes by how few ingredients the user is
// missing. can_make=true keeps only fully cookable recipes; threshold
// keeps recipes missing at most that many ingredients.
func (h *SuggestionHandler) HandleSuggestions(c *gin.Context) {
	canMake := c.Query("can_make") == "true"

	rows, err := h.suggestions.Suggest(
		c.Request.Context(),
		middleware.UserID(c),
		canMake,
		c.Query("threshold"),
	)
	if err != nil {
		common.LogError("suggestion ranking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion ranking failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HandleGroceryList returns the ingredients needed to cook the given
// recipes that are not already in the pantry. The recipes parameter is
// a comma-separated id list; any malformed entry is a 400.
func (h *SuggestionHandler) HandleGroceryList(c *gin.Context) {
	ids, err := suggest.ParseRecipeIDs(c.Query("recipes"))
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}

	items, err := h.suggestions.Grocery(c.Request.Context(), middleware.UserID(c), ids)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("grocery list failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
