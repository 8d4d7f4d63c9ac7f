package user

import (
	"net/http"

	"recipe-suggester/internal/api/middleware"
	userService "recipe-suggester/internal/core/user"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateRequest carries optional profile fields.
type UpdateRequest struct {
	Username       *string `json:"username"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ProfilePicture *string `json:"profile_picture"`
	Bio            *string `json:"bio"`
}

// Handler serves account endpoints.
type Handler struct {
	users *userService.Service
}

// NewHandler creates a user handler.
func NewHandler(users *userService.Service) *Handler {
	return &Handler{users: users}
}

// HandleRegister creates an account.
func (h *Handler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	u, err := h.users.Register(c.Request.Context(), userService.RegisterRequest{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("registration failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}

	c.JSON(http.StatusCreated, u)
}

// HandleLogin verifies credentials and returns a token.
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		if status >= 500 {
			common.LogError("login failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  u,
	})
}

// HandleProfile returns the authenticated user's profile.
func (h *Handler) HandleProfile(c *gin.Context) {
	u, err := h.users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, u)
}

// HandleUpdateProfile applies profile changes.
func (h *Handler) HandleUpdateProfile(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	u, err := h.users.Update(c.Request.Context(), middleware.UserID(c), userService.UpdateRequest{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
		Bio:            req.Bio,
	})
	if err != nil {
		status, code, msg := common.ErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": code})
		return
	}
	c.JSON(http.StatusOK, u)
}
