package handlers

import (
	"errors"
	"net/http"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles admin session HTTP requests
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "BAD_REQUEST"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "kind": "UNAUTHORIZED"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "kind": "INTERNAL"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
