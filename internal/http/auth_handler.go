package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simple-microservice/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints del servicio auth.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

// NewAuthHandler crea una instancia de AuthHandler.
func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth}
}

// Login maneja POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid credentials"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

// Validate maneja POST /validate: devuelve un token nuevo con TTL renovado.
func (h *AuthHandler) Validate(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		h.logger.Error("validate without auth claims")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not refresh token"})
		return
	}

	token, err := h.auth.Refresh(claims)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		h.logger.Error("refresh failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

// Logout maneja DELETE /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := GetAccessToken(c)
	if !ok {
		h.logger.Error("logout without access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not logout"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrTokenRevoked) {
			c.JSON(http.StatusForbidden, gin.H{"error": "token not found"})
			return
		}
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not logout"})
		return
	}

	c.Status(http.StatusNoContent)
}
