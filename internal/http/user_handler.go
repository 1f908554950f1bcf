package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simple-microservice/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// SignUp maneja POST /sign-up.
func (h *UserHandler) SignUp(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		DOB       string `json:"dob"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sign-up request", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.userServ.SignUp(c.Request.Context(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid request"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email already exists"})
		default:
			h.logger.Error("sign-up failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		}
		return
	}

	c.Status(http.StatusCreated)
}

// GetProfile maneja GET /get-profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		h.logger.Error("get-profile without auth claims")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	user, err := h.userServ.Profile(c.Request.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get-profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
