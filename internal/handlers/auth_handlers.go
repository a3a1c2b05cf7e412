package handlers

import (
	"errors"
	"net/http"

	"poultry_farm_backend/internal/services"
	"poultry_farm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login exchanges the operator PIN for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	authResp, err := h.authService.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.RespondValidationFailed(c, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.LogWarn(err, "Login: rejected pin")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid pin.", ""))
		case errors.Is(err, services.ErrAuthDisabled):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Authentication is not enabled.", ""))
		default:
			utils.LogError(err, "Login: Error from authService.Login")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// Ping is the health check.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
