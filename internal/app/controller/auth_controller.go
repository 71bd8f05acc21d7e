package controller

import (
	"context"
	"net/http"

	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// PasswordResetAPI is the unauthenticated part of the upstream auth API.
type PasswordResetAPI interface {
	ForgotPassword(ctx context.Context, req caterbazar.ForgotPasswordRequest) (*caterbazar.MessageResponse, error)
	ResetPassword(ctx context.Context, req caterbazar.ResetPasswordRequest) (*caterbazar.MessageResponse, error)
}

type AuthController struct {
	api PasswordResetAPI
}

func NewAuthController(api PasswordResetAPI) *AuthController {
	return &AuthController{api: api}
}

// ForgotPassword handles password reset requests
// POST /api/v1/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req caterbazar.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please enter a valid email address.")
		return
	}

	resp, err := ctrl.api.ForgotPassword(c.Request.Context(), req)
	if err != nil {
		log.Warn("Forgot password request failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResetPassword handles password reset with token
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req caterbazar.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A reset token and a password of at least 8 characters are required.")
		return
	}

	resp, err := ctrl.api.ResetPassword(c.Request.Context(), req)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
