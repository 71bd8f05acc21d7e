package controller

import (
	"github.com/caterbazar/caterbazar-console/internal/app/service"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// consoleSession returns what the console route group binds to every request.
// It writes the error response itself when either is missing.
func consoleSession(c *gin.Context) (*service.Console, string, bool) {
	token, ok := middleware.GetBearerToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return nil, "", false
	}
	console, ok := middleware.GetConsole(c)
	if !ok {
		apperrors.InternalError(c, "")
		return nil, "", false
	}
	return console, token, true
}
