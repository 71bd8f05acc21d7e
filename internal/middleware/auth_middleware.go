package middleware

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/metrics"
	"github.com/caterbazar/caterbazar-console/internal/session"
	"github.com/gin-gonic/gin"
)

// BearerTokenKey holds the admin's upstream token in the gin context.
const BearerTokenKey = "bearer_token"

// AuthMiddleware extracts the upstream bearer token. The console does not verify
// it; the upstream does. A JWT that is visibly expired is rejected early.
type AuthMiddleware struct {
	notifier *session.Notifier
	owners   ConsoleOwner
	now      func() time.Time
}

// ConsoleOwner tells whether a console session was opened with a given token.
type ConsoleOwner interface {
	Owns(id, token string) bool
}

// NewAuthMiddleware builds the middleware. Expired-session events name a
// console only when owners confirms the token opened it; owners may be nil.
func NewAuthMiddleware(notifier *session.Notifier, owners ConsoleOwner) *AuthMiddleware {
	return &AuthMiddleware{notifier: notifier, owners: owners, now: time.Now}
}

// Authenticate requires "Authorization: Bearer <token>", or a token query
// parameter when no header is present.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Authorization header must be a bearer token.")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// Browsers cannot set headers on a WebSocket handshake.
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				apperrors.Unauthorized(c, "")
				c.Abort()
				return
			}
		}

		if session.TokenExpired(token, m.now()) {
			log.Info("Rejecting expired bearer token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			metrics.SessionsExpired.Inc()
			m.notifier.Publish(session.ExpiredEvent{
				At:        m.now(),
				ConsoleID: m.ownedConsoleID(c, token),
				Endpoint:  c.Request.URL.Path,
				Reason:    "token expired before request",
			})
			apperrors.SessionExpired(c, "")
			c.Abort()
			return
		}

		c.Set(BearerTokenKey, token)
		c.Next()
	}
}

func (m *AuthMiddleware) ownedConsoleID(c *gin.Context, token string) string {
	id := requestedConsoleID(c)
	if m.owners == nil || !m.owners.Owns(id, token) {
		return ""
	}
	return id
}

// GetBearerToken extracts the token stored by Authenticate.
func GetBearerToken(c *gin.Context) (string, bool) {
	token := c.GetString(BearerTokenKey)
	return token, token != ""
}
