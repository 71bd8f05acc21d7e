package middleware

import (
	"github.com/caterbazar/caterbazar-console/internal/app/service"
	"github.com/caterbazar/caterbazar-console/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	// ConsoleSessionHeader carries the console session id in both directions.
	ConsoleSessionHeader = "X-Console-Session"
	ConsoleSessionQuery  = "console"
	ConsoleIDKey         = "console_id"
	consoleKey           = "console"
)

// ConsoleMiddleware binds the request to its console session, creating one when
// the header is missing, no longer known or belongs to another bearer token.
// The id in effect is echoed back. It must run after Authenticate.
func ConsoleMiddleware(registry *service.ConsoleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := requestedConsoleID(c)
		token, _ := GetBearerToken(c)
		console, created := registry.Acquire(requested, token)

		if created {
			GetLoggerFromContext(c).Debug("Console session created", map[string]interface{}{
				"console_id": console.ID,
				"requested":  requested,
			})
		}

		c.Set(ConsoleIDKey, console.ID)
		c.Set(consoleKey, console)
		c.Header(ConsoleSessionHeader, console.ID)
		c.Request = c.Request.WithContext(session.WithConsoleID(c.Request.Context(), console.ID))

		c.Next()
	}
}

func requestedConsoleID(c *gin.Context) string {
	if id := c.GetHeader(ConsoleSessionHeader); id != "" {
		return id
	}
	// WebSocket handshakes carry it as a query parameter.
	return c.Query(ConsoleSessionQuery)
}

// GetConsole returns the console bound by ConsoleMiddleware.
func GetConsole(c *gin.Context) (*service.Console, bool) {
	v, ok := c.Get(consoleKey)
	if !ok {
		return nil, false
	}
	console, ok := v.(*service.Console)
	return console, ok
}
