package controller

import (
	"net/http"

	"github.com/caterbazar/caterbazar-console/internal/middleware"
	ws "github.com/caterbazar/caterbazar-console/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type EventsController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewEventsController accepts handshakes only from allowedOrigins.
func NewEventsController(hub *ws.Hub, allowedOrigins []string) *EventsController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &EventsController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Connect upgrades to a WebSocket delivering this console's session events.
// GET /api/v1/console/events?token=...&console=...
func (ctrl *EventsController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	console, _, ok := consoleSession(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, console.ID)
	ctrl.hub.Register(client)

	log.Info("Console event stream connected", map[string]interface{}{
		"console_id": console.ID,
	})

	go client.Serve()
}
