package websocket

import (
	"encoding/json"
	"sync"

	"github.com/caterbazar/caterbazar-console/internal/session"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
)

// Event types pushed to the console front-end.
const (
	EventSessionExpired = "session.expired"
	EventConsoleClosed  = "console.closed"
)

// Event is one server-to-browser message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client is one browser tab subscribed to its console's events.
type Client struct {
	Hub       *Hub
	Conn      *Conn
	ConsoleID string
	Send      chan []byte
}

// NewClient builds a client with a buffered send queue.
func NewClient(hub *Hub, conn *Conn, consoleID string) *Client {
	return &Client{Hub: hub, Conn: conn, ConsoleID: consoleID, Send: make(chan []byte, 16)}
}

type delivery struct {
	consoleID string
	message   []byte
	close     bool // close the console's connections after delivering
}

// Hub routes events to the browser tabs of a console session.
type Hub struct {
	// ConsoleID -> connected tabs
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates an idle hub; start it with Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and deliveries until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ConsoleID] = append(h.clients[client.ConsoleID], client)
			n := len(h.clients[client.ConsoleID])
			h.mu.Unlock()
			logger.Debug("Event client registered", map[string]interface{}{
				"console_id": client.ConsoleID,
				"tabs":       n,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case d := <-h.deliver:
			h.mu.Lock()
			for _, client := range h.clients[d.consoleID] {
				select {
				case client.Send <- d.message:
				default:
					logger.Warn("Event client send buffer full, disconnecting", map[string]interface{}{
						"console_id": client.ConsoleID,
					})
					h.removeLocked(client)
				}
			}
			if d.close {
				for _, client := range h.clients[d.consoleID] {
					close(client.Send)
				}
				delete(h.clients, d.consoleID)
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked drops client and closes its queue. Unknown clients are ignored,
// so a client can be removed twice.
func (h *Hub) removeLocked(client *Client) {
	list, ok := h.clients[client.ConsoleID]
	if !ok {
		return
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}
	if len(kept) == 0 {
		delete(h.clients, client.ConsoleID)
	} else {
		h.clients[client.ConsoleID] = kept
	}
	close(client.Send)
}

// Stop ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Send queues ev for every tab of consoleID. Events are dropped when the queue is
// full; the front-end also learns about expiry from the next failing response.
func (h *Hub) Send(consoleID string, ev Event) {
	h.enqueue(consoleID, ev, false)
}

func (h *Hub) enqueue(consoleID string, ev Event, closeAfter bool) {
	if consoleID == "" {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Failed to marshal console event", err, nil)
		return
	}
	select {
	case h.deliver <- delivery{consoleID: consoleID, message: data, close: closeAfter}:
	default:
		logger.Warn("Event queue full, event dropped", map[string]interface{}{
			"console_id": consoleID,
			"type":       ev.Type,
		})
	}
}

// HandleSessionExpired is a session.Listener pushing expiry to the console that
// observed it.
func (h *Hub) HandleSessionExpired(ev session.ExpiredEvent) {
	h.Send(ev.ConsoleID, Event{Type: EventSessionExpired, Payload: ev})
}

// CloseConsole tells a console's tabs it is gone and disconnects them.
func (h *Hub) CloseConsole(consoleID string) {
	h.enqueue(consoleID, Event{Type: EventConsoleClosed}, true)
}

// Connected reports how many tabs consoleID has open.
func (h *Hub) Connected(consoleID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[consoleID])
}
