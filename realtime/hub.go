// Package realtime pushes table-change notifications to websocket clients,
// so another tab or device under the same account learns to reload its
// cart without polling.
package realtime

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChangeEvent tells a subscriber that rows of a table changed somewhere.
// It carries no row data; clients are expected to reload.
type ChangeEvent struct {
	Table string `json:"table"`
	Event string `json:"event"`
}

type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> subscribed table
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Publish notifies every client subscribed to the table. Dead connections
// are dropped on write failure.
func (h *Hub) Publish(table string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, subscribed := range h.clients {
		if subscribed != table {
			continue
		}
		if err := conn.WriteJSON(ChangeEvent{Table: table, Event: "change"}); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// SubscriberCount reports how many clients watch a table.
func (h *Hub) SubscriberCount(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, subscribed := range h.clients {
		if subscribed == table {
			n++
		}
	}
	return n
}

// Handler upgrades the connection and registers it for the table named in
// the query string, e.g. GET /ws?table=cart_items.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.DefaultQuery("table", "cart_items")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		h.mu.Lock()
		h.clients[conn] = table
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()

		// Reads are discarded; the socket exists only to push reload hints.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
