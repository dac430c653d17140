// internal/live/handler.go
// Gin handler upgrading GET /api/v1/tournaments/:id/live to a websocket
// connection subscribed to that tournament's feed.

package live

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleConnection upgrades the request and runs the client's pumps until
// the connection closes.
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentID := c.Param("id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("live: upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, tournamentID)
		client.Run()
	}
}
