// internal/live/hub.go
// Read-only live schedule feed: once a reschedule_all run has been saved,
// broadcasts each (time, court) assignment and each unscheduled-match
// report, so an admin UI can show the result without polling.

package live

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub fans out schedule events to every client subscribed to a tournament.
type Hub struct {
	tournaments map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	logger *log.Logger
	mu     sync.RWMutex
}

// Event is one item on the live feed.
type Event struct {
	Type         string      `json:"type"` // "assigned", "unscheduled", "cleared"
	TournamentID string      `json:"tournamentId"`
	Data         interface{} `json:"data"`
}

// AssignedPayload is the Data of an "assigned" event.
type AssignedPayload struct {
	MatchID  string `json:"matchId"`
	Category string `json:"category"`
	Time     string `json:"time"`
	Court    string `json:"court"`
}

// UnscheduledPayload is the Data of an "unscheduled" event.
type UnscheduledPayload struct {
	MatchID  string   `json:"matchId"`
	Category string   `json:"category"`
	Reasons  []string `json:"reasons"`
}

// NewHub builds an idle hub; call Run in its own goroutine to start it.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		tournaments: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Event, 256),
		logger:      logger,
	}
}

// Run is the hub's event loop; it never returns.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tournaments[c.tournamentID] == nil {
		h.tournaments[c.tournamentID] = make(map[*Client]bool)
	}
	h.tournaments[c.tournamentID][c] = true
	h.logger.Printf("live: client subscribed to tournament %s", c.tournamentID)
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeClient(c)
	c.close()
}

func (h *Hub) removeClient(c *Client) {
	if clients, ok := h.tournaments[c.tournamentID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.tournaments, c.tournamentID)
		}
	}
}

func (h *Hub) broadcastEvent(e *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Printf("live: marshal event: %v", err)
		return
	}
	for client := range h.tournaments[e.TournamentID] {
		select {
		case client.send <- data:
		default:
			h.removeClient(client)
			client.close()
		}
	}
}

// PublishAssigned broadcasts a single assignment to a tournament's live feed.
func (h *Hub) PublishAssigned(tournamentID string, p AssignedPayload) {
	h.broadcast <- &Event{Type: "assigned", TournamentID: tournamentID, Data: p}
}

// PublishUnscheduled broadcasts an unscheduled-match report.
func (h *Hub) PublishUnscheduled(tournamentID string, p UnscheduledPayload) {
	h.broadcast <- &Event{Type: "unscheduled", TournamentID: tournamentID, Data: p}
}

// PublishCleared announces that a tournament's schedule was cleared.
func (h *Hub) PublishCleared(tournamentID string) {
	h.broadcast <- &Event{Type: "cleared", TournamentID: tournamentID, Data: nil}
}
