package web

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"tactics/internal/battle"
)

// subscriber wraps one watcher connection. Gorilla allows at most one
// concurrent writer per connection, so every write goes through writeMu.
type subscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (sub *subscriber) send(events []battle.Event) error {
	sub.writeMu.Lock()
	defer sub.writeMu.Unlock()
	return sub.conn.WriteJSON(events)
}

// Hub fans battle events out to the websocket watchers of each session.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]bool
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[*subscriber]bool{}}
}

func (h *Hub) add(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = map[*subscriber]bool{}
	}
	h.subs[sessionID][sub] = true
}

func (h *Hub) remove(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[sessionID], sub)
	if len(h.subs[sessionID]) == 0 {
		delete(h.subs, sessionID)
	}
}

// Broadcast sends the events to every watcher of the session. Connections
// that fail to write are dropped.
func (h *Hub) Broadcast(sessionID string, events []battle.Event) {
	if len(events) == 0 {
		return
	}
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs[sessionID]))
	for sub := range h.subs[sessionID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(events); err != nil {
			h.remove(sessionID, sub)
			_ = sub.conn.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWatch upgrades the connection and streams every subsequent event
// batch for the caller's battle until the client disconnects.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		writeError(w, http.StatusNotImplemented, "event feed disabled")
		return
	}
	id := s.sessionID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, "no battle in progress")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	sub := &subscriber{conn: conn}
	s.Hub.add(id, sub)
	defer func() {
		s.Hub.remove(id, sub)
		_ = conn.Close()
	}()

	// Drain control frames until the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
