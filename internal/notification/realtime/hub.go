// Package realtime delivers notifications in-app to users with an open session.
// These are the "foreground" messages: the page handles them itself instead of
// the OS notification tray.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/pkg/logging"
	"fitai-backend/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is the frame written to the websocket
type Event struct {
	Type         string              `json:"type"`
	Notification domain.Notification `json:"notification"`
	SentAt       time.Time           `json:"sentAt"`
}

type session struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks open sessions per user
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*session]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates a hub. An empty origin list accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		sessions: make(map[string]map[*session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// ServeWS upgrades the request and blocks until the client goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	s := &session{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(s)
	go s.writeLoop()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(s)
	return nil
}

// SendToUser queues the notification on every open session of the user and
// returns how many sessions accepted it. Full sessions drop the message.
func (h *Hub) SendToUser(userID string, n domain.Notification) int {
	payload, err := json.Marshal(Event{Type: "notification", Notification: n, SentAt: time.Now()})
	if err != nil {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.sessions[userID] {
		select {
		case s.send <- payload:
			delivered++
		default:
			logging.Component("realtime").Warn().Str("user_id", userID).Msg("session buffer full, dropping message")
		}
	}
	return delivered
}

// Count returns the number of open sessions across all users
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.sessions {
		n += len(set)
	}
	return n
}

// Close disconnects every session
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.sessions {
		for s := range set {
			_ = s.conn.Close()
		}
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	if h.sessions[s.userID] == nil {
		h.sessions[s.userID] = make(map[*session]struct{})
	}
	h.sessions[s.userID][s] = struct{}{}
	h.mu.Unlock()
	metrics.SetRealtimeSessions(h.Count())
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	if set, ok := h.sessions[s.userID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			close(s.send)
		}
		if len(set) == 0 {
			delete(h.sessions, s.userID)
		}
	}
	h.mu.Unlock()
	metrics.SetRealtimeSessions(h.Count())
}

func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
