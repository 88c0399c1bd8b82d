// ABOUTME: HTTP and WebSocket server exposing the daemon's mode to clients.
// ABOUTME: Broadcasts mode changes and accepts authenticated toggle requests.

package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
}

// ClientInfo holds information about a connected follower.
type ClientInfo struct {
	ID   string
	Name string

	// writeMu serializes writes; gorilla allows one writer per conn.
	writeMu sync.Mutex
}

// write sends raw on conn under the per-connection write lock.
func (c *ClientInfo) write(conn *websocket.Conn, raw []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, raw)
}

// ModeServer manages WebSocket connections and broadcasts mode changes.
type ModeServer struct {
	secret  string
	toggle  *ModeToggle
	clients map[*websocket.Conn]*ClientInfo
	mu      sync.RWMutex
}

// NewModeServer creates a server with the given authentication secret.
func NewModeServer(secret string, toggle *ModeToggle) *ModeServer {
	return &ModeServer{
		secret:  secret,
		toggle:  toggle,
		clients: make(map[*websocket.Conn]*ClientInfo),
	}
}

// checkAuth validates the Authorization header against the server secret.
func (s *ModeServer) checkAuth(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return token == s.secret
}

// modeMessage builds the announcement for the current mode.
func (s *ModeServer) modeMessage() ModeMessage {
	m := s.toggle.Mode()
	return ModeMessage{Mode: m, Icon: m.IconName(), At: time.Now()}
}

// HandleMode reports the current mode as JSON.
func (s *ModeServer) HandleMode(w http.ResponseWriter, r *http.Request) {
	if !s.checkAuth(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "GET required", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		ModeMessage
		Running bool `json:"running"`
	}{s.modeMessage(), s.toggle.IsRunning()})
}

// HandleToggle starts a toggle. Responds 409 when one is already in
// flight (the request is dropped, matching the tray click behavior).
func (s *ModeServer) HandleToggle(w http.ResponseWriter, r *http.Request) {
	if !s.checkAuth(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	// Not the request context: the tool must outlive this handler.
	if !s.toggle.Toggle(context.Background()) {
		http.Error(w, "toggle already in flight", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleWebSocket handles WebSocket connection upgrades.
func (s *ModeServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkAuth(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	info := &ClientInfo{
		ID:   uuid.NewString(),
		Name: r.Header.Get("X-Client-Name"),
	}

	s.mu.Lock()
	s.clients[conn] = info
	s.mu.Unlock()

	if info.Name != "" {
		log.Printf("Follower '%s' connected as %s (%d total)", info.Name, info.ID, s.ClientCount())
	} else {
		log.Printf("Follower %s connected (%d total)", info.ID, s.ClientCount())
	}

	// New followers learn the current mode immediately.
	if raw, err := EncodeMessage(MessageTypeMode, s.modeMessage()); err == nil {
		_ = info.write(conn, raw)
	}

	go s.handleClient(conn)
}

// handleClient reads toggle requests from the follower until it hangs up.
func (s *ModeServer) handleClient(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		info := s.clients[conn]
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
		if info != nil {
			log.Printf("Follower %s disconnected (%d remaining)", info.ID, s.ClientCount())
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := DecodeMessage(raw)
		if err != nil {
			log.Printf("Failed to decode message: %v", err)
			continue
		}

		switch msg.Type {
		case MessageTypeToggle:
			var req ToggleMessage
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				log.Printf("Failed to decode toggle request: %v", err)
				continue
			}
			if !s.toggle.Apply(context.Background(), req.Target) {
				log.Printf("Dropped toggle request: one already in flight")
			}
		case MessageTypeMode:
			// Followers don't announce modes; ignore.
		}
	}
}

// BroadcastMode pushes the current mode to every connected follower.
func (s *ModeServer) BroadcastMode() {
	raw, err := EncodeMessage(MessageTypeMode, s.modeMessage())
	if err != nil {
		return
	}

	type follower struct {
		conn *websocket.Conn
		info *ClientInfo
	}

	s.mu.RLock()
	followers := make([]follower, 0, len(s.clients))
	for conn, info := range s.clients {
		followers = append(followers, follower{conn, info})
	}
	s.mu.RUnlock()

	for _, f := range followers {
		if err := f.info.write(f.conn, raw); err != nil {
			log.Printf("Broadcast failed, dropping follower: %v", err)
			f.conn.Close()
		}
	}
}

// ClientCount returns the number of connected followers.
func (s *ModeServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns the HTTP mux for the sync server.
func (s *ModeServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mode", s.HandleMode)
	mux.HandleFunc("/toggle", s.HandleToggle)
	mux.HandleFunc("/ws", s.HandleWebSocket)
	return mux
}
