// ABOUTME: WebSocket follower that tracks a remote daemon's mode.
// ABOUTME: Handles authentication, reconnection with backoff, and mode receiving.

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ModeFollower connects to a remote daemon and mirrors its mode changes.
type ModeFollower struct {
	serverURL string
	secret    string
	onMode    func(Mode)

	// Connection callbacks
	OnConnect    func()
	OnDisconnect func()

	// Reconnection settings
	MinReconnectDelay time.Duration
	MaxReconnectDelay time.Duration

	conn      *websocket.Conn
	mu        sync.RWMutex
	closed    bool
	closeChan chan struct{}
}

// NewModeFollower creates a follower for the given daemon URL.
func NewModeFollower(serverURL, secret string, onMode func(Mode)) *ModeFollower {
	return &ModeFollower{
		serverURL:         serverURL,
		secret:            secret,
		onMode:            onMode,
		MinReconnectDelay: time.Second,
		MaxReconnectDelay: 30 * time.Second,
		closeChan:         make(chan struct{}),
	}
}

// Connect establishes a connection to the remote daemon.
func (c *ModeFollower) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.secret)

	conn, _, err := websocket.DefaultDialer.Dial(c.serverURL, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if c.OnConnect != nil {
		c.OnConnect()
	}

	go c.readLoop()
	return nil
}

// readLoop reads mode announcements and handles disconnection.
func (c *ModeFollower) readLoop() {
	defer func() {
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		closed := c.closed
		c.mu.Unlock()

		if c.OnDisconnect != nil {
			c.OnDisconnect()
		}

		// Attempt reconnection if not intentionally closed
		if !closed {
			go c.reconnectLoop()
		}
	}()

	for {
		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn == nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := DecodeMessage(raw)
		if err != nil {
			log.Printf("Failed to decode message: %v", err)
			continue
		}
		if msg.Type != MessageTypeMode {
			continue
		}

		var announce ModeMessage
		if err := json.Unmarshal(msg.Data, &announce); err != nil {
			log.Printf("Failed to unmarshal mode message: %v", err)
			continue
		}

		mode, ok := ParseMode(string(announce.Mode))
		if !ok {
			continue
		}
		if c.onMode != nil {
			c.onMode(mode)
		}
	}
}

// reconnectLoop attempts to reconnect with exponential backoff.
func (c *ModeFollower) reconnectLoop() {
	delay := c.MinReconnectDelay

	for {
		c.mu.RLock()
		closed := c.closed
		c.mu.RUnlock()

		if closed {
			return
		}

		select {
		case <-c.closeChan:
			return
		case <-time.After(delay):
		}

		c.mu.RLock()
		closed = c.closed
		c.mu.RUnlock()

		if closed {
			return
		}

		log.Printf("Attempting to reconnect to %s...", c.serverURL)

		if err := c.Connect(); err != nil {
			log.Printf("Reconnection failed: %v", err)
			// Exponential backoff
			delay *= 2
			if delay > c.MaxReconnectDelay {
				delay = c.MaxReconnectDelay
			}
			continue
		}

		// Successfully reconnected
		return
	}
}

// RequestToggle asks the remote daemon to switch modes.
func (c *ModeFollower) RequestToggle(target Mode) error {
	raw, err := EncodeMessage(MessageTypeToggle, ToggleMessage{Target: target})
	if err != nil {
		return err
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return websocket.ErrCloseSent
	}
	return conn.WriteMessage(websocket.TextMessage, raw)
}

// Close disconnects from the server and stops reconnection attempts.
func (c *ModeFollower) Close() {
	c.mu.Lock()
	c.closed = true
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	// Signal reconnect loop to stop
	select {
	case c.closeChan <- struct{}{}:
	default:
	}
}

// IsConnected returns true if the follower is currently connected.
func (c *ModeFollower) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}
