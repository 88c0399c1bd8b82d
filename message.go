// ABOUTME: Defines the WebSocket message protocol for mode synchronization.
// ABOUTME: Supports mode announcements and toggle requests.

package main

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	MessageTypeMode   MessageType = "mode"
	MessageTypeToggle MessageType = "toggle"
)

// Message is the envelope for all WebSocket communication.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ModeMessage announces the daemon's current mode. Sent on connect and
// after every change.
type ModeMessage struct {
	Mode Mode      `json:"mode"`
	Icon string    `json:"icon"`
	At   time.Time `json:"at"`
}

// ToggleMessage is sent by clients to request a mode switch. An empty
// target toggles.
type ToggleMessage struct {
	Target Mode `json:"target,omitempty"`
}

// EncodeMessage creates a Message envelope with the given type and data.
func EncodeMessage(msgType MessageType, data interface{}) ([]byte, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type: msgType,
		Data: dataBytes,
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a raw message into type and data components.
func DecodeMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
