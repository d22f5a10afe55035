package service

import "fmt"

// WSConfig holds WebSocket URL base for responses.
type WSConfig struct {
	BaseURL string
}

// WSURL returns the WebSocket URL for a room and user (e.g. wss://host/ws/room/roomID/username).
func (c *WSConfig) WSURL(roomID, username string) string {
	if c == nil || c.BaseURL == "" {
		return fmt.Sprintf("/ws/room/%s/%s", roomID, username)
	}
	base := c.BaseURL
	if base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return fmt.Sprintf("%s/ws/room/%s/%s", base, roomID, username)
}
