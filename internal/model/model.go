package model

import "time"

// Song is an immutable track descriptor in a room's queue. Only AudioURL is
// mutable: it is populated once by the audio resolver and never cleared.
type Song struct {
	TrackRef    string `json:"track_ref"` // external catalog reference (provider track id/uri)
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	DurationMS  int64  `json:"duration_ms"`
	RequestedBy string `json:"requested_by,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
}

// Member is a participant in a room — API/broadcast DTO.
type Member struct {
	ConnID      string    `json:"-"` // WebSocket connection id, never sent to clients
	Username    string    `json:"username"`
	AvatarIndex int       `json:"avatar_index"`
	IsHost      bool      `json:"is_host"`
	JoinedAt    time.Time `json:"joined_at"`
}

// PlaybackState is the playback clock view shared with clients.
type PlaybackState struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	IsPaused       bool    `json:"is_paused"`
}

// Progress is a point-in-time report of the room's playback position.
type Progress struct {
	Index          int     `json:"index"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	IsPaused       bool    `json:"is_paused"`
}

// RoomSnapshot is the full room state returned on reconnect and GET /rooms/:id.
type RoomSnapshot struct {
	RoomID           string   `json:"room_id"`
	HostUsername     string   `json:"host_username,omitempty"`
	IsPartyMode      bool     `json:"is_party_mode"`
	RequiresPassword bool     `json:"requires_password"`
	Members          []Member `json:"members"`
	Queue            []Song   `json:"queue"`
	CurrentIndex     int      `json:"current_index"`
	Progress         Progress `json:"progress"`
}

// CreateRoomRequest is the request body for POST /rooms.
type CreateRoomRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	Password string `json:"password"`
}

// CreateRoomResponse is the response for POST /rooms.
type CreateRoomResponse struct {
	RoomID           string `json:"room_id"`
	RequiresPassword bool   `json:"requires_password"`
	WSURL            string `json:"ws_url"`
}

// RoomUsersResponse is the response for GET /rooms/:id/users.
type RoomUsersResponse struct {
	RoomID string   `json:"room_id"`
	Users  []string `json:"users"`
}

// RoomHistoryResponse is the response for GET /rooms/:id/history.
type RoomHistoryResponse struct {
	RoomID string      `json:"room_id"`
	Plays  []TrackPlay `json:"plays"`
}
