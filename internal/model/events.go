package model

import (
	"encoding/json"
	"time"
)

// Envelope is the wire frame for every WebSocket message, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client -> server commands.
const (
	EventJoinRoom            = "joinRoom"
	EventExitRoom            = "exitRoom"
	EventAddSongs            = "addSongs"
	EventDeleteSong          = "deleteSong"
	EventClearQueue          = "clearQueue"
	EventReorderQueue        = "reorderQueue"
	EventSetCurrentIndex     = "setCurrentIndex"
	EventStartPlayback       = "startPlayback"
	EventPausePlayback       = "pausePlayback"
	EventOverrideProgress    = "overrideProgress"
	EventRequestProgressSync = "requestProgressSync"
	EventSetPartyMode        = "setPartyMode"
	EventChatMessage         = "chatMessage"
	EventGetUserNames        = "getUserNames"
)

// Server -> client notifications (names as the frontend listens for them).
const (
	EventJoinedRoom       = "joinedRoom"
	EventUserJoined       = "userJoined"
	EventUserLeft         = "userLeft"
	EventUpdateSongStream = "updateSongStream"
	EventSongIndexUpdated = "songIndexUpdated"
	EventPlaybackStarted  = "playbackStarted"
	EventPlaybackPaused   = "playbackPaused"
	EventProgressSync     = "progressSync"
	EventPartyModeUpdated = "partyModeUpdated"
	EventUserNames        = "userNames"
	EventDenied           = "denied"
)

// AddSongsPayload carries catalog track descriptors selected by a member.
type AddSongsPayload struct {
	Tracks []Song `json:"tracks"`
}

// DeleteSongPayload removes one queue entry by index.
type DeleteSongPayload struct {
	Index int `json:"index"`
}

// ReorderQueuePayload moves one queue entry.
type ReorderQueuePayload struct {
	OldIndex int `json:"old_index"`
	NewIndex int `json:"new_index"`
}

// SetCurrentIndexPayload points the room at another queue entry.
type SetCurrentIndexPayload struct {
	Index int `json:"index"`
}

// OverrideProgressPayload is a client-reported playback position correction.
type OverrideProgressPayload struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	IsPaused       bool    `json:"is_paused"`
}

// SetPartyModePayload toggles the room's party-mode flag.
type SetPartyModePayload struct {
	Enabled bool `json:"enabled"`
}

// ChatMessagePayload is relayed verbatim to the room; the core keeps no chat state.
type ChatMessagePayload struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SongIndexUpdatedPayload announces the new current index and its track name.
type SongIndexUpdatedPayload struct {
	Index     int    `json:"index"`
	TrackName string `json:"track_name"`
}

// DeniedPayload explains a rejected command to the requester.
type DeniedPayload struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}
