package room

import (
	"sync"
	"time"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// EventScope says whether an event goes to the whole room or one connection.
type EventScope int

const (
	ScopeBroadcast EventScope = iota
	ScopeUnicast
)

// Event is one notification to emit after a session mutation. The session
// never talks to the broadcaster itself; callers deliver these.
type Event struct {
	Scope   EventScope
	ConnID  string // target connection for ScopeUnicast
	Name    string
	Payload any
}

// Changes describes what a session entry point did: events to publish, the
// track that just became current (for play history), and whether the room
// emptied and should be destroyed.
type Changes struct {
	Events      []Event
	NowPlaying  *model.Song
	RoomEmptied bool
}

func (c *Changes) broadcast(name string, payload any) {
	c.Events = append(c.Events, Event{Scope: ScopeBroadcast, Name: name, Payload: payload})
}

func (c *Changes) unicast(connID, name string, payload any) {
	c.Events = append(c.Events, Event{Scope: ScopeUnicast, ConnID: connID, Name: name, Payload: payload})
}

// Session is the authoritative state of one listening-party room: roster and
// host authority, the song queue with its current-index pointer, and the
// playback clock. All entry points run under one mutex so each room has a
// single writer; rooms are independent units of concurrency.
type Session struct {
	mu sync.Mutex

	id               string
	password         string
	requiresPassword bool
	partyMode        bool

	members *members
	queue   []model.Song
	current int
	clock   *PlaybackClock
}

// NewSession creates an empty room. A non-empty password makes the room
// password-gated. maxMembers <= 0 means unlimited. nil now means real time.
func NewSession(id, password string, maxMembers int, now func() time.Time) *Session {
	return &Session{
		id:               id,
		password:         password,
		requiresPassword: password != "",
		partyMode:        true,
		members:          newMembers(maxMembers, now),
		clock:            NewPlaybackClock(now),
	}
}

// ID returns the room id.
func (s *Session) ID() string { return s.id }

// RequiresPassword reports whether joins must present the room password.
func (s *Session) RequiresPassword() bool { return s.requiresPassword }

// Join admits a member. The first joiner becomes host. Broadcasts the new roster.
func (s *Session) Join(username string, avatarIndex int, connID, password string) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if s.requiresPassword && password != s.password {
		return ch, errs.ErrWrongPassword
	}
	if _, err := s.members.join(username, avatarIndex, connID); err != nil {
		return ch, err
	}
	ch.unicast(connID, model.EventJoinedRoom, s.snapshotLocked())
	ch.broadcast(model.EventUserJoined, s.members.roster())
	return ch, nil
}

// Leave removes a member; a departing host hands authority to the earliest
// remaining joiner. Sets RoomEmptied when the last member leaves.
func (s *Session) Leave(username string) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if _, err := s.members.leave(username); err != nil {
		return ch, err
	}
	if s.members.count() == 0 {
		ch.RoomEmptied = true
		return ch, nil
	}
	ch.broadcast(model.EventUserLeft, s.members.roster())
	return ch, nil
}

// IsHost reports whether username currently holds host authority.
func (s *Session) IsHost(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.isHost(username)
}

// HostUsername returns the current host ("" if the room is empty).
func (s *Session) HostUsername() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.hostUsername()
}

// MemberCount returns the roster size.
func (s *Session) MemberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.count()
}

// AddSongs appends tracks to the queue, stamping the requester. Any member may
// add. Broadcasts the full replacement queue.
func (s *Session) AddSongs(username string, tracks []model.Song) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if _, ok := s.members.get(username); !ok {
		return ch, errs.ErrMemberNotFound
	}
	stamped := make([]model.Song, len(tracks))
	copy(stamped, tracks)
	for i := range stamped {
		stamped[i].RequestedBy = username
	}
	s.queue = appendSongs(s.queue, stamped)
	ch.broadcast(model.EventUpdateSongStream, s.queueCopyLocked())
	return ch, nil
}

// DeleteSong removes one queue entry. Host only. The pointer is rebased per
// the delete rules; when the track under the pointer changes the clock resets.
func (s *Session) DeleteSong(username string, index int) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if !s.members.isHost(username) {
		return ch, errs.ErrNotHost
	}
	next, cur, trackChanged, err := deleteSong(s.queue, s.current, index)
	if err != nil {
		return ch, err
	}
	s.queue, s.current = next, cur
	if trackChanged {
		s.clock.Reset()
	}
	ch.broadcast(model.EventUpdateSongStream, s.queueCopyLocked())
	return ch, nil
}

// ReorderQueue moves one queue entry. Host only. The pointer follows the
// rebasing rules; the same track stays under it, so the clock keeps running.
func (s *Session) ReorderQueue(username string, oldIndex, newIndex int) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if !s.members.isHost(username) {
		return ch, errs.ErrNotHost
	}
	next, cur, err := reorderSong(s.queue, s.current, oldIndex, newIndex)
	if err != nil {
		return ch, err
	}
	s.queue, s.current = next, cur
	ch.broadcast(model.EventUpdateSongStream, s.queueCopyLocked())
	return ch, nil
}

// ClearQueue empties the queue and stops the clock. Host only.
func (s *Session) ClearQueue(username string) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if !s.members.isHost(username) {
		return ch, errs.ErrNotHost
	}
	s.queue, s.current = clearQueue()
	s.clock.Reset()
	ch.broadcast(model.EventUpdateSongStream, s.queueCopyLocked())
	return ch, nil
}

// SetCurrentIndex points the room at another queue entry and resets the clock.
// Host only. Reports the newly current track through Changes.NowPlaying.
func (s *Session) SetCurrentIndex(username string, index int) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if !s.members.isHost(username) {
		return ch, errs.ErrNotHost
	}
	cur, err := setCurrent(s.queue, index)
	if err != nil {
		return ch, err
	}
	s.current = cur
	s.clock.Reset()
	payload := model.SongIndexUpdatedPayload{Index: cur}
	if cur < len(s.queue) {
		song := s.queue[cur]
		payload.TrackName = song.Title
		ch.NowPlaying = &song
	}
	ch.broadcast(model.EventSongIndexUpdated, payload)
	return ch, nil
}

// StartPlayback starts or resumes the clock and broadcasts the progress.
func (s *Session) StartPlayback() (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	s.clock.Start()
	ch.broadcast(model.EventPlaybackStarted, s.progressLocked())
	return ch, nil
}

// PausePlayback pauses the clock and broadcasts the progress. Idempotent.
func (s *Session) PausePlayback() (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	s.clock.Pause()
	ch.broadcast(model.EventPlaybackPaused, s.progressLocked())
	return ch, nil
}

// OverrideProgress accepts a client-reported position as the new truth and
// broadcasts it to everyone.
func (s *Session) OverrideProgress(elapsedSeconds float64, isPaused bool) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	s.clock.Override(elapsedSeconds, isPaused)
	ch.broadcast(model.EventProgressSync, s.progressLocked())
	return ch, nil
}

// RequestProgressSync replies to one connection with the current position.
func (s *Session) RequestProgressSync(connID string) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	ch.unicast(connID, model.EventProgressSync, s.progressLocked())
	return ch, nil
}

// SetPartyMode flips the room flag and broadcasts the new value.
func (s *Session) SetPartyMode(enabled bool) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	s.partyMode = enabled
	ch.broadcast(model.EventPartyModeUpdated, model.SetPartyModePayload{Enabled: enabled})
	return ch, nil
}

// Chat relays a message to the room; no state is kept.
func (s *Session) Chat(msg model.ChatMessagePayload) (Changes, error) {
	var ch Changes
	ch.broadcast(model.EventChatMessage, msg)
	return ch, nil
}

// UserNames replies to one connection with the roster names in join order.
func (s *Session) UserNames(connID string) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	ch.unicast(connID, model.EventUserNames, s.members.usernames())
	return ch, nil
}

// SetAudioURL fills in the resolved playable URL for one queue entry.
// Set-once: an already-resolved entry is left alone. Broadcasts the queue so
// clients pick up the URL.
func (s *Session) SetAudioURL(index int, url string) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Changes
	if index < 0 || index >= len(s.queue) {
		return ch, errs.ErrIndexOutOfRange
	}
	if s.queue[index].AudioURL != "" || url == "" {
		return ch, nil
	}
	s.queue[index].AudioURL = url
	ch.broadcast(model.EventUpdateSongStream, s.queueCopyLocked())
	return ch, nil
}

// Snapshot returns the full room state for reconnects and REST reads.
func (s *Session) Snapshot() model.RoomSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Progress returns the current playback position report.
func (s *Session) Progress() model.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) snapshotLocked() model.RoomSnapshot {
	return model.RoomSnapshot{
		RoomID:           s.id,
		HostUsername:     s.members.hostUsername(),
		IsPartyMode:      s.partyMode,
		RequiresPassword: s.requiresPassword,
		Members:          s.members.roster(),
		Queue:            s.queueCopyLocked(),
		CurrentIndex:     s.current,
		Progress:         s.progressLocked(),
	}
}

func (s *Session) progressLocked() model.Progress {
	return model.Progress{
		Index:          s.current,
		ElapsedSeconds: s.clock.Progress(),
		IsPaused:       s.clock.State() != ClockPlaying,
	}
}

func (s *Session) queueCopyLocked() []model.Song {
	out := make([]model.Song, len(s.queue))
	copy(out, s.queue)
	return out
}
