package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
	"github.com/siwu-945/FunTrip-sub000/internal/room"
)

// JoinAction distinguishes creating a room from joining an existing one.
type JoinAction string

const (
	JoinActionCreate JoinAction = "create"
	JoinActionJoin   JoinAction = "join"
)

// AudioResolver resolves a catalog track ref to a playable URL.
type AudioResolver interface {
	Resolve(ctx context.Context, trackRef string) (string, error)
}

// RoomService drives room sessions: it routes commands to the right session,
// publishes the returned change descriptors through the hub, records play
// history, and kicks off async audio resolution for the current track.
type RoomService struct {
	registry *room.Registry
	hub      *RoomHub
	db       *gorm.DB      // nil disables play history
	resolver AudioResolver // nil disables audio resolution
	log      *zap.Logger
}

// NewRoomService creates the service. db and resolver may be nil.
func NewRoomService(registry *room.Registry, hub *RoomHub, db *gorm.DB, resolver AudioResolver, log *zap.Logger) *RoomService {
	return &RoomService{registry: registry, hub: hub, db: db, resolver: resolver, log: log}
}

// CreateRoom makes an empty room without joining it (REST path).
func (s *RoomService) CreateRoom(id, password string) (*model.CreateRoomResponse, error) {
	sess, err := s.registry.Create(id, password)
	if err != nil {
		return nil, err
	}
	return &model.CreateRoomResponse{
		RoomID:           sess.ID(),
		RequiresPassword: sess.RequiresPassword(),
	}, nil
}

// Join admits a member. action=create fails when the room already exists;
// action=join fails when it does not.
func (s *RoomService) Join(roomID, username string, avatarIndex int, connID string, action JoinAction, password string) error {
	var (
		sess *room.Session
		err  error
	)
	switch action {
	case JoinActionCreate:
		sess, err = s.registry.Create(roomID, password)
	case JoinActionJoin:
		sess, err = s.registry.Get(roomID)
	default:
		err = errs.ErrBadRequest
	}
	if err != nil {
		return err
	}

	ch, err := sess.Join(username, avatarIndex, connID, password)
	if err != nil {
		// A freshly created room that nobody managed to enter must not linger.
		if action == JoinActionCreate && sess.MemberCount() == 0 {
			s.registry.Destroy(roomID)
		}
		return err
	}
	s.apply(roomID, ch)
	return nil
}

// Leave removes a member; the last leave destroys the room.
func (s *RoomService) Leave(roomID, username string) error {
	sess, err := s.registry.Get(roomID)
	if err != nil {
		return err
	}
	ch, err := sess.Leave(username)
	if err != nil {
		return err
	}
	s.apply(roomID, ch)
	return nil
}

// AddSongs appends catalog tracks to the queue.
func (s *RoomService) AddSongs(roomID, username string, tracks []model.Song) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.AddSongs(username, tracks)
	})
}

// DeleteSong removes one queue entry (host only).
func (s *RoomService) DeleteSong(roomID, username string, index int) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.DeleteSong(username, index)
	})
}

// ClearQueue empties the queue (host only).
func (s *RoomService) ClearQueue(roomID, username string) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.ClearQueue(username)
	})
}

// ReorderQueue moves a queue entry (host only).
func (s *RoomService) ReorderQueue(roomID, username string, oldIndex, newIndex int) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.ReorderQueue(username, oldIndex, newIndex)
	})
}

// SetCurrentIndex points the room at another track (host only). The track
// becoming current is recorded in play history and sent for audio resolution.
func (s *RoomService) SetCurrentIndex(roomID, username string, index int) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.SetCurrentIndex(username, index)
	})
}

// StartPlayback starts or resumes the room clock.
func (s *RoomService) StartPlayback(roomID string) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.StartPlayback()
	})
}

// PausePlayback pauses the room clock.
func (s *RoomService) PausePlayback(roomID string) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.PausePlayback()
	})
}

// OverrideProgress applies a client-reported position correction.
func (s *RoomService) OverrideProgress(roomID string, elapsedSeconds float64, isPaused bool) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.OverrideProgress(elapsedSeconds, isPaused)
	})
}

// RequestProgressSync replies to one connection with the current position.
func (s *RoomService) RequestProgressSync(roomID, connID string) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.RequestProgressSync(connID)
	})
}

// SetPartyMode flips the room's party-mode flag.
func (s *RoomService) SetPartyMode(roomID string, enabled bool) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.SetPartyMode(enabled)
	})
}

// Chat relays a message to the room.
func (s *RoomService) Chat(roomID string, msg model.ChatMessagePayload) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.Chat(msg)
	})
}

// UserNames replies to one connection with the roster names.
func (s *RoomService) UserNames(roomID, connID string) error {
	return s.run(roomID, func(sess *room.Session) (room.Changes, error) {
		return sess.UserNames(connID)
	})
}

// Snapshot returns the full room state (reconnects, REST reads).
func (s *RoomService) Snapshot(roomID string) (model.RoomSnapshot, error) {
	sess, err := s.registry.Get(roomID)
	if err != nil {
		return model.RoomSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

// IsHost is the host-check query consumed by collaborators.
func (s *RoomService) IsHost(roomID, username string) (bool, error) {
	sess, err := s.registry.Get(roomID)
	if err != nil {
		return false, err
	}
	return sess.IsHost(username), nil
}

// History returns the persisted play log for a room, newest first.
func (s *RoomService) History(ctx context.Context, roomID string, limit int) ([]model.TrackPlay, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []model.TrackPlayEntity
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("played_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.TrackPlay, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.TrackPlay{
			TrackRef: r.TrackRef,
			Title:    r.Title,
			Artist:   r.Artist,
			PlayedBy: r.PlayedBy,
			PlayedAt: r.PlayedAt,
		})
	}
	return out, nil
}

func (s *RoomService) run(roomID string, op func(*room.Session) (room.Changes, error)) error {
	sess, err := s.registry.Get(roomID)
	if err != nil {
		return err
	}
	ch, err := op(sess)
	if err != nil {
		return err
	}
	s.apply(roomID, ch)
	return nil
}

// apply publishes a session's change descriptors and handles their side
// effects: room destruction, play history, audio resolution.
func (s *RoomService) apply(roomID string, ch room.Changes) {
	for _, e := range ch.Events {
		switch e.Scope {
		case room.ScopeUnicast:
			s.hub.Unicast(e.ConnID, e.Name, e.Payload)
		default:
			s.hub.Publish(roomID, e.Name, e.Payload)
		}
	}
	if ch.NowPlaying != nil {
		s.recordPlay(roomID, *ch.NowPlaying)
		s.resolveAudio(roomID, *ch.NowPlaying)
	}
	if ch.RoomEmptied {
		s.registry.Destroy(roomID)
		s.hub.CloseRoom(roomID)
		s.log.Info("room destroyed", zap.String("room_id", roomID))
	}
}

func (s *RoomService) recordPlay(roomID string, song model.Song) {
	if s.db == nil {
		return
	}
	row := model.TrackPlayEntity{
		ID:       uuid.New().String(),
		RoomID:   roomID,
		TrackRef: song.TrackRef,
		Title:    song.Title,
		Artist:   song.Artist,
		PlayedBy: song.RequestedBy,
		PlayedAt: time.Now(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		s.log.Warn("play history write failed",
			zap.String("room_id", roomID), zap.Error(err))
	}
}

// resolveAudio asynchronously fetches the playable URL for the track that just
// became current and supplies it back into the session. The session stays
// authoritative: a stale result for a track no longer at that ref is dropped
// by the set-once rule.
func (s *RoomService) resolveAudio(roomID string, song model.Song) {
	if s.resolver == nil || song.AudioURL != "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		url, err := s.resolver.Resolve(ctx, song.TrackRef)
		if err != nil {
			if errors.Is(err, errs.ErrAudioNotFound) {
				s.log.Warn("no audio for track",
					zap.String("room_id", roomID),
					zap.String("track_ref", song.TrackRef))
			} else {
				s.log.Warn("audio resolution failed",
					zap.String("room_id", roomID),
					zap.String("track_ref", song.TrackRef),
					zap.Error(err))
			}
			return
		}
		sess, err := s.registry.Get(roomID)
		if err != nil {
			return // room died while resolving
		}
		snap := sess.Snapshot()
		for i, q := range snap.Queue {
			if q.TrackRef == song.TrackRef && q.AudioURL == "" {
				ch, err := sess.SetAudioURL(i, url)
				if err == nil {
					s.apply(roomID, ch)
				}
				break
			}
		}
	}()
}
