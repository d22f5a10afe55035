package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
	"github.com/siwu-945/FunTrip-sub000/internal/service"
)

// RoomWSHandler handles WebSocket connections for /ws/room/:room_id/:username.
type RoomWSHandler struct {
	hub    *service.RoomHub
	svc    *service.RoomService
	logger *zap.Logger
}

// NewRoomWSHandler creates the WebSocket room handler.
func NewRoomWSHandler(hub *service.RoomHub, svc *service.RoomService, logger *zap.Logger) *RoomWSHandler {
	return &RoomWSHandler{hub: hub, svc: svc, logger: logger}
}

// ServeWS upgrades the request and runs the room command loop.
// Path: /ws/room/:room_id/:username
// Query: action=create|join (default join), password, avatar.
func (h *RoomWSHandler) ServeWS(c *gin.Context) {
	roomID := c.Param("room_id")
	username := c.Param("username")
	if roomID == "" || username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id and username required"})
		return
	}
	action := service.JoinAction(c.DefaultQuery("action", string(service.JoinActionJoin)))
	password := c.Query("password")
	avatar, _ := strconv.Atoi(c.DefaultQuery("avatar", "0"))

	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	peer, cleanup := h.hub.Register(roomID, username, conn)
	defer cleanup()

	// Writer goroutine: drain peer.Send to the connection.
	go h.writePump(peer)

	if err := h.svc.Join(roomID, username, avatar, peer.ConnID, action, password); err != nil {
		h.deny(peer, model.EventJoinRoom, err)
		return
	}
	defer func() {
		if err := h.svc.Leave(roomID, username); err != nil && !errors.Is(err, errs.ErrRoomNotFound) {
			h.logger.Debug("leave on disconnect", zap.String("room_id", roomID), zap.Error(err))
		}
	}()

	h.readPump(peer)
}

func (h *RoomWSHandler) readPump(p *service.Peer) {
	for {
		_, data, err := p.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			return
		}
		var env model.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.deny(p, "", errs.ErrBadRequest)
			continue
		}
		if env.Event == model.EventExitRoom {
			return
		}
		if err := h.dispatch(p, env); err != nil {
			h.deny(p, env.Event, err)
		}
	}
}

func (h *RoomWSHandler) writePump(p *service.Peer) {
	defer func() {
		_ = p.Conn.Close()
	}()
	for data := range p.Send {
		if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
}

// dispatch validates a command payload at the boundary and invokes the core.
func (h *RoomWSHandler) dispatch(p *service.Peer, env model.Envelope) error {
	switch env.Event {
	case model.EventAddSongs:
		var pl model.AddSongsPayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		return h.svc.AddSongs(p.RoomID, p.Username, pl.Tracks)

	case model.EventDeleteSong:
		var pl model.DeleteSongPayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		return h.svc.DeleteSong(p.RoomID, p.Username, pl.Index)

	case model.EventClearQueue:
		return h.svc.ClearQueue(p.RoomID, p.Username)

	case model.EventReorderQueue:
		var pl model.ReorderQueuePayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		return h.svc.ReorderQueue(p.RoomID, p.Username, pl.OldIndex, pl.NewIndex)

	case model.EventSetCurrentIndex:
		var pl model.SetCurrentIndexPayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		return h.svc.SetCurrentIndex(p.RoomID, p.Username, pl.Index)

	case model.EventStartPlayback:
		return h.svc.StartPlayback(p.RoomID)

	case model.EventPausePlayback:
		return h.svc.PausePlayback(p.RoomID)

	case model.EventOverrideProgress:
		var pl model.OverrideProgressPayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		return h.svc.OverrideProgress(p.RoomID, pl.ElapsedSeconds, pl.IsPaused)

	case model.EventRequestProgressSync:
		return h.svc.RequestProgressSync(p.RoomID, p.ConnID)

	case model.EventSetPartyMode:
		var pl model.SetPartyModePayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		return h.svc.SetPartyMode(p.RoomID, pl.Enabled)

	case model.EventChatMessage:
		var pl model.ChatMessagePayload
		if err := decode(env.Data, &pl); err != nil {
			return err
		}
		pl.Sender = p.Username
		return h.svc.Chat(p.RoomID, pl)

	case model.EventGetUserNames:
		return h.svc.UserNames(p.RoomID, p.ConnID)

	default:
		return errs.ErrBadRequest
	}
}

func decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return errs.ErrBadRequest
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errs.ErrBadRequest
	}
	return nil
}

// deny reports a rejected command back to the requester only.
func (h *RoomWSHandler) deny(p *service.Peer, event string, err error) {
	h.hub.Unicast(p.ConnID, model.EventDenied, model.DeniedPayload{
		Event:  event,
		Reason: err.Error(),
	})
}
