package service

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// Peer represents one WebSocket connection in a room.
type Peer struct {
	RoomID   string
	ConnID   string
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// RoomHub delivers room-scoped event broadcasts and point-to-point replies to
// WebSocket connections. Emission order per room is preserved: Publish writes
// into each peer's Send channel under the hub lock, in call order.
type RoomHub struct {
	mu         sync.RWMutex
	peers      map[string]map[*Peer]struct{} // roomID -> set of peers
	byConn     map[string]*Peer              // connID -> peer
	upgrader   websocket.Upgrader
	maxMsgSize int64
	log        *zap.Logger
}

// NewRoomHub creates an empty hub.
func NewRoomHub(readBufferSize, writeBufferSize int, maxMessageSize int64, log *zap.Logger) *RoomHub {
	return &RoomHub{
		peers:      make(map[string]map[*Peer]struct{}),
		byConn:     make(map[string]*Peer),
		maxMsgSize: maxMessageSize,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			// Allow all origins for dev; in prod set CheckOrigin.
		},
	}
}

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *RoomHub) Upgrader() *websocket.Upgrader { return &h.upgrader }

// Register adds a connection to a room, assigns it a connection id, and
// returns the peer plus a cleanup function.
func (h *RoomHub) Register(roomID, username string, conn *websocket.Conn) (*Peer, func()) {
	if h.maxMsgSize > 0 {
		conn.SetReadLimit(h.maxMsgSize)
	}
	p := &Peer{
		RoomID:   roomID,
		ConnID:   uuid.New().String(),
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 64),
	}
	h.mu.Lock()
	if h.peers[roomID] == nil {
		h.peers[roomID] = make(map[*Peer]struct{})
	}
	h.peers[roomID][p] = struct{}{}
	h.byConn[p.ConnID] = p
	h.mu.Unlock()

	h.log.Info("peer registered",
		zap.String("room_id", roomID),
		zap.String("username", username),
		zap.String("conn_id", p.ConnID))

	cleanup := func() {
		h.unregister(p)
	}
	return p, cleanup
}

func (h *RoomHub) unregister(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byConn[p.ConnID]; !ok {
		return // already removed by CloseRoom
	}
	delete(h.byConn, p.ConnID)
	if m, ok := h.peers[p.RoomID]; ok {
		delete(m, p)
		if len(m) == 0 {
			delete(h.peers, p.RoomID)
		}
	}
	close(p.Send)
	h.log.Info("peer unregistered",
		zap.String("room_id", p.RoomID),
		zap.String("username", p.Username))
}

// Publish broadcasts an event to every connection in the room.
func (h *RoomHub) Publish(roomID, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		h.log.Error("encode event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for p := range h.peers[roomID] {
		select {
		case p.Send <- frame:
		default:
			h.log.Warn("peer send buffer full, dropping event",
				zap.String("room_id", roomID),
				zap.String("username", p.Username),
				zap.String("event", event))
		}
	}
}

// Unicast sends an event to a single connection.
func (h *RoomHub) Unicast(connID, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		h.log.Error("encode event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.byConn[connID]
	if !ok {
		return
	}
	select {
	case p.Send <- frame:
	default:
		h.log.Warn("peer send buffer full, dropping event",
			zap.String("username", p.Username),
			zap.String("event", event))
	}
}

// CloseRoom disconnects every peer of a destroyed room.
func (h *RoomHub) CloseRoom(roomID string) {
	h.mu.Lock()
	m, ok := h.peers[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.peers, roomID)
	for p := range m {
		delete(h.byConn, p.ConnID)
	}
	h.mu.Unlock()

	for p := range m {
		close(p.Send)
		_ = p.Conn.Close()
	}
	h.log.Info("room closed", zap.String("room_id", roomID))
}

// PeerCount returns the number of connections in a room.
func (h *RoomHub) PeerCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers[roomID])
}

func encodeFrame(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(model.Envelope{Event: event, Data: data})
}
