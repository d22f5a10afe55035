package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
	"github.com/siwu-945/FunTrip-sub000/internal/service"
)

// RoomHandler handles REST API for rooms.
type RoomHandler struct {
	svc *service.RoomService
	cfg *service.WSConfig
}

// NewRoomHandler creates a room handler.
func NewRoomHandler(svc *service.RoomService, wsBaseURL string) *RoomHandler {
	return &RoomHandler{
		svc: svc,
		cfg: &service.WSConfig{BaseURL: wsBaseURL},
	}
}

// CreateRoom godoc
// POST /rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req model.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	res, err := h.svc.CreateRoom(req.RoomID, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrRoomExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "room already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	res.WSURL = h.cfg.WSURL(res.RoomID, ":username")
	c.JSON(http.StatusCreated, res)
}

// GetRoom godoc
// GET /rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id required"})
		return
	}
	snap, err := h.svc.Snapshot(roomID)
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get room"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetRoomUsers godoc
// GET /rooms/:id/users
func (h *RoomHandler) GetRoomUsers(c *gin.Context) {
	roomID := c.Param("id")
	snap, err := h.svc.Snapshot(roomID)
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get users"})
		return
	}
	users := make([]string, 0, len(snap.Members))
	for _, m := range snap.Members {
		users = append(users, m.Username)
	}
	c.JSON(http.StatusOK, model.RoomUsersResponse{RoomID: roomID, Users: users})
}

// GetRoomHistory godoc
// GET /rooms/:id/history
func (h *RoomHandler) GetRoomHistory(c *gin.Context) {
	roomID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	plays, err := h.svc.History(c.Request.Context(), roomID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get history"})
		return
	}
	c.JSON(http.StatusOK, model.RoomHistoryResponse{RoomID: roomID, Plays: plays})
}
