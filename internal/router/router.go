package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siwu-945/FunTrip-sub000/internal/handler"
	"github.com/siwu-945/FunTrip-sub000/pkg/constants"
)

// New builds the HTTP router.
func New(
	roomHandler *handler.RoomHandler,
	searchHandler *handler.SearchHandler,
	roomWS *handler.RoomWSHandler,
	health *handler.HealthHandler,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	// REST rooms
	rooms := r.Group(constants.PathRooms)
	{
		rooms.POST("", roomHandler.CreateRoom)
		rooms.GET("/:id", roomHandler.GetRoom)
		rooms.GET("/:id/users", roomHandler.GetRoomUsers)
		rooms.GET("/:id/history", roomHandler.GetRoomHistory)
	}

	// Catalog search proxy
	r.GET(constants.PathSearch, searchHandler.Search)

	// WebSocket: /ws/room/:room_id/:username
	r.GET(constants.PathWSRoom, roomWS.ServeWS)

	return r
}
