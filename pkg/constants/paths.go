package constants

// Пути health, ready и базовые префиксы REST/WS API.
const (
	PathHealth = "/health"
	PathReady  = "/ready"
	PathRooms  = "/rooms"
	PathSearch = "/search"
	PathWSRoom = "/ws/room/:room_id/:username"
)
