package errs

import "errors"

// Доменные сентинель-ошибки для маппинга в HTTP/WS ответы в handlers.
var (
	// Not found / conflict
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomExists        = errors.New("room already exists")
	ErrMemberNotFound    = errors.New("member not found")
	ErrDuplicateUsername = errors.New("username already taken in room")
	ErrAudioNotFound     = errors.New("audio url not found")

	// Authorization
	ErrNotHost       = errors.New("operation requires host")
	ErrWrongPassword = errors.New("wrong room password")

	// Validation
	ErrIndexOutOfRange = errors.New("queue index out of range")
	ErrRoomFull        = errors.New("room has maximum members")
	ErrBadRequest      = errors.New("bad request")
)
