package game

import "errors"

// Rejections returned to the surrounding application. Anything else coming
// out of the engine is an internal failure that was already logged.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrNotInRoom        = errors.New("not in a room")
	ErrGameStarted      = errors.New("game already started")
)

// errStaleRound marks a timer or completion check that lost the race to
// close a round; the loser becomes a no-op.
var errStaleRound = errors.New("round already settled")
