package game

import (
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"quiz-royale/internal/config"
)

// Engine owns every room's lobby watcher and round timers. A nil *gorm.DB
// is allowed: the engine then runs purely in memory, which is how the tests
// exercise it.
type Engine struct {
	cfg config.Config
	db  *gorm.DB
	msg Messenger
	reg *Registry

	timersMu sync.Mutex
	timers   map[int64]*time.Timer
}

func New(conn *gorm.DB, msg Messenger, cfg config.Config) *Engine {
	return &Engine{
		cfg:    cfg,
		db:     conn,
		msg:    msg,
		reg:    NewRegistry(),
		timers: make(map[int64]*time.Timer),
	}
}

// Rooms lists live rooms for the admin surface.
func (e *Engine) Rooms() []RoomSummary {
	return e.reg.Snapshot()
}

// RoomOf reports which room, if any, the player currently occupies.
func (e *Engine) RoomOf(playerID int64) (int64, bool) {
	return e.reg.RoomOf(playerID)
}

// Shutdown cancels every watcher and timer. Rooms are not persisted as
// resumable; a restart starts from an empty registry.
func (e *Engine) Shutdown() {
	for _, summary := range e.reg.Snapshot() {
		e.cancelTimer(summary.ID)
		e.reg.Update(summary.ID, func(r *Room) error {
			if r.cancelWatch != nil {
				r.cancelWatch()
				r.cancelWatch = nil
			}
			return nil
		})
	}
}

// scheduleTimer arms the room's single timer slot, replacing any previous
// one. A room never needs two timers at once: the answer window and the
// inter-round pause are mutually exclusive.
func (e *Engine) scheduleTimer(roomID int64, d time.Duration, fn func()) {
	e.timersMu.Lock()
	defer e.timersMu.Unlock()
	if existing, ok := e.timers[roomID]; ok {
		existing.Stop()
	}
	e.timers[roomID] = time.AfterFunc(d, fn)
}

func (e *Engine) cancelTimer(roomID int64) {
	e.timersMu.Lock()
	defer e.timersMu.Unlock()
	if timer, ok := e.timers[roomID]; ok {
		timer.Stop()
		delete(e.timers, roomID)
	}
}

func (e *Engine) send(playerID int64, text string, opts SendOptions) (MessageRef, bool) {
	ref, err := e.msg.Send(playerID, text, opts)
	if err != nil {
		log.Printf("send failed player_id=%d error=%v", playerID, err)
		return MessageRef{}, false
	}
	return ref, true
}

func (e *Engine) edit(ref MessageRef, text string, opts SendOptions) {
	if err := e.msg.Edit(ref, text, opts); err != nil {
		log.Printf("edit failed player_id=%d error=%v", ref.PlayerID, err)
	}
}
