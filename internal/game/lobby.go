package game

import (
	"context"
	"log"
	"time"
)

// startWatcher spawns the room's lobby watcher. The room owns the cancel
// func so teardown can stop the goroutine synchronously; a watcher that
// outlives its room is a leak.
func (e *Engine) startWatcher(roomID int64) {
	ctx, cancel := context.WithCancel(context.Background())
	_, err := e.reg.Update(roomID, func(r *Room) error {
		r.cancelWatch = cancel
		return nil
	})
	if err != nil {
		cancel()
		return
	}
	go e.watchLobby(ctx, roomID)
}

func (e *Engine) watchLobby(ctx context.Context, roomID int64) {
	ticker := time.NewTicker(e.cfg.LobbyPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.lobbyTick(roomID) {
				return
			}
		}
	}
}

type lobbyDecision int

const (
	lobbyKeepWaiting lobbyDecision = iota
	lobbyStart
	lobbyExpire
	lobbyDissolve
	lobbyDone
)

// lobbyTick evaluates the room's timers once. Occupancy is re-read under
// the lock on every tick because joins and leaves happen between ticks.
func (e *Engine) lobbyTick(roomID int64) bool {
	now := time.Now().UTC()
	decision := lobbyKeepWaiting
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if r.Phase == PhaseActive || r.Phase.Terminal() {
			decision = lobbyDone
			return nil
		}
		if r.Phase == PhaseCreated {
			if err := r.transition(PhaseWaiting); err != nil {
				return err
			}
		}
		occ := r.Occupancy()
		if occ == 0 {
			if r.everJoined {
				decision = lobbyDissolve
			} else if now.Sub(r.CreatedAt) >= e.cfg.LobbyGrace {
				decision = lobbyExpire
			}
			return nil
		}
		// The 90s countdown is armed the moment occupancy reaches two and
		// fully reset, not paused, whenever it drops back below two.
		if occ >= 2 {
			if r.ReadyAt.IsZero() {
				r.ReadyAt = now
				if err := r.transition(PhaseReady); err != nil {
					return err
				}
			}
		} else if !r.ReadyAt.IsZero() {
			r.ReadyAt = time.Time{}
			if err := r.transition(PhaseWaiting); err != nil {
				return err
			}
		}
		switch {
		case occ >= Capacity:
			decision = lobbyStart
		case !r.ReadyAt.IsZero() && now.Sub(r.ReadyAt) >= e.cfg.ReadyCountdown:
			decision = lobbyStart
		case occ < 2 && now.Sub(r.CreatedAt) >= e.cfg.LobbyGrace:
			// Grace deadline with a lone player: the game starts anyway.
			decision = lobbyStart
		}
		return nil
	})
	if err != nil {
		log.Printf("lobby tick failed room_id=%d error=%v", roomID, err)
		return true
	}
	switch decision {
	case lobbyStart:
		e.startGame(roomID)
		return true
	case lobbyExpire:
		e.teardown(roomID, PhaseExpired)
		return true
	case lobbyDissolve:
		e.teardown(roomID, PhaseDissolved)
		return true
	case lobbyDone:
		return true
	default:
		e.refreshLobbyStatus(roomID, 0)
		return false
	}
}

// startGame moves the room to ACTIVE, freezes the roster into contestants
// and hands control to the round loop. The lobby watcher is cancelled here;
// no further joins are possible.
func (e *Engine) startGame(roomID int64) {
	var notify []MessageRef
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if err := r.transition(PhaseActive); err != nil {
			return err
		}
		if r.cancelWatch != nil {
			r.cancelWatch()
			r.cancelWatch = nil
		}
		r.ReadyAt = time.Time{}
		r.Contestants = make(map[int64]*Contestant, Capacity)
		for _, id := range r.Occupants() {
			r.Contestants[id] = &Contestant{PlayerID: id, Active: true}
		}
		for _, ref := range r.StatusMsgs {
			notify = append(notify, ref)
		}
		r.StatusMsgs = make(map[int64]MessageRef)
		return nil
	})
	if err != nil {
		log.Printf("game start failed room_id=%d error=%v", roomID, err)
		return
	}
	if err := e.persistGameStart(roomID); err != nil {
		log.Printf("game start persist failed room_id=%d error=%v", roomID, err)
	}
	for _, ref := range notify {
		e.edit(ref, "The game is starting!", SendOptions{})
	}
	log.Printf("game started room_id=%d players=%d", roomID, len(notify))
	e.startRound(roomID, 1)
}

// teardown retires a room from any phase: watcher and timer cancelled,
// registry entry and durable rows removed.
func (e *Engine) teardown(roomID int64, phase Phase) {
	var dbID uint
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if r.Phase.Terminal() {
			return errStaleRound
		}
		dbID = r.DBID
		if err := r.transition(phase); err != nil {
			r.Phase = phase
		}
		if r.cancelWatch != nil {
			r.cancelWatch()
			r.cancelWatch = nil
		}
		return nil
	})
	e.cancelTimer(roomID)
	if err != nil {
		return
	}
	if err := e.persistTeardown(dbID, phase); err != nil {
		log.Printf("teardown persist failed room_id=%d error=%v", roomID, err)
	}
	e.reg.Remove(roomID)
	log.Printf("room torn down room_id=%d phase=%s", roomID, phase)
}
