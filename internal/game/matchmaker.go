package game

import (
	"errors"
	"fmt"
	"log"
)

// CreatePrivateRoom allocates a private room with the owner in slot one and
// a question already assigned. The store being unreachable aborts the whole
// operation; no partial room is left behind.
func (e *Engine) CreatePrivateRoom(ownerID int64) (*Room, error) {
	if _, taken := e.reg.RoomOf(ownerID); taken {
		return nil, ErrAlreadyInRoom
	}
	question, err := e.randomQuestion(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	room, err := e.reg.Create(VisibilityPrivate, ownerID)
	if err != nil {
		return nil, err
	}
	e.reg.Update(room.ID, func(r *Room) error {
		r.QuestionID = question.ID
		r.NextQuestion = question
		return nil
	})
	if err := e.persistRoomCreate(room.ID, ownerID); err != nil {
		e.reg.Remove(room.ID)
		log.Printf("room create persist failed player_id=%d error=%v", ownerID, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.startWatcher(room.ID)
	e.sendLobbyStatus(room.ID, ownerID)
	return room, nil
}

// FindOrJoinPublicRoom joins any public lobby with a free slot, creating a
// fresh one with the player already seated when none exists. Losing the
// race for the last slot falls through to creation rather than failing the
// player.
func (e *Engine) FindOrJoinPublicRoom(playerID int64) (*Room, error) {
	if _, taken := e.reg.RoomOf(playerID); taken {
		return nil, ErrAlreadyInRoom
	}
	if id, ok := e.reg.FindOpenPublic(); ok {
		room, err := e.JoinRoom(playerID, id)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, ErrRoomFull) && !errors.Is(err, ErrRoomNotFound) && !errors.Is(err, ErrGameStarted) {
			return nil, err
		}
	}
	question, err := e.randomQuestion(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// Seating the creator inside Create keeps a concurrent matchmaking
	// burst from filling the fresh room before its own creator gets in.
	room, err := e.reg.Create(VisibilityPublic, playerID)
	if err != nil {
		return nil, err
	}
	e.reg.Update(room.ID, func(r *Room) error {
		r.QuestionID = question.ID
		r.NextQuestion = question
		return nil
	})
	if err := e.persistRoomCreate(room.ID, playerID); err != nil {
		e.reg.Remove(room.ID)
		log.Printf("room create persist failed player_id=%d error=%v", playerID, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.startWatcher(room.ID)
	e.sendLobbyStatus(room.ID, playerID)
	return room, nil
}

// JoinRoom assigns the lowest free slot. Validation and the slot write are
// one atomic step; persistence failures afterwards are logged, never fatal.
func (e *Engine) JoinRoom(playerID, roomID int64) (*Room, error) {
	room, slot, err := e.reg.Join(playerID, roomID)
	if err != nil {
		return nil, err
	}
	var (
		dbID uint
		occ  int
	)
	e.reg.Update(roomID, func(r *Room) error {
		dbID = r.DBID
		occ = r.Occupancy()
		return nil
	})
	if err := e.persistJoin(dbID, playerID, slot, occ); err != nil {
		log.Printf("join persist failed room_id=%d player_id=%d error=%v", roomID, playerID, err)
	}
	e.sendLobbyStatus(roomID, playerID)
	return room, nil
}

// LeaveRoom clears the player's slot. An emptied room is torn down
// immediately, watcher included; a departure mid-game removes the player
// from the round and may settle or finish it.
func (e *Engine) LeaveRoom(playerID int64) error {
	room, slot, err := e.reg.Leave(playerID)
	if err != nil {
		return err
	}
	roomID := room.ID
	var (
		empty      bool
		closeNo    int
		settleNow  bool
		lastResult *settlement
		dbID       uint
	)
	e.reg.Update(roomID, func(r *Room) error {
		dbID = r.DBID
		delete(r.StatusMsgs, playerID)
		if r.Phase == PhaseActive {
			delete(r.Contestants, playerID)
			if r.Round != nil && !r.Round.Closed {
				delete(r.Round.Outcomes, playerID)
			}
			remaining := activeContestants(r)
			switch {
			case len(remaining) <= 1 && r.Occupancy() > 0:
				// The answer window may still be armed. Closing the round
				// in the same critical section keeps the timer's closeRound
				// from settling the collapsed game a second time.
				if r.Round != nil {
					r.Round.Closed = true
				}
				lastResult = finalSettlement(r, remaining)
			case r.Round != nil && !r.Round.Closed && roundComplete(r):
				settleNow = true
				closeNo = r.Round.Number
			}
		}
		empty = r.Occupancy() == 0
		return nil
	})
	if err := e.persistLeave(dbID, playerID, slot); err != nil {
		log.Printf("leave persist failed room_id=%d player_id=%d error=%v", roomID, playerID, err)
	}
	switch {
	case empty:
		e.teardown(roomID, PhaseDissolved)
	case lastResult != nil:
		e.finishGame(roomID, lastResult)
	case settleNow:
		e.closeRound(roomID, closeNo)
	default:
		e.refreshLobbyStatus(roomID, 0)
	}
	return nil
}

// RefreshLobbyStatus re-renders the caller's own status message on demand,
// regardless of whether the occupancy changed since the last edit.
func (e *Engine) RefreshLobbyStatus(playerID int64) error {
	roomID, ok := e.reg.RoomOf(playerID)
	if !ok {
		return ErrNotInRoom
	}
	var (
		text string
		opts SendOptions
		ref  MessageRef
		have bool
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if !r.Phase.Lobby() {
			return ErrGameStarted
		}
		text = lobbyStatusText(r)
		opts = SendOptions{LobbyRoomID: r.ID, Occupancy: r.Occupancy()}
		ref, have = r.StatusMsgs[playerID]
		return nil
	})
	if err != nil {
		return err
	}
	if !have {
		e.sendLobbyStatus(roomID, playerID)
		return nil
	}
	e.edit(ref, text, opts)
	return nil
}

func (e *Engine) sendLobbyStatus(roomID, playerID int64) {
	var (
		text string
		opts SendOptions
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		text = lobbyStatusText(r)
		opts = SendOptions{LobbyRoomID: r.ID, Occupancy: r.Occupancy()}
		return nil
	})
	if err != nil {
		return
	}
	ref, ok := e.send(playerID, text, opts)
	if !ok {
		return
	}
	e.reg.Update(roomID, func(r *Room) error {
		if !r.Phase.Lobby() {
			return nil
		}
		r.StatusMsgs[playerID] = ref
		return nil
	})
	e.refreshLobbyStatus(roomID, playerID)
}

// refreshLobbyStatus edits every stored status message when the rendered
// occupancy is stale. skip excludes a player whose message was just sent.
func (e *Engine) refreshLobbyStatus(roomID, skip int64) {
	var (
		text  string
		opts  SendOptions
		edits []MessageRef
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if !r.Phase.Lobby() {
			return nil
		}
		occ := r.Occupancy()
		if occ == r.shownCount && skip == 0 {
			return nil
		}
		r.shownCount = occ
		text = lobbyStatusText(r)
		opts = SendOptions{LobbyRoomID: r.ID, Occupancy: occ}
		for id, ref := range r.StatusMsgs {
			if id == skip {
				continue
			}
			edits = append(edits, ref)
		}
		return nil
	})
	if err != nil {
		return
	}
	for _, ref := range edits {
		e.edit(ref, text, opts)
	}
}

func lobbyStatusText(r *Room) string {
	occ := r.Occupancy()
	if r.Visibility == VisibilityPrivate {
		return fmt.Sprintf("Private room %d\nShare this id with friends to let them join.\nPlayers: %d/%d", r.ID, occ, Capacity)
	}
	return fmt.Sprintf("Looking for opponents...\nRoom %d, players: %d/%d", r.ID, occ, Capacity)
}
