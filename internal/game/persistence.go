package game

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"quiz-royale/internal/db"
)

// Durable writes mirror the in-memory state for stats and post-mortem
// inspection. Every function below is a no-op without a database, and the
// callers treat failures as log-and-continue: the registry stays the source
// of truth for a running game.

type EventPayload struct {
	RoomID     int64   `json:"room_id,omitempty"`
	PlayerID   int64   `json:"player_id,omitempty"`
	Round      int     `json:"round,omitempty"`
	Phase      string  `json:"phase,omitempty"`
	Outcome    string  `json:"outcome,omitempty"`
	Winner     int64   `json:"winner,omitempty"`
	Occupancy  int     `json:"occupancy,omitempty"`
	QuestionID uint    `json:"question_id,omitempty"`
	Eliminated []int64 `json:"eliminated,omitempty"`
}

var slotColumns = [Capacity]string{"player1_id", "player2_id", "player3_id", "player4_id"}

// Shared room state is only read under the registry lock. Each persist
// function below works on plain values its caller captured in an Update
// closure, never on a live *Room another goroutine may be mutating.

func (e *Engine) persistRoomCreate(roomID int64, ownerID int64) error {
	if e.db == nil {
		return nil
	}
	var (
		record db.Room
		occ    int
	)
	if _, err := e.reg.Update(roomID, func(r *Room) error {
		record.QuestionID = r.QuestionID
		record.IsPrivate = r.Visibility == VisibilityPrivate
		record.Phase = r.Phase.String()
		occ = r.Occupancy()
		return nil
	}); err != nil {
		return err
	}
	if ownerID != 0 {
		if _, err := db.EnsurePlayer(e.db, ownerID); err != nil {
			return err
		}
		record.Player1ID = &ownerID
	}
	if err := e.db.Create(&record).Error; err != nil {
		return err
	}
	e.reg.Update(roomID, func(r *Room) error {
		r.DBID = record.ID
		return nil
	})
	// Players join by id, so the id they see must be the durable one.
	e.reg.Rename(roomID, int64(record.ID))
	if ownerID != 0 {
		if err := e.db.Model(&db.Player{}).Where("id = ?", ownerID).
			Update("current_room_id", record.ID).Error; err != nil {
			return err
		}
	}
	return e.persistEvent(record.ID, ownerID, "room_created", EventPayload{
		RoomID:    int64(record.ID),
		Occupancy: occ,
	})
}

func (e *Engine) persistJoin(roomDBID uint, playerID int64, slot, occupancy int) error {
	if e.db == nil {
		return nil
	}
	if _, err := db.EnsurePlayer(e.db, playerID); err != nil {
		return err
	}
	if err := e.db.Model(&db.Room{}).Where("id = ?", roomDBID).
		Update(slotColumns[slot], playerID).Error; err != nil {
		return err
	}
	if err := e.db.Model(&db.Player{}).Where("id = ?", playerID).
		Update("current_room_id", roomDBID).Error; err != nil {
		return err
	}
	return e.persistEvent(roomDBID, playerID, "player_joined", EventPayload{
		RoomID:    int64(roomDBID),
		PlayerID:  playerID,
		Occupancy: occupancy,
	})
}

func (e *Engine) persistLeave(roomDBID uint, playerID int64, slot int) error {
	if e.db == nil {
		return nil
	}
	if err := e.db.Model(&db.Room{}).Where("id = ?", roomDBID).
		Update(slotColumns[slot], nil).Error; err != nil {
		return err
	}
	if err := e.db.Model(&db.Player{}).Where("id = ?", playerID).
		Update("current_room_id", nil).Error; err != nil {
		return err
	}
	if err := e.db.Model(&db.GamePlayer{}).
		Where("room_id = ? AND player_id = ?", roomDBID, playerID).
		Update("is_active", false).Error; err != nil {
		return err
	}
	return e.persistEvent(roomDBID, playerID, "player_left", EventPayload{
		RoomID:   int64(roomDBID),
		PlayerID: playerID,
	})
}

func (e *Engine) persistGameStart(roomID int64) error {
	if e.db == nil {
		return nil
	}
	var (
		roomDBID    uint
		contestants []int64
	)
	if _, err := e.reg.Update(roomID, func(r *Room) error {
		roomDBID = r.DBID
		for id := range r.Contestants {
			contestants = append(contestants, id)
		}
		return nil
	}); err != nil {
		return err
	}
	if err := e.db.Model(&db.Room{}).Where("id = ?", roomDBID).
		Update("phase", PhaseActive.String()).Error; err != nil {
		return err
	}
	for _, id := range contestants {
		row := db.GamePlayer{RoomID: roomDBID, PlayerID: id, IsActive: true}
		if err := e.db.Create(&row).Error; err != nil && !isUniqueViolation(err) {
			return err
		}
	}
	return e.persistEvent(roomDBID, 0, "game_started", EventPayload{
		RoomID:    int64(roomDBID),
		Occupancy: len(contestants),
	})
}

func (e *Engine) persistRoundStart(roomDBID uint, number int, questionID uint) error {
	if e.db == nil || roomDBID == 0 {
		return nil
	}
	if err := e.db.Model(&db.Room{}).Where("id = ?", roomDBID).
		Update("question_id", questionID).Error; err != nil {
		return err
	}
	if err := e.db.Model(&db.GamePlayer{}).
		Where("room_id = ? AND is_active = ?", roomDBID, true).
		Updates(map[string]interface{}{
			"answered_this_round": false,
			"last_answer_correct": nil,
		}).Error; err != nil {
		return err
	}
	return e.persistEvent(roomDBID, 0, "round_started", EventPayload{
		RoomID:     int64(roomDBID),
		Round:      number,
		QuestionID: questionID,
	})
}

func (e *Engine) persistAnswer(roomDBID uint, playerID int64, outcome Outcome, award, score int) error {
	if e.db == nil || roomDBID == 0 {
		return nil
	}
	updates := map[string]interface{}{"answered_this_round": true}
	switch outcome {
	case OutcomeBanked:
		updates["is_banked"] = true
		updates["is_active"] = false
	case OutcomeCorrect:
		updates["last_answer_correct"] = true
		updates["score"] = score
	case OutcomeWrong:
		updates["last_answer_correct"] = false
	}
	if err := e.db.Model(&db.GamePlayer{}).
		Where("room_id = ? AND player_id = ?", roomDBID, playerID).
		Updates(updates).Error; err != nil {
		return err
	}
	switch outcome {
	case OutcomeCorrect:
		if err := e.db.Model(&db.Player{}).Where("id = ?", playerID).
			Updates(map[string]interface{}{
				"score":           gorm.Expr("score + ?", award),
				"correct_answers": gorm.Expr("correct_answers + 1"),
			}).Error; err != nil {
			return err
		}
	case OutcomeWrong:
		if err := e.db.Model(&db.Player{}).Where("id = ?", playerID).
			Update("wrong_answers", gorm.Expr("wrong_answers + 1")).Error; err != nil {
			return err
		}
	}
	return e.persistEvent(roomDBID, playerID, "answer_recorded", EventPayload{
		RoomID:   int64(roomDBID),
		PlayerID: playerID,
		Outcome:  outcome.String(),
	})
}

func (e *Engine) persistSettlement(roomDBID uint, res *settlement) error {
	if e.db == nil || roomDBID == 0 {
		return nil
	}
	if len(res.Eliminated) > 0 {
		if err := e.db.Model(&db.GamePlayer{}).
			Where("room_id = ? AND player_id IN ?", roomDBID, res.Eliminated).
			Update("is_active", false).Error; err != nil {
			return err
		}
	}
	return e.persistEvent(roomDBID, 0, "round_settled", EventPayload{
		RoomID:     int64(roomDBID),
		Round:      res.Number,
		Eliminated: res.Eliminated,
	})
}

func (e *Engine) persistFinish(roomDBID uint, winner int64) error {
	if e.db == nil || roomDBID == 0 {
		return nil
	}
	if winner != 0 {
		if err := e.db.Model(&db.Player{}).Where("id = ?", winner).
			Update("wins", gorm.Expr("wins + 1")).Error; err != nil {
			return err
		}
	}
	return e.persistEvent(roomDBID, winner, "game_finished", EventPayload{
		RoomID: int64(roomDBID),
		Winner: winner,
	})
}

func (e *Engine) persistTeardown(roomDBID uint, phase Phase) error {
	if e.db == nil || roomDBID == 0 {
		return nil
	}
	if err := e.db.Model(&db.Player{}).
		Where("current_room_id = ?", roomDBID).
		Update("current_room_id", nil).Error; err != nil {
		return err
	}
	if err := e.db.Where("room_id = ?", roomDBID).
		Delete(&db.GamePlayer{}).Error; err != nil {
		return err
	}
	if err := e.db.Delete(&db.Room{}, roomDBID).Error; err != nil {
		return err
	}
	return e.persistEvent(roomDBID, 0, "room_closed", EventPayload{
		RoomID: int64(roomDBID),
		Phase:  phase.String(),
	})
}

func (e *Engine) persistEvent(roomDBID uint, playerID int64, kind string, payload EventPayload) error {
	if e.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{Type: kind, Payload: datatypes.JSON(data)}
	if roomDBID != 0 {
		id := roomDBID
		event.RoomID = &id
	}
	if playerID != 0 {
		pid := playerID
		event.PlayerID = &pid
	}
	return e.db.Create(&event).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
