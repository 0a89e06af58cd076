package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Player is the durable profile keyed by the Telegram user id. Rows are
// created on first contact and never deleted.
type Player struct {
	ID             int64 `gorm:"primaryKey;autoIncrement:false"`
	Score          int   `gorm:"not null;default:0"`
	CorrectAnswers int   `gorm:"not null;default:0"`
	WrongAnswers   int   `gorm:"not null;default:0"`
	Wins           int   `gorm:"not null;default:0"`
	CurrentRoomID  *uint `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Question struct {
	ID            uint           `gorm:"primaryKey"`
	Prompt        string         `gorm:"size:512;not null"`
	CorrectAnswer string         `gorm:"size:256;not null"`
	WrongAnswers  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Alternatives decodes the stored wrong-answer set. A malformed payload
// yields an empty slice rather than an error; the round engine treats a
// question without alternatives as unusable.
func (q *Question) Alternatives() []string {
	var out []string
	if err := json.Unmarshal(q.WrongAnswers, &out); err != nil {
		return nil
	}
	return out
}

func (q *Question) SetAlternatives(alts []string) error {
	data, err := json.Marshal(alts)
	if err != nil {
		return err
	}
	q.WrongAnswers = datatypes.JSON(data)
	return nil
}

// Room keeps the four ordered player slots as columns, matching the fixed
// capacity of the lobby.
type Room struct {
	ID         uint   `gorm:"primaryKey"`
	Player1ID  *int64 `gorm:"index"`
	Player2ID  *int64
	Player3ID  *int64
	Player4ID  *int64
	QuestionID uint   `gorm:"index;not null"`
	IsPrivate  bool   `gorm:"not null;default:false"`
	Phase      string `gorm:"size:16;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GamePlayer is the per-game state of one contestant. Rows exist only while
// the owning room does.
type GamePlayer struct {
	ID                uint  `gorm:"primaryKey"`
	RoomID            uint  `gorm:"index;not null;uniqueIndex:idx_game_players_room_player"`
	PlayerID          int64 `gorm:"index;not null;uniqueIndex:idx_game_players_room_player"`
	Score             int   `gorm:"not null;default:0"`
	IsActive          bool  `gorm:"not null;default:true"`
	IsBanked          bool  `gorm:"not null;default:false"`
	LastAnswerCorrect *bool
	AnsweredThisRound bool `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    *uint          `gorm:"index"`
	PlayerID  *int64         `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}
