package game

import (
	"context"
	"time"
)

// Capacity is the fixed number of player slots per room.
const Capacity = 4

// BankChoice is the reserved answer that cashes a player out of the game.
const BankChoice = "bank"

type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

func (v Visibility) String() string {
	if v == VisibilityPublic {
		return "public"
	}
	return "private"
}

// Room is the in-memory session container. All mutation goes through
// Registry.Update so multi-step sequences stay serialized.
type Room struct {
	ID            int64
	DBID          uint
	Visibility    Visibility
	Phase         Phase
	CreatedAt     time.Time
	ReadyAt       time.Time // countdown anchor; zero while occupancy is below two
	Slots         [Capacity]int64
	QuestionID    uint
	NextQuestion  Question // pre-assigned for the first round
	UsedQuestions map[uint]struct{}
	StatusMsgs    map[int64]MessageRef
	Contestants   map[int64]*Contestant
	Round         *RoundState

	everJoined  bool
	shownCount  int // occupancy last rendered on the status messages
	cancelWatch context.CancelFunc
}

func (r *Room) Occupancy() int {
	count := 0
	for _, id := range r.Slots {
		if id != 0 {
			count++
		}
	}
	return count
}

// Occupants returns the occupant ids in slot order.
func (r *Room) Occupants() []int64 {
	out := make([]int64, 0, Capacity)
	for _, id := range r.Slots {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

func (r *Room) HasOccupant(playerID int64) bool {
	for _, id := range r.Slots {
		if id == playerID {
			return true
		}
	}
	return false
}

// Contestant is the per-game state of one player. Eliminated players stay in
// the map with Active=false so the final summary can name them.
type Contestant struct {
	PlayerID int64
	Score    int
	Active   bool
	Banked   bool
}

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCorrect
	OutcomeWrong
	OutcomeBanked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeWrong:
		return "wrong"
	case OutcomeBanked:
		return "banked"
	default:
		return "pending"
	}
}

// RoundState is the in-memory state of one question cycle. It is never
// persisted; the durable mirror lives in the game_players rows.
type RoundState struct {
	Number     int
	QuestionID uint
	Prompt     string
	Correct    string
	Choices    []string
	Outcomes   map[int64]Outcome
	Closed     bool
	Msgs       map[int64]MessageRef
}

type Question struct {
	ID      uint
	Prompt  string
	Correct string
	Wrong   []string
}

type RoomSummary struct {
	ID         int64
	Visibility string
	Phase      string
	Occupancy  int
	Round      int
}
