package game

import "fmt"

type Phase int

const (
	PhaseCreated Phase = iota
	PhaseWaiting
	PhaseReady
	PhaseActive
	PhaseDissolved
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseWaiting:
		return "waiting"
	case PhaseReady:
		return "ready"
	case PhaseActive:
		return "active"
	case PhaseDissolved:
		return "dissolved"
	case PhaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func (p Phase) Terminal() bool {
	return p == PhaseDissolved || p == PhaseExpired
}

// Lobby reports whether the room still accepts joins.
func (p Phase) Lobby() bool {
	return p == PhaseCreated || p == PhaseWaiting || p == PhaseReady
}

var phaseTransitions = map[Phase][]Phase{
	PhaseCreated: {PhaseWaiting, PhaseReady, PhaseActive, PhaseDissolved, PhaseExpired},
	PhaseWaiting: {PhaseReady, PhaseActive, PhaseDissolved, PhaseExpired},
	PhaseReady:   {PhaseWaiting, PhaseActive, PhaseDissolved},
	PhaseActive:  {PhaseDissolved},
}

// transition is the single authoritative state change for a room.
func (r *Room) transition(to Phase) error {
	if r.Phase == to {
		return nil
	}
	for _, allowed := range phaseTransitions[r.Phase] {
		if allowed == to {
			r.Phase = to
			return nil
		}
	}
	return fmt.Errorf("illegal room transition %s -> %s", r.Phase, to)
}
