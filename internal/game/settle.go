package game

import (
	"math"
	"sort"
)

// settlement is the immutable result of closing one round, captured while
// the registry lock is held so messaging can happen outside it.
type settlement struct {
	Number     int
	Outcomes   map[int64]Outcome
	Scores     map[int64]int
	Eliminated []int64
	Banked     []int64
	Remaining  []int64
	Winner     int64
	Finished   bool
}

// settleRound applies the elimination rule to the current round and mutates
// contestant flags in place. Banked players never count as contenders; a
// missed answer counts the same as a wrong one. When every contender is
// correct nobody is eliminated. Ties at the minimum score all go out
// together, even if that empties the room.
func settleRound(r *Room) *settlement {
	round := r.Round
	res := &settlement{
		Number:   round.Number,
		Outcomes: make(map[int64]Outcome, len(round.Outcomes)),
		Scores:   make(map[int64]int, len(round.Outcomes)),
	}
	var contenders []int64
	allCorrect := true
	for id, out := range round.Outcomes {
		res.Outcomes[id] = out
		if c := r.Contestants[id]; c != nil {
			res.Scores[id] = c.Score
		}
		if out == OutcomeBanked {
			res.Banked = append(res.Banked, id)
			continue
		}
		contenders = append(contenders, id)
		if out != OutcomeCorrect {
			allCorrect = false
		}
	}
	if len(contenders) > 0 && !allCorrect {
		min := math.MaxInt
		for _, id := range contenders {
			if c := r.Contestants[id]; c != nil && c.Score < min {
				min = c.Score
			}
		}
		for _, id := range contenders {
			c := r.Contestants[id]
			if c == nil || c.Score != min {
				continue
			}
			if round.Outcomes[id] == OutcomeCorrect {
				continue
			}
			c.Active = false
			res.Eliminated = append(res.Eliminated, id)
		}
	}
	for id, c := range r.Contestants {
		if c.Active && !c.Banked {
			res.Remaining = append(res.Remaining, id)
		}
	}
	sort.Slice(res.Eliminated, func(i, j int) bool { return res.Eliminated[i] < res.Eliminated[j] })
	sort.Slice(res.Banked, func(i, j int) bool { return res.Banked[i] < res.Banked[j] })
	sort.Slice(res.Remaining, func(i, j int) bool { return res.Remaining[i] < res.Remaining[j] })
	switch len(res.Remaining) {
	case 1:
		res.Winner = res.Remaining[0]
		res.Finished = true
	case 0:
		res.Finished = true
	}
	return res
}

// roundComplete reports whether every participant of the open round has a
// non-pending outcome.
func roundComplete(r *Room) bool {
	if r.Round == nil {
		return false
	}
	for _, out := range r.Round.Outcomes {
		if out == OutcomePending {
			return false
		}
	}
	return true
}

func activeContestants(r *Room) []int64 {
	var ids []int64
	for id, c := range r.Contestants {
		if c.Active && !c.Banked {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// finalSettlement builds the terminal result for a game cut short by
// departures rather than by a settled round.
func finalSettlement(r *Room, remaining []int64) *settlement {
	res := &settlement{
		Outcomes:  make(map[int64]Outcome),
		Scores:    make(map[int64]int),
		Remaining: remaining,
		Finished:  true,
	}
	if r.Round != nil {
		res.Number = r.Round.Number
	}
	for id, c := range r.Contestants {
		res.Scores[id] = c.Score
	}
	if len(remaining) == 1 {
		res.Winner = remaining[0]
	}
	return res
}
