package game

import (
	"reflect"
	"testing"
)

func roomWithRound(number int, contestants map[int64]*Contestant, outcomes map[int64]Outcome) *Room {
	return &Room{
		Phase:       PhaseActive,
		Contestants: contestants,
		Round: &RoundState{
			Number:   number,
			Outcomes: outcomes,
		},
	}
}

func TestSettleEliminatesAllTiedAtMinimum(t *testing.T) {
	r := roomWithRound(2,
		map[int64]*Contestant{
			1: {PlayerID: 1, Score: 100, Active: true},
			2: {PlayerID: 2, Score: 100, Active: true},
			3: {PlayerID: 3, Score: 200, Active: true},
		},
		map[int64]Outcome{1: OutcomeWrong, 2: OutcomePending, 3: OutcomeWrong},
	)
	res := settleRound(r)
	if !reflect.DeepEqual(res.Eliminated, []int64{1, 2}) {
		t.Fatalf("eliminated %v, want [1 2]", res.Eliminated)
	}
	if !reflect.DeepEqual(res.Remaining, []int64{3}) {
		t.Fatalf("remaining %v, want [3]", res.Remaining)
	}
	if !res.Finished || res.Winner != 3 {
		t.Fatalf("finished=%v winner=%d, want sole survivor 3", res.Finished, res.Winner)
	}
}

func TestSettleAllCorrectEliminatesNobody(t *testing.T) {
	r := roomWithRound(1,
		map[int64]*Contestant{
			1: {PlayerID: 1, Score: 100, Active: true},
			2: {PlayerID: 2, Score: 100, Active: true},
		},
		map[int64]Outcome{1: OutcomeCorrect, 2: OutcomeCorrect},
	)
	res := settleRound(r)
	if len(res.Eliminated) != 0 {
		t.Fatalf("eliminated %v, want none when everyone is correct", res.Eliminated)
	}
	if res.Finished {
		t.Fatal("game marked finished with two survivors")
	}
}

func TestSettleCorrectAnswerSurvivesMinimumScore(t *testing.T) {
	r := roomWithRound(3,
		map[int64]*Contestant{
			1: {PlayerID: 1, Score: 100, Active: true},
			2: {PlayerID: 2, Score: 100, Active: true},
			3: {PlayerID: 3, Score: 300, Active: true},
		},
		map[int64]Outcome{1: OutcomeCorrect, 2: OutcomeWrong, 3: OutcomeCorrect},
	)
	res := settleRound(r)
	if !reflect.DeepEqual(res.Eliminated, []int64{2}) {
		t.Fatalf("eliminated %v, want only the wrong answer at minimum", res.Eliminated)
	}
}

func TestSettleBankedExcludedFromElimination(t *testing.T) {
	r := roomWithRound(2,
		map[int64]*Contestant{
			1: {PlayerID: 1, Score: 0, Active: false, Banked: true},
			2: {PlayerID: 2, Score: 100, Active: true},
			3: {PlayerID: 3, Score: 200, Active: true},
		},
		map[int64]Outcome{1: OutcomeBanked, 2: OutcomeWrong, 3: OutcomeWrong},
	)
	res := settleRound(r)
	if !reflect.DeepEqual(res.Banked, []int64{1}) {
		t.Fatalf("banked %v, want [1]", res.Banked)
	}
	// The banked player holds the lowest score but is out of contention;
	// the minimum is taken over the remaining contenders only.
	if !reflect.DeepEqual(res.Eliminated, []int64{2}) {
		t.Fatalf("eliminated %v, want [2]", res.Eliminated)
	}
	if !res.Finished || res.Winner != 3 {
		t.Fatalf("finished=%v winner=%d, want 3", res.Finished, res.Winner)
	}
}

func TestSettleNoSurvivorsNoWinner(t *testing.T) {
	r := roomWithRound(1,
		map[int64]*Contestant{
			1: {PlayerID: 1, Score: 0, Active: true},
			2: {PlayerID: 2, Score: 0, Active: true},
		},
		map[int64]Outcome{1: OutcomeWrong, 2: OutcomePending},
	)
	res := settleRound(r)
	if !reflect.DeepEqual(res.Eliminated, []int64{1, 2}) {
		t.Fatalf("eliminated %v, want both", res.Eliminated)
	}
	if !res.Finished || res.Winner != 0 {
		t.Fatalf("finished=%v winner=%d, want finished with no winner", res.Finished, res.Winner)
	}
}

func TestSettleEveryoneBankedEndsGame(t *testing.T) {
	r := roomWithRound(4,
		map[int64]*Contestant{
			1: {PlayerID: 1, Score: 100, Active: false, Banked: true},
			2: {PlayerID: 2, Score: 200, Active: false, Banked: true},
		},
		map[int64]Outcome{1: OutcomeBanked, 2: OutcomeBanked},
	)
	res := settleRound(r)
	if len(res.Eliminated) != 0 {
		t.Fatalf("eliminated %v, want none", res.Eliminated)
	}
	if !res.Finished || res.Winner != 0 {
		t.Fatalf("finished=%v winner=%d, want finished with no winner", res.Finished, res.Winner)
	}
}

func TestRoundComplete(t *testing.T) {
	r := roomWithRound(1, nil, map[int64]Outcome{1: OutcomeCorrect, 2: OutcomePending})
	if roundComplete(r) {
		t.Fatal("round reported complete with a pending answer")
	}
	r.Round.Outcomes[2] = OutcomeBanked
	if !roundComplete(r) {
		t.Fatal("round not complete after every outcome resolved")
	}
	if roundComplete(&Room{}) {
		t.Fatal("room without a round reported complete")
	}
}
