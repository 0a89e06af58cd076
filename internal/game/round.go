package game

import (
	"fmt"
	"log"
	"sort"
)

// startRound opens one question cycle: pick an unused question, reset every
// remaining contestant to pending, broadcast the shuffled answers and arm
// the answer window.
func (e *Engine) startRound(roomID int64, number int) {
	var (
		question Question
		have     bool
		used     map[uint]struct{}
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if r.Phase != PhaseActive {
			return errStaleRound
		}
		if r.NextQuestion.Prompt != "" {
			question = r.NextQuestion
			r.NextQuestion = Question{}
			have = true
			return nil
		}
		used = make(map[uint]struct{}, len(r.UsedQuestions))
		for id := range r.UsedQuestions {
			used[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return
	}
	if !have {
		// Question selection hits the store and may take a while; room
		// state is re-validated below before the round is installed.
		question, err = e.randomQuestion(used)
		if err != nil {
			log.Printf("question select failed room_id=%d error=%v", roomID, err)
			e.teardown(roomID, PhaseDissolved)
			return
		}
	}
	choices := shuffleChoices(question.Correct, question.Wrong)
	var (
		participants []int64
		roomDBID     uint
	)
	_, err = e.reg.Update(roomID, func(r *Room) error {
		if r.Phase != PhaseActive {
			return errStaleRound
		}
		roomDBID = r.DBID
		r.QuestionID = question.ID
		r.UsedQuestions[question.ID] = struct{}{}
		r.Round = &RoundState{
			Number:     number,
			QuestionID: question.ID,
			Prompt:     question.Prompt,
			Correct:    question.Correct,
			Choices:    choices,
			Outcomes:   make(map[int64]Outcome),
			Msgs:       make(map[int64]MessageRef),
		}
		for id, c := range r.Contestants {
			if c.Active && !c.Banked {
				r.Round.Outcomes[id] = OutcomePending
				participants = append(participants, id)
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	if len(participants) == 0 {
		e.closeRound(roomID, number)
		return
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i] < participants[j] })

	text := fmt.Sprintf("Round %d\n\n%s", number, question.Prompt)
	opts := SendOptions{Choices: choices, OfferBank: true}
	refs := make(map[int64]MessageRef, len(participants))
	for _, id := range participants {
		if ref, ok := e.send(id, text, opts); ok {
			refs[id] = ref
		}
	}
	e.reg.Update(roomID, func(r *Room) error {
		if r.Round == nil || r.Round.Number != number {
			return nil
		}
		for id, ref := range refs {
			r.Round.Msgs[id] = ref
		}
		return nil
	})
	if err := e.persistRoundStart(roomDBID, number, question.ID); err != nil {
		log.Printf("round start persist failed room_id=%d round=%d error=%v", roomID, number, err)
	}
	e.scheduleTimer(roomID, e.cfg.AnswerWindow, func() {
		e.closeRound(roomID, number)
	})
}

// SubmitAnswer records a player's choice for the current round. Repeats,
// late answers and choices that are not on the keyboard are silent no-ops;
// only a player outside any room gets a rejection.
func (e *Engine) SubmitAnswer(playerID int64, choice string) error {
	roomID, ok := e.reg.RoomOf(playerID)
	if !ok {
		return ErrNotInRoom
	}
	var (
		recorded bool
		outcome  Outcome
		award    int
		score    int
		number   int
		complete bool
		roomDBID uint
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		roomDBID = r.DBID
		if r.Phase != PhaseActive || r.Round == nil || r.Round.Closed {
			return nil
		}
		c := r.Contestants[playerID]
		if c == nil || !c.Active || c.Banked {
			return nil
		}
		if current, in := r.Round.Outcomes[playerID]; !in || current != OutcomePending {
			return nil
		}
		switch {
		case choice == BankChoice:
			outcome = OutcomeBanked
			c.Banked = true
			c.Active = false
		case containsChoice(r.Round.Choices, choice):
			if choice == r.Round.Correct {
				outcome = OutcomeCorrect
				award = e.cfg.CorrectAward
				c.Score += award
			} else {
				outcome = OutcomeWrong
			}
		default:
			return nil
		}
		r.Round.Outcomes[playerID] = outcome
		recorded = true
		score = c.Score
		number = r.Round.Number
		complete = roundComplete(r)
		return nil
	})
	if err != nil {
		return ErrNotInRoom
	}
	if !recorded {
		return nil
	}
	if err := e.persistAnswer(roomDBID, playerID, outcome, award, score); err != nil {
		log.Printf("answer persist failed room_id=%d player_id=%d error=%v", roomID, playerID, err)
	}
	if complete {
		e.closeRound(roomID, number)
	}
	return nil
}

// Bank cashes the player out: their score is safe and they sit out every
// remaining round.
func (e *Engine) Bank(playerID int64) error {
	return e.SubmitAnswer(playerID, BankChoice)
}

// closeRound settles the round exactly once. Both the completion check and
// the window timer funnel through here; whoever loses the race hits the
// closed guard and backs off.
func (e *Engine) closeRound(roomID int64, number int) {
	var (
		res  *settlement
		dbID uint
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		if r.Phase != PhaseActive || r.Round == nil || r.Round.Number != number || r.Round.Closed {
			return errStaleRound
		}
		dbID = r.DBID
		r.Round.Closed = true
		res = settleRound(r)
		return nil
	})
	if err != nil {
		return
	}
	e.cancelTimer(roomID)
	e.notifyRoundResult(res)
	if err := e.persistSettlement(dbID, res); err != nil {
		log.Printf("settlement persist failed room_id=%d round=%d error=%v", roomID, number, err)
	}
	if res.Finished {
		e.finishGame(roomID, res)
		return
	}
	e.scheduleTimer(roomID, e.cfg.RoundPause, func() {
		e.startRound(roomID, number+1)
	})
}

func (e *Engine) notifyRoundResult(res *settlement) {
	eliminated := make(map[int64]struct{}, len(res.Eliminated))
	for _, id := range res.Eliminated {
		eliminated[id] = struct{}{}
	}
	for id, out := range res.Outcomes {
		var text string
		switch out {
		case OutcomeCorrect:
			text = fmt.Sprintf("✅ Correct! +%d points.", e.cfg.CorrectAward)
		case OutcomeWrong:
			text = "❌ Wrong answer."
		case OutcomeBanked:
			text = fmt.Sprintf("💰 You banked %d points and left the game.", res.Scores[id])
			e.send(id, text, SendOptions{})
			continue
		default:
			text = "⏳ Time is up, no answer counted."
		}
		if _, gone := eliminated[id]; gone {
			text += "\nYou had the lowest score this round. You are eliminated."
		} else if !res.Finished {
			text += "\nNext round is coming up..."
		}
		e.send(id, text, SendOptions{})
	}
}

func (e *Engine) finishGame(roomID int64, res *settlement) {
	var (
		recipients []int64
		dbID       uint
	)
	_, err := e.reg.Update(roomID, func(r *Room) error {
		dbID = r.DBID
		recipients = r.Occupants()
		return nil
	})
	if err != nil {
		return
	}
	if err := e.persistFinish(dbID, res.Winner); err != nil {
		log.Printf("finish persist failed room_id=%d error=%v", roomID, err)
	}
	for _, id := range recipients {
		switch {
		case id == res.Winner:
			e.send(id, "🏆 You are the last one standing. You win!", SendOptions{})
		case res.Winner != 0:
			e.send(id, "Game over. Another player took the win.", SendOptions{})
		default:
			e.send(id, "Game over. Everyone is out, no winner this time.", SendOptions{})
		}
	}
	log.Printf("game finished room_id=%d winner=%d", roomID, res.Winner)
	e.teardown(roomID, PhaseDissolved)
}

func containsChoice(choices []string, choice string) bool {
	for _, c := range choices {
		if c == choice {
			return true
		}
	}
	return false
}
