package game

import (
	"math/rand"
	"slices"

	"quiz-royale/internal/db"
)

// fallbackQuestions keeps a database-less engine playable. The ids sit far
// above anything the store would assign so the two ranges never collide.
var fallbackQuestions = []Question{
	{ID: 1000001, Prompt: "What is the capital of France?", Correct: "Paris", Wrong: []string{"Lyon", "Marseille", "Nice"}},
	{ID: 1000002, Prompt: "Which planet is known as the Red Planet?", Correct: "Mars", Wrong: []string{"Venus", "Jupiter", "Mercury"}},
	{ID: 1000003, Prompt: "How many continents are there on Earth?", Correct: "7", Wrong: []string{"5", "6", "8"}},
	{ID: 1000004, Prompt: "What is the largest ocean?", Correct: "Pacific", Wrong: []string{"Atlantic", "Indian", "Arctic"}},
	{ID: 1000005, Prompt: "Which element has the symbol O?", Correct: "Oxygen", Wrong: []string{"Gold", "Osmium", "Oganesson"}},
	{ID: 1000006, Prompt: "In which year did the first human land on the Moon?", Correct: "1969", Wrong: []string{"1965", "1971", "1958"}},
	{ID: 1000007, Prompt: "What is the longest river in the world?", Correct: "Nile", Wrong: []string{"Amazon", "Yangtze", "Mississippi"}},
	{ID: 1000008, Prompt: "Which language has the most native speakers?", Correct: "Mandarin Chinese", Wrong: []string{"English", "Spanish", "Hindi"}},
}

// randomQuestion picks a question not yet used in this session. When every
// question has been seen the exclusion is dropped; repeats beat stalling
// the game.
func (e *Engine) randomQuestion(used map[uint]struct{}) (Question, error) {
	if e.db == nil {
		candidates := make([]Question, 0, len(fallbackQuestions))
		for _, q := range fallbackQuestions {
			if _, seen := used[q.ID]; !seen {
				candidates = append(candidates, q)
			}
		}
		if len(candidates) == 0 {
			candidates = fallbackQuestions
		}
		return candidates[rand.Intn(len(candidates))], nil
	}
	exclude := make([]uint, 0, len(used))
	for id := range used {
		exclude = append(exclude, id)
	}
	record, err := db.RandomQuestion(e.db, exclude)
	if err != nil {
		return Question{}, err
	}
	return Question{
		ID:      record.ID,
		Prompt:  record.Prompt,
		Correct: record.CorrectAnswer,
		Wrong:   record.Alternatives(),
	}, nil
}

// shuffleChoices merges the correct answer into the alternatives, dropping
// duplicates in favour of the correct entry, and randomizes the order. A
// shuffle that lands back on the stored order is nudged so the correct
// answer does not always lead the keyboard.
func shuffleChoices(correct string, wrong []string) []string {
	choices := make([]string, 0, len(wrong)+1)
	choices = append(choices, correct)
	seen := map[string]struct{}{correct: {}}
	for _, w := range wrong {
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		choices = append(choices, w)
	}
	stored := append([]string(nil), choices...)
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	if len(choices) > 1 && slices.Equal(choices, stored) {
		choices[0], choices[1] = choices[1], choices[0]
	}
	return choices
}
