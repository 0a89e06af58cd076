package game

import (
	"strings"
	"sync"
	"testing"
	"time"

	"quiz-royale/internal/config"
)

type sentMessage struct {
	PlayerID int64
	Text     string
	Opts     SendOptions
}

// fakeMessenger records deliveries so tests can assert on what each player
// was told.
type fakeMessenger struct {
	mu     sync.Mutex
	sends  []sentMessage
	edits  []sentMessage
	nextID int
}

func (m *fakeMessenger) Send(playerID int64, text string, opts SendOptions) (MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sends = append(m.sends, sentMessage{PlayerID: playerID, Text: text, Opts: opts})
	return MessageRef{PlayerID: playerID, ChatID: playerID, MessageID: m.nextID}, nil
}

func (m *fakeMessenger) Edit(ref MessageRef, text string, opts SendOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, sentMessage{PlayerID: ref.PlayerID, Text: text, Opts: opts})
	return nil
}

func (m *fakeMessenger) Ack(callbackID, text string) error { return nil }

func (m *fakeMessenger) sentTo(playerID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.sends {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMessenger) received(playerID int64, fragment string) bool {
	for _, s := range m.sentTo(playerID) {
		if strings.Contains(s.Text, fragment) {
			return true
		}
	}
	return false
}

// newTestEngine returns a database-less engine whose timers and lobby poll
// are parked far in the future, so tests drive ticks and round closes
// explicitly.
func newTestEngine() (*Engine, *fakeMessenger) {
	cfg := config.Default()
	cfg.LobbyPoll = time.Hour
	cfg.AnswerWindow = time.Hour
	cfg.RoundPause = time.Hour
	msg := &fakeMessenger{}
	return New(nil, msg, cfg), msg
}

// newTickingEngine is newTestEngine with a live lobby poll, for tests that
// need the watcher goroutine actually running.
func newTickingEngine(poll time.Duration) (*Engine, *fakeMessenger) {
	cfg := config.Default()
	cfg.LobbyPoll = poll
	cfg.LobbyGrace = time.Hour
	cfg.ReadyCountdown = time.Hour
	cfg.AnswerWindow = time.Hour
	cfg.RoundPause = time.Hour
	msg := &fakeMessenger{}
	return New(nil, msg, cfg), msg
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// backdate moves the lobby anchors into the past so grace and countdown
// deadlines read as elapsed on the next tick.
func backdate(e *Engine, roomID int64, createdAgo, readyAgo time.Duration) {
	e.reg.Update(roomID, func(r *Room) error {
		if createdAgo > 0 {
			r.CreatedAt = time.Now().UTC().Add(-createdAgo)
		}
		if readyAgo > 0 && !r.ReadyAt.IsZero() {
			r.ReadyAt = time.Now().UTC().Add(-readyAgo)
		}
		return nil
	})
}

// wrongChoice picks any rendered choice that is not the correct answer.
func wrongChoice(e *Engine, roomID int64) string {
	room, _ := e.reg.Get(roomID)
	if room == nil || room.Round == nil {
		return ""
	}
	for _, c := range room.Round.Choices {
		if c != room.Round.Correct {
			return c
		}
	}
	return ""
}

func correctChoice(e *Engine, roomID int64) string {
	room, _ := e.reg.Get(roomID)
	if room == nil || room.Round == nil {
		return ""
	}
	return room.Round.Correct
}

// startedGame seats the given players in a private room owned by the first
// and forces the game to start.
func startedGame(e *Engine, players ...int64) (int64, error) {
	room, err := e.CreatePrivateRoom(players[0])
	if err != nil {
		return 0, err
	}
	for _, id := range players[1:] {
		if _, err := e.JoinRoom(id, room.ID); err != nil {
			return 0, err
		}
	}
	e.startGame(room.ID)
	return room.ID, nil
}
