package game

import (
	"runtime"
	"testing"
	"time"
)

func phaseOf(t *testing.T, e *Engine, roomID int64) Phase {
	t.Helper()
	room, ok := e.reg.Get(roomID)
	if !ok {
		t.Fatalf("room %d not found", roomID)
	}
	return room.Phase
}

func TestLobbyTickKeepsYoungRoomWaiting(t *testing.T) {
	e, _ := newTestEngine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if done := e.lobbyTick(room.ID); done {
		t.Fatal("tick retired a fresh lobby")
	}
	if got := phaseOf(t, e, room.ID); got != PhaseWaiting {
		t.Fatalf("phase %s, want waiting", got)
	}
}

func TestLobbyForceStartsLonePlayerAtGrace(t *testing.T) {
	e, msg := newTestEngine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	backdate(e, room.ID, e.cfg.LobbyGrace+time.Second, 0)
	if done := e.lobbyTick(room.ID); !done {
		t.Fatal("tick did not act on an elapsed grace period")
	}
	if got := phaseOf(t, e, room.ID); got != PhaseActive {
		t.Fatalf("phase %s, want active", got)
	}
	if !msg.received(1, "Round 1") {
		t.Fatal("lone player never got the first question")
	}
}

func TestLobbyCountdownArmsAtTwoPlayers(t *testing.T) {
	e, _ := newTestEngine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	e.lobbyTick(room.ID)
	if _, err := e.JoinRoom(2, room.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	e.lobbyTick(room.ID)
	got, _ := e.reg.Get(room.ID)
	if got.ReadyAt.IsZero() {
		t.Fatal("countdown not armed at two players")
	}
	if got.Phase != PhaseReady {
		t.Fatalf("phase %s, want ready", got.Phase)
	}
}

func TestLobbyCountdownResetsWhenOccupancyDrops(t *testing.T) {
	e, _ := newTestEngine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	e.JoinRoom(2, room.ID)
	e.lobbyTick(room.ID)
	if err := e.LeaveRoom(2); err != nil {
		t.Fatalf("leave: %v", err)
	}
	e.lobbyTick(room.ID)
	got, _ := e.reg.Get(room.ID)
	if !got.ReadyAt.IsZero() {
		t.Fatal("countdown survived the drop below two players")
	}
	if got.Phase != PhaseWaiting {
		t.Fatalf("phase %s, want waiting", got.Phase)
	}
}

func TestLobbyStartsWhenCountdownElapses(t *testing.T) {
	e, _ := newTestEngine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	e.JoinRoom(2, room.ID)
	e.lobbyTick(room.ID)
	backdate(e, room.ID, 0, e.cfg.ReadyCountdown+time.Second)
	if done := e.lobbyTick(room.ID); !done {
		t.Fatal("tick ignored an elapsed countdown")
	}
	if got := phaseOf(t, e, room.ID); got != PhaseActive {
		t.Fatalf("phase %s, want active", got)
	}
}

func TestLobbyStartsImmediatelyAtCapacity(t *testing.T) {
	e, _ := newTestEngine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, id := range []int64{2, 3, 4} {
		if _, err := e.JoinRoom(id, room.ID); err != nil {
			t.Fatalf("join %d: %v", id, err)
		}
	}
	if done := e.lobbyTick(room.ID); !done {
		t.Fatal("tick did not start a full room")
	}
	got, _ := e.reg.Get(room.ID)
	if got.Phase != PhaseActive {
		t.Fatalf("phase %s, want active", got.Phase)
	}
	if len(got.Contestants) != Capacity {
		t.Fatalf("contestants %d, want %d", len(got.Contestants), Capacity)
	}
}

func TestLobbyExpiresNeverOccupiedRoom(t *testing.T) {
	e, _ := newTestEngine()
	room, err := e.reg.Create(VisibilityPublic, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	backdate(e, room.ID, e.cfg.LobbyGrace+time.Second, 0)
	if done := e.lobbyTick(room.ID); !done {
		t.Fatal("tick kept an expired empty room")
	}
	if _, ok := e.reg.Get(room.ID); ok {
		t.Fatal("expired room still registered")
	}
}

func TestLobbyWatcherStopsWhenGameStarts(t *testing.T) {
	e, _ := newTickingEngine(2 * time.Millisecond)
	base := runtime.NumGoroutine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, id := range []int64{2, 3, 4} {
		if _, err := e.JoinRoom(id, room.ID); err != nil {
			t.Fatalf("join %d: %v", id, err)
		}
	}
	// A full room starts on the next tick.
	waitFor(t, time.Second, "the game to start", func() bool {
		var active bool
		e.reg.Update(room.ID, func(r *Room) error {
			active = r.Phase == PhaseActive
			return nil
		})
		return active
	})
	var armed bool
	e.reg.Update(room.ID, func(r *Room) error {
		armed = r.cancelWatch != nil
		return nil
	})
	if armed {
		t.Fatal("watcher cancel func still armed after the game started")
	}
	waitFor(t, time.Second, "the watcher goroutine to exit", func() bool {
		return runtime.NumGoroutine() <= base
	})
}

func TestLobbyWatcherStopsWhenRoomDissolves(t *testing.T) {
	e, _ := newTickingEngine(2 * time.Millisecond)
	base := runtime.NumGoroutine()
	room, err := e.CreatePrivateRoom(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.LeaveRoom(1); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, ok := e.reg.Get(room.ID); ok {
		t.Fatal("room still registered after its last player left")
	}
	waitFor(t, time.Second, "the watcher goroutine to exit", func() bool {
		return runtime.NumGoroutine() <= base
	})
}

func TestStartGameFreezesRoster(t *testing.T) {
	e, msg := newTestEngine()
	roomID, err := startedGame(e, 1, 2)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	room, _ := e.reg.Get(roomID)
	for _, id := range []int64{1, 2} {
		c := room.Contestants[id]
		if c == nil || !c.Active || c.Score != 0 {
			t.Fatalf("contestant %d not initialized: %+v", id, c)
		}
	}
	if _, _, err := e.reg.Join(3, roomID); err == nil {
		t.Fatal("join accepted after the game started")
	}
	if !msg.received(1, "Round 1") || !msg.received(2, "Round 1") {
		t.Fatal("contestants never got the first question")
	}
}
