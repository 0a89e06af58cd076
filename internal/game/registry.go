package game

import (
	"sort"
	"sync"
	"time"
)

// Registry holds every live room and the player->room index that enforces
// "a player belongs to at most one room". One mutex serializes all room
// mutation; check-then-write sequences run inside Update closures so two
// concurrent joins can never both claim the same slot.
type Registry struct {
	mu       sync.Mutex
	nextID   int64
	rooms    map[int64]*Room
	byPlayer map[int64]int64
}

func NewRegistry() *Registry {
	return &Registry{
		nextID:   1,
		rooms:    make(map[int64]*Room),
		byPlayer: make(map[int64]int64),
	}
}

// Create allocates a room. ownerID zero creates an unoccupied room (the
// public matchmaking path); otherwise the owner takes slot one.
func (g *Registry) Create(visibility Visibility, ownerID int64) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ownerID != 0 {
		if _, taken := g.byPlayer[ownerID]; taken {
			return nil, ErrAlreadyInRoom
		}
	}
	room := &Room{
		ID:            g.nextID,
		Visibility:    visibility,
		Phase:         PhaseCreated,
		CreatedAt:     time.Now().UTC(),
		UsedQuestions: make(map[uint]struct{}),
		StatusMsgs:    make(map[int64]MessageRef),
	}
	g.nextID++
	if ownerID != 0 {
		room.Slots[0] = ownerID
		room.everJoined = true
		g.byPlayer[ownerID] = room.ID
	}
	g.rooms[room.ID] = room
	return room, nil
}

func (g *Registry) Get(id int64) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	return room, ok
}

// Update runs fn on the room under the registry lock. A non-nil error from
// fn aborts the update and is returned as-is.
func (g *Registry) Update(id int64, fn func(*Room) error) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := fn(room); err != nil {
		return nil, err
	}
	return room, nil
}

// Join validates and assigns the lowest-numbered free slot atomically.
func (g *Registry) Join(playerID, roomID int64) (*Room, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.byPlayer[playerID]; taken {
		return nil, 0, ErrAlreadyInRoom
	}
	room, ok := g.rooms[roomID]
	if !ok || room.Phase.Terminal() {
		return nil, 0, ErrRoomNotFound
	}
	if !room.Phase.Lobby() {
		return nil, 0, ErrGameStarted
	}
	for i := range room.Slots {
		if room.Slots[i] == 0 {
			room.Slots[i] = playerID
			room.everJoined = true
			g.byPlayer[playerID] = roomID
			return room, i, nil
		}
	}
	return nil, 0, ErrRoomFull
}

// Leave clears the player's slot and index entry. Dissolving an emptied
// room is the caller's decision.
func (g *Registry) Leave(playerID int64) (*Room, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	roomID, ok := g.byPlayer[playerID]
	if !ok {
		return nil, 0, ErrNotInRoom
	}
	delete(g.byPlayer, playerID)
	room, ok := g.rooms[roomID]
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	for i := range room.Slots {
		if room.Slots[i] == playerID {
			room.Slots[i] = 0
			return room, i, nil
		}
	}
	return room, 0, ErrNotInRoom
}

func (g *Registry) RoomOf(playerID int64) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.byPlayer[playerID]
	return id, ok
}

// FindOpenPublic returns any public lobby with a free slot. The first match
// wins; iteration order is not deterministic and not guaranteed stable.
func (g *Registry) FindOpenPublic() (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, room := range g.rooms {
		if room.Visibility != VisibilityPublic || !room.Phase.Lobby() {
			continue
		}
		if room.Occupancy() < Capacity {
			return id, true
		}
	}
	return 0, false
}

// Remove deletes the room and any index entries still pointing at it.
func (g *Registry) Remove(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		return
	}
	for _, playerID := range room.Slots {
		if playerID != 0 && g.byPlayer[playerID] == id {
			delete(g.byPlayer, playerID)
		}
	}
	delete(g.rooms, id)
}

// Rename re-keys a room after the store assigned its durable id, keeping
// the in-memory id players join by equal to the row id.
func (g *Registry) Rename(id, newID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id == newID {
		return
	}
	room, ok := g.rooms[id]
	if !ok {
		return
	}
	delete(g.rooms, id)
	room.ID = newID
	g.rooms[newID] = room
	for _, playerID := range room.Slots {
		if playerID != 0 {
			g.byPlayer[playerID] = newID
		}
	}
	if newID >= g.nextID {
		g.nextID = newID + 1
	}
}

func (g *Registry) Snapshot() []RoomSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	list := make([]RoomSummary, 0, len(g.rooms))
	for _, room := range g.rooms {
		summary := RoomSummary{
			ID:         room.ID,
			Visibility: room.Visibility.String(),
			Phase:      room.Phase.String(),
			Occupancy:  room.Occupancy(),
		}
		if room.Round != nil {
			summary.Round = room.Round.Number
		}
		list = append(list, summary)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
