package game

// MessageRef identifies a delivered message so it can be edited later.
type MessageRef struct {
	PlayerID  int64
	ChatID    int64
	MessageID int
}

// SendOptions carries structured hints for the transport layer; the engine
// never builds keyboards itself.
type SendOptions struct {
	// Choices renders one button per answer, in order.
	Choices []string
	// OfferBank adds the fixed bank action below the choices.
	OfferBank bool
	// LobbyRoomID, when set, renders the lobby status actions for that room.
	LobbyRoomID int64
	Occupancy   int
}

// Messenger delivers player-facing messages. Delivery is best-effort: the
// engine logs failures and moves on.
type Messenger interface {
	Send(playerID int64, text string, opts SendOptions) (MessageRef, error)
	Edit(ref MessageRef, text string, opts SendOptions) error
	Ack(callbackID string, text string) error
}
