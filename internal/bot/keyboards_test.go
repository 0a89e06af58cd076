package bot

import (
	"strings"
	"testing"

	"quiz-royale/internal/game"
)

func TestInlineKeyboardForRound(t *testing.T) {
	markup := inlineKeyboard(game.SendOptions{
		Choices:   []string{"Paris", "Lyon", "Nice"},
		OfferBank: true,
	})
	if markup == nil {
		t.Fatal("no keyboard for a round message")
	}
	if len(markup.InlineKeyboard) != 4 {
		t.Fatalf("rows %d, want three answers plus the bank row", len(markup.InlineKeyboard))
	}
	first := markup.InlineKeyboard[0][0]
	if first.Text != "Paris" || first.CallbackData == nil || *first.CallbackData != "answer:Paris" {
		t.Fatalf("first button %+v", first)
	}
	bank := markup.InlineKeyboard[3][0]
	if bank.CallbackData == nil || *bank.CallbackData != callbackBank {
		t.Fatalf("bank button %+v", bank)
	}
}

func TestInlineKeyboardWithoutBank(t *testing.T) {
	markup := inlineKeyboard(game.SendOptions{Choices: []string{"a", "b"}})
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("keyboard %+v, want one row per choice", markup)
	}
}

func TestInlineKeyboardForLobbyStatus(t *testing.T) {
	markup := inlineKeyboard(game.SendOptions{LobbyRoomID: 12, Occupancy: 1})
	if markup == nil || len(markup.InlineKeyboard) != 1 {
		t.Fatalf("keyboard %+v, want a single action row", markup)
	}
	row := markup.InlineKeyboard[0]
	if len(row) != 2 {
		t.Fatalf("row %+v, want refresh and leave", row)
	}
	if row[0].CallbackData == nil || *row[0].CallbackData != callbackRefresh {
		t.Fatalf("refresh button %+v", row[0])
	}
	if row[1].CallbackData == nil || *row[1].CallbackData != callbackLeave {
		t.Fatalf("leave button %+v", row[1])
	}
}

func TestInlineKeyboardForPlainNotice(t *testing.T) {
	if markup := inlineKeyboard(game.SendOptions{}); markup != nil {
		t.Fatalf("keyboard %+v, want none for a plain message", markup)
	}
}

func TestRejectionText(t *testing.T) {
	for _, tc := range []struct {
		err      error
		fragment string
	}{
		{game.ErrAlreadyInRoom, "already in a room"},
		{game.ErrRoomFull, "full"},
		{game.ErrGameStarted, "started"},
		{game.ErrRoomNotFound, "does not exist"},
	} {
		got := rejectionText(tc.err)
		if !strings.Contains(got, tc.fragment) {
			t.Fatalf("text %q for %v does not mention %q", got, tc.err, tc.fragment)
		}
	}
}
