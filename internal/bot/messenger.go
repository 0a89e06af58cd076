package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quiz-royale/internal/game"
)

// telegramMessenger adapts the bot API to the engine's Messenger. Private
// chats only, so the chat id always equals the player id.
type telegramMessenger struct {
	api *tgbotapi.BotAPI
}

func newMessenger(api *tgbotapi.BotAPI) *telegramMessenger {
	return &telegramMessenger{api: api}
}

func (m *telegramMessenger) Send(playerID int64, text string, opts game.SendOptions) (game.MessageRef, error) {
	msg := tgbotapi.NewMessage(playerID, text)
	if markup := inlineKeyboard(opts); markup != nil {
		msg.ReplyMarkup = *markup
	}
	sent, err := m.api.Send(msg)
	if err != nil {
		return game.MessageRef{}, err
	}
	return game.MessageRef{
		PlayerID:  playerID,
		ChatID:    playerID,
		MessageID: sent.MessageID,
	}, nil
}

func (m *telegramMessenger) Edit(ref game.MessageRef, text string, opts game.SendOptions) error {
	if markup := inlineKeyboard(opts); markup != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, text, *markup)
		_, err := m.api.Send(edit)
		return err
	}
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	_, err := m.api.Send(edit)
	return err
}

func (m *telegramMessenger) Ack(callbackID, text string) error {
	_, err := m.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}
