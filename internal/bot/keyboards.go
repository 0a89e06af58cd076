package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quiz-royale/internal/game"
)

const (
	btnFindGame    = "🎮 Find a game"
	btnPrivateRoom = "🔒 Private room"
	btnJoinByID    = "🔑 Join by id"
	btnLeave       = "🚪 Leave room"
	btnStats       = "📊 My stats"
	btnChampions   = "🏆 Champions"
	btnRules       = "📜 Rules"

	callbackAnswerPrefix = "answer:"
	callbackBank         = "bank"
	callbackLeave        = "leave"
	callbackRefresh      = "refresh"
)

// mainMenu is the persistent reply keyboard shown on /start.
func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnFindGame),
			tgbotapi.NewKeyboardButton(btnPrivateRoom),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnJoinByID),
			tgbotapi.NewKeyboardButton(btnLeave),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStats),
			tgbotapi.NewKeyboardButton(btnChampions),
			tgbotapi.NewKeyboardButton(btnRules),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// inlineKeyboard renders the engine's send options: answer buttons with the
// bank action for round messages, a leave button for lobby status messages,
// nothing for plain notifications.
func inlineKeyboard(opts game.SendOptions) *tgbotapi.InlineKeyboardMarkup {
	if len(opts.Choices) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts.Choices)+1)
		for _, choice := range opts.Choices {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(choice, callbackAnswerPrefix+choice),
			))
		}
		if opts.OfferBank {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💰 Bank and walk away", callbackBank),
			))
		}
		markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
		return &markup
	}
	if opts.LobbyRoomID != 0 {
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", callbackRefresh),
				tgbotapi.NewInlineKeyboardButtonData("🚪 Leave", callbackLeave),
			),
		)
		return &markup
	}
	return nil
}
