package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"quiz-royale/internal/config"
	"quiz-royale/internal/db"
	"quiz-royale/internal/game"
)

const rulesText = `How it works:

Four players share a room. Every round all of you get the same question with 20 seconds to answer. A correct answer is worth 100 points.

After each round the players with the lowest total score are eliminated, unless everyone answered correctly. The last player standing wins.

Feeling lucky? Press "Bank and walk away" during a round to lock in your points and leave the game on your own terms.`

// Bot wires the Telegram update loop to the game engine. It keeps only one
// piece of conversational state: which players were just asked to type a
// room id.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *game.Engine
	conn   *gorm.DB

	mu          sync.Mutex
	pendingJoin map[int64]struct{}
}

func New(cfg config.Config, conn *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	engine := game.New(conn, newMessenger(api), cfg)
	return &Bot{
		api:         api,
		engine:      engine,
		conn:        conn,
		pendingJoin: make(map[int64]struct{}),
	}, nil
}

// Engine exposes the game engine for the admin surface.
func (b *Bot) Engine() *game.Engine {
	return b.engine
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("bot started username=%s", b.api.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.engine.Shutdown()
			return
		case update, ok := <-updates:
			if !ok {
				b.engine.Shutdown()
				return
			}
			switch {
			case update.CallbackQuery != nil:
				b.handleCallback(update.CallbackQuery)
			case update.Message != nil:
				b.handleMessage(update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil || !message.Chat.IsPrivate() {
		return
	}
	playerID := message.From.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.handleStart(playerID)
	case text == btnFindGame:
		b.clearPending(playerID)
		_, err := b.engine.FindOrJoinPublicRoom(playerID)
		if err != nil {
			b.reply(playerID, rejectionText(err))
		}
	case text == btnPrivateRoom:
		b.clearPending(playerID)
		_, err := b.engine.CreatePrivateRoom(playerID)
		if err != nil {
			b.reply(playerID, rejectionText(err))
		}
	case text == btnJoinByID:
		b.setPending(playerID)
		b.reply(playerID, "Send me the room id you were given.")
	case text == btnLeave || strings.HasPrefix(text, "/leave"):
		b.clearPending(playerID)
		if err := b.engine.LeaveRoom(playerID); err != nil {
			b.reply(playerID, rejectionText(err))
		} else {
			b.reply(playerID, "You left the room.")
		}
	case text == btnStats || strings.HasPrefix(text, "/stats"):
		b.handleStats(playerID)
	case text == btnChampions || strings.HasPrefix(text, "/champions"):
		b.handleChampions(playerID)
	case text == btnRules || strings.HasPrefix(text, "/rules") || strings.HasPrefix(text, "/help"):
		b.reply(playerID, rulesText)
	default:
		if b.takePending(playerID) {
			b.handleJoinByID(playerID, text)
			return
		}
		b.reply(playerID, "I did not get that. Use the menu buttons or /help.")
	}
}

func (b *Bot) handleStart(playerID int64) {
	if b.conn != nil {
		if _, err := db.EnsurePlayer(b.conn, playerID); err != nil {
			log.Printf("ensure player failed player_id=%d error=%v", playerID, err)
		}
	}
	msg := tgbotapi.NewMessage(playerID, "Welcome to the quiz arena! Find a game or open a private room for your friends.")
	msg.ReplyMarkup = mainMenu()
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send failed player_id=%d error=%v", playerID, err)
	}
}

func (b *Bot) handleJoinByID(playerID int64, text string) {
	roomID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		b.reply(playerID, "That does not look like a room id. Press the button and try again.")
		return
	}
	if _, err := b.engine.JoinRoom(playerID, roomID); err != nil {
		b.reply(playerID, rejectionText(err))
	}
}

func (b *Bot) handleStats(playerID int64) {
	if b.conn == nil {
		b.reply(playerID, "Stats are temporarily unavailable.")
		return
	}
	player, err := db.GetPlayer(b.conn, playerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.reply(playerID, "No stats yet. Play a game first!")
			return
		}
		log.Printf("stats lookup failed player_id=%d error=%v", playerID, err)
		b.reply(playerID, "Stats are temporarily unavailable.")
		return
	}
	b.reply(playerID, fmt.Sprintf(
		"📊 Your stats\n\nWins: %d\nTotal score: %d\nCorrect answers: %d\nWrong answers: %d",
		player.Wins, player.Score, player.CorrectAnswers, player.WrongAnswers,
	))
}

func (b *Bot) handleChampions(playerID int64) {
	if b.conn == nil {
		b.reply(playerID, "The champions board is temporarily unavailable.")
		return
	}
	top, err := db.LeaderboardTop(b.conn, 10)
	if err != nil {
		log.Printf("leaderboard failed error=%v", err)
		b.reply(playerID, "The champions board is temporarily unavailable.")
		return
	}
	if len(top) == 0 {
		b.reply(playerID, "Nobody has won a game yet. Be the first!")
		return
	}
	var sb strings.Builder
	sb.WriteString("🏆 Champions\n")
	for i, player := range top {
		fmt.Fprintf(&sb, "\n%d. Player %d: %d wins, %d points", i+1, player.ID, player.Wins, player.Score)
	}
	b.reply(playerID, sb.String())
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.From == nil {
		return
	}
	playerID := callback.From.ID
	data := callback.Data

	switch {
	case strings.HasPrefix(data, callbackAnswerPrefix):
		choice := strings.TrimPrefix(data, callbackAnswerPrefix)
		if err := b.engine.SubmitAnswer(playerID, choice); err != nil {
			b.ack(callback.ID, rejectionText(err))
			return
		}
		b.ack(callback.ID, "Answer locked in.")
	case data == callbackBank:
		if err := b.engine.Bank(playerID); err != nil {
			b.ack(callback.ID, rejectionText(err))
			return
		}
		b.ack(callback.ID, "Points banked.")
	case data == callbackRefresh:
		if err := b.engine.RefreshLobbyStatus(playerID); err != nil {
			b.ack(callback.ID, rejectionText(err))
			return
		}
		b.ack(callback.ID, "")
	case data == callbackLeave:
		if err := b.engine.LeaveRoom(playerID); err != nil {
			b.ack(callback.ID, rejectionText(err))
			return
		}
		b.ack(callback.ID, "You left the room.")
	default:
		b.ack(callback.ID, "")
	}
}

func (b *Bot) reply(playerID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(playerID, text)); err != nil {
		log.Printf("send failed player_id=%d error=%v", playerID, err)
	}
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("callback ack failed error=%v", err)
	}
}

func (b *Bot) setPending(playerID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingJoin[playerID] = struct{}{}
}

func (b *Bot) clearPending(playerID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pendingJoin, playerID)
}

func (b *Bot) takePending(playerID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pendingJoin[playerID]
	delete(b.pendingJoin, playerID)
	return ok
}

// rejectionText maps engine rejections to player-facing answers.
func rejectionText(err error) string {
	switch {
	case errors.Is(err, game.ErrAlreadyInRoom):
		return "You are already in a room. Leave it first."
	case errors.Is(err, game.ErrNotInRoom):
		return "You are not in a room right now."
	case errors.Is(err, game.ErrRoomNotFound):
		return "That room does not exist anymore."
	case errors.Is(err, game.ErrRoomFull):
		return "That room is already full."
	case errors.Is(err, game.ErrGameStarted):
		return "That game has already started."
	case errors.Is(err, game.ErrStoreUnavailable):
		return "Something went wrong on our side. Try again in a minute."
	default:
		return "Something went wrong. Try again."
	}
}
