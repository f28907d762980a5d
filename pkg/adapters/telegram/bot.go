package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aretw0/listbot/internal/logging"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgBannerFailed = "⚠️ could not load the image."
	msgInternal     = "⚠️ Something went wrong. Please try again."
)

// DefaultPollTimeout is the long polling timeout in seconds.
const DefaultPollTimeout = 60

// Bot feeds Telegram updates to a router and sends the replies back.
type Bot struct {
	client      Client
	router      *bot.Router
	bannerDir   string
	pollTimeout int
	logger      *slog.Logger
}

// Option configures the Bot.
type Option func(*Bot)

// WithBannerDir sets the directory banner assets are read from.
// An empty directory disables banners.
func WithBannerDir(dir string) Option {
	return func(b *Bot) {
		b.bannerDir = dir
	}
}

// WithPollTimeout sets the long polling timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(b *Bot) {
		b.pollTimeout = seconds
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// NewBot creates a Bot. The client is usually a *tgbotapi.BotAPI.
func NewBot(client Client, router *bot.Router, opts ...Option) *Bot {
	b := &Bot{
		client:      client,
		router:      router,
		pollTimeout: DefaultPollTimeout,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterCommands publishes the router commands in the Telegram command menu.
func (b *Bot) RegisterCommands() error {
	commands := bot.Commands()
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]tgbotapi.BotCommand, 0, len(names))
	for _, name := range names {
		list = append(list, tgbotapi.BotCommand{Command: name, Description: commands[name]})
	}
	if _, err := b.client.Request(tgbotapi.NewSetMyCommands(list...)); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	return nil
}

// Run polls for updates until ctx is cancelled or the update channel closes.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	b.logger.Info("Telegram bot started, waiting for messages")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot stopping", "reason", ctx.Err())
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	sessionID := sessionKey(msg.From, msg.Chat)
	chatID := msg.Chat.ID

	var replies []domain.Reply
	var err error
	switch {
	case msg.IsCommand():
		replies, err = b.router.HandleCommand(ctx, sessionID, msg.Command())
	case msg.Text != "":
		replies, err = b.router.HandleText(ctx, sessionID, msg.Text)
	default:
		return
	}
	b.respond(ctx, chatID, sessionID, replies, err)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Stop the client-side spinner first, the reply may take a moment.
	if _, err := b.client.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", "err", err)
	}

	var chat *tgbotapi.Chat
	if q.Message != nil {
		chat = q.Message.Chat
	}
	sessionID := sessionKey(q.From, chat)
	chatID := chatIDOf(q.From, chat)

	replies, err := b.router.HandleCallback(ctx, sessionID, q.Data)
	b.respond(ctx, chatID, sessionID, replies, err)
}

func (b *Bot) respond(ctx context.Context, chatID int64, sessionID string, replies []domain.Reply, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCommand) || errors.Is(err, domain.ErrUnknownCallback) {
			b.logger.Debug("Ignoring unknown input", "session_id", sessionID, "err", err)
		} else {
			b.logger.Error("Router failed", "session_id", sessionID, "err", err)
			if len(replies) == 0 {
				replies = []domain.Reply{{Text: msgInternal}}
			}
		}
	}
	for _, reply := range replies {
		b.deliver(ctx, chatID, sessionID, reply)
	}
}

func (b *Bot) deliver(ctx context.Context, chatID int64, sessionID string, reply domain.Reply) {
	if reply.Banner != "" && b.bannerDir != "" {
		if err := b.sendPhoto(chatID, reply); err != nil {
			b.router.ReportDeliveryError(ctx, sessionID, reply.Banner, err)
			b.sendText(ctx, chatID, sessionID, domain.Reply{Text: msgBannerFailed})
			b.sendText(ctx, chatID, sessionID, reply)
		}
		return
	}
	b.sendText(ctx, chatID, sessionID, reply)
}

func (b *Bot) sendPhoto(chatID int64, reply domain.Reply) error {
	path := filepath.Join(b.bannerDir, filepath.Base(reply.Banner))
	if _, err := os.Stat(path); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	if len(reply.Text) <= MaxCaptionLength {
		photo.Caption = reply.Text
		if len(reply.Keyboard) > 0 {
			photo.ReplyMarkup = toMarkup(reply.Keyboard)
		}
	}
	if _, err := b.client.Send(photo); err != nil {
		return err
	}
	if photo.Caption == "" && reply.Text != "" {
		// Too long for a caption: the text follows as a message.
		_, err := b.client.Send(textMessage(chatID, reply.Text, reply.Keyboard))
		return err
	}
	return nil
}

func (b *Bot) sendText(ctx context.Context, chatID int64, sessionID string, reply domain.Reply) {
	chunks := SplitMessage(reply.Text, MaxMessageLength)
	for i, chunk := range chunks {
		var keyboard domain.Keyboard
		if i == len(chunks)-1 {
			keyboard = reply.Keyboard
		}
		if _, err := b.client.Send(textMessage(chatID, chunk, keyboard)); err != nil {
			b.router.ReportDeliveryError(ctx, sessionID, "", err)
			return
		}
	}
}

func textMessage(chatID int64, text string, keyboard domain.Keyboard) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = toMarkup(keyboard)
	}
	return msg
}

func toMarkup(keyboard domain.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// sessionKey keys sessions by user, so a user keeps their mode across chats.
func sessionKey(from *tgbotapi.User, chat *tgbotapi.Chat) string {
	if from != nil {
		return strconv.FormatInt(from.ID, 10)
	}
	if chat != nil {
		return strconv.FormatInt(chat.ID, 10)
	}
	return ""
}

func chatIDOf(from *tgbotapi.User, chat *tgbotapi.Chat) int64 {
	if chat != nil {
		return chat.ID
	}
	if from != nil {
		return from.ID
	}
	return 0
}
