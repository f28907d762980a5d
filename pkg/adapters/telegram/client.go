package telegram

import (
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the subset of *tgbotapi.BotAPI the adapter uses.
type Client interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ Client = (*tgbotapi.BotAPI)(nil)

// NewClient authenticates against the Bot API with the given token.
// The HTTP timeout must outlast the long-poll timeout, or every getUpdates call fails.
func NewClient(token string, timeout time.Duration, debug bool) (*tgbotapi.BotAPI, error) {
	httpClient := &http.Client{Timeout: timeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	return api, nil
}
