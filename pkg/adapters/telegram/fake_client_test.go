package telegram_test

import (
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeClient records outgoing calls and feeds updates from a channel.
type fakeClient struct {
	mu        sync.Mutex
	updates   chan tgbotapi.Update
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	failPhoto bool
	stopped   bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{updates: make(chan tgbotapi.Update, 16)}
}

func (c *fakeClient) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.updates
}

func (c *fakeClient) StopReceivingUpdates() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

func (c *fakeClient) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := chattable.(tgbotapi.PhotoConfig); ok && c.failPhoto {
		return tgbotapi.Message{}, errors.New("upload failed")
	}
	c.sent = append(c.sent, chattable)
	return tgbotapi.Message{}, nil
}

func (c *fakeClient) Request(chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, chattable)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (c *fakeClient) Sent() []tgbotapi.Chattable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), c.sent...)
}

// Texts returns the text of every message and the caption of every photo, in order.
func (c *fakeClient) Texts() []string {
	var out []string
	for _, s := range c.Sent() {
		switch m := s.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.PhotoConfig:
			out = append(out, "[photo] "+m.Caption)
		}
	}
	return out
}

func command(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(text)},
			},
		},
	}
}

func text(userID int64, body string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: body,
		},
	}
}

func callback(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: userID}},
			Data:    data,
		},
	}
}
