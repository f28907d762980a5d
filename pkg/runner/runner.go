package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/aretw0/listbot/internal/logging"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
)

// DefaultSessionID is used when no session is configured.
const DefaultSessionID = "console"

// Runner feeds events from a TextHandler to a router, one session at a time.
type Runner struct {
	router    *bot.Router
	handler   *TextHandler
	sessionID string
	greet     bool
	logger    *slog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithHandler sets the I/O handler. Defaults to stdin/stdout.
func WithHandler(h *TextHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithSessionID sets the session the console speaks for.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.sessionID = id
	}
}

// WithoutGreeting skips the /start command sent when Run begins.
func WithoutGreeting() Option {
	return func(r *Runner) {
		r.greet = false
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a console runner for the router.
func NewRunner(router *bot.Router, opts ...Option) *Runner {
	r := &Runner{
		router:    router,
		sessionID: DefaultSessionID,
		greet:     true,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run processes input until it ends or ctx is cancelled.
// Reaching the end of input is not an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.greet {
		if err := r.dispatch(ctx, Event{Kind: EventCommand, Value: "/start"}); err != nil {
			return err
		}
	}

	for {
		ev, err := r.handler.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := r.dispatch(ctx, ev); err != nil {
			return err
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, ev Event) error {
	var replies []domain.Reply
	var err error

	switch ev.Kind {
	case EventCommand:
		replies, err = r.router.HandleCommand(ctx, r.sessionID, ev.Value)
	case EventButton:
		data, berr := r.handler.Button(ev.Value)
		if berr != nil {
			r.handler.SystemOutput(berr.Error())
			return nil
		}
		replies, err = r.router.HandleCallback(ctx, r.sessionID, data)
	default:
		replies, err = r.router.HandleText(ctx, r.sessionID, ev.Value)
	}

	if err != nil && !errors.Is(err, domain.ErrUnknownCommand) && !errors.Is(err, domain.ErrUnknownCallback) {
		r.logger.Error("Router failed", "session_id", r.sessionID, "err", err)
		return err
	}
	r.handler.Output(replies)
	return nil
}
