package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/listbot"
	"github.com/aretw0/listbot/internal/config"
	"github.com/aretw0/listbot/pkg/adapters/telegram"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ErrMissingToken is returned when the Telegram bot is started without a token.
var ErrMissingToken = errors.New("telegram token is not set (LISTBOT_TELEGRAM_TOKEN)")

// NewTelegramBot authenticates against Telegram and binds the bot to the router.
func NewTelegramBot(app *listbot.App, cfg config.TelegramConfig) (*telegram.Bot, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	timeout := cfg.RequestTimeout + time.Duration(cfg.PollTimeout)*time.Second
	client, err := telegram.NewClient(cfg.Token, timeout, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	b := telegram.NewBot(client, app.Router(),
		telegram.WithBannerDir(cfg.BannerDir),
		telegram.WithPollTimeout(cfg.PollTimeout),
		telegram.WithLogger(app.Logger()),
	)
	if err := b.RegisterCommands(); err != nil {
		app.Logger().Warn("Could not register bot commands", "err", err)
	}
	return b, nil
}

// RunTelegram runs the bot until ctx is cancelled.
func RunTelegram(ctx context.Context, app *listbot.App, cfg config.TelegramConfig) error {
	b, err := NewTelegramBot(app, cfg)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr     string
	Telegram bool
}

// RunServe serves the HTTP API, and the Telegram bot when asked, until ctx is
// cancelled or one of them fails.
func RunServe(ctx context.Context, app *listbot.App, cfg *config.Config, opts ServeOptions) error {
	handler, err := app.HTTPHandler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var tg *telegram.Bot
	if opts.Telegram {
		if tg, err = NewTelegramBot(app, cfg.Telegram); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger().Info("Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		app.Logger().Info("HTTP server stopped gracefully")
		return nil
	})

	if tg != nil {
		g.Go(func() error {
			return tg.Run(gctx)
		})
	}

	return g.Wait()
}
