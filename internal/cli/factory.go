package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/listbot"
	"github.com/aretw0/listbot/internal/config"
	"github.com/aretw0/listbot/pkg/adapters/file"
	"github.com/aretw0/listbot/pkg/adapters/memory"
	"github.com/aretw0/listbot/pkg/adapters/redis"
	"github.com/aretw0/listbot/pkg/adapters/sqlite"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/ports"
)

// NewApp initializes a listbot App following the configuration.
func NewApp(cfg *config.Config, logger *slog.Logger) (*listbot.App, error) {
	appOpts := []listbot.Option{
		listbot.WithLogger(logger),
		listbot.WithLimits(bot.Limits{MaxExpandedTokens: cfg.Limits.MaxExpandedTokens}),
		listbot.WithMaxInputSize(cfg.Limits.MaxInputSize),
	}

	// 1. Store (and its locker, for shared backends)
	storeOpts, err := storeOptions(cfg.Store)
	if err != nil {
		return nil, err
	}
	appOpts = append(appOpts, storeOpts...)

	// 2. Encryption at rest
	active, fallback, err := cfg.Store.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		appOpts = append(appOpts, listbot.WithEncryption(active, fallback...))
	}

	// 3. Initialize
	app, err := listbot.New(appOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing listbot: %w", err)
	}
	logger.Debug("App initialized", "store", cfg.Store.Backend, "encrypted", active != nil)
	return app, nil
}

func storeOptions(cfg config.StoreConfig) ([]listbot.Option, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return []listbot.Option{listbot.WithStore(memory.NewStore())}, nil
	case config.BackendFile:
		return []listbot.Option{listbot.WithStore(file.New(cfg.Path))}, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return []listbot.Option{listbot.WithStore(store), listbot.WithCloser(store)}, nil
	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		opts := []listbot.Option{
			listbot.WithStore(store),
			listbot.WithCloser(store),
		}
		if cfg.Redis.Lock {
			opts = append(opts, listbot.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix), cfg.LockTTL))
		}
		return opts, nil
	}
	return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, cfg.Backend)
}

// OpenStore returns the configured session store without building the router,
// for maintenance commands. Encrypted records are opened with the configured keys.
func OpenStore(cfg *config.Config, logger *slog.Logger) (ports.SessionStore, func() error, error) {
	app, err := NewApp(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app.Sessions().Store(), app.Close, nil
}
