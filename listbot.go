package listbot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/listbot/internal/logging"
	httpAdapter "github.com/aretw0/listbot/pkg/adapters/http"
	"github.com/aretw0/listbot/pkg/adapters/mcp"
	"github.com/aretw0/listbot/pkg/adapters/memory"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/aretw0/listbot/pkg/observability"
	"github.com/aretw0/listbot/pkg/persistence/middleware"
	"github.com/aretw0/listbot/pkg/ports"
	"github.com/aretw0/listbot/pkg/session"
)

// App wires the router, its session store and the observability stack.
// Platform adapters (Telegram, HTTP, MCP, console) are built on top of it.
type App struct {
	router   *bot.Router
	sessions *session.Manager
	metrics  *observability.Metrics

	store        ports.SessionStore
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	encryption   *middleware.EncryptionConfig
	hooks        domain.LifecycleHooks
	limits       bot.Limits
	maxInputSize int
	logger       *slog.Logger
	closers      []io.Closer
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithStore sets the session store. Defaults to an in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithLocker enables distributed locking around every session operation.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(a *App) {
		a.locker = locker
		a.lockTTL = ttl
	}
}

// WithEncryption seals session records at rest with AES-256-GCM.
func WithEncryption(activeKey []byte, fallbackKeys ...[]byte) Option {
	return func(a *App) {
		a.encryption = &middleware.EncryptionConfig{ActiveKey: activeKey, FallbackKeys: fallbackKeys}
	}
}

// WithLifecycleHooks registers additional observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithLimits bounds the work a single message may cause.
func WithLimits(limits bot.Limits) Option {
	return func(a *App) {
		a.limits = limits
	}
}

// WithMaxInputSize sets the largest accepted message in bytes.
func WithMaxInputSize(size int) Option {
	return func(a *App) {
		a.maxInputSize = size
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithCloser registers a resource released by Close, such as a redis client.
func WithCloser(c io.Closer) Option {
	return func(a *App) {
		a.closers = append(a.closers, c)
	}
}

// New initializes an App.
func New(opts ...Option) (*App, error) {
	a := &App{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.encryption != nil {
		if len(a.encryption.ActiveKey) != 32 {
			return nil, errors.New("encryption key must be 32 bytes (AES-256)")
		}
		a.store = middleware.Chain(a.store, middleware.NewEncryptionMiddleware(*a.encryption))
	}

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(a.locker))
		if a.lockTTL > 0 {
			sessionOpts = append(sessionOpts, session.WithLockTTL(a.lockTTL))
		}
	}
	a.sessions = session.NewManager(a.store, sessionOpts...)

	a.metrics = observability.NewMetrics()
	hooks := observability.Combine(
		observability.LoggingHooks(a.logger),
		a.metrics.Hooks(),
		a.hooks,
	)

	a.router = bot.NewRouter(a.sessions,
		bot.WithLogger(a.logger),
		bot.WithLifecycleHooks(hooks),
		bot.WithLimits(a.limits),
		bot.WithMaxInputSize(a.maxInputSize),
	)
	return a, nil
}

// Router returns the session router shared by all adapters.
func (a *App) Router() *bot.Router {
	return a.router
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Metrics returns the Prometheus collectors fed by the router.
func (a *App) Metrics() *observability.Metrics {
	return a.metrics
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// HTTPHandler builds the HTTP API, metrics included.
func (a *App) HTTPHandler() (http.Handler, error) {
	return httpAdapter.NewHandler(a.router,
		httpAdapter.WithMetrics(a.metrics.Handler()),
		httpAdapter.WithVersion(Version),
		httpAdapter.WithLimits(a.limits),
		httpAdapter.WithMaxInputSize(a.maxInputSize),
		httpAdapter.WithLogger(a.logger),
	)
}

// MCPServer builds the MCP tool server.
func (a *App) MCPServer() *mcp.Server {
	return mcp.NewServer(Version,
		mcp.WithLimits(a.limits),
		mcp.WithMaxInputSize(a.maxInputSize),
		mcp.WithLogger(a.logger),
	)
}

// Transform runs one engine operation by name, outside of any session.
func (a *App) Transform(op string, inputs ...string) (listops.Result, error) {
	parsed, err := listops.ParseOp(op)
	if err != nil {
		return listops.Result{}, err
	}
	if parsed == listops.OpExpand && a.limits.MaxExpandedTokens > 0 && len(inputs) == 1 {
		if n := listops.ExpandedCount(inputs[0]); n > a.limits.MaxExpandedTokens {
			return listops.Result{}, fmt.Errorf("expansion produces %d IDs, limit is %d", n, a.limits.MaxExpandedTokens)
		}
	}
	return listops.Apply(parsed, inputs...)
}

// Close releases registered resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
