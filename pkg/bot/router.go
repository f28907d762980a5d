package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/listbot/internal/logging"
	"github.com/aretw0/listbot/pkg/domain"
	"github.com/aretw0/listbot/pkg/session"
	"github.com/google/uuid"
)

// Router handles platform events for many sessions.
// Events of one session are serialized through the session manager; different sessions
// are independent.
type Router struct {
	sessions     *session.Manager
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	limits       Limits
	maxInputSize int
}

// Option configures the Router.
type Option func(*Router)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// WithLimits bounds the work a single message may cause.
func WithLimits(limits Limits) Option {
	return func(r *Router) {
		r.limits = limits
	}
}

// WithMaxInputSize sets the largest accepted message in bytes.
func WithMaxInputSize(size int) Option {
	return func(r *Router) {
		r.maxInputSize = size
	}
}

// NewRouter creates a Router persisting sessions through the given manager.
func NewRouter(sessions *session.Manager, opts ...Option) *Router {
	r := &Router{
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sessions returns the underlying session manager.
func (r *Router) Sessions() *session.Manager {
	return r.sessions
}

// HandleCommand handles a chat command such as "/sort", "sort" or "/sort@listbot extra".
// Unknown commands produce a reply and an error wrapping domain.ErrUnknownCommand.
func (r *Router) HandleCommand(ctx context.Context, sessionID, command string) ([]domain.Reply, error) {
	name := normalizeCommand(command)

	switch name {
	case "start":
		return []domain.Reply{menuReply(msgChooseOption)}, nil
	case "menu":
		return []domain.Reply{menuReply(msgMenu)}, nil
	case "help":
		return []domain.Reply{{Text: HelpText, Keyboard: MainMenu(), Markdown: true}}, nil
	case "cancel":
		return r.cancel(ctx, sessionID)
	}

	if m, ok := commandModes[name]; ok {
		return r.switchMode(ctx, sessionID, m)
	}

	return []domain.Reply{{Text: msgUnknownCommand}}, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, command)
}

var commandModes = map[string]domain.Mode{
	"sort":     domain.ModeSort,
	"ordenar":  domain.ModeSort,
	"compare":  domain.ModeCompare,
	"comparar": domain.ModeCompare,
	"filter":   domain.ModeFilter,
	"remover":  domain.ModeFilter,
	"expand":   domain.ModeExpand,
}

// CommandsFor returns the command names that switch to m, sorted.
func CommandsFor(m domain.Mode) []string {
	var names []string
	for name, mode := range commandModes {
		if mode == m {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Commands lists the command names the router understands, for platform command menus.
func Commands() map[string]string {
	return map[string]string{
		"start":   "Show the main menu",
		"menu":    "Show the main menu",
		"sort":    "Sort the first number of every line",
		"compare": "Find the items two lists have in common",
		"filter":  "Keep only items with more than one unit",
		"expand":  "Repeat every ID by its quantity",
		"cancel":  "Discard a half-finished comparison",
		"help":    "Explain the modes",
	}
}

func normalizeCommand(command string) string {
	name := strings.TrimSpace(command)
	if i := strings.IndexAny(name, " \t\n"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// HandleCallback handles inline keyboard button data.
func (r *Router) HandleCallback(ctx context.Context, sessionID, data string) ([]domain.Reply, error) {
	if data == domain.CallbackMainMenu {
		if _, err := r.update(ctx, sessionID, func(s *domain.Session) error {
			r.emitModeChange(ctx, s, domain.ModeNone)
			s.Reset()
			return nil
		}); err != nil {
			return nil, err
		}
		return []domain.Reply{menuReply(msgChooseOption)}, nil
	}

	if m, ok := domain.ModeFromCallback(data); ok {
		return r.switchMode(ctx, sessionID, m)
	}

	return []domain.Reply{{Text: msgUnknownButton}}, fmt.Errorf("%w: %q", domain.ErrUnknownCallback, data)
}

// HandleText runs the current mode of the session over a free-text message.
func (r *Router) HandleText(ctx context.Context, sessionID, text string) ([]domain.Reply, error) {
	clean, err := SanitizeInput(text, r.maxInputSize)
	if err != nil {
		r.logger.Warn("Input rejected", "session_id", sessionID, "err", err, "size", len(text))
		return []domain.Reply{{Text: fmt.Sprintf(msgInvalidInput, err)}}, nil
	}

	var outcome Outcome
	var mode domain.Mode
	start := time.Now()
	_, err = r.update(ctx, sessionID, func(s *domain.Session) error {
		mode = s.Mode
		var next domain.Session
		next, outcome = Dispatch(*s, clean, r.limits)
		*s = next
		s.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Result != nil {
		r.logger.Debug("Transform applied",
			"session_id", sessionID,
			"mode", mode,
			"found", outcome.Result.Found,
			"size", len(clean),
		)
		if r.hooks.OnTransform != nil {
			r.hooks.OnTransform(ctx, &domain.TransformEvent{
				EventBase: newEvent(domain.EventTransform, sessionID),
				Mode:      mode,
				InputSize: len(clean),
				Found:     outcome.Result.Found,
				Duration:  time.Since(start),
			})
		}
	}

	return outcome.Replies, nil
}

// ReportDeliveryError lets adapters surface a reply part they could not deliver.
func (r *Router) ReportDeliveryError(ctx context.Context, sessionID, asset string, err error) {
	r.logger.Error("Reply delivery degraded", "session_id", sessionID, "asset", asset, "err", err)
	if r.hooks.OnDeliveryError != nil {
		r.hooks.OnDeliveryError(ctx, &domain.DeliveryEvent{
			EventBase: newEvent(domain.EventDeliveryError, sessionID),
			Asset:     asset,
			Err:       err,
		})
	}
}

// Reset forgets a session entirely.
func (r *Router) Reset(ctx context.Context, sessionID string) error {
	return r.sessions.Delete(ctx, sessionID)
}

func (r *Router) switchMode(ctx context.Context, sessionID string, m domain.Mode) ([]domain.Reply, error) {
	if _, err := r.update(ctx, sessionID, func(s *domain.Session) error {
		r.emitModeChange(ctx, s, m)
		s.SwitchMode(m)
		return nil
	}); err != nil {
		return nil, err
	}
	return []domain.Reply{modeReply(m)}, nil
}

func (r *Router) cancel(ctx context.Context, sessionID string) ([]domain.Reply, error) {
	hadPending := false
	if _, err := r.update(ctx, sessionID, func(s *domain.Session) error {
		hadPending = len(s.Pending) > 0
		s.Pending = nil
		s.UpdatedAt = time.Now()
		return nil
	}); err != nil {
		return nil, err
	}
	if !hadPending {
		return []domain.Reply{{Text: msgNothingPending}}, nil
	}
	return []domain.Reply{{Text: msgCancelled}}, nil
}

func (r *Router) update(ctx context.Context, sessionID string, fn func(*domain.Session) error) (*domain.Session, error) {
	s, err := r.sessions.Update(ctx, sessionID, fn)
	if err != nil {
		r.logger.Error("Session update failed", "session_id", sessionID, "err", err)
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return s, nil
}

func (r *Router) emitModeChange(ctx context.Context, s *domain.Session, to domain.Mode) {
	r.logger.Info("Mode changed", "session_id", s.ID, "from", s.Mode, "to", to)
	if r.hooks.OnModeChange != nil {
		r.hooks.OnModeChange(ctx, &domain.ModeEvent{
			EventBase: newEvent(domain.EventModeChange, s.ID),
			From:      s.Mode,
			To:        to,
		})
	}
}

func newEvent(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      t,
		SessionID: sessionID,
	}
}
