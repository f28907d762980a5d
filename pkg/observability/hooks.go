package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/listbot/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, delivery errors at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			logger.DebugContext(ctx, "mode_change", "session_id", e.SessionID, "from", e.From, "to", e.To)
		},
		OnTransform: func(ctx context.Context, e *domain.TransformEvent) {
			logger.DebugContext(ctx, "transform",
				"session_id", e.SessionID,
				"mode", e.Mode,
				"input_size", e.InputSize,
				"found", e.Found,
				"duration", e.Duration,
			)
		},
		OnDeliveryError: func(ctx context.Context, e *domain.DeliveryEvent) {
			logger.WarnContext(ctx, "delivery_error", "session_id", e.SessionID, "asset", e.Asset, "err", e.Err)
		},
	}
}

// Combine merges hooks so that every non-nil callback runs, in argument order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range all {
		if h.OnModeChange != nil {
			prev, next := out.OnModeChange, h.OnModeChange
			out.OnModeChange = func(ctx context.Context, e *domain.ModeEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnTransform != nil {
			prev, next := out.OnTransform, h.OnTransform
			out.OnTransform = func(ctx context.Context, e *domain.TransformEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnDeliveryError != nil {
			prev, next := out.OnDeliveryError, h.OnDeliveryError
			out.OnDeliveryError = func(ctx context.Context, e *domain.DeliveryEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
