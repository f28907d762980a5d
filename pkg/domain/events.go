package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModeChange    EventType = "mode_change"
	EventTransform     EventType = "transform"
	EventDeliveryError EventType = "delivery_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ModeEvent is emitted when a session switches mode.
type ModeEvent struct {
	EventBase
	From Mode `json:"from"`
	To   Mode `json:"to"`
}

// TransformEvent is emitted after the engine ran on user input.
type TransformEvent struct {
	EventBase
	Mode      Mode          `json:"mode"`
	InputSize int           `json:"input_size"`
	Found     bool          `json:"found"`
	Duration  time.Duration `json:"duration"`
}

// DeliveryEvent is emitted when an adapter fails to deliver part of a reply.
type DeliveryEvent struct {
	EventBase
	Asset string `json:"asset,omitempty"`
	Err   error  `json:"-"`
}

// LifecycleHooks defines callbacks for router observability.
type LifecycleHooks struct {
	OnModeChange    func(context.Context, *ModeEvent)
	OnTransform     func(context.Context, *TransformEvent)
	OnDeliveryError func(context.Context, *DeliveryEvent)
}
