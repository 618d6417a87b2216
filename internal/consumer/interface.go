package consumer

import "context"

// User event types published by the identity service.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEvent is the identity service's account change notification. This
// service consumes it to keep the local account replica (id, username,
// is_private) fresh; the privacy flag drives visibility decisions.
type UserEvent struct {
	Type      string `json:"type"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	IsPrivate bool   `json:"is_private"`
	TsMs      int64  `json:"ts_ms"`
}

// UserEventHandler processes a decoded user event.
type UserEventHandler interface {
	HandleUserEvent(ctx context.Context, event *UserEvent) error
}

// UserEventConsumer manages the Kafka consumer lifecycle.
type UserEventConsumer interface {
	Start(ctx context.Context) error
	Close() error
}
