// Package events publishes social activity to Kafka for downstream
// consumers (notification fan-out, analytics). Publishing is best effort:
// a broker outage never fails the user-facing request.
package events

import (
	"context"
	"time"
)

// Event types emitted by this service.
const (
	FollowCreated          = "follow.created"
	FollowRemoved          = "follow.removed"
	FollowRequestCreated   = "follow_request.created"
	FollowRequestResponded = "follow_request.responded"
	BlockCreated           = "block.created"
	EngagementToggled      = "engagement.toggled"
)

// Event is one social activity record.
type Event struct {
	Type      string    `json:"type"`
	ActorID   uint64    `json:"actor_id"`
	TargetID  uint64    `json:"target_id,omitempty"`
	ReelID    uint64    `json:"reel_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(eventType string, actorID uint64) *Event {
	return &Event{Type: eventType, ActorID: actorID, Timestamp: time.Now()}
}

// Publisher publishes social events.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event *Event) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
