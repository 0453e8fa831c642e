package interfaces

import (
	"context"
	"time"
)

// EventType identifies the kind of event being published
type EventType string

const (
	EventJobCreated       EventType = "job_created"
	EventJobProgress      EventType = "job_progress"
	EventJobStatusChanged EventType = "job_status_changed"
)

// Event is a message published to subscribers
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventHandler processes a published event
type EventHandler func(ctx context.Context, event Event) error

// EventService provides pub/sub event distribution
type EventService interface {
	Subscribe(eventType EventType, handler EventHandler) error
	Publish(ctx context.Context, event Event) error
}
