package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeCycleCompleted = "CYCLE_COMPLETED"
	TypeCycleFailed    = "CYCLE_FAILED"
	TypeCycleCancelled = "CYCLE_CANCELLED"
	TypeStockAdjusted  = "STOCK_ADJUSTED"
)

// Event is one message on the topic. Events of a cycle share its key.
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	CycleID   string    `json:"cycle_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id.
func New(eventType, cycleID string, at time.Time, payload any) Event {
	return Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		CycleID:   cycleID,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// Publisher sends events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }
