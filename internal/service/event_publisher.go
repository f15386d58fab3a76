package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published after a booking or prescription changes state.
const (
	EventBookingCreated        = "booking.created"
	EventBookingConfirmed      = "booking.confirmed"
	EventBookingCompleted      = "booking.completed"
	EventBookingNoShow         = "booking.no_show"
	EventBookingCancelled      = "booking.cancelled"
	EventPrescriptionIssued    = "prescription.issued"
	EventPrescriptionFilled    = "prescription.filled"
	EventPrescriptionCancelled = "prescription.cancelled"
)

type Event struct {
	ID          uuid.UUID   `json:"id"`
	Type        string      `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload,omitempty"`
}

func NewEvent(eventType, aggregateID string, payload interface{}) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// EventPublisher delivers domain events to downstream consumers
// (notifications, analytics). Callers publish after commit.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher drops every event; used when no broker is configured.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

func (nopPublisher) Close() error { return nil }
