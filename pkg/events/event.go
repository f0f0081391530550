// Package events defines the domain event contract shared by aggregates,
// publishers and consumers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OrganizationID() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent provides the DomainEvent metadata. Concrete events embed it and
// add exported payload fields; the metadata travels in the Envelope.
type BaseEvent struct {
	id             uuid.UUID
	eventType      string
	aggregateID    uuid.UUID
	aggregateType  string
	organizationID uuid.UUID
	occurredAt     time.Time
}

// NewBaseEvent creates a new BaseEvent with a generated UUID and the current time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, organizationID uuid.UUID) BaseEvent {
	return BaseEvent{
		id:             uuid.New(),
		eventType:      eventType,
		aggregateID:    aggregateID,
		aggregateType:  aggregateType,
		organizationID: organizationID,
		occurredAt:     time.Now().UTC(),
	}
}

// EventID returns the unique identifier for this event.
func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

// EventType returns the type name of this event.
func (e BaseEvent) EventType() string {
	return e.eventType
}

// AggregateID returns the identifier of the aggregate that produced this event.
func (e BaseEvent) AggregateID() uuid.UUID {
	return e.aggregateID
}

// AggregateType returns the type name of the aggregate that produced this event.
func (e BaseEvent) AggregateType() string {
	return e.aggregateType
}

// OrganizationID returns the tenant the aggregate belongs to.
func (e BaseEvent) OrganizationID() uuid.UUID {
	return e.organizationID
}

// OccurredAt returns the time at which this event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
