package geofence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for geofence and geofence-event storage
type Repository interface {
	Create(ctx context.Context, fence *Geofence) error
	GetByID(ctx context.Context, id uuid.UUID) (*Geofence, error)
	ListActive(ctx context.Context) ([]*Geofence, error)
	List(ctx context.Context, includeInactive bool) ([]*Geofence, error)
	// Deactivate performs the logical delete.
	Deactivate(ctx context.Context, id uuid.UUID) error

	InsertEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context, filter *EventFilter) ([]*Event, error)
}

// EventFilter represents filtering options for listing geofence events
type EventFilter struct {
	GeofenceID *uuid.UUID
	DeviceID   *uuid.UUID
	EventType  *EventType
	Since      *time.Time
	Until      *time.Time
	Limit      int
}
