package geofence

import (
	"time"

	"github.com/google/uuid"
)

// Geofence is a named circular monitored region. Operators create fences;
// deletion is logical via IsActive=false.
type Geofence struct {
	ID              uuid.UUID
	Name            string
	Description     string
	CenterLatitude  float64
	CenterLongitude float64
	// RadiusMeters spans tens of meters to kilometers.
	RadiusMeters float64

	AlertOnEntry bool
	AlertOnExit  bool
	AlertOnDwell bool
	// DwellTimeThreshold is the continuous containment time, in seconds,
	// after which a dwell event fires.
	DwellTimeThreshold int

	IsActive  bool
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}

// EventType classifies a containment transition.
type EventType string

const (
	EventEntry EventType = "ENTRY"
	EventExit  EventType = "EXIT"
	EventDwell EventType = "DWELL"
)

// Event is an immutable record of a containment transition for a
// (geofence, device) pair. Only the engine creates events.
type Event struct {
	ID         uuid.UUID
	GeofenceID uuid.UUID
	DeviceID   uuid.UUID
	ShipmentID *uuid.UUID
	EventType  EventType
	Latitude   float64
	Longitude  float64
	Timestamp  time.Time
	// Duration is set for DWELL events only.
	Duration *time.Duration
}

// ContainmentStatus answers the explicit "is device X inside geofence Y"
// query boundary.
type ContainmentStatus struct {
	GeofenceID         uuid.UUID
	GeofenceName       string
	DeviceID           string
	DistanceFromCenter float64
	RadiusMeters       float64
	IsInside           bool
	Latitude           float64
	Longitude          float64
	Timestamp          time.Time
}
