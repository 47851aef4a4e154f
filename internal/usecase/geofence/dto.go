package geofence

import (
	"time"

	domainGeofence "agri-transport-monitor/internal/domain/geofence"

	"github.com/google/uuid"
)

type CreateGeofenceRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=255"`
	Description     string  `json:"description" validate:"omitempty,max=1000"`
	CenterLatitude  float64 `json:"center_latitude" validate:"min=-90,max=90"`
	CenterLongitude float64 `json:"center_longitude" validate:"min=-180,max=180"`
	RadiusMeters    float64 `json:"radius_meters" validate:"required,gt=0"`

	AlertOnEntry       *bool `json:"alert_on_entry"`
	AlertOnExit        *bool `json:"alert_on_exit"`
	AlertOnDwell       *bool `json:"alert_on_dwell"`
	DwellTimeThreshold int   `json:"dwell_time_threshold" validate:"omitempty,min=0"`
}

type EventFilterRequest struct {
	GeofenceID *uuid.UUID                  `form:"geofence_id"`
	DeviceID   *uuid.UUID                  `form:"device_id"`
	EventType  *domainGeofence.EventType   `form:"event_type" validate:"omitempty"`
	Since      *time.Time                  `form:"since"`
	Until      *time.Time                  `form:"until"`
	Limit      int                         `form:"limit" validate:"omitempty,min=1,max=1000"`
}

type GeofenceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	CenterLatitude  float64   `json:"center_latitude"`
	CenterLongitude float64   `json:"center_longitude"`
	RadiusMeters    float64   `json:"radius_meters"`

	AlertOnEntry       bool `json:"alert_on_entry"`
	AlertOnExit        bool `json:"alert_on_exit"`
	AlertOnDwell       bool `json:"alert_on_dwell"`
	DwellTimeThreshold int  `json:"dwell_time_threshold"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type EventResponse struct {
	ID         uuid.UUID  `json:"id"`
	GeofenceID uuid.UUID  `json:"geofence_id"`
	DeviceID   uuid.UUID  `json:"device_id"`
	ShipmentID *uuid.UUID `json:"shipment_id,omitempty"`
	EventType  string     `json:"event_type"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Timestamp  time.Time  `json:"timestamp"`
	// DurationSeconds is present for DWELL events.
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

type ContainmentResponse struct {
	GeofenceID         uuid.UUID `json:"geofence_id"`
	GeofenceName       string    `json:"geofence_name"`
	DeviceID           string    `json:"device_id"`
	DistanceFromCenter float64   `json:"distance_from_center_meters"`
	RadiusMeters       float64   `json:"radius_meters"`
	IsInside           bool      `json:"is_inside"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Timestamp          time.Time `json:"timestamp"`
}

func ToGeofenceResponse(f *domainGeofence.Geofence) *GeofenceResponse {
	return &GeofenceResponse{
		ID:                 f.ID,
		Name:               f.Name,
		Description:        f.Description,
		CenterLatitude:     f.CenterLatitude,
		CenterLongitude:    f.CenterLongitude,
		RadiusMeters:       f.RadiusMeters,
		AlertOnEntry:       f.AlertOnEntry,
		AlertOnExit:        f.AlertOnExit,
		AlertOnDwell:       f.AlertOnDwell,
		DwellTimeThreshold: f.DwellTimeThreshold,
		IsActive:           f.IsActive,
		CreatedAt:          f.CreatedAt,
	}
}

func ToEventResponse(e *domainGeofence.Event) *EventResponse {
	resp := &EventResponse{
		ID:         e.ID,
		GeofenceID: e.GeofenceID,
		DeviceID:   e.DeviceID,
		ShipmentID: e.ShipmentID,
		EventType:  string(e.EventType),
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		Timestamp:  e.Timestamp,
	}
	if e.Duration != nil {
		secs := int64(e.Duration.Seconds())
		resp.DurationSeconds = &secs
	}
	return resp
}

func ToContainmentResponse(s *domainGeofence.ContainmentStatus) *ContainmentResponse {
	return &ContainmentResponse{
		GeofenceID:         s.GeofenceID,
		GeofenceName:       s.GeofenceName,
		DeviceID:           s.DeviceID,
		DistanceFromCenter: s.DistanceFromCenter,
		RadiusMeters:       s.RadiusMeters,
		IsInside:           s.IsInside,
		Latitude:           s.Latitude,
		Longitude:          s.Longitude,
		Timestamp:          s.Timestamp,
	}
}
