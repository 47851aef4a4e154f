package models

import (
	"time"

	"github.com/google/uuid"
)

// GeofenceModel represents the database model for geofences.
type GeofenceModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text"`
	CenterLatitude  float64   `gorm:"type:double precision;not null"`
	CenterLongitude float64   `gorm:"type:double precision;not null"`
	RadiusMeters    float64   `gorm:"type:double precision;not null"`

	AlertOnEntry       bool `gorm:"not null;default:true"`
	AlertOnExit        bool `gorm:"not null;default:true"`
	AlertOnDwell       bool `gorm:"not null;default:false"`
	DwellTimeThreshold int  `gorm:"type:integer;not null;default:300"`

	IsActive  bool       `gorm:"not null;default:true;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (GeofenceModel) TableName() string {
	return "geofences"
}

// GeofenceEventModel represents the database model for geofence events.
// Rows are written by the geofence engine only and never updated.
type GeofenceEventModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GeofenceID uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeviceID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShipmentID *uuid.UUID `gorm:"type:uuid;index"`
	EventType  string     `gorm:"type:varchar(20);not null"`
	Latitude   float64    `gorm:"type:double precision;not null"`
	Longitude  float64    `gorm:"type:double precision;not null"`
	Timestamp  time.Time  `gorm:"not null;index"`
	// DurationSeconds is set for DWELL events only.
	DurationSeconds *int64 `gorm:"type:bigint"`
}

func (GeofenceEventModel) TableName() string {
	return "geofence_events"
}
