package models

import (
	"time"

	"github.com/google/uuid"
)

// TemperatureAlertModel represents the database model for temperature alerts.
type TemperatureAlertModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	DeviceID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Severity        string  `gorm:"type:varchar(20);not null"`
	ThresholdMin    float64 `gorm:"type:double precision;not null"`
	ThresholdMax    float64 `gorm:"type:double precision;not null"`
	CurrentValue    float64 `gorm:"type:double precision;not null"`
	DurationMinutes int     `gorm:"type:integer;not null;default:0"`

	TriggeredAt    time.Time  `gorm:"not null;index"`
	AcknowledgedAt *time.Time `gorm:"type:timestamp"`
	ResolvedAt     *time.Time `gorm:"type:timestamp;index"`
	ResolvedBy     *uuid.UUID `gorm:"type:uuid"`
	Notes          string     `gorm:"type:text"`
}

func (TemperatureAlertModel) TableName() string {
	return "temperature_alerts"
}
