package models

import (
	"time"

	"github.com/google/uuid"
)

// ReadingModel represents the database model for telemetry readings. The
// table is append-only; a unique index on (device_id, timestamp) makes
// retransmissions idempotent.
type ReadingModel struct {
	ID         int64      `gorm:"primary_key;autoIncrement"`
	DeviceID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_readings_device_ts,priority:1"`
	ShipmentID *uuid.UUID `gorm:"type:uuid;index"`

	Latitude  *float64 `gorm:"type:double precision"`
	Longitude *float64 `gorm:"type:double precision"`
	Speed     *float64 `gorm:"type:double precision"`
	Heading   *float64 `gorm:"type:double precision"`
	Altitude  *float64 `gorm:"type:double precision"`

	Temperature *float64 `gorm:"type:double precision"`
	Humidity    *float64 `gorm:"type:double precision"`
	Pressure    *float64 `gorm:"type:double precision"`

	AccelerationX *float64 `gorm:"type:double precision"`
	AccelerationY *float64 `gorm:"type:double precision"`
	AccelerationZ *float64 `gorm:"type:double precision"`
	ShockDetected bool     `gorm:"not null;default:false"`

	FuelLevel      *float64 `gorm:"type:double precision"`
	IgnitionStatus *bool    `gorm:"type:boolean"`
	DoorStatus     JSON     `gorm:"type:jsonb"`

	SignalStrength *int `gorm:"type:integer"`
	RawData        JSON `gorm:"type:jsonb"`

	Timestamp time.Time `gorm:"not null;uniqueIndex:idx_readings_device_ts,priority:2;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ReadingModel) TableName() string {
	return "telemetry_readings"
}
