package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel represents the database model for Devices.
type DeviceModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DeviceID         string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	DeviceType       string     `gorm:"type:varchar(50);not null"`
	VehicleID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedDriverID *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"type:varchar(50);not null;default:'ACTIVE'"`
	FirmwareVersion  *string    `gorm:"type:varchar(100)"`
	LastHeartbeat    *time.Time `gorm:"type:timestamp"`
	BatteryLevel     *float64   `gorm:"type:double precision"`
	InstalledAt      time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
	Notes            string     `gorm:"type:text"`
}

func (DeviceModel) TableName() string {
	return "devices"
}
