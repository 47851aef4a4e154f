package device

import (
	"time"

	"github.com/google/uuid"
)

// DeviceType categorizes the sensors installed on a vehicle
type DeviceType string

const (
	TypeGPS          DeviceType = "GPS"
	TypeTempHumidity DeviceType = "TEMP_HUMIDITY"
	TypeShock        DeviceType = "SHOCK"
	TypeCombo        DeviceType = "COMBO"
)

// DeviceStatus represents the operational status of a device. Status
// transitions are driven externally by the maintenance workflow; devices are
// never deleted, only marked INACTIVE.
type DeviceStatus string

const (
	StatusActive      DeviceStatus = "ACTIVE"
	StatusInactive    DeviceStatus = "INACTIVE"
	StatusMaintenance DeviceStatus = "MAINTENANCE"
	StatusError       DeviceStatus = "ERROR"
)

// Device represents an IoT tracker installed on a transport vehicle.
type Device struct {
	ID         uuid.UUID
	DeviceID   string
	DeviceType DeviceType
	VehicleID  uuid.UUID
	// AssignedDriverID pairs the device with the driver of its vehicle.
	// Set at installation time; used to attribute readings to drivers
	// for the dashboard map.
	AssignedDriverID *uuid.UUID
	Status           DeviceStatus
	FirmwareVersion  *string
	LastHeartbeat    *time.Time
	BatteryLevel     *float64
	InstalledAt      time.Time
	UpdatedAt        time.Time
	Notes            string
}

// IsResponsive reports whether the device sent a heartbeat recently.
func (d *Device) IsResponsive(window time.Duration) bool {
	if d.LastHeartbeat == nil {
		return false
	}
	return time.Since(*d.LastHeartbeat) < window
}

// BatteryStatus summarizes battery health for dashboards.
func (d *Device) BatteryStatus() string {
	if d.BatteryLevel == nil {
		return "UNKNOWN"
	}
	switch {
	case *d.BatteryLevel > 50:
		return "GOOD"
	case *d.BatteryLevel > 20:
		return "LOW"
	default:
		return "CRITICAL"
	}
}

func ValidStatus(s DeviceStatus) bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance, StatusError:
		return true
	}
	return false
}

func ValidType(t DeviceType) bool {
	switch t {
	case TypeGPS, TypeTempHumidity, TypeShock, TypeCombo:
		return true
	}
	return false
}
