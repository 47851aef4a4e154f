package device

import (
	"time"

	domainDevice "agri-transport-monitor/internal/domain/device"

	"github.com/google/uuid"
)

type CreateDeviceRequest struct {
	DeviceID         string     `json:"device_id" validate:"required,min=3,max=255"`
	DeviceType       string     `json:"device_type" validate:"required,oneof=GPS TEMP_HUMIDITY SHOCK COMBO"`
	VehicleID        uuid.UUID  `json:"vehicle_id" validate:"required"`
	AssignedDriverID *uuid.UUID `json:"assigned_driver_id"`
	FirmwareVersion  *string    `json:"firmware_version" validate:"omitempty,max=100"`
	Notes            string     `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status domainDevice.DeviceStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE MAINTENANCE ERROR"`
}

type DeviceFilterRequest struct {
	VehicleID  *uuid.UUID                 `form:"vehicle_id"`
	DeviceType *domainDevice.DeviceType   `form:"device_type"`
	Status     *domainDevice.DeviceStatus `form:"status"`
	Page       int                        `form:"page" validate:"omitempty,min=1"`
	PageSize   int                        `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type DeviceResponse struct {
	ID               uuid.UUID  `json:"id"`
	DeviceID         string     `json:"device_id"`
	DeviceType       string     `json:"device_type"`
	VehicleID        uuid.UUID  `json:"vehicle_id"`
	AssignedDriverID *uuid.UUID `json:"assigned_driver_id,omitempty"`
	Status           string     `json:"status"`
	FirmwareVersion  *string    `json:"firmware_version,omitempty"`
	LastHeartbeat    *time.Time `json:"last_heartbeat,omitempty"`
	BatteryLevel     *float64   `json:"battery_level,omitempty"`
	InstalledAt      time.Time  `json:"installed_at"`
	Notes            string     `json:"notes,omitempty"`
}

type DeviceHealthResponse struct {
	DeviceID      string     `json:"device_id"`
	Status        string     `json:"status"`
	Responsive    bool       `json:"responsive"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
	BatteryLevel  *float64   `json:"battery_level,omitempty"`
	BatteryStatus string     `json:"battery_status"`
}

type DeviceListResponse struct {
	Devices []*DeviceResponse `json:"devices"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
}

func ToDeviceResponse(d *domainDevice.Device) *DeviceResponse {
	return &DeviceResponse{
		ID:               d.ID,
		DeviceID:         d.DeviceID,
		DeviceType:       string(d.DeviceType),
		VehicleID:        d.VehicleID,
		AssignedDriverID: d.AssignedDriverID,
		Status:           string(d.Status),
		FirmwareVersion:  d.FirmwareVersion,
		LastHeartbeat:    d.LastHeartbeat,
		BatteryLevel:     d.BatteryLevel,
		InstalledAt:      d.InstalledAt,
		Notes:            d.Notes,
	}
}
