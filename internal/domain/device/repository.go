package device

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for device registry operations
type Repository interface {
	Create(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*Device, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*Device, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status DeviceStatus) error
	// UpdateHeartbeat records the latest heartbeat and optionally battery
	// level observed in a telemetry reading.
	UpdateHeartbeat(ctx context.Context, id uuid.UUID, at time.Time, batteryLevel *float64) error
	List(ctx context.Context, filter *Filter) ([]*Device, int64, error)
}

// Filter represents filtering options for listing devices
type Filter struct {
	VehicleID  *uuid.UUID
	DeviceType *DeviceType
	Status     *DeviceStatus
	Page       int
	PageSize   int
}
