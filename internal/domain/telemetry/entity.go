package telemetry

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reading is one timestamped sensor/position report from a device. Readings
// are immutable once stored: the table is an append-only audit trail with
// exactly one row per (device, timestamp) pair.
type Reading struct {
	// ID is a monotonically increasing identifier; it breaks timestamp
	// ties when computing the latest reading per key.
	ID         int64
	DeviceID   uuid.UUID
	ShipmentID *uuid.UUID

	// GPS
	Latitude  *float64
	Longitude *float64
	Speed     *float64
	Heading   *float64
	Altitude  *float64

	// Environmental
	Temperature *float64
	Humidity    *float64
	Pressure    *float64

	// Motion
	AccelerationX *float64
	AccelerationY *float64
	AccelerationZ *float64
	ShockDetected bool

	// Vehicle
	FuelLevel      *float64
	IgnitionStatus *bool
	DoorStatus     map[string]bool

	SignalStrength *int
	RawData        json.RawMessage

	Timestamp time.Time
	CreatedAt time.Time
}

// HasPosition reports whether the reading carries a usable coordinate.
func (r *Reading) HasPosition() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// DriverReading pairs a driver with that driver's most recent reading, for
// the dashboard map.
type DriverReading struct {
	DriverID uuid.UUID
	Username string
	Reading  Reading
}
