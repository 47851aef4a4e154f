package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for the durable telemetry store.
// The store is append-only: there is no update or delete.
type Repository interface {
	Insert(ctx context.Context, reading *Reading) error
	BatchInsert(ctx context.Context, readings []*Reading) error

	// LatestByDevice returns the most recent reading for one device,
	// ties on timestamp broken by highest reading ID.
	LatestByDevice(ctx context.Context, deviceID uuid.UUID) (*Reading, error)

	// LatestPositionedByDevice returns the most recent reading for one
	// device that carries a coordinate pair. A newer reading without a
	// fix never masks the last-known position.
	LatestPositionedByDevice(ctx context.Context, deviceID uuid.UUID) (*Reading, error)

	// LatestPerDriver returns, for every driver whose paired device
	// reported within the freshness window ending at now, that driver's
	// single most recent reading.
	LatestPerDriver(ctx context.Context, now time.Time, window time.Duration) ([]*DriverReading, error)

	// ListForDeviceDay returns all readings recorded by a device within
	// the UTC day starting at dayStart, ordered by timestamp. Used by the
	// data quality aggregation.
	ListForDeviceDay(ctx context.Context, deviceID uuid.UUID, dayStart time.Time) ([]*Reading, error)

	// DeviceIDsForDay lists devices that reported at least one reading in
	// the UTC day starting at dayStart.
	DeviceIDsForDay(ctx context.Context, dayStart time.Time) ([]uuid.UUID, error)
}
