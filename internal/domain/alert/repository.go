package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for alert storage.
type Repository interface {
	Create(ctx context.Context, a *TemperatureAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*TemperatureAlert, error)
	// UpdateBreach refreshes the mutable breach fields while a breach
	// sequence continues.
	UpdateBreach(ctx context.Context, id uuid.UUID, severity Severity, currentValue float64, durationMinutes int) error
	// Acknowledge sets acknowledged_at if it is not already set and the
	// alert has not been resolved; resolved alerts are terminal.
	Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error
	// Resolve sets the terminal fields if resolved_at is not already set.
	Resolve(ctx context.Context, id uuid.UUID, at time.Time, resolvedBy uuid.UUID, notes string) error
	List(ctx context.Context, filter *Filter) ([]*TemperatureAlert, error)
}

// Filter represents filtering options for listing alerts
type Filter struct {
	ShipmentID *uuid.UUID
	DeviceID   *uuid.UUID
	Severity   *Severity
	Resolved   *bool
	Since      *time.Time
	Until      *time.Time
	Limit      int
}
