package alert

import (
	"time"

	"github.com/google/uuid"
)

// Severity grades an alert by how long the breach has persisted.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// TemperatureAlert records a sustained threshold breach for a shipment's
// cargo. Created by the alert engine when a breach sequence starts, updated
// in place while the same sequence continues, then left untouched until an
// operator acknowledges or resolves it. Lifecycle is monotonic:
// triggered → [acknowledged] → resolved; resolved is terminal.
type TemperatureAlert struct {
	ID         uuid.UUID
	ShipmentID uuid.UUID
	DeviceID   uuid.UUID

	Severity        Severity
	ThresholdMin    float64
	ThresholdMax    float64
	CurrentValue    float64
	DurationMinutes int

	TriggeredAt    time.Time
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
	ResolvedBy     *uuid.UUID
	Notes          string
}

// IsResolved reports whether the alert reached its terminal state.
func (a *TemperatureAlert) IsResolved() bool {
	return a.ResolvedAt != nil
}
