// Package shipment holds the read-only view of shipments this core consumes.
// Shipments themselves are owned by an external collaborator; the alert
// engine only needs the shipment number and its environmental threshold
// bounds.
package shipment

import (
	"github.com/google/uuid"
)

type Shipment struct {
	ID             uuid.UUID
	ShipmentNumber string

	TempMin     *float64
	TempMax     *float64
	HumidityMin *float64
	HumidityMax *float64
}

// HasTemperatureBounds reports whether the shipment defines a temperature
// band the alert engine can evaluate.
func (s *Shipment) HasTemperatureBounds() bool {
	return s.TempMin != nil && s.TempMax != nil
}
