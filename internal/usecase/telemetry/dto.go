package telemetry

import (
	"time"

	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"

	"github.com/google/uuid"
)

// BatchResult reports per-item outcomes for a batch submission.
type BatchResult struct {
	Accepted int           `json:"accepted"`
	Rejected []BatchReject `json:"rejected,omitempty"`
}

type BatchReject struct {
	Index    int    `json:"index"`
	DeviceID string `json:"device_id,omitempty"`
	Reason   string `json:"reason"`
}

type ReadingResponse struct {
	ID         int64      `json:"id"`
	DeviceID   uuid.UUID  `json:"device_id"`
	ShipmentID *uuid.UUID `json:"shipment_id,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`

	ShockDetected  bool            `json:"shock_detected"`
	FuelLevel      *float64        `json:"fuel_level,omitempty"`
	IgnitionStatus *bool           `json:"ignition_status,omitempty"`
	DoorStatus     map[string]bool `json:"door_status,omitempty"`
	SignalStrength *int            `json:"signal_strength,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// ActiveDriverResponse is one marker on the dashboard map: a driver and the
// freshest position their vehicle reported.
type ActiveDriverResponse struct {
	DriverID  uuid.UUID `json:"driver_id"`
	Username  string    `json:"username"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func ToReadingResponse(r *domainTelemetry.Reading) *ReadingResponse {
	return &ReadingResponse{
		ID:             r.ID,
		DeviceID:       r.DeviceID,
		ShipmentID:     r.ShipmentID,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Speed:          r.Speed,
		Heading:        r.Heading,
		Altitude:       r.Altitude,
		Temperature:    r.Temperature,
		Humidity:       r.Humidity,
		Pressure:       r.Pressure,
		ShockDetected:  r.ShockDetected,
		FuelLevel:      r.FuelLevel,
		IgnitionStatus: r.IgnitionStatus,
		DoorStatus:     r.DoorStatus,
		SignalStrength: r.SignalStrength,
		Timestamp:      r.Timestamp,
	}
}

func ToActiveDriverResponse(dr *domainTelemetry.DriverReading) *ActiveDriverResponse {
	return &ActiveDriverResponse{
		DriverID:  dr.DriverID,
		Username:  dr.Username,
		Latitude:  dr.Reading.Latitude,
		Longitude: dr.Reading.Longitude,
		Speed:     dr.Reading.Speed,
		Heading:   dr.Reading.Heading,
		Timestamp: dr.Reading.Timestamp,
	}
}
