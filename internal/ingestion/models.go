package ingestion

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TelemetryMessage represents one incoming reading from an IoT tracker,
// either over MQTT or the HTTP batch endpoint. DeviceID is the external
// hardware identifier, not the registry row ID.
type TelemetryMessage struct {
	DeviceID   string     `json:"device_id"`
	ShipmentID *uuid.UUID `json:"shipment_id"`
	Timestamp  time.Time  `json:"timestamp"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
	Altitude  *float64 `json:"altitude"`

	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`

	AccelerationX *float64 `json:"acceleration_x"`
	AccelerationY *float64 `json:"acceleration_y"`
	AccelerationZ *float64 `json:"acceleration_z"`
	ShockDetected bool     `json:"shock_detected"`

	FuelLevel      *float64        `json:"fuel_level"`
	IgnitionStatus *bool           `json:"ignition_status"`
	DoorStatus     map[string]bool `json:"door_status"`

	BatteryLevel   *float64        `json:"battery_level"`
	SignalStrength *int            `json:"signal_strength"`
	Raw            json.RawMessage `json:"-"`
}

// ParseTelemetry parses a JSON payload to a TelemetryMessage, keeping the
// raw bytes for the audit trail. A missing timestamp defaults to arrival
// time.
func ParseTelemetry(payload []byte) (*TelemetryMessage, error) {
	var msg TelemetryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	msg.Raw = append(json.RawMessage(nil), payload...)
	return &msg, nil
}
