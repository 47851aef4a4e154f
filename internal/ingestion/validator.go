package ingestion

import (
	"fmt"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ValidateTelemetry validates a telemetry message before it enters the
// pipeline. Position must be both-or-neither; sensor values are checked
// against physical ranges.
func ValidateTelemetry(msg *TelemetryMessage) error {
	if msg.DeviceID == "" {
		return &ValidationError{Field: "device_id", Message: "device_id is required"}
	}

	if msg.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "timestamp is required"}
	}

	if (msg.Latitude == nil) != (msg.Longitude == nil) {
		return &ValidationError{Field: "latitude", Message: "latitude and longitude must be provided together"}
	}

	if msg.Latitude != nil {
		if *msg.Latitude < -90 || *msg.Latitude > 90 {
			return &ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"}
		}
		if *msg.Longitude < -180 || *msg.Longitude > 180 {
			return &ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"}
		}
	}

	if msg.Speed != nil && *msg.Speed < 0 {
		return &ValidationError{Field: "speed", Message: "speed must be non-negative"}
	}

	if msg.Heading != nil {
		if *msg.Heading < 0 || *msg.Heading >= 360 {
			return &ValidationError{Field: "heading", Message: "heading must be between 0 and 360"}
		}
	}

	if msg.Temperature != nil {
		if *msg.Temperature < -100 || *msg.Temperature > 100 {
			return &ValidationError{Field: "temperature", Message: "temperature must be between -100 and 100"}
		}
	}

	if msg.Humidity != nil {
		if *msg.Humidity < 0 || *msg.Humidity > 100 {
			return &ValidationError{Field: "humidity", Message: "humidity must be between 0 and 100"}
		}
	}

	if msg.FuelLevel != nil {
		if *msg.FuelLevel < 0 || *msg.FuelLevel > 100 {
			return &ValidationError{Field: "fuel_level", Message: "fuel_level must be between 0 and 100"}
		}
	}

	if msg.BatteryLevel != nil {
		if *msg.BatteryLevel < 0 || *msg.BatteryLevel > 100 {
			return &ValidationError{Field: "battery_level", Message: "battery_level must be between 0 and 100"}
		}
	}

	if msg.SignalStrength != nil {
		if *msg.SignalStrength < -120 || *msg.SignalStrength > 0 {
			return &ValidationError{Field: "signal_strength", Message: "signal_strength must be between -120 and 0"}
		}
	}

	return nil
}
