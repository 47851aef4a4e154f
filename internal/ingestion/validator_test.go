package ingestion

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func validMessage() *TelemetryMessage {
	return &TelemetryMessage{
		DeviceID:    "TRK-001",
		Timestamp:   time.Now(),
		Latitude:    fptr(10.762622),
		Longitude:   fptr(106.660172),
		Temperature: fptr(6.5),
		Humidity:    fptr(85.0),
	}
}

func TestValidateTelemetry(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TelemetryMessage)
		wantErr string
	}{
		{"valid", func(m *TelemetryMessage) {}, ""},
		{"missing device id", func(m *TelemetryMessage) { m.DeviceID = "" }, "device_id"},
		{"missing timestamp", func(m *TelemetryMessage) { m.Timestamp = time.Time{} }, "timestamp"},
		{"latitude without longitude", func(m *TelemetryMessage) { m.Longitude = nil }, "latitude"},
		{"latitude out of range", func(m *TelemetryMessage) { m.Latitude = fptr(91.0) }, "latitude"},
		{"longitude out of range", func(m *TelemetryMessage) { m.Longitude = fptr(-181.0) }, "longitude"},
		{"negative speed", func(m *TelemetryMessage) { m.Speed = fptr(-4.0) }, "speed"},
		{"heading out of range", func(m *TelemetryMessage) { m.Heading = fptr(360.0) }, "heading"},
		{"temperature out of range", func(m *TelemetryMessage) { m.Temperature = fptr(150.0) }, "temperature"},
		{"humidity out of range", func(m *TelemetryMessage) { m.Humidity = fptr(101.0) }, "humidity"},
		{"fuel level out of range", func(m *TelemetryMessage) { m.FuelLevel = fptr(120.0) }, "fuel_level"},
		{"battery out of range", func(m *TelemetryMessage) { m.BatteryLevel = fptr(-5.0) }, "battery_level"},
		{"signal strength out of range", func(m *TelemetryMessage) { m.SignalStrength = iptr(10) }, "signal_strength"},
		{"no position is fine", func(m *TelemetryMessage) { m.Latitude = nil; m.Longitude = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(msg)

			err := ValidateTelemetry(msg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error")
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tt.wantErr {
				t.Errorf("expected field %q, got %q", tt.wantErr, vErr.Field)
			}
		})
	}
}

func TestParseTelemetry(t *testing.T) {
	payload := []byte(`{"device_id":"TRK-001","latitude":10.76,"longitude":106.66,"temperature":6.5,"door_status":{"rear":true}}`)

	msg, err := ParseTelemetry(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.DeviceID != "TRK-001" {
		t.Errorf("unexpected device id %q", msg.DeviceID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("expected defaulted timestamp")
	}
	if msg.DoorStatus["rear"] != true {
		t.Errorf("door status not parsed: %+v", msg.DoorStatus)
	}
	if string(msg.Raw) != string(payload) {
		t.Error("raw payload not preserved")
	}

	if _, err := ParseTelemetry([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}
