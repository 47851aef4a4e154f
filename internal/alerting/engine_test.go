package alerting

import (
	"context"
	"testing"
	"time"

	domainAlert "agri-transport-monitor/internal/domain/alert"
	domainShipment "agri-transport-monitor/internal/domain/shipment"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"

	"github.com/google/uuid"
)

type fakeAlertRepo struct {
	alerts map[uuid.UUID]*domainAlert.TemperatureAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[uuid.UUID]*domainAlert.TemperatureAlert)}
}

func (f *fakeAlertRepo) Create(_ context.Context, a *domainAlert.TemperatureAlert) error {
	a.ID = uuid.New()
	copied := *a
	f.alerts[a.ID] = &copied
	return nil
}

func (f *fakeAlertRepo) GetByID(_ context.Context, id uuid.UUID) (*domainAlert.TemperatureAlert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return nil, domainAlert.ErrAlertNotFound
	}
	return a, nil
}

func (f *fakeAlertRepo) UpdateBreach(_ context.Context, id uuid.UUID, severity domainAlert.Severity, currentValue float64, durationMinutes int) error {
	a, ok := f.alerts[id]
	if !ok || a.ResolvedAt != nil {
		return domainAlert.ErrAlertNotFound
	}
	a.Severity = severity
	a.CurrentValue = currentValue
	a.DurationMinutes = durationMinutes
	return nil
}

func (f *fakeAlertRepo) Acknowledge(_ context.Context, id uuid.UUID, at time.Time) error {
	a, ok := f.alerts[id]
	if !ok {
		return domainAlert.ErrAlertNotFound
	}
	if a.AcknowledgedAt == nil {
		a.AcknowledgedAt = &at
	}
	return nil
}

func (f *fakeAlertRepo) Resolve(_ context.Context, id uuid.UUID, at time.Time, resolvedBy uuid.UUID, notes string) error {
	a, ok := f.alerts[id]
	if !ok {
		return domainAlert.ErrAlertNotFound
	}
	if a.ResolvedAt == nil {
		a.ResolvedAt = &at
		a.ResolvedBy = &resolvedBy
		a.Notes = notes
	}
	return nil
}

func (f *fakeAlertRepo) List(context.Context, *domainAlert.Filter) ([]*domainAlert.TemperatureAlert, error) {
	result := make([]*domainAlert.TemperatureAlert, 0, len(f.alerts))
	for _, a := range f.alerts {
		result = append(result, a)
	}
	return result, nil
}

type fakeShipmentRepo struct {
	shipments map[uuid.UUID]*domainShipment.Shipment
}

func (f *fakeShipmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domainShipment.Shipment, error) {
	s, ok := f.shipments[id]
	if !ok {
		return nil, domainShipment.ErrShipmentNotFound
	}
	return s, nil
}

func floatPtr(v float64) *float64 { return &v }

func coldChainShipment() *domainShipment.Shipment {
	return &domainShipment.Shipment{
		ID:             uuid.New(),
		ShipmentNumber: "SHP-2025-0001",
		TempMin:        floatPtr(2.0),
		TempMax:        floatPtr(8.0),
	}
}

func tempReading(shipmentID, deviceID uuid.UUID, temp float64, ts time.Time) *domainTelemetry.Reading {
	return &domainTelemetry.Reading{
		DeviceID:    deviceID,
		ShipmentID:  &shipmentID,
		Temperature: &temp,
		Timestamp:   ts,
	}
}

func TestSeverityFor(t *testing.T) {
	bands := DefaultBands()
	tests := []struct {
		duration time.Duration
		want     domainAlert.Severity
	}{
		{0, domainAlert.SeverityLow},
		{4 * time.Minute, domainAlert.SeverityLow},
		{5 * time.Minute, domainAlert.SeverityMedium},
		{14 * time.Minute, domainAlert.SeverityMedium},
		{15 * time.Minute, domainAlert.SeverityHigh},
		{29 * time.Minute, domainAlert.SeverityHigh},
		{30 * time.Minute, domainAlert.SeverityCritical},
		{2 * time.Hour, domainAlert.SeverityCritical},
	}

	for _, tt := range tests {
		if got := bands.SeverityFor(tt.duration); got != tt.want {
			t.Errorf("SeverityFor(%v) = %s, want %s", tt.duration, got, tt.want)
		}
	}
}

func TestEvaluateBreachSequence(t *testing.T) {
	ship := coldChainShipment()
	alerts := newFakeAlertRepo()
	engine := NewEngine(alerts, &fakeShipmentRepo{shipments: map[uuid.UUID]*domainShipment.Shipment{ship.ID: ship}}, NewMemoryStateStore(), DefaultBands())
	ctx := context.Background()

	deviceID := uuid.New()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	// First out-of-range reading opens one LOW alert.
	if err := engine.Evaluate(ctx, tempReading(ship.ID, deviceID, 12.5, base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts.alerts))
	}
	var alert *domainAlert.TemperatureAlert
	for _, a := range alerts.alerts {
		alert = a
	}
	if alert.Severity != domainAlert.SeverityLow {
		t.Errorf("expected LOW at breach start, got %s", alert.Severity)
	}
	if alert.ThresholdMin != 2.0 || alert.ThresholdMax != 8.0 {
		t.Errorf("thresholds not snapshotted: %+v", alert)
	}

	// Continuing breach updates the same alert, escalating severity.
	if err := engine.Evaluate(ctx, tempReading(ship.ID, deviceID, 13.0, base.Add(20*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("expected breach to update in place, got %d alerts", len(alerts.alerts))
	}
	if alert.Severity != domainAlert.SeverityHigh {
		t.Errorf("expected HIGH after 20m, got %s", alert.Severity)
	}
	if alert.CurrentValue != 13.0 {
		t.Errorf("expected current value 13.0, got %f", alert.CurrentValue)
	}
	if alert.DurationMinutes != 20 {
		t.Errorf("expected 20 minutes, got %d", alert.DurationMinutes)
	}

	// Back in range ends the sequence; the alert stays open.
	if err := engine.Evaluate(ctx, tempReading(ship.ID, deviceID, 5.0, base.Add(25*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.ResolvedAt != nil {
		t.Errorf("returning in range must not resolve the alert")
	}

	// A new breach opens a second alert.
	if err := engine.Evaluate(ctx, tempReading(ship.ID, deviceID, 14.0, base.Add(30*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 2 {
		t.Fatalf("expected a fresh alert for the new sequence, got %d", len(alerts.alerts))
	}
}

func TestEvaluateIgnoresReadingsOutsideScope(t *testing.T) {
	ship := coldChainShipment()
	alerts := newFakeAlertRepo()
	engine := NewEngine(alerts, &fakeShipmentRepo{shipments: map[uuid.UUID]*domainShipment.Shipment{ship.ID: ship}}, NewMemoryStateStore(), DefaultBands())
	ctx := context.Background()

	deviceID := uuid.New()
	now := time.Now()

	// No shipment attached.
	temp := 50.0
	if err := engine.Evaluate(ctx, &domainTelemetry.Reading{DeviceID: deviceID, Temperature: &temp, Timestamp: now}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No temperature.
	if err := engine.Evaluate(ctx, &domainTelemetry.Reading{DeviceID: deviceID, ShipmentID: &ship.ID, Timestamp: now}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown shipment.
	unknown := uuid.New()
	if err := engine.Evaluate(ctx, tempReading(unknown, deviceID, 50.0, now)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(alerts.alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts.alerts))
	}
}

func TestEvaluateShipmentWithoutBounds(t *testing.T) {
	ship := &domainShipment.Shipment{ID: uuid.New(), ShipmentNumber: "SHP-2025-0002"}
	alerts := newFakeAlertRepo()
	engine := NewEngine(alerts, &fakeShipmentRepo{shipments: map[uuid.UUID]*domainShipment.Shipment{ship.ID: ship}}, NewMemoryStateStore(), DefaultBands())

	if err := engine.Evaluate(context.Background(), tempReading(ship.ID, uuid.New(), 45.0, time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 0 {
		t.Fatalf("expected no alerts without bounds, got %d", len(alerts.alerts))
	}
}

func TestEvaluateReopensAfterOperatorResolve(t *testing.T) {
	ship := coldChainShipment()
	alerts := newFakeAlertRepo()
	engine := NewEngine(alerts, &fakeShipmentRepo{shipments: map[uuid.UUID]*domainShipment.Shipment{ship.ID: ship}}, NewMemoryStateStore(), DefaultBands())
	ctx := context.Background()

	deviceID := uuid.New()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	if err := engine.Evaluate(ctx, tempReading(ship.ID, deviceID, 12.0, base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Operator resolves the open alert while the breach is still running.
	for id := range alerts.alerts {
		if err := alerts.Resolve(ctx, id, base.Add(time.Minute), uuid.New(), "sensor recalibrated"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// The next breach reading must open a fresh alert instead of failing.
	if err := engine.Evaluate(ctx, tempReading(ship.ID, deviceID, 12.5, base.Add(2*time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 2 {
		t.Fatalf("expected a new alert after operator resolve, got %d", len(alerts.alerts))
	}
}
