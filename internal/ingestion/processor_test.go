package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"agri-transport-monitor/internal/alerting"
	domainAlert "agri-transport-monitor/internal/domain/alert"
	domainDevice "agri-transport-monitor/internal/domain/device"
	domainGeofence "agri-transport-monitor/internal/domain/geofence"
	domainShipment "agri-transport-monitor/internal/domain/shipment"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/geofencing"

	"github.com/google/uuid"
)

// writeLog records the order of store writes across the fakes.
type writeLog struct {
	entries []string
}

type fakeReadingStore struct {
	log     *writeLog
	fail    bool
	batches [][]*domainTelemetry.Reading
}

func (s *fakeReadingStore) Insert(_ context.Context, _ *domainTelemetry.Reading) error {
	return nil
}

func (s *fakeReadingStore) BatchInsert(_ context.Context, readings []*domainTelemetry.Reading) error {
	if s.fail {
		return errors.New("store unavailable")
	}
	s.log.entries = append(s.log.entries, "insert")
	batch := make([]*domainTelemetry.Reading, len(readings))
	copy(batch, readings)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *fakeReadingStore) LatestByDevice(_ context.Context, _ uuid.UUID) (*domainTelemetry.Reading, error) {
	return nil, domainTelemetry.ErrReadingNotFound
}

func (s *fakeReadingStore) LatestPositionedByDevice(_ context.Context, _ uuid.UUID) (*domainTelemetry.Reading, error) {
	return nil, domainTelemetry.ErrNoPositionData
}

func (s *fakeReadingStore) LatestPerDriver(_ context.Context, _ time.Time, _ time.Duration) ([]*domainTelemetry.DriverReading, error) {
	return nil, nil
}

func (s *fakeReadingStore) ListForDeviceDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]*domainTelemetry.Reading, error) {
	return nil, nil
}

func (s *fakeReadingStore) DeviceIDsForDay(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeDeviceStore struct {
	device     *domainDevice.Device
	heartbeats int
}

func (s *fakeDeviceStore) Create(_ context.Context, _ *domainDevice.Device) error { return nil }

func (s *fakeDeviceStore) GetByID(_ context.Context, id uuid.UUID) (*domainDevice.Device, error) {
	if s.device != nil && s.device.ID == id {
		return s.device, nil
	}
	return nil, domainDevice.ErrDeviceNotFound
}

func (s *fakeDeviceStore) GetByDeviceID(_ context.Context, deviceID string) (*domainDevice.Device, error) {
	if s.device != nil && s.device.DeviceID == deviceID {
		return s.device, nil
	}
	return nil, domainDevice.ErrDeviceNotFound
}

func (s *fakeDeviceStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ domainDevice.DeviceStatus) error {
	return nil
}

func (s *fakeDeviceStore) UpdateHeartbeat(_ context.Context, _ uuid.UUID, _ time.Time, _ *float64) error {
	s.heartbeats++
	return nil
}

func (s *fakeDeviceStore) List(_ context.Context, _ *domainDevice.Filter) ([]*domainDevice.Device, int64, error) {
	return nil, 0, nil
}

type fakeFenceStore struct {
	log    *writeLog
	fences []*domainGeofence.Geofence
	events []*domainGeofence.Event
}

func (s *fakeFenceStore) Create(_ context.Context, _ *domainGeofence.Geofence) error { return nil }

func (s *fakeFenceStore) GetByID(_ context.Context, _ uuid.UUID) (*domainGeofence.Geofence, error) {
	return nil, domainGeofence.ErrGeofenceNotFound
}

func (s *fakeFenceStore) ListActive(_ context.Context) ([]*domainGeofence.Geofence, error) {
	return s.fences, nil
}

func (s *fakeFenceStore) List(_ context.Context, _ bool) ([]*domainGeofence.Geofence, error) {
	return s.fences, nil
}

func (s *fakeFenceStore) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }

func (s *fakeFenceStore) InsertEvent(_ context.Context, event *domainGeofence.Event) error {
	s.log.entries = append(s.log.entries, "event")
	s.events = append(s.events, event)
	return nil
}

func (s *fakeFenceStore) ListEvents(_ context.Context, _ *domainGeofence.EventFilter) ([]*domainGeofence.Event, error) {
	return s.events, nil
}

type fakeAlertStore struct{}

func (s *fakeAlertStore) Create(_ context.Context, _ *domainAlert.TemperatureAlert) error {
	return nil
}

func (s *fakeAlertStore) GetByID(_ context.Context, _ uuid.UUID) (*domainAlert.TemperatureAlert, error) {
	return nil, domainAlert.ErrAlertNotFound
}

func (s *fakeAlertStore) UpdateBreach(_ context.Context, _ uuid.UUID, _ domainAlert.Severity, _ float64, _ int) error {
	return nil
}

func (s *fakeAlertStore) Acknowledge(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (s *fakeAlertStore) Resolve(_ context.Context, _ uuid.UUID, _ time.Time, _ uuid.UUID, _ string) error {
	return nil
}

func (s *fakeAlertStore) List(_ context.Context, _ *domainAlert.Filter) ([]*domainAlert.TemperatureAlert, error) {
	return nil, nil
}

type fakeShipmentStore struct{}

func (s *fakeShipmentStore) GetByID(_ context.Context, _ uuid.UUID) (*domainShipment.Shipment, error) {
	return nil, domainShipment.ErrShipmentNotFound
}

func pf(v float64) *float64 { return &v }

func newTestProcessor(t *testing.T) (*Processor, *fakeReadingStore, *fakeFenceStore, *fakeDeviceStore) {
	t.Helper()

	log := &writeLog{}
	readings := &fakeReadingStore{log: log}
	devices := &fakeDeviceStore{
		device: &domainDevice.Device{
			ID:       uuid.New(),
			DeviceID: "GPS001",
			Status:   domainDevice.StatusActive,
		},
	}
	fences := &fakeFenceStore{
		log: log,
		fences: []*domainGeofence.Geofence{{
			ID:              uuid.New(),
			Name:            "depot",
			CenterLatitude:  9.1450,
			CenterLongitude: 38.7672,
			RadiusMeters:    500,
			AlertOnEntry:    true,
			AlertOnExit:     true,
			IsActive:        true,
		}},
	}

	geofenceEngine := geofencing.NewEngine(fences, geofencing.NewMemoryStateStore(), time.Minute)
	alertEngine := alerting.NewEngine(&fakeAlertStore{}, &fakeShipmentStore{}, alerting.NewMemoryStateStore(), alerting.DefaultBands())

	p := NewProcessor(readings, devices, fences, geofenceEngine, alertEngine, Config{
		WorkerCount:  1,
		BufferSize:   16,
		BatchSize:    100,
		BatchTimeout: time.Hour,
	})
	return p, readings, fences, devices
}

func message(ts time.Time) *TelemetryMessage {
	return &TelemetryMessage{
		DeviceID:  "GPS001",
		Timestamp: ts,
		Latitude:  pf(9.1450),
		Longitude: pf(38.7672),
	}
}

func TestEventsFollowPersistedReadings(t *testing.T) {
	p, readings, fences, devices := newTestProcessor(t)

	p.Start()
	if err := p.Enqueue(message(time.Now())); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	p.Stop()

	if len(readings.batches) != 1 || len(readings.batches[0]) != 1 {
		t.Fatalf("expected one persisted batch of one reading, got %v", readings.batches)
	}
	if len(fences.events) != 1 || fences.events[0].EventType != domainGeofence.EventEntry {
		t.Fatalf("expected one ENTRY event, got %v", fences.events)
	}
	if devices.heartbeats != 1 {
		t.Errorf("heartbeats = %d, want 1", devices.heartbeats)
	}
	if want := []string{"insert", "event"}; len(readings.log.entries) != 2 ||
		readings.log.entries[0] != want[0] || readings.log.entries[1] != want[1] {
		t.Errorf("write order = %v, want %v", readings.log.entries, want)
	}
}

func TestFailedFlushSkipsEngines(t *testing.T) {
	p, readings, fences, devices := newTestProcessor(t)
	readings.fail = true

	p.Start()
	if err := p.Enqueue(message(time.Now())); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	p.Stop()

	if len(fences.events) != 0 {
		t.Errorf("expected no events for an unpersisted batch, got %v", fences.events)
	}
	if devices.heartbeats != 0 {
		t.Errorf("heartbeats = %d, want 0", devices.heartbeats)
	}
}

func TestStaleReadingsPersistedButSkipped(t *testing.T) {
	p, readings, fences, _ := newTestProcessor(t)

	now := time.Now()
	p.Start()
	if err := p.Enqueue(message(now)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := p.Enqueue(message(now.Add(-time.Minute))); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	p.Stop()

	if len(readings.batches) != 1 || len(readings.batches[0]) != 2 {
		t.Fatalf("expected both readings persisted in one batch, got %v", readings.batches)
	}
	if len(fences.events) != 1 {
		t.Fatalf("expected a single ENTRY event, got %d", len(fences.events))
	}
	if got := p.GetMetrics().MessagesStale; got != 1 {
		t.Errorf("stale messages = %d, want 1", got)
	}
}
