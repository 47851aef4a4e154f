package geofence

import (
	"context"
	"errors"
	"testing"
	"time"

	domainDevice "agri-transport-monitor/internal/domain/device"
	domainGeofence "agri-transport-monitor/internal/domain/geofence"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/geofencing"
	appErrors "agri-transport-monitor/pkg/errors"

	"github.com/google/uuid"
)

type fakeFenceRepo struct {
	fences []*domainGeofence.Geofence
	events []*domainGeofence.Event
}

func (r *fakeFenceRepo) Create(_ context.Context, fence *domainGeofence.Geofence) error {
	fence.ID = uuid.New()
	fence.IsActive = true
	r.fences = append(r.fences, fence)
	return nil
}

func (r *fakeFenceRepo) GetByID(_ context.Context, id uuid.UUID) (*domainGeofence.Geofence, error) {
	for _, f := range r.fences {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, domainGeofence.ErrGeofenceNotFound
}

func (r *fakeFenceRepo) ListActive(_ context.Context) ([]*domainGeofence.Geofence, error) {
	var out []*domainGeofence.Geofence
	for _, f := range r.fences {
		if f.IsActive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFenceRepo) List(_ context.Context, includeInactive bool) ([]*domainGeofence.Geofence, error) {
	if includeInactive {
		return r.fences, nil
	}
	return r.ListActive(context.Background())
}

func (r *fakeFenceRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	for _, f := range r.fences {
		if f.ID == id {
			f.IsActive = false
			return nil
		}
	}
	return domainGeofence.ErrGeofenceNotFound
}

func (r *fakeFenceRepo) InsertEvent(_ context.Context, event *domainGeofence.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeFenceRepo) ListEvents(_ context.Context, _ *domainGeofence.EventFilter) ([]*domainGeofence.Event, error) {
	return r.events, nil
}

type fakeDeviceRepo struct {
	devices []*domainDevice.Device
}

func (r *fakeDeviceRepo) Create(_ context.Context, d *domainDevice.Device) error {
	r.devices = append(r.devices, d)
	return nil
}

func (r *fakeDeviceRepo) GetByID(_ context.Context, id uuid.UUID) (*domainDevice.Device, error) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domainDevice.ErrDeviceNotFound
}

func (r *fakeDeviceRepo) GetByDeviceID(_ context.Context, deviceID string) (*domainDevice.Device, error) {
	for _, d := range r.devices {
		if d.DeviceID == deviceID {
			return d, nil
		}
	}
	return nil, domainDevice.ErrDeviceNotFound
}

func (r *fakeDeviceRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ domainDevice.DeviceStatus) error {
	return nil
}

func (r *fakeDeviceRepo) UpdateHeartbeat(_ context.Context, _ uuid.UUID, _ time.Time, _ *float64) error {
	return nil
}

func (r *fakeDeviceRepo) List(_ context.Context, _ *domainDevice.Filter) ([]*domainDevice.Device, int64, error) {
	return r.devices, int64(len(r.devices)), nil
}

type fakeTelemetryRepo struct {
	readings []*domainTelemetry.Reading
}

func (r *fakeTelemetryRepo) Insert(_ context.Context, reading *domainTelemetry.Reading) error {
	r.readings = append(r.readings, reading)
	return nil
}

func (r *fakeTelemetryRepo) BatchInsert(_ context.Context, readings []*domainTelemetry.Reading) error {
	r.readings = append(r.readings, readings...)
	return nil
}

func (r *fakeTelemetryRepo) latest(deviceID uuid.UUID, positioned bool) *domainTelemetry.Reading {
	var best *domainTelemetry.Reading
	for _, reading := range r.readings {
		if reading.DeviceID != deviceID {
			continue
		}
		if positioned && !reading.HasPosition() {
			continue
		}
		if best == nil || reading.Timestamp.After(best.Timestamp) {
			best = reading
		}
	}
	return best
}

func (r *fakeTelemetryRepo) LatestByDevice(_ context.Context, deviceID uuid.UUID) (*domainTelemetry.Reading, error) {
	if best := r.latest(deviceID, false); best != nil {
		return best, nil
	}
	return nil, domainTelemetry.ErrReadingNotFound
}

func (r *fakeTelemetryRepo) LatestPositionedByDevice(_ context.Context, deviceID uuid.UUID) (*domainTelemetry.Reading, error) {
	if best := r.latest(deviceID, true); best != nil {
		return best, nil
	}
	return nil, domainTelemetry.ErrNoPositionData
}

func (r *fakeTelemetryRepo) LatestPerDriver(_ context.Context, _ time.Time, _ time.Duration) ([]*domainTelemetry.DriverReading, error) {
	return nil, nil
}

func (r *fakeTelemetryRepo) ListForDeviceDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]*domainTelemetry.Reading, error) {
	return nil, nil
}

func (r *fakeTelemetryRepo) DeviceIDsForDay(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func kindOf(t *testing.T, err error) appErrors.Kind {
	t.Helper()
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Kind
}

func fptr(v float64) *float64 { return &v }

func newCheckFixture(t *testing.T) (*Service, *fakeTelemetryRepo, *domainDevice.Device, *domainGeofence.Geofence) {
	t.Helper()

	fenceRepo := &fakeFenceRepo{}
	fence := &domainGeofence.Geofence{
		Name:            "Addis depot",
		CenterLatitude:  9.1450,
		CenterLongitude: 38.7672,
		RadiusMeters:    500,
	}
	if err := fenceRepo.Create(context.Background(), fence); err != nil {
		t.Fatalf("failed to seed fence: %v", err)
	}

	device := &domainDevice.Device{
		ID:       uuid.New(),
		DeviceID: "GPS001",
		Status:   domainDevice.StatusActive,
	}
	deviceRepo := &fakeDeviceRepo{devices: []*domainDevice.Device{device}}
	telemetryRepo := &fakeTelemetryRepo{}

	engine := geofencing.NewEngine(fenceRepo, geofencing.NewMemoryStateStore(), time.Minute)
	svc := NewService(fenceRepo, telemetryRepo, deviceRepo, engine)
	return svc, telemetryRepo, device, fence
}

func TestCheckDeviceUsesLastKnownPosition(t *testing.T) {
	svc, telemetryRepo, device, fence := newCheckFixture(t)

	positionedAt := time.Now().Add(-10 * time.Minute)
	telemetryRepo.readings = []*domainTelemetry.Reading{
		{
			DeviceID:  device.ID,
			Latitude:  fptr(9.1450),
			Longitude: fptr(38.7672),
			Timestamp: positionedAt,
		},
		// A newer temperature-only reading must not mask the fix.
		{
			DeviceID:    device.ID,
			Temperature: fptr(4.2),
			Timestamp:   time.Now(),
		},
	}

	statuses, err := svc.CheckDevice(context.Background(), device.DeviceID)
	if err != nil {
		t.Fatalf("CheckDevice failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 containment status, got %d", len(statuses))
	}
	st := statuses[0]
	if st.GeofenceID != fence.ID {
		t.Errorf("expected fence %s, got %s", fence.ID, st.GeofenceID)
	}
	if !st.IsInside {
		t.Error("expected device inside the fence")
	}
	if !st.Timestamp.Equal(positionedAt) {
		t.Errorf("expected answer from the positioned reading at %v, got %v", positionedAt, st.Timestamp)
	}
}

func TestCheckDeviceWithoutPositionData(t *testing.T) {
	svc, telemetryRepo, device, _ := newCheckFixture(t)

	telemetryRepo.readings = []*domainTelemetry.Reading{
		{
			DeviceID:    device.ID,
			Temperature: fptr(4.2),
			Timestamp:   time.Now(),
		},
	}

	_, err := svc.CheckDevice(context.Background(), device.DeviceID)
	if err == nil {
		t.Fatal("expected an error for a device without position data")
	}
	if kind := kindOf(t, err); kind != appErrors.KindNotFound {
		t.Errorf("expected NOT_FOUND, got %s", kind)
	}
}

func TestCheckDeviceUnknownDevice(t *testing.T) {
	svc, _, _, _ := newCheckFixture(t)

	_, err := svc.CheckDevice(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("expected an error for an unknown device")
	}
	if kind := kindOf(t, err); kind != appErrors.KindNotFound {
		t.Errorf("expected NOT_FOUND, got %s", kind)
	}
}
