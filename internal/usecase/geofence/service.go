package geofence

import (
	"context"
	"errors"

	domainDevice "agri-transport-monitor/internal/domain/device"
	domainGeofence "agri-transport-monitor/internal/domain/geofence"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/geofencing"
	"agri-transport-monitor/internal/logger"
	appErrors "agri-transport-monitor/pkg/errors"
	"agri-transport-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements geofence management and containment queries
type Service struct {
	geofenceRepo  domainGeofence.Repository
	telemetryRepo domainTelemetry.Repository
	deviceRepo    domainDevice.Repository
	engine        *geofencing.Engine
}

// NewService creates a new geofence service
func NewService(geofenceRepo domainGeofence.Repository, telemetryRepo domainTelemetry.Repository, deviceRepo domainDevice.Repository, engine *geofencing.Engine) *Service {
	return &Service{
		geofenceRepo:  geofenceRepo,
		telemetryRepo: telemetryRepo,
		deviceRepo:    deviceRepo,
		engine:        engine,
	}
}

func (s *Service) CreateGeofence(ctx context.Context, createdBy uuid.UUID, req *CreateGeofenceRequest) (*GeofenceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}
	if req.RadiusMeters <= 0 {
		return nil, appErrors.Validation("Radius must be positive", domainGeofence.ErrInvalidRadius)
	}

	boolOr := func(v *bool, def bool) bool {
		if v == nil {
			return def
		}
		return *v
	}

	fence := &domainGeofence.Geofence{
		Name:               utils.SanitizeString(req.Name),
		Description:        utils.SanitizeText(req.Description),
		CenterLatitude:     req.CenterLatitude,
		CenterLongitude:    req.CenterLongitude,
		RadiusMeters:       req.RadiusMeters,
		AlertOnEntry:       boolOr(req.AlertOnEntry, true),
		AlertOnExit:        boolOr(req.AlertOnExit, true),
		AlertOnDwell:       boolOr(req.AlertOnDwell, false),
		DwellTimeThreshold: req.DwellTimeThreshold,
		CreatedBy:          &createdBy,
	}

	if err := s.geofenceRepo.Create(ctx, fence); err != nil {
		return nil, err
	}
	s.engine.InvalidateCache()

	logger.Info("Geofence created",
		zap.String("geofence_id", fence.ID.String()),
		zap.String("name", fence.Name),
		zap.Float64("radius_meters", fence.RadiusMeters),
	)

	return ToGeofenceResponse(fence), nil
}

func (s *Service) GetGeofence(ctx context.Context, id uuid.UUID) (*GeofenceResponse, error) {
	fence, err := s.geofenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainGeofence.ErrGeofenceNotFound) {
			return nil, appErrors.NotFound("Geofence not found", err)
		}
		return nil, err
	}
	return ToGeofenceResponse(fence), nil
}

func (s *Service) ListGeofences(ctx context.Context, includeInactive bool) ([]*GeofenceResponse, error) {
	fences, err := s.geofenceRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]*GeofenceResponse, len(fences))
	for i, f := range fences {
		responses[i] = ToGeofenceResponse(f)
	}
	return responses, nil
}

// DeleteGeofence is a logical delete; events referencing the fence remain.
func (s *Service) DeleteGeofence(ctx context.Context, id uuid.UUID) error {
	if err := s.geofenceRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, domainGeofence.ErrGeofenceNotFound) {
			return appErrors.NotFound("Geofence not found", err)
		}
		return err
	}
	s.engine.InvalidateCache()

	logger.Info("Geofence deactivated", zap.String("geofence_id", id.String()))
	return nil
}

// CheckDevice reports, for the device's last-known position, the
// containment status against every active geofence.
func (s *Service) CheckDevice(ctx context.Context, deviceID string) ([]*ContainmentResponse, error) {
	device, err := s.device(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	reading, err := s.telemetryRepo.LatestPositionedByDevice(ctx, device.ID)
	if err != nil {
		if errors.Is(err, domainTelemetry.ErrNoPositionData) {
			return nil, appErrors.NotFound("No position data for this device", err)
		}
		return nil, err
	}

	statuses, err := s.engine.CheckDevice(ctx, device.DeviceID, *reading.Latitude, *reading.Longitude, reading.Timestamp)
	if err != nil {
		return nil, err
	}

	responses := make([]*ContainmentResponse, len(statuses))
	for i, st := range statuses {
		responses[i] = ToContainmentResponse(st)
	}
	return responses, nil
}

func (s *Service) ListEvents(ctx context.Context, req *EventFilterRequest) ([]*EventResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid filter", err)
	}

	events, err := s.geofenceRepo.ListEvents(ctx, &domainGeofence.EventFilter{
		GeofenceID: req.GeofenceID,
		DeviceID:   req.DeviceID,
		EventType:  req.EventType,
		Since:      req.Since,
		Until:      req.Until,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = ToEventResponse(e)
	}
	return responses, nil
}

func (s *Service) device(ctx context.Context, deviceID string) (*domainDevice.Device, error) {
	if id, err := uuid.Parse(deviceID); err == nil {
		device, err := s.deviceRepo.GetByID(ctx, id)
		if err == nil {
			return device, nil
		}
		if !errors.Is(err, domainDevice.ErrDeviceNotFound) {
			return nil, err
		}
	}

	device, err := s.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domainDevice.ErrDeviceNotFound) {
			return nil, appErrors.NotFound("Device not found", err)
		}
		return nil, err
	}

	return device, nil
}
