package telemetry

import (
	"context"
	"errors"
	"time"

	domainDevice "agri-transport-monitor/internal/domain/device"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/ingestion"
	appErrors "agri-transport-monitor/pkg/errors"

	"github.com/google/uuid"
)

// Enqueuer is the slice of the ingestion processor the HTTP path needs.
type Enqueuer interface {
	Enqueue(msg *ingestion.TelemetryMessage) error
	GetMetrics() ingestion.IngestMetrics
}

// Service implements telemetry use cases: batch submission and the
// freshness-windowed dashboard queries.
type Service struct {
	enqueuer      Enqueuer
	telemetryRepo domainTelemetry.Repository
	deviceRepo    domainDevice.Repository

	freshnessWindow time.Duration
}

// NewService creates a new telemetry service
func NewService(enqueuer Enqueuer, telemetryRepo domainTelemetry.Repository, deviceRepo domainDevice.Repository, freshnessWindow time.Duration) *Service {
	if freshnessWindow <= 0 {
		freshnessWindow = 30 * time.Minute
	}
	return &Service{
		enqueuer:        enqueuer,
		telemetryRepo:   telemetryRepo,
		deviceRepo:      deviceRepo,
		freshnessWindow: freshnessWindow,
	}
}

// IngestBatch feeds a batch into the pipeline item by item. Invalid items
// are rejected individually; one bad reading never sinks the batch.
func (s *Service) IngestBatch(_ context.Context, messages []*ingestion.TelemetryMessage) (*BatchResult, error) {
	if len(messages) == 0 {
		return nil, appErrors.Validation("Batch must contain at least one reading", nil)
	}

	result := &BatchResult{}
	for i, msg := range messages {
		if err := s.enqueuer.Enqueue(msg); err != nil {
			result.Rejected = append(result.Rejected, BatchReject{
				Index:    i,
				DeviceID: msg.DeviceID,
				Reason:   err.Error(),
			})
			continue
		}
		result.Accepted++
	}

	return result, nil
}

// GetLatest returns the most recent reading for one device, looked up by
// its external hardware identifier.
func (s *Service) GetLatest(ctx context.Context, deviceID string) (*ReadingResponse, error) {
	device, err := s.device(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	reading, err := s.telemetryRepo.LatestByDevice(ctx, device.ID)
	if err != nil {
		if errors.Is(err, domainTelemetry.ErrReadingNotFound) {
			return nil, appErrors.NotFound("No readings for this device", err)
		}
		return nil, err
	}

	return ToReadingResponse(reading), nil
}

// ActiveDrivers returns, for every driver whose vehicle reported within the
// freshness window, the single freshest reading.
func (s *Service) ActiveDrivers(ctx context.Context) ([]*ActiveDriverResponse, error) {
	driverReadings, err := s.telemetryRepo.LatestPerDriver(ctx, time.Now(), s.freshnessWindow)
	if err != nil {
		return nil, err
	}

	responses := make([]*ActiveDriverResponse, len(driverReadings))
	for i, dr := range driverReadings {
		responses[i] = ToActiveDriverResponse(dr)
	}

	return responses, nil
}

// IngestMetrics exposes the pipeline counters for the status endpoint.
func (s *Service) IngestMetrics() ingestion.IngestMetrics {
	return s.enqueuer.GetMetrics()
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
