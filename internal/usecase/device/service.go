package device

import (
	"context"
	"errors"
	"time"

	domainDevice "agri-transport-monitor/internal/domain/device"
	"agri-transport-monitor/internal/logger"
	appErrors "agri-transport-monitor/pkg/errors"
	"agri-transport-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements device registry use cases
type Service struct {
	deviceRepo domainDevice.Repository

	// responsiveWindow bounds how stale a heartbeat may be before the
	// device counts as unresponsive.
	responsiveWindow time.Duration
}

// NewService creates a new device service
func NewService(deviceRepo domainDevice.Repository, responsiveWindow time.Duration) *Service {
	if responsiveWindow <= 0 {
		responsiveWindow = 30 * time.Minute
	}
	return &Service{
		deviceRepo:       deviceRepo,
		responsiveWindow: responsiveWindow,
	}
}

func (s *Service) CreateDevice(ctx context.Context, req *CreateDeviceRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	device := &domainDevice.Device{
		DeviceID:         utils.SanitizeString(req.DeviceID),
		DeviceType:       domainDevice.DeviceType(req.DeviceType),
		VehicleID:        req.VehicleID,
		AssignedDriverID: req.AssignedDriverID,
		FirmwareVersion:  req.FirmwareVersion,
		Status:           domainDevice.StatusActive,
		Notes:            utils.SanitizeText(req.Notes),
	}

	if err := s.deviceRepo.Create(ctx, device); err != nil {
		if errors.Is(err, domainDevice.ErrDeviceAlreadyExists) {
			return nil, appErrors.Conflict("Device with this identifier already exists", err)
		}
		return nil, err
	}

	logger.Info("Device registered",
		zap.String("id", device.ID.String()),
		zap.String("device_id", device.DeviceID),
		zap.String("device_type", string(device.DeviceType)),
	)

	return ToDeviceResponse(device), nil
}

func (s *Service) GetDevice(ctx context.Context, deviceID string) (*DeviceResponse, error) {
	device, err := s.lookup(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(device), nil
}

func (s *Service) ListDevices(ctx context.Context, req *DeviceFilterRequest) (*DeviceListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid filter", err)
	}

	filter := &domainDevice.Filter{
		VehicleID:  req.VehicleID,
		DeviceType: req.DeviceType,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	devices, total, err := s.deviceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*DeviceResponse, len(devices))
	for i, d := range devices {
		responses[i] = ToDeviceResponse(d)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}

	return &DeviceListResponse{
		Devices: responses,
		Total:   total,
		Page:    page,
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, deviceID string, req *UpdateStatusRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	device, err := s.lookup(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if err := s.deviceRepo.UpdateStatus(ctx, device.ID, req.Status); err != nil {
		return nil, err
	}

	logger.Info("Device status updated",
		zap.String("device_id", device.DeviceID),
		zap.String("from", string(device.Status)),
		zap.String("to", string(req.Status)),
	)

	device.Status = req.Status
	return ToDeviceResponse(device), nil
}

// GetHealth summarizes liveness for one device.
func (s *Service) GetHealth(ctx context.Context, deviceID string) (*DeviceHealthResponse, error) {
	device, err := s.lookup(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	return &DeviceHealthResponse{
		DeviceID:      device.DeviceID,
		Status:        string(device.Status),
		Responsive:    device.IsResponsive(s.responsiveWindow),
		LastHeartbeat: device.LastHeartbeat,
		BatteryLevel:  device.BatteryLevel,
		BatteryStatus: device.BatteryStatus(),
	}, nil
}

// lookup accepts either the registry row UUID or the external hardware
// identifier.
func (s *Service) lookup(ctx context.Context, deviceID string) (*domainDevice.Device, error) {
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
