package postgres

import (
	domainDevice "agri-transport-monitor/internal/domain/device"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceRepository implements domain device.Repository interface
type DeviceRepository struct {
	db *DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *domainDevice.Device) error {
	d.ID = uuid.New()
	d.InstalledAt = time.Now()
	d.UpdatedAt = time.Now()
	if d.Status == "" {
		d.Status = domainDevice.StatusActive
	}

	dbModel := toDeviceModel(d)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainDevice.ErrDeviceAlreadyExists
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	d.ID = dbModel.ID
	d.InstalledAt = dbModel.InstalledAt
	d.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domainDevice.DeviceStatus) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) UpdateHeartbeat(ctx context.Context, id uuid.UUID, at time.Time, batteryLevel *float64) error {
	updates := map[string]interface{}{
		"last_heartbeat": at,
		"updated_at":     time.Now(),
	}
	if batteryLevel != nil {
		updates["battery_level"] = *batteryLevel
	}

	return r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ? AND (last_heartbeat IS NULL OR last_heartbeat < ?)", id, at).
		Updates(updates).Error
}

func (r *DeviceRepository) List(ctx context.Context, filter *domainDevice.Filter) ([]*domainDevice.Device, int64, error) {
	var dbModels []models.DeviceModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.DeviceModel{})

	if filter.VehicleID != nil {
		db = db.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.DeviceType != nil {
		db = db.Where("device_type = ?", string(*filter.DeviceType))
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count devices: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("installed_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]*domainDevice.Device, len(dbModels))
	for i := range dbModels {
		devices[i] = toDeviceEntity(&dbModels[i])
	}

	return devices, total, nil
}

// Helper functions to convert between domain entities and database models

func toDeviceModel(d *domainDevice.Device) *models.DeviceModel {
	return &models.DeviceModel{
		ID:               d.ID,
		DeviceID:         d.DeviceID,
		DeviceType:       string(d.DeviceType),
		VehicleID:        d.VehicleID,
		AssignedDriverID: d.AssignedDriverID,
		Status:           string(d.Status),
		FirmwareVersion:  d.FirmwareVersion,
		LastHeartbeat:    d.LastHeartbeat,
		BatteryLevel:     d.BatteryLevel,
		InstalledAt:      d.InstalledAt,
		UpdatedAt:        d.UpdatedAt,
		Notes:            d.Notes,
	}
}

func toDeviceEntity(m *models.DeviceModel) *domainDevice.Device {
	return &domainDevice.Device{
		ID:               m.ID,
		DeviceID:         m.DeviceID,
		DeviceType:       domainDevice.DeviceType(m.DeviceType),
		VehicleID:        m.VehicleID,
		AssignedDriverID: m.AssignedDriverID,
		Status:           domainDevice.DeviceStatus(m.Status),
		FirmwareVersion:  m.FirmwareVersion,
		LastHeartbeat:    m.LastHeartbeat,
		BatteryLevel:     m.BatteryLevel,
		InstalledAt:      m.InstalledAt,
		UpdatedAt:        m.UpdatedAt,
		Notes:            m.Notes,
	}
}
