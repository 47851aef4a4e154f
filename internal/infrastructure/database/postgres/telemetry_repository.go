package postgres

import (
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TelemetryRepository implements domain telemetry.Repository interface
type TelemetryRepository struct {
	db *DB
}

// NewTelemetryRepository creates a new telemetry repository
func NewTelemetryRepository(db *DB) domainTelemetry.Repository {
	return &TelemetryRepository{db: db}
}

func (r *TelemetryRepository) Insert(ctx context.Context, reading *domainTelemetry.Reading) error {
	dbModel, err := toReadingModel(reading)
	if err != nil {
		return err
	}
	dbModel.CreatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "timestamp"}},
			DoNothing: true,
		}).
		Create(dbModel)

	if result.Error != nil {
		return fmt.Errorf("failed to insert reading: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainTelemetry.ErrDuplicateReading
	}

	reading.ID = dbModel.ID
	reading.CreatedAt = dbModel.CreatedAt

	return nil
}

// BatchInsert persists a batch in one statement. Rows whose
// (device_id, timestamp) pair already exists are silently skipped, so a
// retransmitted batch is harmless.
func (r *TelemetryRepository) BatchInsert(ctx context.Context, readings []*domainTelemetry.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	now := time.Now()
	dbModels := make([]*models.ReadingModel, 0, len(readings))
	for _, reading := range readings {
		dbModel, err := toReadingModel(reading)
		if err != nil {
			return err
		}
		dbModel.CreatedAt = now
		dbModels = append(dbModels, dbModel)
	}

	err := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "timestamp"}},
			DoNothing: true,
		}).
		Create(&dbModels).Error

	if err != nil {
		return fmt.Errorf("failed to batch insert readings: %w", err)
	}

	for i, dbModel := range dbModels {
		readings[i].ID = dbModel.ID
		readings[i].CreatedAt = dbModel.CreatedAt
	}

	return nil
}

func (r *TelemetryRepository) LatestByDevice(ctx context.Context, deviceID uuid.UUID) (*domainTelemetry.Reading, error) {
	var dbModel models.ReadingModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("timestamp DESC, id DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainTelemetry.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}

	return toReadingEntity(&dbModel)
}

func (r *TelemetryRepository) LatestPositionedByDevice(ctx context.Context, deviceID uuid.UUID) (*domainTelemetry.Reading, error) {
	var dbModel models.ReadingModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", deviceID).
		Order("timestamp DESC, id DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainTelemetry.ErrNoPositionData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest positioned reading: %w", err)
	}

	return toReadingEntity(&dbModel)
}

// driverReadingRow flattens a reading joined with its device's assigned
// driver for a single Scan.
type driverReadingRow struct {
	DriverID uuid.UUID
	Username string
	models.ReadingModel
}

func (r *TelemetryRepository) LatestPerDriver(ctx context.Context, now time.Time, window time.Duration) ([]*domainTelemetry.DriverReading, error) {
	cutoff := now.Add(-window)

	var rows []driverReadingRow
	err := r.db.DB.WithContext(ctx).Raw(`
        SELECT d.assigned_driver_id AS driver_id, u.username, r.*
        FROM telemetry_readings r
        JOIN devices d ON r.device_id = d.id
        JOIN users u ON u.id = d.assigned_driver_id
        WHERE d.assigned_driver_id IS NOT NULL
          AND r.timestamp >= ?
          AND r.timestamp <= ?
          AND r.id = (
              SELECT r2.id
              FROM telemetry_readings r2
              JOIN devices d2 ON r2.device_id = d2.id
              WHERE d2.assigned_driver_id = d.assigned_driver_id
                AND r2.timestamp >= ?
                AND r2.timestamp <= ?
              ORDER BY r2.timestamp DESC, r2.id DESC
              LIMIT 1
          )
        ORDER BY u.username
    `, cutoff, now, cutoff, now).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get latest readings per driver: %w", err)
	}

	result := make([]*domainTelemetry.DriverReading, 0, len(rows))
	for i := range rows {
		entity, err := toReadingEntity(&rows[i].ReadingModel)
		if err != nil {
			return nil, err
		}
		result = append(result, &domainTelemetry.DriverReading{
			DriverID: rows[i].DriverID,
			Username: rows[i].Username,
			Reading:  *entity,
		})
	}

	return result, nil
}

func (r *TelemetryRepository) ListForDeviceDay(ctx context.Context, deviceID uuid.UUID, dayStart time.Time) ([]*domainTelemetry.Reading, error) {
	dayEnd := dayStart.Add(24 * time.Hour)

	var dbModels []models.ReadingModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ? AND timestamp >= ? AND timestamp < ?", deviceID, dayStart, dayEnd).
		Order("timestamp ASC, id ASC").
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list readings for day: %w", err)
	}

	readings := make([]*domainTelemetry.Reading, 0, len(dbModels))
	for i := range dbModels {
		entity, err := toReadingEntity(&dbModels[i])
		if err != nil {
			return nil, err
		}
		readings = append(readings, entity)
	}

	return readings, nil
}

func (r *TelemetryRepository) DeviceIDsForDay(ctx context.Context, dayStart time.Time) ([]uuid.UUID, error) {
	dayEnd := dayStart.Add(24 * time.Hour)

	var ids []uuid.UUID
	err := r.db.DB.WithContext(ctx).
		Model(&models.ReadingModel{}).
		Distinct("device_id").
		Where("timestamp >= ? AND timestamp < ?", dayStart, dayEnd).
		Pluck("device_id", &ids).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list device ids for day: %w", err)
	}

	return ids, nil
}

// Helper functions to convert between domain entities and database models

func toReadingModel(reading *domainTelemetry.Reading) (*models.ReadingModel, error) {
	var doorStatus models.JSON
	if reading.DoorStatus != nil {
		raw, err := json.Marshal(reading.DoorStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal door status: %w", err)
		}
		doorStatus = models.JSON(raw)
	}

	return &models.ReadingModel{
		ID:             reading.ID,
		DeviceID:       reading.DeviceID,
		ShipmentID:     reading.ShipmentID,
		Latitude:       reading.Latitude,
		Longitude:      reading.Longitude,
		Speed:          reading.Speed,
		Heading:        reading.Heading,
		Altitude:       reading.Altitude,
		Temperature:    reading.Temperature,
		Humidity:       reading.Humidity,
		Pressure:       reading.Pressure,
		AccelerationX:  reading.AccelerationX,
		AccelerationY:  reading.AccelerationY,
		AccelerationZ:  reading.AccelerationZ,
		ShockDetected:  reading.ShockDetected,
		FuelLevel:      reading.FuelLevel,
		IgnitionStatus: reading.IgnitionStatus,
		DoorStatus:     doorStatus,
		SignalStrength: reading.SignalStrength,
		RawData:        models.JSON(reading.RawData),
		Timestamp:      reading.Timestamp,
		CreatedAt:      reading.CreatedAt,
	}, nil
}

func toReadingEntity(m *models.ReadingModel) (*domainTelemetry.Reading, error) {
	var doorStatus map[string]bool
	if len(m.DoorStatus) > 0 {
		if err := json.Unmarshal(m.DoorStatus, &doorStatus); err != nil {
			return nil, fmt.Errorf("failed to unmarshal door status: %w", err)
		}
	}

	return &domainTelemetry.Reading{
		ID:             m.ID,
		DeviceID:       m.DeviceID,
		ShipmentID:     m.ShipmentID,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		Speed:          m.Speed,
		Heading:        m.Heading,
		Altitude:       m.Altitude,
		Temperature:    m.Temperature,
		Humidity:       m.Humidity,
		Pressure:       m.Pressure,
		AccelerationX:  m.AccelerationX,
		AccelerationY:  m.AccelerationY,
		AccelerationZ:  m.AccelerationZ,
		ShockDetected:  m.ShockDetected,
		FuelLevel:      m.FuelLevel,
		IgnitionStatus: m.IgnitionStatus,
		DoorStatus:     doorStatus,
		SignalStrength: m.SignalStrength,
		RawData:        json.RawMessage(m.RawData),
		Timestamp:      m.Timestamp,
		CreatedAt:      m.CreatedAt,
	}, nil
}
