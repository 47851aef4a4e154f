package postgres

import (
	domainAlert "agri-transport-monitor/internal/domain/alert"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertRepository implements domain alert.Repository interface
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *DB) domainAlert.Repository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, a *domainAlert.TemperatureAlert) error {
	a.ID = uuid.New()

	dbModel := toAlertModel(a)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	a.ID = dbModel.ID

	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainAlert.TemperatureAlert, error) {
	var dbModel models.TemperatureAlertModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainAlert.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return toAlertEntity(&dbModel), nil
}

func (r *AlertRepository) UpdateBreach(ctx context.Context, id uuid.UUID, severity domainAlert.Severity, currentValue float64, durationMinutes int) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.TemperatureAlertModel{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Updates(map[string]interface{}{
			"severity":         string(severity),
			"current_value":    currentValue,
			"duration_minutes": durationMinutes,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update breach: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainAlert.ErrAlertNotFound
	}

	return nil
}

// Acknowledge is idempotent: a second call finds acknowledged_at already
// set and changes nothing. Resolved alerts are terminal, so acknowledging
// one is also a no-op.
func (r *AlertRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.TemperatureAlertModel{}).
		Where("id = ? AND acknowledged_at IS NULL AND resolved_at IS NULL", id).
		Update("acknowledged_at", at)

	if result.Error != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, id)
	}

	return nil
}

// Resolve is idempotent the same way Acknowledge is.
func (r *AlertRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time, resolvedBy uuid.UUID, notes string) error {
	updates := map[string]interface{}{
		"resolved_at": at,
		"resolved_by": resolvedBy,
	}
	if notes != "" {
		updates["notes"] = notes
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.TemperatureAlertModel{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to resolve alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, id)
	}

	return nil
}

// ensureExists distinguishes "no-op because already done" from "no such
// alert" after a guarded update touched zero rows.
func (r *AlertRepository) ensureExists(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.TemperatureAlertModel{}).
		Where("id = ?", id).
		Count(&count).Error

	if err != nil {
		return fmt.Errorf("failed to check alert: %w", err)
	}
	if count == 0 {
		return domainAlert.ErrAlertNotFound
	}

	return nil
}

func (r *AlertRepository) List(ctx context.Context, filter *domainAlert.Filter) ([]*domainAlert.TemperatureAlert, error) {
	var dbModels []models.TemperatureAlertModel

	db := r.db.DB.WithContext(ctx).Model(&models.TemperatureAlertModel{})

	if filter.ShipmentID != nil {
		db = db.Where("shipment_id = ?", *filter.ShipmentID)
	}
	if filter.DeviceID != nil {
		db = db.Where("device_id = ?", *filter.DeviceID)
	}
	if filter.Severity != nil {
		db = db.Where("severity = ?", string(*filter.Severity))
	}
	if filter.Resolved != nil {
		if *filter.Resolved {
			db = db.Where("resolved_at IS NOT NULL")
		} else {
			db = db.Where("resolved_at IS NULL")
		}
	}
	if filter.Since != nil {
		db = db.Where("triggered_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		db = db.Where("triggered_at <= ?", *filter.Until)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	err := db.Order("triggered_at DESC").
		Limit(limit).
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	alerts := make([]*domainAlert.TemperatureAlert, len(dbModels))
	for i := range dbModels {
		alerts[i] = toAlertEntity(&dbModels[i])
	}

	return alerts, nil
}

// Helper functions to convert between domain entities and database models

func toAlertModel(a *domainAlert.TemperatureAlert) *models.TemperatureAlertModel {
	return &models.TemperatureAlertModel{
		ID:              a.ID,
		ShipmentID:      a.ShipmentID,
		DeviceID:        a.DeviceID,
		Severity:        string(a.Severity),
		ThresholdMin:    a.ThresholdMin,
		ThresholdMax:    a.ThresholdMax,
		CurrentValue:    a.CurrentValue,
		DurationMinutes: a.DurationMinutes,
		TriggeredAt:     a.TriggeredAt,
		AcknowledgedAt:  a.AcknowledgedAt,
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
		Notes:           a.Notes,
	}
}

func toAlertEntity(m *models.TemperatureAlertModel) *domainAlert.TemperatureAlert {
	return &domainAlert.TemperatureAlert{
		ID:              m.ID,
		ShipmentID:      m.ShipmentID,
		DeviceID:        m.DeviceID,
		Severity:        domainAlert.Severity(m.Severity),
		ThresholdMin:    m.ThresholdMin,
		ThresholdMax:    m.ThresholdMax,
		CurrentValue:    m.CurrentValue,
		DurationMinutes: m.DurationMinutes,
		TriggeredAt:     m.TriggeredAt,
		AcknowledgedAt:  m.AcknowledgedAt,
		ResolvedAt:      m.ResolvedAt,
		ResolvedBy:      m.ResolvedBy,
		Notes:           m.Notes,
	}
}
