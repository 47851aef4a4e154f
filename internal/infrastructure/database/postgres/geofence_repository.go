package postgres

import (
	domainGeofence "agri-transport-monitor/internal/domain/geofence"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeofenceRepository implements domain geofence.Repository interface
type GeofenceRepository struct {
	db *DB
}

// NewGeofenceRepository creates a new geofence repository
func NewGeofenceRepository(db *DB) domainGeofence.Repository {
	return &GeofenceRepository{db: db}
}

func (r *GeofenceRepository) Create(ctx context.Context, fence *domainGeofence.Geofence) error {
	fence.ID = uuid.New()
	fence.IsActive = true
	fence.CreatedAt = time.Now()

	dbModel := toGeofenceModel(fence)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}

	fence.ID = dbModel.ID
	fence.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *GeofenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainGeofence.Geofence, error) {
	var dbModel models.GeofenceModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainGeofence.ErrGeofenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get geofence: %w", err)
	}

	return toGeofenceEntity(&dbModel), nil
}

func (r *GeofenceRepository) ListActive(ctx context.Context) ([]*domainGeofence.Geofence, error) {
	return r.list(ctx, false)
}

func (r *GeofenceRepository) List(ctx context.Context, includeInactive bool) ([]*domainGeofence.Geofence, error) {
	return r.list(ctx, includeInactive)
}

func (r *GeofenceRepository) list(ctx context.Context, includeInactive bool) ([]*domainGeofence.Geofence, error) {
	var dbModels []models.GeofenceModel

	db := r.db.DB.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = true")
	}

	if err := db.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}

	fences := make([]*domainGeofence.Geofence, len(dbModels))
	for i := range dbModels {
		fences[i] = toGeofenceEntity(&dbModels[i])
	}

	return fences, nil
}

func (r *GeofenceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.GeofenceModel{}).
		Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		return fmt.Errorf("failed to deactivate geofence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainGeofence.ErrGeofenceNotFound
	}

	return nil
}

func (r *GeofenceRepository) InsertEvent(ctx context.Context, event *domainGeofence.Event) error {
	event.ID = uuid.New()

	dbModel := toGeofenceEventModel(event)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to insert geofence event: %w", err)
	}

	event.ID = dbModel.ID

	return nil
}

func (r *GeofenceRepository) ListEvents(ctx context.Context, filter *domainGeofence.EventFilter) ([]*domainGeofence.Event, error) {
	var dbModels []models.GeofenceEventModel

	db := r.db.DB.WithContext(ctx).Model(&models.GeofenceEventModel{})

	if filter.GeofenceID != nil {
		db = db.Where("geofence_id = ?", *filter.GeofenceID)
	}
	if filter.DeviceID != nil {
		db = db.Where("device_id = ?", *filter.DeviceID)
	}
	if filter.EventType != nil {
		db = db.Where("event_type = ?", string(*filter.EventType))
	}
	if filter.Since != nil {
		db = db.Where("timestamp >= ?", *filter.Since)
	}
	if filter.Until != nil {
		db = db.Where("timestamp <= ?", *filter.Until)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	err := db.Order("timestamp DESC").
		Limit(limit).
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list geofence events: %w", err)
	}

	events := make([]*domainGeofence.Event, len(dbModels))
	for i := range dbModels {
		events[i] = toGeofenceEventEntity(&dbModels[i])
	}

	return events, nil
}

// Helper functions to convert between domain entities and database models

func toGeofenceModel(f *domainGeofence.Geofence) *models.GeofenceModel {
	return &models.GeofenceModel{
		ID:                 f.ID,
		Name:               f.Name,
		Description:        f.Description,
		CenterLatitude:     f.CenterLatitude,
		CenterLongitude:    f.CenterLongitude,
		RadiusMeters:       f.RadiusMeters,
		AlertOnEntry:       f.AlertOnEntry,
		AlertOnExit:        f.AlertOnExit,
		AlertOnDwell:       f.AlertOnDwell,
		DwellTimeThreshold: f.DwellTimeThreshold,
		IsActive:           f.IsActive,
		CreatedBy:          f.CreatedBy,
		CreatedAt:          f.CreatedAt,
	}
}

func toGeofenceEntity(m *models.GeofenceModel) *domainGeofence.Geofence {
	return &domainGeofence.Geofence{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		CenterLatitude:     m.CenterLatitude,
		CenterLongitude:    m.CenterLongitude,
		RadiusMeters:       m.RadiusMeters,
		AlertOnEntry:       m.AlertOnEntry,
		AlertOnExit:        m.AlertOnExit,
		AlertOnDwell:       m.AlertOnDwell,
		DwellTimeThreshold: m.DwellTimeThreshold,
		IsActive:           m.IsActive,
		CreatedBy:          m.CreatedBy,
		CreatedAt:          m.CreatedAt,
	}
}

func toGeofenceEventModel(e *domainGeofence.Event) *models.GeofenceEventModel {
	var durationSeconds *int64
	if e.Duration != nil {
		secs := int64(e.Duration.Seconds())
		durationSeconds = &secs
	}

	return &models.GeofenceEventModel{
		ID:              e.ID,
		GeofenceID:      e.GeofenceID,
		DeviceID:        e.DeviceID,
		ShipmentID:      e.ShipmentID,
		EventType:       string(e.EventType),
		Latitude:        e.Latitude,
		Longitude:       e.Longitude,
		Timestamp:       e.Timestamp,
		DurationSeconds: durationSeconds,
	}
}

func toGeofenceEventEntity(m *models.GeofenceEventModel) *domainGeofence.Event {
	var duration *time.Duration
	if m.DurationSeconds != nil {
		d := time.Duration(*m.DurationSeconds) * time.Second
		duration = &d
	}

	return &domainGeofence.Event{
		ID:         m.ID,
		GeofenceID: m.GeofenceID,
		DeviceID:   m.DeviceID,
		ShipmentID: m.ShipmentID,
		EventType:  domainGeofence.EventType(m.EventType),
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		Timestamp:  m.Timestamp,
		Duration:   duration,
	}
}
