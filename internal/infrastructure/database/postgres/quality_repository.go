package postgres

import (
	domainQuality "agri-transport-monitor/internal/domain/quality"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QualityRepository implements domain quality.Repository interface
type QualityRepository struct {
	db *DB
}

// NewQualityRepository creates a new quality report repository
func NewQualityRepository(db *DB) domainQuality.Repository {
	return &QualityRepository{db: db}
}

// Upsert keys on (device_id, date): re-running the aggregation for a day
// replaces the earlier report instead of duplicating it.
func (r *QualityRepository) Upsert(ctx context.Context, report *domainQuality.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.GeneratedAt = time.Now()

	dbModel := toQualityModel(report)
	err := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "device_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"expected_readings", "actual_readings", "valid_readings",
				"invalid_readings", "missing_gps", "missing_sensor",
				"duplicate_count", "uptime_seconds", "downtime_seconds",
				"avg_signal_strength", "completeness_score", "generated_at",
			}),
		}).
		Create(dbModel).Error

	if err != nil {
		return fmt.Errorf("failed to upsert quality report: %w", err)
	}

	return nil
}

func (r *QualityRepository) GetByDeviceDate(ctx context.Context, deviceID string, date time.Time) (*domainQuality.Report, error) {
	var dbModel models.DataQualityReportModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ? AND date = ?", deviceID, date.Format("2006-01-02")).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainQuality.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quality report: %w", err)
	}

	return toQualityEntity(&dbModel), nil
}

func (r *QualityRepository) List(ctx context.Context, filter *domainQuality.Filter) ([]*domainQuality.Report, error) {
	var dbModels []models.DataQualityReportModel

	db := r.db.DB.WithContext(ctx).Model(&models.DataQualityReportModel{})

	if filter.DeviceID != nil {
		db = db.Where("device_id = ?", *filter.DeviceID)
	}
	if filter.DateFrom != nil {
		db = db.Where("date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		db = db.Where("date <= ?", filter.DateTo.Format("2006-01-02"))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	err := db.Order("date DESC, device_id ASC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list quality reports: %w", err)
	}

	reports := make([]*domainQuality.Report, len(dbModels))
	for i := range dbModels {
		reports[i] = toQualityEntity(&dbModels[i])
	}

	return reports, nil
}

func (r *QualityRepository) Summarize(ctx context.Context, from, to time.Time) (*domainQuality.Summary, error) {
	summary := &domainQuality.Summary{}
	err := r.db.DB.WithContext(ctx).Raw(`
        SELECT
            COUNT(DISTINCT device_id) AS devices,
            COALESCE(AVG(completeness_score), 0) AS average_score,
            COALESCE(MIN(completeness_score), 0) AS worst_score,
            COALESCE(SUM(actual_readings), 0) AS total_readings,
            COALESCE(SUM(invalid_readings), 0) AS total_invalid,
            COALESCE(SUM(duplicate_count), 0) AS total_duplicates,
            COALESCE(SUM(downtime_seconds), 0) AS total_downtime_sec
        FROM data_quality_reports
        WHERE date >= ? AND date <= ?
    `, from.Format("2006-01-02"), to.Format("2006-01-02")).Scan(summary).Error

	if err != nil {
		return nil, fmt.Errorf("failed to summarize quality reports: %w", err)
	}

	if summary.Devices > 0 {
		var worstDevice string
		err = r.db.DB.WithContext(ctx).
			Model(&models.DataQualityReportModel{}).
			Select("device_id").
			Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
			Order("completeness_score ASC").
			Limit(1).
			Pluck("device_id", &worstDevice).Error
		if err == nil {
			summary.WorstDeviceID = worstDevice
		}
	}

	return summary, nil
}

// Helper functions to convert between domain entities and database models

func toQualityModel(r *domainQuality.Report) *models.DataQualityReportModel {
	return &models.DataQualityReportModel{
		ID:                r.ID,
		DeviceID:          r.DeviceID,
		Date:              r.Date,
		ExpectedReadings:  r.ExpectedReadings,
		ActualReadings:    r.ActualReadings,
		ValidReadings:     r.ValidReadings,
		InvalidReadings:   r.InvalidReadings,
		MissingGPS:        r.MissingGPS,
		MissingSensor:     r.MissingSensor,
		DuplicateCount:    r.DuplicateCount,
		UptimeSeconds:     r.UptimeSeconds,
		DowntimeSeconds:   r.DowntimeSeconds,
		AvgSignalStrength: r.AvgSignalStrength,
		CompletenessScore: r.CompletenessScore,
		GeneratedAt:       r.GeneratedAt,
	}
}

func toQualityEntity(m *models.DataQualityReportModel) *domainQuality.Report {
	return &domainQuality.Report{
		ID:                m.ID,
		DeviceID:          m.DeviceID,
		Date:              m.Date,
		ExpectedReadings:  m.ExpectedReadings,
		ActualReadings:    m.ActualReadings,
		ValidReadings:     m.ValidReadings,
		InvalidReadings:   m.InvalidReadings,
		MissingGPS:        m.MissingGPS,
		MissingSensor:     m.MissingSensor,
		DuplicateCount:    m.DuplicateCount,
		UptimeSeconds:     m.UptimeSeconds,
		DowntimeSeconds:   m.DowntimeSeconds,
		AvgSignalStrength: m.AvgSignalStrength,
		CompletenessScore: m.CompletenessScore,
		GeneratedAt:       m.GeneratedAt,
	}
}
