package models

import (
	"time"

	"github.com/google/uuid"
)

// DataQualityReportModel represents the database model for per-device daily
// data quality reports. A unique index on (device_id, date) lets re-runs of
// the aggregation replace the earlier row.
type DataQualityReportModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DeviceID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_quality_device_date,priority:1"`
	Date     time.Time `gorm:"type:date;not null;uniqueIndex:idx_quality_device_date,priority:2"`

	ExpectedReadings int `gorm:"type:integer;not null"`
	ActualReadings   int `gorm:"type:integer;not null"`
	ValidReadings    int `gorm:"type:integer;not null"`
	InvalidReadings  int `gorm:"type:integer;not null"`
	MissingGPS       int `gorm:"column:missing_gps;type:integer;not null"`
	MissingSensor    int `gorm:"type:integer;not null"`
	DuplicateCount   int `gorm:"type:integer;not null"`

	UptimeSeconds     int      `gorm:"type:integer;not null"`
	DowntimeSeconds   int      `gorm:"type:integer;not null"`
	AvgSignalStrength *float64 `gorm:"type:decimal(6,2)"`
	CompletenessScore int      `gorm:"type:integer;not null"`

	GeneratedAt time.Time `gorm:"not null"`
}

func (DataQualityReportModel) TableName() string {
	return "data_quality_reports"
}
