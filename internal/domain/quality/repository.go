package quality

import (
	"context"
	"time"
)

// Filter narrows report listings.
type Filter struct {
	DeviceID *string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Summary aggregates reports over a date range.
type Summary struct {
	Devices          int
	AverageScore     float64
	WorstScore       int
	WorstDeviceID    string
	TotalReadings    int
	TotalInvalid     int
	TotalDuplicates  int
	TotalDowntimeSec int
}

// Repository persists data quality reports. Upsert keys on
// (DeviceID, Date) so a re-run for the same day replaces the earlier row.
type Repository interface {
	Upsert(ctx context.Context, report *Report) error
	GetByDeviceDate(ctx context.Context, deviceID string, date time.Time) (*Report, error)
	List(ctx context.Context, filter *Filter) ([]*Report, error)
	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)
}
