package quality

import (
	"time"

	"github.com/google/uuid"
)

// ExpectedUptimeSeconds is the full-day uptime expectation a report is
// measured against.
const ExpectedUptimeSeconds = 24 * 60 * 60

// Report is the per-device, per-day data quality summary. Date is the UTC
// midnight of the day being summarised; one row exists per (DeviceID, Date).
type Report struct {
	ID       uuid.UUID
	DeviceID string
	Date     time.Time

	ExpectedReadings int
	ActualReadings   int
	ValidReadings    int
	InvalidReadings  int
	MissingGPS       int
	MissingSensor    int
	DuplicateCount   int

	UptimeSeconds     int
	DowntimeSeconds   int
	AvgSignalStrength *float64
	CompletenessScore int

	GeneratedAt time.Time
}

// Validate enforces the arithmetic the aggregator must have respected:
// counts are non-negative, partitions sum to their totals, uptime and
// downtime account for the whole day and the score stays within its scale.
func (r *Report) Validate() error {
	if r.ExpectedReadings < 0 || r.ActualReadings < 0 ||
		r.ValidReadings < 0 || r.InvalidReadings < 0 ||
		r.MissingGPS < 0 || r.MissingSensor < 0 || r.DuplicateCount < 0 {
		return ErrNegativeCount
	}
	if r.ValidReadings+r.InvalidReadings != r.ActualReadings {
		return ErrCountMismatch
	}
	if r.UptimeSeconds < 0 || r.DowntimeSeconds < 0 {
		return ErrNegativeCount
	}
	if r.UptimeSeconds > ExpectedUptimeSeconds ||
		r.UptimeSeconds+r.DowntimeSeconds != ExpectedUptimeSeconds {
		return ErrUptimeMismatch
	}
	if r.CompletenessScore < 0 || r.CompletenessScore > 100 {
		return ErrScoreOutOfRange
	}
	return nil
}
