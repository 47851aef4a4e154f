package quality

import (
	"time"

	domainQuality "agri-transport-monitor/internal/domain/quality"

	"github.com/google/uuid"
)

type ReportFilterRequest struct {
	DeviceID *string    `form:"device_id"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	Limit    int        `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset   int        `form:"offset" validate:"omitempty,min=0"`
}

type SummaryRequest struct {
	DateFrom time.Time `form:"date_from" time_format:"2006-01-02" validate:"required"`
	DateTo   time.Time `form:"date_to" time_format:"2006-01-02" validate:"required"`
}

type RunRequest struct {
	// Date is the day to aggregate, "2006-01-02". Empty means yesterday.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type ReportResponse struct {
	ID                uuid.UUID `json:"id"`
	DeviceID          string    `json:"device_id"`
	Date              string    `json:"date"`
	ExpectedReadings  int       `json:"expected_readings"`
	ActualReadings    int       `json:"actual_readings"`
	ValidReadings     int       `json:"valid_readings"`
	InvalidReadings   int       `json:"invalid_readings"`
	MissingGPS        int       `json:"missing_gps"`
	MissingSensor     int       `json:"missing_sensor"`
	DuplicateCount    int       `json:"duplicate_count"`
	UptimeSeconds     int       `json:"uptime_seconds"`
	DowntimeSeconds   int       `json:"downtime_seconds"`
	AvgSignalStrength *float64  `json:"avg_signal_strength,omitempty"`
	CompletenessScore int       `json:"completeness_score"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type SummaryResponse struct {
	Devices          int     `json:"devices"`
	AverageScore     float64 `json:"average_score"`
	WorstScore       int     `json:"worst_score"`
	WorstDeviceID    string  `json:"worst_device_id,omitempty"`
	TotalReadings    int     `json:"total_readings"`
	TotalInvalid     int     `json:"total_invalid"`
	TotalDuplicates  int     `json:"total_duplicates"`
	TotalDowntimeSec int     `json:"total_downtime_seconds"`
}

type RunResponse struct {
	Date    string `json:"date"`
	Devices int    `json:"devices"`
}

func ToReportResponse(r *domainQuality.Report) *ReportResponse {
	return &ReportResponse{
		ID:                r.ID,
		DeviceID:          r.DeviceID,
		Date:              r.Date.Format("2006-01-02"),
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

func ToSummaryResponse(s *domainQuality.Summary) *SummaryResponse {
	return &SummaryResponse{
		Devices:          s.Devices,
		AverageScore:     s.AverageScore,
		WorstScore:       s.WorstScore,
		WorstDeviceID:    s.WorstDeviceID,
		TotalReadings:    s.TotalReadings,
		TotalInvalid:     s.TotalInvalid,
		TotalDuplicates:  s.TotalDuplicates,
		TotalDowntimeSec: s.TotalDowntimeSec,
	}
}
