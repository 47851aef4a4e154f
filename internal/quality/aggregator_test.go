package quality

import (
	"testing"
	"time"

	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
)

func ptr[T any](v T) *T { return &v }

func minuteReadings(dayStart time.Time, count int) []*domainTelemetry.Reading {
	readings := make([]*domainTelemetry.Reading, 0, count)
	for i := 0; i < count; i++ {
		readings = append(readings, &domainTelemetry.Reading{
			ID:          int64(i + 1),
			Latitude:    ptr(10.76),
			Longitude:   ptr(106.66),
			Temperature: ptr(6.5),
			Timestamp:   dayStart.Add(time.Duration(i) * time.Minute),
		})
	}
	return readings
}

func TestBuildReportEmptyDay(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	report := BuildReport("TRK-001", dayStart, 60, nil)

	if report.ExpectedReadings != 1440 {
		t.Errorf("expected 1440 expected readings, got %d", report.ExpectedReadings)
	}
	if report.ActualReadings != 0 || report.ValidReadings != 0 {
		t.Errorf("expected zero counts, got %+v", report)
	}
	if report.DowntimeSeconds != 86400 {
		t.Errorf("expected a full day of downtime, got %d", report.DowntimeSeconds)
	}
	if report.CompletenessScore != 0 {
		t.Errorf("expected score 0, got %d", report.CompletenessScore)
	}
	if err := report.Validate(); err != nil {
		t.Errorf("report failed validation: %v", err)
	}
}

func TestBuildReportPerfectDay(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	readings := minuteReadings(dayStart, 1440)

	report := BuildReport("TRK-001", dayStart, 60, readings)

	if report.ActualReadings != 1440 || report.ValidReadings != 1440 {
		t.Errorf("expected all readings valid, got %+v", report)
	}
	if report.InvalidReadings != 0 || report.MissingGPS != 0 || report.MissingSensor != 0 {
		t.Errorf("expected clean counts, got %+v", report)
	}
	// 1439 one-minute gaps of uptime out of 86400s keeps the uptime ratio
	// just shy of 1, so the score rounds to 100.
	if report.CompletenessScore < 99 {
		t.Errorf("expected near-perfect score, got %d", report.CompletenessScore)
	}
	if err := report.Validate(); err != nil {
		t.Errorf("report failed validation: %v", err)
	}
}

func TestBuildReportCountsMissingFields(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	readings := []*domainTelemetry.Reading{
		{ID: 1, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(5.0), Timestamp: dayStart},
		// No position.
		{ID: 2, Temperature: ptr(5.5), Timestamp: dayStart.Add(time.Minute)},
		// No sensor values.
		{ID: 3, Latitude: ptr(10.0), Longitude: ptr(106.0), Timestamp: dayStart.Add(2 * time.Minute)},
		// Implausible temperature.
		{ID: 4, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(300.0), Timestamp: dayStart.Add(3 * time.Minute)},
	}

	report := BuildReport("TRK-001", dayStart, 60, readings)

	if report.ActualReadings != 4 {
		t.Errorf("expected 4 actual, got %d", report.ActualReadings)
	}
	if report.MissingGPS != 1 {
		t.Errorf("expected 1 missing GPS, got %d", report.MissingGPS)
	}
	if report.MissingSensor != 1 {
		t.Errorf("expected 1 missing sensor, got %d", report.MissingSensor)
	}
	if report.InvalidReadings != 1 {
		t.Errorf("expected 1 invalid (implausible temp), got %d", report.InvalidReadings)
	}
	if report.ValidReadings != 3 {
		t.Errorf("expected 3 valid, got %d", report.ValidReadings)
	}
	if err := report.Validate(); err != nil {
		t.Errorf("report failed validation: %v", err)
	}
}

func TestBuildReportCountsDuplicates(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ts := dayStart.Add(time.Hour)

	readings := []*domainTelemetry.Reading{
		{ID: 1, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(5.0), Timestamp: ts},
		{ID: 2, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(5.0), Timestamp: ts},
	}

	report := BuildReport("TRK-001", dayStart, 60, readings)

	if report.DuplicateCount != 1 {
		t.Errorf("expected 1 duplicate, got %d", report.DuplicateCount)
	}
	if report.InvalidReadings != 1 || report.ValidReadings != 1 {
		t.Errorf("duplicate must count as invalid, got %+v", report)
	}
}

func TestBuildReportDowntimeGaps(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Two clusters of minute-spaced readings separated by an hours-long
	// silence; the silence must not count as uptime.
	var readings []*domainTelemetry.Reading
	for i := 0; i < 10; i++ {
		readings = append(readings, &domainTelemetry.Reading{
			ID: int64(i + 1), Latitude: ptr(10.0), Longitude: ptr(106.0),
			Temperature: ptr(5.0), Timestamp: dayStart.Add(time.Duration(i) * time.Minute),
		})
	}
	for i := 0; i < 10; i++ {
		readings = append(readings, &domainTelemetry.Reading{
			ID: int64(i + 11), Latitude: ptr(10.0), Longitude: ptr(106.0),
			Temperature: ptr(5.0), Timestamp: dayStart.Add(6*time.Hour + time.Duration(i)*time.Minute),
		})
	}

	report := BuildReport("TRK-001", dayStart, 60, readings)

	// 9 + 9 one-minute gaps of uptime.
	if report.UptimeSeconds != 18*60 {
		t.Errorf("expected 1080s uptime, got %d", report.UptimeSeconds)
	}
	if report.DowntimeSeconds != 86400-18*60 {
		t.Errorf("expected downtime to be the remainder of the day, got %d", report.DowntimeSeconds)
	}
}

func TestBuildReportAveragesSignalStrength(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	readings := []*domainTelemetry.Reading{
		{ID: 1, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(5.0), SignalStrength: ptr(-60), Timestamp: dayStart},
		{ID: 2, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(5.0), SignalStrength: ptr(-80), Timestamp: dayStart.Add(time.Minute)},
		// No signal report; must not drag the average.
		{ID: 3, Latitude: ptr(10.0), Longitude: ptr(106.0), Temperature: ptr(5.0), Timestamp: dayStart.Add(2 * time.Minute)},
	}

	report := BuildReport("TRK-001", dayStart, 60, readings)

	if report.AvgSignalStrength == nil {
		t.Fatal("expected an average signal strength")
	}
	if *report.AvgSignalStrength != -70 {
		t.Errorf("expected -70, got %v", *report.AvgSignalStrength)
	}

	empty := BuildReport("TRK-002", dayStart, 60, nil)
	if empty.AvgSignalStrength != nil {
		t.Errorf("expected no average for an empty day, got %v", *empty.AvgSignalStrength)
	}
}

func TestReportValidateUptimeArithmetic(t *testing.T) {
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	report := BuildReport("TRK-001", dayStart, 60, minuteReadings(dayStart, 100))
	if err := report.Validate(); err != nil {
		t.Fatalf("report failed validation: %v", err)
	}

	// Uptime and downtime must partition the whole day exactly.
	report.DowntimeSeconds++
	if err := report.Validate(); err == nil {
		t.Error("expected validation error for inconsistent downtime")
	}
}

func TestNextRunTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	// Before today's run time.
	next, err := NextRunTime(now, "23:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.Equal(time.Date(2025, 6, 1, 23, 45, 0, 0, time.UTC)) {
		t.Errorf("expected today's run, got %v", next)
	}

	// Past today's run time rolls to tomorrow.
	next, err = NextRunTime(now, "00:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.Equal(time.Date(2025, 6, 2, 0, 5, 0, 0, time.UTC)) {
		t.Errorf("expected tomorrow's run, got %v", next)
	}

	// Malformed input.
	if _, err := NextRunTime(now, "quarter past nine"); err == nil {
		t.Error("expected error for malformed time of day")
	}
	if _, err := NextRunTime(now, "25:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}
