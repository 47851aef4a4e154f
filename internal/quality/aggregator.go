// Package quality computes per-device daily data quality reports from the
// raw telemetry trail: how many readings arrived versus how many the
// reporting cycle promised, how many were usable, and how much of the day
// the device was actually heard from.
package quality

import (
	"context"
	"math"
	"time"

	domainDevice "agri-transport-monitor/internal/domain/device"
	domainQuality "agri-transport-monitor/internal/domain/quality"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/logger"

	"go.uber.org/zap"
)

const secondsPerDay = 24 * 60 * 60

// Plausibility bounds for sensor values. Anything outside is counted as an
// invalid reading.
const (
	minPlausibleTemp = -60.0
	maxPlausibleTemp = 80.0
)

// Aggregator builds one report per (device, UTC day).
type Aggregator struct {
	readings domainTelemetry.Repository
	devices  domainDevice.Repository
	reports  domainQuality.Repository

	// intervalSec is the expected device reporting cycle.
	intervalSec int
}

func NewAggregator(readings domainTelemetry.Repository, devices domainDevice.Repository, reports domainQuality.Repository, intervalSec int) *Aggregator {
	if intervalSec <= 0 {
		intervalSec = 60
	}
	return &Aggregator{
		readings:    readings,
		devices:     devices,
		reports:     reports,
		intervalSec: intervalSec,
	}
}

// RunForDay aggregates every device that reported during the UTC day
// starting at dayStart and upserts one report per device. It returns the
// number of devices processed.
func (a *Aggregator) RunForDay(ctx context.Context, dayStart time.Time) (int, error) {
	dayStart = dayStart.UTC().Truncate(24 * time.Hour)

	deviceIDs, err := a.readings.DeviceIDsForDay(ctx, dayStart)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, id := range deviceIDs {
		device, err := a.devices.GetByID(ctx, id)
		if err != nil {
			logger.Error("skipping unknown device in quality run",
				zap.String("device_id", id.String()),
				zap.Error(err),
			)
			continue
		}

		readings, err := a.readings.ListForDeviceDay(ctx, id, dayStart)
		if err != nil {
			return processed, err
		}

		report := BuildReport(device.DeviceID, dayStart, a.intervalSec, readings)
		if err := a.reports.Upsert(ctx, report); err != nil {
			return processed, err
		}
		processed++
	}

	logger.Info("data quality aggregation completed",
		zap.String("date", dayStart.Format("2006-01-02")),
		zap.Int("devices", processed),
	)

	return processed, nil
}

// RunForPreviousDay aggregates the last full UTC day.
func (a *Aggregator) RunForPreviousDay(ctx context.Context) (int, error) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	return a.RunForDay(ctx, yesterday)
}

// BuildReport computes the report for one device's day of readings, which
// must be ordered by timestamp ascending.
//
// The completeness score blends three ratios on a 0-100 scale: 50 points
// for readings received versus expected, 30 for uptime, 20 for field
// presence (position plus at least one sensor value).
func BuildReport(deviceID string, dayStart time.Time, intervalSec int, readings []*domainTelemetry.Reading) *domainQuality.Report {
	report := &domainQuality.Report{
		DeviceID:         deviceID,
		Date:             dayStart,
		ExpectedReadings: secondsPerDay / intervalSec,
		ActualReadings:   len(readings),
	}

	if len(readings) == 0 {
		report.DowntimeSeconds = secondsPerDay
		return report
	}

	// An interval between consecutive readings counts toward uptime while
	// it stays under twice the reporting cycle; longer silence is downtime.
	gapLimit := time.Duration(2*intervalSec) * time.Second

	complete := 0
	uptime := time.Duration(0)
	signalSum, signalCount := 0, 0
	var prev *domainTelemetry.Reading

	for _, r := range readings {
		duplicate := prev != nil && r.Timestamp.Equal(prev.Timestamp)
		if duplicate {
			report.DuplicateCount++
		}

		hasPosition := r.HasPosition()
		hasSensor := r.Temperature != nil || r.Humidity != nil

		if !hasPosition {
			report.MissingGPS++
		}
		if !hasSensor {
			report.MissingSensor++
		}
		if hasPosition && hasSensor {
			complete++
		}

		if duplicate || !plausible(r) {
			report.InvalidReadings++
		} else {
			report.ValidReadings++
		}

		if r.SignalStrength != nil {
			signalSum += *r.SignalStrength
			signalCount++
		}

		if prev != nil {
			gap := r.Timestamp.Sub(prev.Timestamp)
			if gap > 0 && gap <= gapLimit {
				uptime += gap
			}
		}
		prev = r
	}

	if signalCount > 0 {
		avg := float64(signalSum) / float64(signalCount)
		report.AvgSignalStrength = &avg
	}

	report.UptimeSeconds = int(uptime.Seconds())
	if report.UptimeSeconds > secondsPerDay {
		report.UptimeSeconds = secondsPerDay
	}
	report.DowntimeSeconds = secondsPerDay - report.UptimeSeconds

	receivedRatio := ratio(report.ValidReadings, report.ExpectedReadings)
	uptimeRatio := ratio(report.UptimeSeconds, secondsPerDay)
	presenceRatio := ratio(complete, report.ActualReadings)

	score := int(math.Round(50*receivedRatio + 30*uptimeRatio + 20*presenceRatio))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	report.CompletenessScore = score

	return report
}

func plausible(r *domainTelemetry.Reading) bool {
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return false
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return false
	}
	if r.Temperature != nil && (*r.Temperature < minPlausibleTemp || *r.Temperature > maxPlausibleTemp) {
		return false
	}
	if r.Humidity != nil && (*r.Humidity < 0 || *r.Humidity > 100) {
		return false
	}
	return true
}

func ratio(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	f := float64(part) / float64(whole)
	if f > 1 {
		return 1
	}
	return f
}
