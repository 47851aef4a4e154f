package quality

import (
	"context"
	"fmt"
	"time"

	"agri-transport-monitor/internal/logger"

	"go.uber.org/zap"
)

// Scheduler runs the daily aggregation at a fixed local time of day.
type Scheduler struct {
	aggregator *Aggregator
	runAt      string
}

func NewScheduler(aggregator *Aggregator, runAt string) *Scheduler {
	if runAt == "" {
		runAt = "00:05"
	}
	return &Scheduler{aggregator: aggregator, runAt: runAt}
}

// NextRunTime computes when the daily aggregation should next run for a
// "HH:MM" time of day. If today's run time already passed, it is tomorrow.
func NextRunTime(now time.Time, timeOfDay string) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(timeOfDay, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %s (expected HH:MM)", timeOfDay)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time of day: %s", timeOfDay)
	}

	todayRun := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.After(todayRun) {
		return todayRun.AddDate(0, 0, 1), nil
	}

	return todayRun, nil
}

// Start blocks until ctx is cancelled, running the aggregation for the
// previous day once per day at the configured time.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		next, err := NextRunTime(time.Now(), s.runAt)
		if err != nil {
			return err
		}

		logger.Info("next data quality run scheduled",
			zap.Time("at", next),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(next)):
		}

		if _, err := s.aggregator.RunForPreviousDay(ctx); err != nil {
			logger.Error("data quality run failed", zap.Error(err))
		}
	}
}
