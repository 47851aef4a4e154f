package quality

import (
	"context"
	"errors"
	"time"

	domainQuality "agri-transport-monitor/internal/domain/quality"
	"agri-transport-monitor/internal/logger"
	"agri-transport-monitor/internal/quality"
	appErrors "agri-transport-monitor/pkg/errors"
	"agri-transport-monitor/pkg/utils"

	"go.uber.org/zap"
)

// Service exposes data quality reports to the API. Reports are produced by
// the nightly aggregator; RunAggregation lets operators re-run a day on
// demand, for example after backfilling telemetry.
type Service struct {
	reportRepo domainQuality.Repository
	aggregator *quality.Aggregator
}

// NewService creates a new quality service
func NewService(reportRepo domainQuality.Repository, aggregator *quality.Aggregator) *Service {
	return &Service{
		reportRepo: reportRepo,
		aggregator: aggregator,
	}
}

func (s *Service) GetReport(ctx context.Context, deviceID string, date time.Time) (*ReportResponse, error) {
	report, err := s.reportRepo.GetByDeviceDate(ctx, deviceID, date)
	if err != nil {
		if errors.Is(err, domainQuality.ErrReportNotFound) {
			return nil, appErrors.NotFound("No quality report for this device and date", err)
		}
		return nil, err
	}
	return ToReportResponse(report), nil
}

func (s *Service) ListReports(ctx context.Context, req *ReportFilterRequest) ([]*ReportResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid filter", err)
	}

	reports, err := s.reportRepo.List(ctx, &domainQuality.Filter{
		DeviceID: req.DeviceID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*ReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = ToReportResponse(r)
	}
	return responses, nil
}

func (s *Service) Summary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid date range", err)
	}
	if req.DateTo.Before(req.DateFrom) {
		return nil, appErrors.Validation("date_to must not be before date_from", nil)
	}

	summary, err := s.reportRepo.Summarize(ctx, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}
	return ToSummaryResponse(summary), nil
}

// RunAggregation aggregates one day on demand. The re-run replaces any
// reports a previous run produced for the same day.
func (s *Service) RunAggregation(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	day := time.Now().UTC().AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, appErrors.Validation("Invalid date, expected YYYY-MM-DD", err)
		}
		day = parsed
	}
	day = day.Truncate(24 * time.Hour)

	devices, err := s.aggregator.RunForDay(ctx, day)
	if err != nil {
		return nil, appErrors.Internal("Aggregation failed", err)
	}

	logger.Info("On-demand quality aggregation finished",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("devices", devices),
	)

	return &RunResponse{
		Date:    day.Format("2006-01-02"),
		Devices: devices,
	}, nil
}
