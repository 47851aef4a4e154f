package alert

import (
	"context"
	"errors"
	"time"

	domainAlert "agri-transport-monitor/internal/domain/alert"
	"agri-transport-monitor/internal/logger"
	appErrors "agri-transport-monitor/pkg/errors"
	"agri-transport-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements alert lifecycle use cases. The engine opens and
// escalates alerts; operators only acknowledge and resolve them here.
type Service struct {
	alertRepo domainAlert.Repository
}

// NewService creates a new alert service
func NewService(alertRepo domainAlert.Repository) *Service {
	return &Service{alertRepo: alertRepo}
}

func (s *Service) GetAlert(ctx context.Context, id uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainAlert.ErrAlertNotFound) {
			return nil, appErrors.NotFound("Alert not found", err)
		}
		return nil, err
	}
	return ToAlertResponse(alert), nil
}

func (s *Service) ListAlerts(ctx context.Context, req *AlertFilterRequest) ([]*AlertResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid filter", err)
	}

	alerts, err := s.alertRepo.List(ctx, &domainAlert.Filter{
		ShipmentID: req.ShipmentID,
		DeviceID:   req.DeviceID,
		Severity:   req.Severity,
		Resolved:   req.Resolved,
		Since:      req.Since,
		Until:      req.Until,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*AlertResponse, len(alerts))
	for i, a := range alerts {
		responses[i] = ToAlertResponse(a)
	}
	return responses, nil
}

// Acknowledge marks the alert as seen. Acknowledging twice is a no-op.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID) (*AlertResponse, error) {
	if err := s.alertRepo.Acknowledge(ctx, id, time.Now()); err != nil {
		if errors.Is(err, domainAlert.ErrAlertNotFound) {
			return nil, appErrors.NotFound("Alert not found", err)
		}
		return nil, err
	}

	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("Alert acknowledged", zap.String("alert_id", id.String()))
	return ToAlertResponse(alert), nil
}

// Resolve closes the alert. Resolving twice is a no-op that keeps the first
// resolution.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, req *ResolveAlertRequest) (*AlertResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	if err := s.alertRepo.Resolve(ctx, id, time.Now(), resolvedBy, utils.SanitizeText(req.Notes)); err != nil {
		if errors.Is(err, domainAlert.ErrAlertNotFound) {
			return nil, appErrors.NotFound("Alert not found", err)
		}
		return nil, err
	}

	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("Alert resolved",
		zap.String("alert_id", id.String()),
		zap.String("resolved_by", resolvedBy.String()),
	)
	return ToAlertResponse(alert), nil
}
