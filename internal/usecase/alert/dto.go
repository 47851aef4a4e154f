package alert

import (
	"time"

	domainAlert "agri-transport-monitor/internal/domain/alert"

	"github.com/google/uuid"
)

type AlertFilterRequest struct {
	ShipmentID *uuid.UUID            `form:"shipment_id"`
	DeviceID   *uuid.UUID            `form:"device_id"`
	Severity   *domainAlert.Severity `form:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Resolved   *bool                 `form:"resolved"`
	Since      *time.Time            `form:"since"`
	Until      *time.Time            `form:"until"`
	Limit      int                   `form:"limit" validate:"omitempty,min=1,max=1000"`
}

type ResolveAlertRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type AlertResponse struct {
	ID         uuid.UUID `json:"id"`
	ShipmentID uuid.UUID `json:"shipment_id"`
	DeviceID   uuid.UUID `json:"device_id"`

	Severity        string  `json:"severity"`
	ThresholdMin    float64 `json:"threshold_min"`
	ThresholdMax    float64 `json:"threshold_max"`
	CurrentValue    float64 `json:"current_value"`
	DurationMinutes int     `json:"duration_minutes"`

	TriggeredAt    time.Time  `json:"triggered_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func ToAlertResponse(a *domainAlert.TemperatureAlert) *AlertResponse {
	return &AlertResponse{
		ID:              a.ID,
		ShipmentID:      a.ShipmentID,
		DeviceID:        a.DeviceID,
		Severity:        string(a.Severity),
		ThresholdMin:    a.ThresholdMin,
		ThresholdMax:    a.ThresholdMax,
		CurrentValue:    a.CurrentValue,
		DurationMinutes: a.DurationMinutes,
		TriggeredAt:     a.TriggeredAt,
		AcknowledgedAt:  a.AcknowledgedAt,
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
		Notes:           a.Notes,
	}
}
