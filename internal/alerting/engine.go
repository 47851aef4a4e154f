// Package alerting watches shipment temperature readings for sustained
// threshold breaches. One alert row is opened when a breach sequence starts
// and updated in place while it continues; a reading back in range ends the
// sequence but leaves the alert for an operator to resolve.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainAlert "agri-transport-monitor/internal/domain/alert"
	domainShipment "agri-transport-monitor/internal/domain/shipment"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bands maps how long a breach has persisted to a severity grade.
type Bands struct {
	LowMax    time.Duration
	MediumMax time.Duration
	HighMax   time.Duration
}

// DefaultBands grades breaches under 5 minutes LOW, under 15 MEDIUM, under
// 30 HIGH and anything longer CRITICAL.
func DefaultBands() Bands {
	return Bands{
		LowMax:    5 * time.Minute,
		MediumMax: 15 * time.Minute,
		HighMax:   30 * time.Minute,
	}
}

// SeverityFor grades a breach duration.
func (b Bands) SeverityFor(d time.Duration) domainAlert.Severity {
	switch {
	case d < b.LowMax:
		return domainAlert.SeverityLow
	case d < b.MediumMax:
		return domainAlert.SeverityMedium
	case d < b.HighMax:
		return domainAlert.SeverityHigh
	default:
		return domainAlert.SeverityCritical
	}
}

const shipmentCacheTTL = time.Minute

type cachedShipment struct {
	shipment *domainShipment.Shipment
	loadedAt time.Time
}

// Engine runs the breach state machine for every reading that carries both
// a shipment and a temperature.
type Engine struct {
	alerts    domainAlert.Repository
	shipments domainShipment.Repository
	states    StateStore
	bands     Bands

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedShipment
}

func NewEngine(alerts domainAlert.Repository, shipments domainShipment.Repository, states StateStore, bands Bands) *Engine {
	if bands.LowMax <= 0 || bands.MediumMax <= 0 || bands.HighMax <= 0 {
		bands = DefaultBands()
	}
	return &Engine{
		alerts:    alerts,
		shipments: shipments,
		states:    states,
		bands:     bands,
		cache:     make(map[uuid.UUID]cachedShipment),
	}
}

// Evaluate advances the breach state machine with one reading. Readings
// without a shipment, without a temperature, or whose shipment defines no
// temperature band are ignored.
func (e *Engine) Evaluate(ctx context.Context, reading *domainTelemetry.Reading) error {
	if reading.ShipmentID == nil || reading.Temperature == nil {
		return nil
	}

	ship, err := e.shipment(ctx, *reading.ShipmentID)
	if err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			return nil
		}
		return err
	}
	if !ship.HasTemperatureBounds() {
		return nil
	}

	temp := *reading.Temperature
	inRange := temp >= *ship.TempMin && temp <= *ship.TempMax

	state, err := e.states.Get(ctx, ship.ID, reading.DeviceID)
	if err != nil {
		return err
	}

	if inRange {
		if state != nil {
			// Breach sequence over; the open alert stays for the operator.
			if err := e.states.Delete(ctx, ship.ID, reading.DeviceID); err != nil {
				return err
			}
			logger.Info("temperature breach ended",
				zap.String("shipment_id", ship.ID.String()),
				zap.String("device_id", reading.DeviceID.String()),
				zap.Float64("temperature", temp),
			)
		}
		return nil
	}

	if state == nil {
		return e.openAlert(ctx, ship, reading, temp)
	}
	return e.updateAlert(ctx, ship, reading, state, temp)
}

func (e *Engine) openAlert(ctx context.Context, ship *domainShipment.Shipment, reading *domainTelemetry.Reading, temp float64) error {
	alert := &domainAlert.TemperatureAlert{
		ShipmentID:      ship.ID,
		DeviceID:        reading.DeviceID,
		Severity:        e.bands.SeverityFor(0),
		ThresholdMin:    *ship.TempMin,
		ThresholdMax:    *ship.TempMax,
		CurrentValue:    temp,
		DurationMinutes: 0,
		TriggeredAt:     reading.Timestamp,
	}

	if err := e.alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to open alert: %w", err)
	}

	if err := e.states.Set(ctx, ship.ID, reading.DeviceID, &BreachState{
		BreachStartTime: reading.Timestamp,
		LastChecked:     reading.Timestamp,
		BreachValue:     temp,
		AlertID:         alert.ID,
	}); err != nil {
		return err
	}

	logger.Warn("temperature breach started",
		zap.String("shipment_id", ship.ID.String()),
		zap.String("device_id", reading.DeviceID.String()),
		zap.Float64("temperature", temp),
		zap.Float64("threshold_min", *ship.TempMin),
		zap.Float64("threshold_max", *ship.TempMax),
	)

	return nil
}

func (e *Engine) updateAlert(ctx context.Context, ship *domainShipment.Shipment, reading *domainTelemetry.Reading, state *BreachState, temp float64) error {
	duration := reading.Timestamp.Sub(state.BreachStartTime)
	if duration < 0 {
		duration = 0
	}
	severity := e.bands.SeverityFor(duration)

	err := e.alerts.UpdateBreach(ctx, state.AlertID, severity, temp, int(duration.Minutes()))
	if err != nil {
		// The operator resolved the alert mid-breach; start a fresh
		// sequence from this reading.
		if errors.Is(err, domainAlert.ErrAlertNotFound) {
			if delErr := e.states.Delete(ctx, ship.ID, reading.DeviceID); delErr != nil {
				return delErr
			}
			return e.openAlert(ctx, ship, reading, temp)
		}
		return err
	}

	state.LastChecked = reading.Timestamp
	state.BreachValue = temp
	return e.states.Set(ctx, ship.ID, reading.DeviceID, state)
}

func (e *Engine) shipment(ctx context.Context, id uuid.UUID) (*domainShipment.Shipment, error) {
	e.mu.RLock()
	cached, ok := e.cache[id]
	e.mu.RUnlock()
	if ok && time.Since(cached.loadedAt) < shipmentCacheTTL {
		return cached.shipment, nil
	}

	ship, err := e.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[id] = cachedShipment{shipment: ship, loadedAt: time.Now()}
	e.mu.Unlock()

	return ship, nil
}
