// Package geofencing evaluates telemetry positions against circular
// geofences and emits ENTRY, EXIT and DWELL events. Containment state lives
// in a StateStore keyed by (geofence, device); the engine itself is
// stateless apart from a short-lived cache of active fences.
package geofencing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	domainGeofence "agri-transport-monitor/internal/domain/geofence"
	domainTelemetry "agri-transport-monitor/internal/domain/telemetry"
	"agri-transport-monitor/internal/logger"

	"go.uber.org/zap"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Engine runs the containment state machine. Per (geofence, device) pair the
// lifecycle is OUTSIDE → INSIDE on boundary crossing (ENTRY), INSIDE →
// INSIDE_DWELLING once continuous containment reaches the fence's dwell
// threshold (DWELL, fired at most once per stay), and any inside state →
// OUTSIDE on crossing out (EXIT).
type Engine struct {
	fences domainGeofence.Repository
	states StateStore

	cacheTTL time.Duration
	mu       sync.RWMutex
	cached   []*domainGeofence.Geofence
	cachedAt time.Time
}

func NewEngine(fences domainGeofence.Repository, states StateStore, cacheTTL time.Duration) *Engine {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &Engine{
		fences:   fences,
		states:   states,
		cacheTTL: cacheTTL,
	}
}

// Evaluate runs one reading through every active geofence and returns the
// events it produced. Readings without a position are skipped. Events are
// suppressed per the fence's alert flags, but the containment state always
// advances so a later enablement does not replay missed transitions.
func (e *Engine) Evaluate(ctx context.Context, reading *domainTelemetry.Reading) ([]*domainGeofence.Event, error) {
	if !reading.HasPosition() {
		return nil, nil
	}

	fences, err := e.activeFences(ctx)
	if err != nil {
		return nil, err
	}

	var events []*domainGeofence.Event
	for _, fence := range fences {
		event, err := e.evaluateFence(ctx, fence, reading)
		if err != nil {
			logger.Error("geofence evaluation failed",
				zap.String("geofence_id", fence.ID.String()),
				zap.String("device_id", reading.DeviceID.String()),
				zap.Error(err),
			)
			continue
		}
		if event != nil {
			events = append(events, event)
		}
	}

	return events, nil
}

func (e *Engine) evaluateFence(ctx context.Context, fence *domainGeofence.Geofence, reading *domainTelemetry.Reading) (*domainGeofence.Event, error) {
	distance := HaversineMeters(fence.CenterLatitude, fence.CenterLongitude, *reading.Latitude, *reading.Longitude)
	// A point exactly on the boundary counts as inside.
	inside := distance <= fence.RadiusMeters

	state, err := e.states.Get(ctx, fence.ID, reading.DeviceID)
	if err != nil {
		return nil, err
	}

	switch {
	case inside && state.Status == StateOutside:
		if err := e.states.Set(ctx, fence.ID, reading.DeviceID, &DeviceState{
			Status:      StateInside,
			EntryTime:   reading.Timestamp,
			LastChecked: reading.Timestamp,
		}); err != nil {
			return nil, err
		}
		if fence.AlertOnEntry {
			return newEvent(fence, reading, domainGeofence.EventEntry, nil), nil
		}
		return nil, nil

	case inside && state.Status == StateInside:
		dwell := reading.Timestamp.Sub(state.EntryTime)
		if fence.AlertOnDwell && fence.DwellTimeThreshold > 0 &&
			dwell >= time.Duration(fence.DwellTimeThreshold)*time.Second {
			if err := e.states.Set(ctx, fence.ID, reading.DeviceID, &DeviceState{
				Status:      StateInsideDwelling,
				EntryTime:   state.EntryTime,
				LastChecked: reading.Timestamp,
			}); err != nil {
				return nil, err
			}
			return newEvent(fence, reading, domainGeofence.EventDwell, &dwell), nil
		}
		state.LastChecked = reading.Timestamp
		if err := e.states.Set(ctx, fence.ID, reading.DeviceID, state); err != nil {
			return nil, err
		}
		return nil, nil

	case inside:
		// Already dwelling; nothing more fires until the device leaves.
		state.LastChecked = reading.Timestamp
		if err := e.states.Set(ctx, fence.ID, reading.DeviceID, state); err != nil {
			return nil, err
		}
		return nil, nil

	case state.Status != StateOutside:
		if err := e.states.Delete(ctx, fence.ID, reading.DeviceID); err != nil {
			return nil, err
		}
		if fence.AlertOnExit {
			return newEvent(fence, reading, domainGeofence.EventExit, nil), nil
		}
		return nil, nil
	}

	return nil, nil
}

// CheckDevice answers the point-in-time containment question for one
// position against every active geofence. It reads no state and writes no
// events.
func (e *Engine) CheckDevice(ctx context.Context, deviceID string, lat, lon float64, at time.Time) ([]*domainGeofence.ContainmentStatus, error) {
	fences, err := e.activeFences(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]*domainGeofence.ContainmentStatus, 0, len(fences))
	for _, fence := range fences {
		distance := HaversineMeters(fence.CenterLatitude, fence.CenterLongitude, lat, lon)
		statuses = append(statuses, &domainGeofence.ContainmentStatus{
			GeofenceID:         fence.ID,
			GeofenceName:       fence.Name,
			DeviceID:           deviceID,
			DistanceFromCenter: distance,
			RadiusMeters:       fence.RadiusMeters,
			IsInside:           distance <= fence.RadiusMeters,
			Latitude:           lat,
			Longitude:          lon,
			Timestamp:          at,
		})
	}

	return statuses, nil
}

// InvalidateCache drops the fence cache so the next evaluation reloads.
// Called after geofence create/deactivate.
func (e *Engine) InvalidateCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cached = nil
	e.cachedAt = time.Time{}
}

func (e *Engine) activeFences(ctx context.Context) ([]*domainGeofence.Geofence, error) {
	e.mu.RLock()
	if e.cached != nil && time.Since(e.cachedAt) < e.cacheTTL {
		fences := e.cached
		e.mu.RUnlock()
		return fences, nil
	}
	e.mu.RUnlock()

	fences, err := e.fences.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active geofences: %w", err)
	}

	e.mu.Lock()
	e.cached = fences
	e.cachedAt = time.Now()
	e.mu.Unlock()

	return fences, nil
}

func newEvent(fence *domainGeofence.Geofence, reading *domainTelemetry.Reading, eventType domainGeofence.EventType, duration *time.Duration) *domainGeofence.Event {
	return &domainGeofence.Event{
		GeofenceID: fence.ID,
		DeviceID:   reading.DeviceID,
		ShipmentID: reading.ShipmentID,
		EventType:  eventType,
		Latitude:   *reading.Latitude,
		Longitude:  *reading.Longitude,
		Timestamp:  reading.Timestamp,
		Duration:   duration,
	}
}
