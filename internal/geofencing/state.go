package geofencing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ContainmentState tracks where a device stands relative to one geofence.
type ContainmentState string

const (
	// StateOutside is implicit: absence of a stored state means outside.
	StateOutside        ContainmentState = "OUTSIDE"
	StateInside         ContainmentState = "INSIDE"
	StateInsideDwelling ContainmentState = "INSIDE_DWELLING"
)

// DeviceState is the per-(geofence, device) containment record. EntryTime is
// the timestamp of the reading that crossed the boundary inward; dwell time
// is measured from it.
type DeviceState struct {
	Status      ContainmentState `json:"status"`
	EntryTime   time.Time        `json:"entry_time"`
	LastChecked time.Time        `json:"last_checked"`
}

// StateStore persists containment states between readings. Get returns an
// OUTSIDE state, not an error, when no record exists.
type StateStore interface {
	Get(ctx context.Context, geofenceID, deviceID uuid.UUID) (*DeviceState, error)
	Set(ctx context.Context, geofenceID, deviceID uuid.UUID, state *DeviceState) error
	Delete(ctx context.Context, geofenceID, deviceID uuid.UUID) error
}

// MemoryStateStore keeps containment states in process memory. Suitable for
// a single-instance deployment and for tests.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]DeviceState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]DeviceState)}
}

func stateKey(geofenceID, deviceID uuid.UUID) string {
	return fmt.Sprintf("geofence_state:%s:%s", geofenceID, deviceID)
}

func (s *MemoryStateStore) Get(_ context.Context, geofenceID, deviceID uuid.UUID) (*DeviceState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[stateKey(geofenceID, deviceID)]
	if !ok {
		return &DeviceState{Status: StateOutside}, nil
	}
	return &state, nil
}

func (s *MemoryStateStore) Set(_ context.Context, geofenceID, deviceID uuid.UUID, state *DeviceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[stateKey(geofenceID, deviceID)] = *state
	return nil
}

func (s *MemoryStateStore) Delete(_ context.Context, geofenceID, deviceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, stateKey(geofenceID, deviceID))
	return nil
}

// RedisStateStore keeps containment states in Redis so they survive restarts
// and are shared across instances.
type RedisStateStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStateStore(redisClient *redis.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		// Stale states self-clean once a device goes quiet for a week.
		ttl = 7 * 24 * time.Hour
	}
	return &RedisStateStore{redis: redisClient, ttl: ttl}
}

func (s *RedisStateStore) Get(ctx context.Context, geofenceID, deviceID uuid.UUID) (*DeviceState, error) {
	data, err := s.redis.Get(ctx, stateKey(geofenceID, deviceID)).Result()
	if err == redis.Nil {
		return &DeviceState{Status: StateOutside}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get containment state from Redis: %w", err)
	}

	var state DeviceState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal containment state: %w", err)
	}

	return &state, nil
}

func (s *RedisStateStore) Set(ctx context.Context, geofenceID, deviceID uuid.UUID, state *DeviceState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal containment state: %w", err)
	}

	if err := s.redis.Set(ctx, stateKey(geofenceID, deviceID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set containment state in Redis: %w", err)
	}

	return nil
}

func (s *RedisStateStore) Delete(ctx context.Context, geofenceID, deviceID uuid.UUID) error {
	return s.redis.Del(ctx, stateKey(geofenceID, deviceID)).Err()
}
