package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BreachState tracks an in-progress temperature breach for one
// (shipment, device) pair. Absence of a state means the pair is in range.
type BreachState struct {
	BreachStartTime time.Time `json:"breach_start_time"`
	LastChecked     time.Time `json:"last_checked"`
	BreachValue     float64   `json:"breach_value"`
	AlertID         uuid.UUID `json:"alert_id"`
}

// StateStore persists breach states between readings. Get returns nil, not
// an error, when no breach is in progress.
type StateStore interface {
	Get(ctx context.Context, shipmentID, deviceID uuid.UUID) (*BreachState, error)
	Set(ctx context.Context, shipmentID, deviceID uuid.UUID, state *BreachState) error
	Delete(ctx context.Context, shipmentID, deviceID uuid.UUID) error
}

// MemoryStateStore keeps breach states in process memory.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]BreachState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]BreachState)}
}

func breachKey(shipmentID, deviceID uuid.UUID) string {
	return fmt.Sprintf("breach_state:%s:%s", shipmentID, deviceID)
}

func (s *MemoryStateStore) Get(_ context.Context, shipmentID, deviceID uuid.UUID) (*BreachState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[breachKey(shipmentID, deviceID)]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *MemoryStateStore) Set(_ context.Context, shipmentID, deviceID uuid.UUID, state *BreachState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[breachKey(shipmentID, deviceID)] = *state
	return nil
}

func (s *MemoryStateStore) Delete(_ context.Context, shipmentID, deviceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, breachKey(shipmentID, deviceID))
	return nil
}

// RedisStateStore keeps breach states in Redis so a restart does not lose an
// in-progress breach sequence.
type RedisStateStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStateStore(redisClient *redis.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisStateStore{redis: redisClient, ttl: ttl}
}

func (s *RedisStateStore) Get(ctx context.Context, shipmentID, deviceID uuid.UUID) (*BreachState, error) {
	data, err := s.redis.Get(ctx, breachKey(shipmentID, deviceID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get breach state from Redis: %w", err)
	}

	var state BreachState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breach state: %w", err)
	}

	return &state, nil
}

func (s *RedisStateStore) Set(ctx context.Context, shipmentID, deviceID uuid.UUID, state *BreachState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal breach state: %w", err)
	}

	if err := s.redis.Set(ctx, breachKey(shipmentID, deviceID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set breach state in Redis: %w", err)
	}

	return nil
}

func (s *RedisStateStore) Delete(ctx context.Context, shipmentID, deviceID uuid.UUID) error {
	return s.redis.Del(ctx, breachKey(shipmentID, deviceID)).Err()
}
