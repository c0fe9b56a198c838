package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stark-security/internal/domain"
)

// MemorySensorsRepo in-memory fallback used when the DB is not reachable
// (plain `go run` dev loop) and by service-level tests. Enforces the same
// sensor_id uniqueness invariant as the Postgres implementation.
type MemorySensorsRepo struct {
	mu sync.RWMutex

	byID       map[string]*domain.Sensor // internal id -> sensor
	bySensorID map[string]string         // business key -> internal id
}

func NewMemorySensorsRepo() *MemorySensorsRepo {
	return &MemorySensorsRepo{
		byID:       map[string]*domain.Sensor{},
		bySensorID: map[string]string{},
	}
}

var _ SensorsRepository = (*MemorySensorsRepo)(nil)

func (r *MemorySensorsRepo) CreateSensor(_ context.Context, sensor *domain.Sensor) error {
	if sensor == nil {
		return fmt.Errorf("sensor is required")
	}
	if sensor.SensorID == "" {
		return fmt.Errorf("sensor_id is required: %w", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySensorID[sensor.SensorID]; exists {
		return fmt.Errorf("sensor_id %q: %w", sensor.SensorID, domain.ErrDuplicateSensor)
	}

	if sensor.ID == "" {
		sensor.ID = uuid.New().String()
	}
	if sensor.CreatedAt.IsZero() {
		sensor.CreatedAt = time.Now()
	}

	stored := *sensor
	r.byID[stored.ID] = &stored
	r.bySensorID[stored.SensorID] = stored.ID

	return nil
}

func (r *MemorySensorsRepo) GetSensorBySensorID(_ context.Context, sensorID string) (*domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySensorID[sensorID]
	if !ok {
		return nil, fmt.Errorf("sensor %q: %w", sensorID, domain.ErrNotFound)
	}
	return copySensor(r.byID[id]), nil
}

func (r *MemorySensorsRepo) ListSensors(_ context.Context) ([]*domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sensors := make([]*domain.Sensor, 0, len(r.byID))
	for _, s := range r.byID {
		sensors = append(sensors, copySensor(s))
	}
	sortSensors(sensors)
	return sensors, nil
}

func (r *MemorySensorsRepo) ListSensorsByType(_ context.Context, sensorType domain.SensorType) ([]*domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sensors := []*domain.Sensor{}
	for _, s := range r.byID {
		if s.Type == sensorType {
			sensors = append(sensors, copySensor(s))
		}
	}
	sortSensors(sensors)
	return sensors, nil
}

func (r *MemorySensorsRepo) CountSensors(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *MemorySensorsRepo) CountActiveSensors(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.byID {
		if s.Active {
			n++
		}
	}
	return n, nil
}

// touchLastCheck is used by MemoryEventsRepo to keep the event insert and the
// sensor update inside one lock acquisition order.
func (r *MemorySensorsRepo) touchLastCheck(internalID string, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sensor, ok := r.byID[internalID]
	if !ok {
		return false
	}
	t := at
	sensor.LastCheck = &t
	return true
}

func copySensor(s *domain.Sensor) *domain.Sensor {
	c := *s
	if s.LastCheck != nil {
		t := *s.LastCheck
		c.LastCheck = &t
	}
	return &c
}

func sortSensors(sensors []*domain.Sensor) {
	sort.Slice(sensors, func(i, j int) bool {
		return sensors[i].SensorID < sensors[j].SensorID
	})
}
