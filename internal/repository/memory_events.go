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

// MemoryEventsRepo in-memory counterpart of PostgresEventsRepo. Needs the
// sensors repo to resolve the sensor reference and to update last_check as
// part of the same logical unit.
type MemoryEventsRepo struct {
	mu sync.RWMutex

	sensors *MemorySensorsRepo
	events  map[string]*domain.SensorEvent
}

func NewMemoryEventsRepo(sensors *MemorySensorsRepo) *MemoryEventsRepo {
	return &MemoryEventsRepo{
		sensors: sensors,
		events:  map[string]*domain.SensorEvent{},
	}
}

var _ EventsRepository = (*MemoryEventsRepo)(nil)

func (r *MemoryEventsRepo) CreateEventAndTouchSensor(_ context.Context, event *domain.SensorEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if event.SensorRefID == "" {
		return fmt.Errorf("sensor reference is required: %w", domain.ErrInvalidInput)
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.DetectedAt.IsZero() {
		event.DetectedAt = time.Now()
	}

	if !r.sensors.touchLastCheck(event.SensorRefID, event.DetectedAt) {
		return fmt.Errorf("sensor ref %q: %w", event.SensorRefID, domain.ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *event
	r.events[stored.ID] = &stored

	return nil
}

func (r *MemoryEventsRepo) GetEvent(_ context.Context, eventID string) (*domain.SensorEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %q: %w", eventID, domain.ErrNotFound)
	}
	return r.withSensor(event), nil
}

func (r *MemoryEventsRepo) ListEvents(_ context.Context) ([]*domain.SensorEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*domain.SensorEvent, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, r.withSensor(e))
	}
	sortEvents(events)
	return events, nil
}

func (r *MemoryEventsRepo) ListCriticalEvents(_ context.Context) ([]*domain.SensorEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := []*domain.SensorEvent{}
	for _, e := range r.events {
		if e.Critical {
			events = append(events, r.withSensor(e))
		}
	}
	sortEvents(events)
	return events, nil
}

func (r *MemoryEventsRepo) MarkEventProcessed(_ context.Context, eventID string) (*domain.SensorEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %q: %w", eventID, domain.ErrNotFound)
	}
	event.Processed = true
	return r.withSensor(event), nil
}

func (r *MemoryEventsRepo) CountEvents(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events), nil
}

func (r *MemoryEventsRepo) CountUnprocessedCriticalEvents(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.events {
		if e.Critical && !e.Processed {
			n++
		}
	}
	return n, nil
}

// withSensor returns a copy of the event with a fresh copy of its sensor
// embedded, mirroring the JOIN the Postgres repo performs.
func (r *MemoryEventsRepo) withSensor(event *domain.SensorEvent) *domain.SensorEvent {
	c := *event
	if event.Value != nil {
		v := *event.Value
		c.Value = &v
	}
	r.sensors.mu.RLock()
	if s, ok := r.sensors.byID[event.SensorRefID]; ok {
		c.Sensor = copySensor(s)
	}
	r.sensors.mu.RUnlock()
	return &c
}

func sortEvents(events []*domain.SensorEvent) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].DetectedAt.After(events[j].DetectedAt)
	})
}
