package repository

import (
	"context"

	"stark-security/internal/domain"
)

// EventsRepository persists detection events.
type EventsRepository interface {
	// CreateEventAndTouchSensor inserts the event and updates the owning
	// sensor's last_check in one transactional unit: either both persist or
	// neither does. Returns domain.ErrNotFound when the sensor reference does
	// not resolve.
	CreateEventAndTouchSensor(ctx context.Context, event *domain.SensorEvent) error

	// GetEvent returns one event with its sensor embedded.
	// Returns domain.ErrNotFound when no event matches.
	GetEvent(ctx context.Context, eventID string) (*domain.SensorEvent, error)

	ListEvents(ctx context.Context) ([]*domain.SensorEvent, error)
	ListCriticalEvents(ctx context.Context) ([]*domain.SensorEvent, error)

	// MarkEventProcessed flips processed to true and returns the updated
	// event. Idempotent: marking an already-processed event is not an error.
	MarkEventProcessed(ctx context.Context, eventID string) (*domain.SensorEvent, error)

	CountEvents(ctx context.Context) (int, error)
	CountUnprocessedCriticalEvents(ctx context.Context) (int, error)
}
