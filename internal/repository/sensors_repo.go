package repository

import (
	"context"

	"stark-security/internal/domain"
)

// SensorsRepository persists sensor identities.
type SensorsRepository interface {
	// CreateSensor inserts a new sensor. Returns domain.ErrDuplicateSensor
	// when the business key (sensor_id) is already taken.
	CreateSensor(ctx context.Context, sensor *domain.Sensor) error

	// GetSensorBySensorID looks a sensor up by its business key.
	// Returns domain.ErrNotFound when no sensor matches.
	GetSensorBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error)

	ListSensors(ctx context.Context) ([]*domain.Sensor, error)
	ListSensorsByType(ctx context.Context, sensorType domain.SensorType) ([]*domain.Sensor, error)

	CountSensors(ctx context.Context) (int, error)
	CountActiveSensors(ctx context.Context) (int, error)
}
