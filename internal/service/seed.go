package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stark-security/internal/domain"
	"stark-security/internal/repository"
)

type seedSensor struct {
	sensorID string
	typ      domain.SensorType
	location string
}

var demoSensors = []seedSensor{
	{"MOV-001", domain.SensorTypeMovement, "Main Entrance"},
	{"MOV-002", domain.SensorTypeMovement, "Stark Laboratory"},
	{"MOV-003", domain.SensorTypeMovement, "Server Room"},

	{"TEMP-001", domain.SensorTypeTemperature, "Server Room"},
	{"TEMP-002", domain.SensorTypeTemperature, "Armory"},
	{"TEMP-003", domain.SensorTypeTemperature, "Suit Hangar"},

	{"ACC-001", domain.SensorTypeAccess, "Main Door"},
	{"ACC-002", domain.SensorTypeAccess, "Private Elevator"},
	{"ACC-003", domain.SensorTypeAccess, "Prototype Vault"},
}

// SeedDemoSensors provisions the nine demo sensors when the store is empty.
// Re-running against a populated store is a no-op.
func SeedDemoSensors(ctx context.Context, sensors repository.SensorsRepository, logger *zap.Logger) error {
	count, err := sensors.CountSensors(ctx)
	if err != nil {
		return fmt.Errorf("failed to check sensor count: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, seed := range demoSensors {
		sensor := &domain.Sensor{
			SensorID: seed.sensorID,
			Type:     seed.typ,
			Location: seed.location,
			Active:   true,
		}
		if err := sensors.CreateSensor(ctx, sensor); err != nil {
			return fmt.Errorf("failed to seed sensor %s: %w", seed.sensorID, err)
		}
	}

	logger.Info("Demo sensors initialized", zap.Int("count", len(demoSensors)))
	return nil
}
