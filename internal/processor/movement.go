package processor

import (
	"encoding/json"
	"fmt"
	"time"

	"stark-security/internal/domain"
)

// EventTypeMovement tags events produced by movement sensors.
const EventTypeMovement = "MOVEMENT_DETECTED"

// MovementCritical any detected motion requires immediate attention.
func MovementCritical(detected bool) bool {
	return detected
}

// ProcessMovement expects the raw reading to be a JSON boolean
// ("motion detected" flag).
func ProcessMovement(sensor *domain.Sensor, raw json.RawMessage, now time.Time) (*domain.SensorEvent, error) {
	var detected bool
	if err := json.Unmarshal(raw, &detected); err != nil {
		return nil, fmt.Errorf("movement reading must be a boolean: %w", domain.ErrInvalidInput)
	}

	description := fmt.Sprintf("No movement at %s", sensor.Location)
	value := 0.0
	if detected {
		description = fmt.Sprintf("Movement detected at %s", sensor.Location)
		value = 1.0
	}

	return newEvent(sensor, EventTypeMovement, description, value, MovementCritical(detected), now), nil
}
