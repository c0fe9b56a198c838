package processor

import (
	"encoding/json"
	"fmt"
	"time"

	"stark-security/internal/domain"
)

// EventTypeTemperature tags events produced by temperature sensors.
const EventTypeTemperature = "TEMPERATURE_READ"

// Safe range is [0.0, 50.0] inclusive; the boundaries themselves are not
// critical.
const (
	TemperatureHighThreshold = 50.0 // Celsius
	TemperatureLowThreshold  = 0.0
)

// TemperatureCritical reports whether a reading is out of the safe range.
func TemperatureCritical(reading float64) bool {
	return reading > TemperatureHighThreshold || reading < TemperatureLowThreshold
}

// ProcessTemperature expects the raw reading to be a JSON number (degrees
// Celsius).
func ProcessTemperature(sensor *domain.Sensor, raw json.RawMessage, now time.Time) (*domain.SensorEvent, error) {
	var reading float64
	if err := json.Unmarshal(raw, &reading); err != nil {
		return nil, fmt.Errorf("temperature reading must be a number: %w", domain.ErrInvalidInput)
	}

	description := fmt.Sprintf("Temperature: %.2f°C at %s", reading, sensor.Location)

	return newEvent(sensor, EventTypeTemperature, description, reading, TemperatureCritical(reading), now), nil
}
