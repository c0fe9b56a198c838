// Package processor turns raw sensor readings into event records. One pure
// function per sensor type; selection is a tagged lookup, no fallback for
// unrecognized types.
package processor

import (
	"encoding/json"
	"fmt"
	"time"

	"stark-security/internal/domain"
)

// ProcessFunc converts a raw reading for the given sensor into an event
// record. Pure: no store access, no clock access beyond the supplied now.
type ProcessFunc func(sensor *domain.Sensor, raw json.RawMessage, now time.Time) (*domain.SensorEvent, error)

var processors = map[domain.SensorType]ProcessFunc{
	domain.SensorTypeMovement:    ProcessMovement,
	domain.SensorTypeTemperature: ProcessTemperature,
	domain.SensorTypeAccess:      ProcessAccess,
}

// ForType returns the processor for a sensor type. Unrecognized types fail
// fast with domain.ErrInvalidInput.
func ForType(t domain.SensorType) (ProcessFunc, error) {
	fn, ok := processors[t]
	if !ok {
		return nil, fmt.Errorf("no processor for sensor type %q: %w", t, domain.ErrInvalidInput)
	}
	return fn, nil
}

func newEvent(sensor *domain.Sensor, eventType, description string, value float64, critical bool, now time.Time) *domain.SensorEvent {
	v := value
	return &domain.SensorEvent{
		SensorRefID: sensor.ID,
		Sensor:      sensor,
		EventType:   eventType,
		Description: description,
		Value:       &v,
		Critical:    critical,
		DetectedAt:  now,
		Processed:   false,
	}
}
