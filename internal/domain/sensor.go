package domain

import (
	"fmt"
	"strings"
	"time"
)

// SensorType enumerates the kinds of sensors the system tracks.
type SensorType string

const (
	SensorTypeMovement    SensorType = "MOVEMENT"
	SensorTypeTemperature SensorType = "TEMPERATURE"
	SensorTypeAccess      SensorType = "ACCESS"
)

// ParseSensorType normalizes and validates a sensor type string.
func ParseSensorType(s string) (SensorType, error) {
	t := SensorType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case SensorTypeMovement, SensorTypeTemperature, SensorTypeAccess:
		return t, nil
	}
	return "", fmt.Errorf("unknown sensor type %q: %w", s, ErrInvalidInput)
}

// Sensor domain model (maps to the sensors table).
// SensorID is the business key used by external callers; ID is the internal UUID.
type Sensor struct {
	ID        string     `json:"id"`
	SensorID  string     `json:"sensorId"`
	Type      SensorType `json:"type"`
	Location  string     `json:"location"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	LastCheck *time.Time `json:"lastCheck"`
}
