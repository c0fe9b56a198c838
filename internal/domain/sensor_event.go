package domain

import "time"

// SensorEvent domain model (maps to the sensor_events table).
// The owning sensor is embedded in JSON responses; SensorRefID carries the
// internal FK and is never serialized.
type SensorEvent struct {
	ID          string    `json:"id"`
	SensorRefID string    `json:"-"`
	Sensor      *Sensor   `json:"sensor"`
	EventType   string    `json:"eventType"`
	Description string    `json:"description"`
	Value       *float64  `json:"value"`
	Critical    bool      `json:"critical"`
	DetectedAt  time.Time `json:"detectedAt"`
	Processed   bool      `json:"processed"`
}
