package processor

import (
	"encoding/json"
	"fmt"
	"time"

	"stark-security/internal/domain"
)

// EventTypeAccess tags events produced by access-control sensors.
const EventTypeAccess = "ACCESS_ATTEMPT"

type accessReading struct {
	UserID     string `json:"userId"`
	Authorized *bool  `json:"authorized"`
}

// AccessCritical a denied access attempt requires immediate attention.
func AccessCritical(authorized bool) bool {
	return !authorized
}

// ProcessAccess expects the raw reading to be {"userId": string,
// "authorized": bool}; both fields are required.
func ProcessAccess(sensor *domain.Sensor, raw json.RawMessage, now time.Time) (*domain.SensorEvent, error) {
	var reading accessReading
	if err := json.Unmarshal(raw, &reading); err != nil {
		return nil, fmt.Errorf("access reading must be an object: %w", domain.ErrInvalidInput)
	}
	if reading.UserID == "" {
		return nil, fmt.Errorf("access reading is missing userId: %w", domain.ErrInvalidInput)
	}
	if reading.Authorized == nil {
		return nil, fmt.Errorf("access reading is missing authorized: %w", domain.ErrInvalidInput)
	}

	authorized := *reading.Authorized
	outcome := "Access denied"
	value := 0.0
	if authorized {
		outcome = "Access authorized"
		value = 1.0
	}
	description := fmt.Sprintf("%s - user: %s at %s", outcome, reading.UserID, sensor.Location)

	return newEvent(sensor, EventTypeAccess, description, value, AccessCritical(authorized), now), nil
}
