package processor

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stark-security/internal/domain"
)

func testSensor(t domain.SensorType) *domain.Sensor {
	return &domain.Sensor{
		ID:       "11111111-1111-1111-1111-111111111111",
		SensorID: "TEST-001",
		Type:     t,
		Location: "Server Room",
		Active:   true,
	}
}

func TestForType(t *testing.T) {
	for _, typ := range []domain.SensorType{
		domain.SensorTypeMovement,
		domain.SensorTypeTemperature,
		domain.SensorTypeAccess,
	} {
		fn, err := ForType(typ)
		require.NoError(t, err)
		assert.NotNil(t, fn)
	}

	fn, err := ForType(domain.SensorType("HUMIDITY"))
	assert.Nil(t, fn)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestTemperatureCritical_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		reading  float64
		critical bool
	}{
		{"well inside range", 21.5, false},
		{"high boundary is safe", 50.0, false},
		{"just above high boundary", 50.01, true},
		{"low boundary is safe", 0.0, false},
		{"just below low boundary", -0.01, true},
		{"deep freeze", -40.0, true},
		{"server room fire", 63.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.critical, TemperatureCritical(tt.reading))
		})
	}
}

func TestProcessTemperature(t *testing.T) {
	sensor := testSensor(domain.SensorTypeTemperature)
	now := time.Now()

	event, err := ProcessTemperature(sensor, json.RawMessage(`63.5`), now)
	require.NoError(t, err)

	assert.Equal(t, EventTypeTemperature, event.EventType)
	require.NotNil(t, event.Value)
	assert.Equal(t, 63.5, *event.Value)
	assert.True(t, event.Critical)
	assert.Equal(t, now, event.DetectedAt)
	assert.False(t, event.Processed)
	assert.Contains(t, event.Description, "63.50")
	assert.Contains(t, event.Description, "Server Room")
}

func TestProcessTemperature_MalformedPayload(t *testing.T) {
	sensor := testSensor(domain.SensorTypeTemperature)

	event, err := ProcessTemperature(sensor, json.RawMessage(`"hot"`), time.Now())
	assert.Nil(t, event)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMovementCritical(t *testing.T) {
	assert.True(t, MovementCritical(true))
	assert.False(t, MovementCritical(false))
}

func TestProcessMovement(t *testing.T) {
	sensor := testSensor(domain.SensorTypeMovement)

	event, err := ProcessMovement(sensor, json.RawMessage(`true`), time.Now())
	require.NoError(t, err)
	assert.Equal(t, EventTypeMovement, event.EventType)
	assert.True(t, event.Critical)
	require.NotNil(t, event.Value)
	assert.Equal(t, 1.0, *event.Value)
	assert.Contains(t, event.Description, "Movement detected")

	event, err = ProcessMovement(sensor, json.RawMessage(`false`), time.Now())
	require.NoError(t, err)
	assert.False(t, event.Critical)
	assert.Equal(t, 0.0, *event.Value)
	assert.Contains(t, event.Description, "No movement")
}

func TestProcessMovement_MalformedPayload(t *testing.T) {
	sensor := testSensor(domain.SensorTypeMovement)

	event, err := ProcessMovement(sensor, json.RawMessage(`{"motion":true}`), time.Now())
	assert.Nil(t, event)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAccessCritical(t *testing.T) {
	assert.True(t, AccessCritical(false))
	assert.False(t, AccessCritical(true))
}

func TestProcessAccess(t *testing.T) {
	sensor := testSensor(domain.SensorTypeAccess)

	event, err := ProcessAccess(sensor, json.RawMessage(`{"userId":"jarvis","authorized":true}`), time.Now())
	require.NoError(t, err)
	assert.Equal(t, EventTypeAccess, event.EventType)
	assert.False(t, event.Critical)
	assert.Contains(t, event.Description, "Access authorized")
	assert.Contains(t, event.Description, "jarvis")

	event, err = ProcessAccess(sensor, json.RawMessage(`{"userId":"intruder","authorized":false}`), time.Now())
	require.NoError(t, err)
	assert.True(t, event.Critical)
	assert.Contains(t, event.Description, "Access denied")
	assert.Contains(t, event.Description, "intruder")
}

func TestProcessAccess_MissingFields(t *testing.T) {
	sensor := testSensor(domain.SensorTypeAccess)

	tests := []struct {
		name string
		raw  string
	}{
		{"missing userId", `{"authorized":true}`},
		{"missing authorized", `{"userId":"jarvis"}`},
		{"not an object", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ProcessAccess(sensor, json.RawMessage(tt.raw), time.Now())
			assert.Nil(t, event)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}
