package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stark-security/internal/domain"
	"stark-security/internal/service"
)

// processSync runs a reading through the service directly so the test does
// not depend on dispatcher timing.
func (e *testEnv) processSync(t *testing.T, sensorID string, sensorType domain.SensorType, raw string) *domain.SensorEvent {
	t.Helper()
	event, err := e.security.ProcessReading(context.Background(), sensorID, sensorType, json.RawMessage(raw))
	require.NoError(t, err)
	return event
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t, false)
	env.processSync(t, "TEMP-001", domain.SensorTypeTemperature, `21.5`)
	env.processSync(t, "MOV-001", domain.SensorTypeMovement, `true`)

	rec := env.do(t, http.MethodGet, "/api/events", nil, asHappy)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []*domain.SensorEvent
	decodeJSON(t, rec, &events)
	require.Len(t, events, 2)
	require.NotNil(t, events[0].Sensor)
}

func TestListCriticalEvents(t *testing.T) {
	env := newTestEnv(t, false)
	env.processSync(t, "TEMP-001", domain.SensorTypeTemperature, `21.5`)
	critical := env.processSync(t, "TEMP-002", domain.SensorTypeTemperature, `63.5`)

	rec := env.do(t, http.MethodGet, "/api/events/critical", nil, asHappy)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []*domain.SensorEvent
	decodeJSON(t, rec, &events)
	require.Len(t, events, 1)
	assert.Equal(t, critical.ID, events[0].ID)
	assert.True(t, events[0].Critical)
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.processSync(t, "MOV-001", domain.SensorTypeMovement, `true`)
	env.processSync(t, "MOV-002", domain.SensorTypeMovement, `false`)

	rec := env.do(t, http.MethodGet, "/api/events/stats", nil, asHappy)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.SystemStats
	decodeJSON(t, rec, &stats)
	assert.Equal(t, 9, stats.TotalSensors)
	assert.Equal(t, 9, stats.ActiveSensors)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 1, stats.UnprocessedCriticalEvents)
}

func TestMarkEventProcessedEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	event := env.processSync(t, "ACC-001", domain.SensorTypeAccess, `{"userId":"intruder","authorized":false}`)

	rec := env.do(t, http.MethodPatch, "/api/events/"+event.ID+"/process", nil, asPepper)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.SensorEvent
	decodeJSON(t, rec, &updated)
	assert.Equal(t, event.ID, updated.ID)
	assert.True(t, updated.Processed)

	// Marking again is a no-op with the same 200.
	rec = env.do(t, http.MethodPatch, "/api/events/"+event.ID+"/process", nil, asPepper)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/events/missing/process", nil, asPepper)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventRoutes_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/api/events", nil, asPepper)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/events/abc/process", nil, asPepper)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
