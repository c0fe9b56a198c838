package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stark-security/internal/notifier"
	"stark-security/internal/repository"
	"stark-security/internal/service"
)

type testEnv struct {
	sensors    *repository.MemorySensorsRepo
	events     *repository.MemoryEventsRepo
	security   service.SecurityService
	dispatcher *service.Dispatcher
	handler    http.Handler
}

// newTestEnv wires the full stack on in-memory repositories: seeded sensors
// and accounts, a running dispatcher and the complete middleware chain.
func newTestEnv(t *testing.T, devMode bool) *testEnv {
	t.Helper()

	log := zap.NewNop()
	sensors := repository.NewMemorySensorsRepo()
	events := repository.NewMemoryEventsRepo(sensors)
	require.NoError(t, service.SeedDemoSensors(context.Background(), sensors, log))

	accounts := service.NewAccountStore()
	require.NoError(t, service.SeedDefaultAccounts(accounts))

	alertNotifier := notifier.NewAlertNotifier(log)
	security := service.NewSecurityService(sensors, events, alertNotifier, log)

	dispatcher := service.NewDispatcher(security, 2, 10, log)
	dispatcher.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = dispatcher.Stop(ctx)
	})

	router := NewRouter(log)
	router.RegisterAuthRoutes(NewAuthHandler(service.NewAuthService(accounts, log), log))
	router.RegisterSensorRoutes(NewSensorHandler(sensors, dispatcher, log))
	router.RegisterEventRoutes(NewEventHandler(events, security, log))
	router.RegisterDebugRoutes()

	var handler http.Handler = router
	handler = NewAuthMiddleware(accounts, devMode, log).Wrap(handler)
	handler = CORSMiddleware(handler)

	return &testEnv{
		sensors:    sensors,
		events:     events,
		security:   security,
		dispatcher: dispatcher,
		handler:    handler,
	}
}

// do issues a request against the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path string, body any, authorize func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorize != nil {
		authorize(req)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func asTony(req *http.Request) {
	req.SetBasicAuth("tony.stark", "jarvis123")
}

func asPepper(req *http.Request) {
	req.SetBasicAuth("pepper.potts", "stark123")
}

func asHappy(req *http.Request) {
	req.SetBasicAuth("happy.hogan", "driver123")
}

// record issues a request against a bare handler, skipping the middleware.
func record(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
