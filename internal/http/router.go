package httpapi

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux; route-to-handler wiring
// lives here so the full surface is visible in one place.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler supports the http.Handler interface (used for pprof).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes login endpoint.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})
}

// RegisterSensorRoutes sensor CRUD + processing endpoints.
func (r *Router) RegisterSensorRoutes(h *SensorHandler) {
	r.Handle("/api/sensors", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// Subpaths: type/{type}, export, process-batch, {sensorId}/process
	r.Handle("/api/sensors/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/sensors/")
		switch {
		case strings.HasPrefix(rest, "type/"):
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.ListByType(w, req, strings.TrimPrefix(rest, "type/"))
		case rest == "export":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.Export(w, req)
		case rest == "process-batch":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.ProcessBatch(w, req)
		case strings.HasSuffix(rest, "/process"):
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			sensorID := strings.TrimSuffix(rest, "/process")
			if sensorID == "" || strings.Contains(sensorID, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Process(w, req, sensorID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterEventRoutes event listing, stats and mark-processed endpoints.
func (r *Router) RegisterEventRoutes(h *EventHandler) {
	r.Handle("/api/events", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.List(w, req)
	})

	r.Handle("/api/events/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/events/")
		switch {
		case rest == "critical":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.ListCritical(w, req)
		case rest == "stats":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.Stats(w, req)
		case strings.HasSuffix(rest, "/process"):
			if req.Method != http.MethodPatch {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			eventID := strings.TrimSuffix(rest, "/process")
			if eventID == "" || strings.Contains(eventID, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.MarkProcessed(w, req, eventID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterDebugRoutes pprof endpoints; the access-rule table gates these
// behind ADMIN.
func (r *Router) RegisterDebugRoutes() {
	r.Handle("/debug/pprof/", pprof.Index)
	r.Handle("/debug/pprof/cmdline", pprof.Cmdline)
	r.Handle("/debug/pprof/profile", pprof.Profile)
	r.Handle("/debug/pprof/symbol", pprof.Symbol)
	r.Handle("/debug/pprof/trace", pprof.Trace)
}
