package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"stark-security/internal/domain"
	"stark-security/internal/repository"
	"stark-security/internal/service"
)

// EventHandler event listing, statistics and mark-processed.
type EventHandler struct {
	events   repository.EventsRepository
	security service.SecurityService
	logger   *zap.Logger
}

func NewEventHandler(events repository.EventsRepository, security service.SecurityService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		events:   events,
		security: security,
		logger:   logger,
	}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("Failed to list events", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) ListCritical(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListCriticalEvents(r.Context())
	if err != nil {
		h.logger.Error("Failed to list critical events", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.security.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *EventHandler) MarkProcessed(w http.ResponseWriter, r *http.Request, eventID string) {
	event, err := h.events.MarkEventProcessed(r.Context(), eventID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.logger.Error("Failed to mark event processed", zap.Error(err))
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
