package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"stark-security/internal/domain"
	"stark-security/internal/repository"
	"stark-security/internal/service"
)

// SensorHandler sensor CRUD and reading submission.
type SensorHandler struct {
	sensors    repository.SensorsRepository
	dispatcher *service.Dispatcher
	logger     *zap.Logger
}

func NewSensorHandler(sensors repository.SensorsRepository, dispatcher *service.Dispatcher, logger *zap.Logger) *SensorHandler {
	return &SensorHandler{
		sensors:    sensors,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *SensorHandler) List(w http.ResponseWriter, r *http.Request) {
	sensors, err := h.sensors.ListSensors(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sensors", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sensors)
}

func (h *SensorHandler) ListByType(w http.ResponseWriter, r *http.Request, typeStr string) {
	sensorType, err := domain.ParseSensorType(typeStr)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sensors, err := h.sensors.ListSensorsByType(r.Context(), sensorType)
	if err != nil {
		h.logger.Error("Failed to list sensors by type", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sensors)
}

type createSensorRequest struct {
	SensorID string `json:"sensorId"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Active   *bool  `json:"active"`
}

func (h *SensorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createSensorRequest
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.SensorID == "" || body.Location == "" {
		writeError(w, http.StatusBadRequest, "sensorId and location are required")
		return
	}

	sensorType, err := domain.ParseSensorType(body.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sensor := &domain.Sensor{
		SensorID: body.SensorID,
		Type:     sensorType,
		Location: body.Location,
		Active:   true,
	}
	if body.Active != nil {
		sensor.Active = *body.Active
	}

	if err := h.sensors.CreateSensor(r.Context(), sensor); err != nil {
		if !errors.Is(err, domain.ErrDuplicateSensor) {
			h.logger.Error("Failed to create sensor", zap.Error(err))
		}
		writeDomainError(w, err)
		return
	}

	h.logger.Info("Sensor created",
		zap.String("sensor_id", sensor.SensorID),
		zap.String("type", string(sensor.Type)),
	)
	writeJSON(w, http.StatusCreated, sensor)
}

type processRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type processResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	SensorID string `json:"sensorId"`
	Type     string `json:"type"`
}

// Process accepts one reading for asynchronous processing. The 202 only
// acknowledges submission; the outcome materializes as an event later.
func (h *SensorHandler) Process(w http.ResponseWriter, r *http.Request, sensorID string) {
	var body processRequest
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sensorType, err := domain.ParseSensorType(body.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	err = h.dispatcher.Submit(service.Job{
		SensorID: sensorID,
		Type:     sensorType,
		Raw:      body.Data,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, processResponse{
		Success:  true,
		Message:  fmt.Sprintf("Processing started for sensor: %s", sensorID),
		SensorID: sensorID,
		Type:     string(sensorType),
	})
}

type batchItem struct {
	SensorID string          `json:"sensorId"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
}

type batchResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	SensorsProcessed int    `json:"sensorsProcessed"`
}

// ProcessBatch submits each reading independently. The response reports how
// many were accepted for processing, never per-item outcomes.
func (h *SensorHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var items []batchItem
	if err := readBodyJSON(r, 4<<20, &items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobs := make([]service.Job, 0, len(items))
	for _, item := range items {
		sensorType, err := domain.ParseSensorType(item.Type)
		if err != nil {
			h.logger.Warn("Batch item skipped: bad sensor type",
				zap.String("sensor_id", item.SensorID),
				zap.String("type", item.Type),
			)
			continue
		}
		jobs = append(jobs, service.Job{
			SensorID: item.SensorID,
			Type:     sensorType,
			Raw:      item.Data,
		})
	}

	submitted := h.dispatcher.SubmitBatch(jobs)

	writeJSON(w, http.StatusAccepted, batchResponse{
		Success:          true,
		Message:          "Concurrent processing started",
		SensorsProcessed: submitted,
	})
}

// Export streams all sensors as an xlsx workbook.
func (h *SensorHandler) Export(w http.ResponseWriter, r *http.Request) {
	sensors, err := h.sensors.ListSensors(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sensors for export", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	data, err := GenerateSensorsExport(sensors)
	if err != nil {
		h.logger.Error("Failed to generate sensor export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="sensors.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
