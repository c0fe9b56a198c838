package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stark-security/internal/domain"
	"stark-security/internal/notifier"
	"stark-security/internal/processor"
	"stark-security/internal/repository"
)

// SecurityService coordinates reading processing and system statistics.
type SecurityService interface {
	// ProcessReading runs one reading end to end: sensor lookup by business
	// key, type-specific processing, transactional persistence (event insert
	// + sensor last_check update) and, for critical events, alert emission.
	// Called from dispatcher workers, not from request handlers.
	ProcessReading(ctx context.Context, sensorID string, sensorType domain.SensorType, raw json.RawMessage) (*domain.SensorEvent, error)

	// Stats computes point-in-time counts with four independent queries.
	// The four numbers carry no cross-consistency guarantee under concurrent
	// writes; acceptable staleness, not a bug.
	Stats(ctx context.Context) (*SystemStats, error)
}

// SystemStats aggregator output.
type SystemStats struct {
	TotalSensors              int `json:"totalSensors"`
	ActiveSensors             int `json:"activeSensors"`
	TotalEvents               int `json:"totalEvents"`
	UnprocessedCriticalEvents int `json:"unprocessedCriticalEvents"`
}

type securityService struct {
	sensors  repository.SensorsRepository
	events   repository.EventsRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewSecurityService(
	sensors repository.SensorsRepository,
	events repository.EventsRepository,
	alertNotifier notifier.Notifier,
	logger *zap.Logger,
) SecurityService {
	return &securityService{
		sensors:  sensors,
		events:   events,
		notifier: alertNotifier,
		logger:   logger,
	}
}

func (s *securityService) ProcessReading(ctx context.Context, sensorID string, sensorType domain.SensorType, raw json.RawMessage) (*domain.SensorEvent, error) {
	process, err := processor.ForType(sensorType)
	if err != nil {
		return nil, err
	}

	sensor, err := s.sensors.GetSensorBySensorID(ctx, sensorID)
	if err != nil {
		return nil, err
	}

	event, err := process(sensor, raw, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to process reading for sensor %q: %w", sensorID, err)
	}

	if err := s.events.CreateEventAndTouchSensor(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Sensor reading processed",
		zap.String("sensor_id", sensorID),
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.Bool("critical", event.Critical),
	)

	// Fire-and-forget: notification failure never rolls back the event write.
	if event.Critical {
		s.notifier.Notify(event)
	}

	return event, nil
}

func (s *securityService) Stats(ctx context.Context) (*SystemStats, error) {
	totalSensors, err := s.sensors.CountSensors(ctx)
	if err != nil {
		return nil, err
	}
	activeSensors, err := s.sensors.CountActiveSensors(ctx)
	if err != nil {
		return nil, err
	}
	totalEvents, err := s.events.CountEvents(ctx)
	if err != nil {
		return nil, err
	}
	unprocessedCritical, err := s.events.CountUnprocessedCriticalEvents(ctx)
	if err != nil {
		return nil, err
	}

	return &SystemStats{
		TotalSensors:              totalSensors,
		ActiveSensors:             activeSensors,
		TotalEvents:               totalEvents,
		UnprocessedCriticalEvents: unprocessedCritical,
	}, nil
}
