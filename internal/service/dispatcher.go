package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"stark-security/internal/domain"
)

var (
	// ErrQueueFull backlog is at capacity; the submitter must retry later.
	// Fail-fast was chosen over blocking so request handlers stay bounded.
	ErrQueueFull = errors.New("dispatch queue is full")
	// ErrDispatcherStopped submissions after shutdown began.
	ErrDispatcherStopped = errors.New("dispatcher is stopped")
)

// Job is one raw reading queued for asynchronous processing.
type Job struct {
	SensorID string
	Type     domain.SensorType
	Raw      json.RawMessage
}

// Dispatcher is a bounded worker pool. Submitters get an immediate
// accepted/rejected answer; processing outcome is observable only through
// event queries and logs. No ordering guarantee between jobs, even for the
// same sensor.
type Dispatcher struct {
	security SecurityService
	logger   *zap.Logger

	jobs    chan Job
	workers int
	wg      sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

func NewDispatcher(security SecurityService, workers, queueSize int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 10
	}
	if queueSize <= 0 {
		queueSize = 500
	}
	return &Dispatcher{
		security: security,
		logger:   logger,
		jobs:     make(chan Job, queueSize),
		workers:  workers,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	d.logger.Info("Starting dispatcher",
		zap.Int("workers", d.workers),
		zap.Int("queue_size", cap(d.jobs)),
	)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Submit enqueues one job. Never blocks: returns ErrQueueFull when the
// backlog is at capacity.
func (d *Dispatcher) Submit(job Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitBatch enqueues each job independently and returns how many were
// accepted. Per-item processing failures are not reported here.
func (d *Dispatcher) SubmitBatch(jobs []Job) int {
	submitted := 0
	for _, job := range jobs {
		if err := d.Submit(job); err != nil {
			d.logger.Warn("Batch item rejected",
				zap.String("sensor_id", job.SensorID),
				zap.Error(err),
			)
			continue
		}
		submitted++
	}
	return submitted
}

// Stop closes the intake and waits for queued jobs to drain, up to the
// context deadline.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.jobs {
		event, err := d.security.ProcessReading(context.Background(), job.SensorID, job.Type, job.Raw)
		if err != nil {
			// The 202 already went out; this log line is the only place the
			// failure surfaces besides the absence of an event.
			d.logger.Error("Sensor reading processing failed",
				zap.String("sensor_id", job.SensorID),
				zap.String("type", string(job.Type)),
				zap.Error(err),
			)
			continue
		}
		d.logger.Debug("Dispatch completed",
			zap.String("sensor_id", job.SensorID),
			zap.String("event_id", event.ID),
		)
	}
}
