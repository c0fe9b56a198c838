package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stark-security/internal/domain"
)

// PostgresEventsRepo sensor_events table implementation. Event queries join
// the sensors table so responses can embed the full sensor.
type PostgresEventsRepo struct {
	db *sql.DB
}

func NewPostgresEventsRepo(db *sql.DB) *PostgresEventsRepo {
	return &PostgresEventsRepo{db: db}
}

var _ EventsRepository = (*PostgresEventsRepo)(nil)

const eventSelect = `
	SELECT
		e.id::text, e.event_type, e.description, e.event_value,
		e.critical, e.detected_at, e.processed,
		s.id::text, s.sensor_id, s.type, s.location, s.active, s.created_at, s.last_check
	FROM sensor_events e
	JOIN sensors s ON e.sensor_ref = s.id
`

func (r *PostgresEventsRepo) CreateEventAndTouchSensor(ctx context.Context, event *domain.SensorEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if event.SensorRefID == "" {
		return fmt.Errorf("sensor reference is required: %w", domain.ErrInvalidInput)
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.DetectedAt.IsZero() {
		event.DetectedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sensor_events (id, sensor_ref, event_type, description, event_value, critical, detected_at, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		event.ID,
		event.SensorRefID,
		event.EventType,
		event.Description,
		event.Value,
		event.Critical,
		event.DetectedAt,
		event.Processed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE sensors SET last_check = $1 WHERE id = $2`,
		event.DetectedAt, event.SensorRefID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sensor last_check: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sensor ref %q: %w", event.SensorRefID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}

	return nil
}

func (r *PostgresEventsRepo) GetEvent(ctx context.Context, eventID string) (*domain.SensorEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event_id is required: %w", domain.ErrInvalidInput)
	}

	query := eventSelect + ` WHERE e.id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %q: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (r *PostgresEventsRepo) ListEvents(ctx context.Context) ([]*domain.SensorEvent, error) {
	return r.queryEvents(ctx, eventSelect+` ORDER BY e.detected_at DESC`)
}

func (r *PostgresEventsRepo) ListCriticalEvents(ctx context.Context) ([]*domain.SensorEvent, error) {
	return r.queryEvents(ctx, eventSelect+` WHERE e.critical = TRUE ORDER BY e.detected_at DESC`)
}

func (r *PostgresEventsRepo) MarkEventProcessed(ctx context.Context, eventID string) (*domain.SensorEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event_id is required: %w", domain.ErrInvalidInput)
	}

	// Unconditional update keeps the operation idempotent: re-marking an
	// already-processed event affects one row and changes nothing.
	result, err := r.db.ExecContext(ctx,
		`UPDATE sensor_events SET processed = TRUE WHERE id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark event processed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("event %q: %w", eventID, domain.ErrNotFound)
	}

	return r.GetEvent(ctx, eventID)
}

func (r *PostgresEventsRepo) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensor_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *PostgresEventsRepo) CountUnprocessedCriticalEvents(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM sensor_events WHERE critical = TRUE AND processed = FALSE`
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unprocessed critical events: %w", err)
	}
	return n, nil
}

func (r *PostgresEventsRepo) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*domain.SensorEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []*domain.SensorEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func scanEvent(row rowScanner) (*domain.SensorEvent, error) {
	var event domain.SensorEvent
	var sensor domain.Sensor
	var value sql.NullFloat64
	var sensorType string
	var lastCheck sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.EventType,
		&event.Description,
		&value,
		&event.Critical,
		&event.DetectedAt,
		&event.Processed,
		&sensor.ID,
		&sensor.SensorID,
		&sensorType,
		&sensor.Location,
		&sensor.Active,
		&sensor.CreatedAt,
		&lastCheck,
	)
	if err != nil {
		return nil, err
	}

	if value.Valid {
		event.Value = &value.Float64
	}
	sensor.Type = domain.SensorType(sensorType)
	if lastCheck.Valid {
		sensor.LastCheck = &lastCheck.Time
	}
	event.Sensor = &sensor
	event.SensorRefID = sensor.ID

	return &event, nil
}
