package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stark-security/internal/domain"
)

// PostgresSensorsRepo sensors table implementation.
type PostgresSensorsRepo struct {
	db *sql.DB
}

func NewPostgresSensorsRepo(db *sql.DB) *PostgresSensorsRepo {
	return &PostgresSensorsRepo{db: db}
}

var _ SensorsRepository = (*PostgresSensorsRepo)(nil)

const sensorColumns = `id::text, sensor_id, type, location, active, created_at, last_check`

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func (r *PostgresSensorsRepo) CreateSensor(ctx context.Context, sensor *domain.Sensor) error {
	if sensor == nil {
		return fmt.Errorf("sensor is required")
	}
	if sensor.SensorID == "" {
		return fmt.Errorf("sensor_id is required: %w", domain.ErrInvalidInput)
	}

	if sensor.ID == "" {
		sensor.ID = uuid.New().String()
	}
	if sensor.CreatedAt.IsZero() {
		sensor.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sensors (id, sensor_id, type, location, active, created_at, last_check)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		sensor.ID,
		sensor.SensorID,
		string(sensor.Type),
		sensor.Location,
		sensor.Active,
		sensor.CreatedAt,
		sensor.LastCheck,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("sensor_id %q: %w", sensor.SensorID, domain.ErrDuplicateSensor)
		}
		return fmt.Errorf("failed to create sensor: %w", err)
	}

	return nil
}

func (r *PostgresSensorsRepo) GetSensorBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	if sensorID == "" {
		return nil, fmt.Errorf("sensor_id is required: %w", domain.ErrInvalidInput)
	}

	query := fmt.Sprintf(`SELECT %s FROM sensors WHERE sensor_id = $1`, sensorColumns)

	sensor, err := scanSensor(r.db.QueryRowContext(ctx, query, sensorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sensor %q: %w", sensorID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sensor: %w", err)
	}

	return sensor, nil
}

func (r *PostgresSensorsRepo) ListSensors(ctx context.Context) ([]*domain.Sensor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sensors ORDER BY sensor_id`, sensorColumns)
	return r.querySensors(ctx, query)
}

func (r *PostgresSensorsRepo) ListSensorsByType(ctx context.Context, sensorType domain.SensorType) ([]*domain.Sensor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sensors WHERE type = $1 ORDER BY sensor_id`, sensorColumns)
	return r.querySensors(ctx, query, string(sensorType))
}

func (r *PostgresSensorsRepo) CountSensors(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sensors: %w", err)
	}
	return n, nil
}

func (r *PostgresSensorsRepo) CountActiveSensors(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensors WHERE active = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active sensors: %w", err)
	}
	return n, nil
}

func (r *PostgresSensorsRepo) querySensors(ctx context.Context, query string, args ...interface{}) ([]*domain.Sensor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensors: %w", err)
	}
	defer rows.Close()

	sensors := []*domain.Sensor{}
	for rows.Next() {
		sensor, err := scanSensor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sensor: %w", err)
		}
		sensors = append(sensors, sensor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensors: %w", err)
	}

	return sensors, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSensor(row rowScanner) (*domain.Sensor, error) {
	var sensor domain.Sensor
	var sensorType string
	var lastCheck sql.NullTime

	err := row.Scan(
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

	sensor.Type = domain.SensorType(sensorType)
	if lastCheck.Valid {
		sensor.LastCheck = &lastCheck.Time
	}

	return &sensor, nil
}
