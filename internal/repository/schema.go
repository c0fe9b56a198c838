package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the two tables when they do not exist yet.
// Kept as plain DDL so it can also be applied with psql.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sensors (
		id UUID PRIMARY KEY,
		sensor_id VARCHAR(50) NOT NULL UNIQUE,
		type VARCHAR(20) NOT NULL,
		location TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		last_check TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS sensor_events (
		id UUID PRIMARY KEY,
		sensor_ref UUID NOT NULL REFERENCES sensors(id),
		event_type VARCHAR(50) NOT NULL,
		description TEXT,
		event_value DOUBLE PRECISION,
		critical BOOLEAN NOT NULL DEFAULT FALSE,
		detected_at TIMESTAMPTZ NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_events_critical
		ON sensor_events (critical, processed)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_events_detected_at
		ON sensor_events (detected_at DESC)`,
}

// EnsureSchema applies the DDL above. Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
