package mirror

import (
	"context"
	"database/sql"
	"fmt"

	"go-donorsync/internal/config"
	"go-donorsync/internal/features/events"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS event_outcomes (
	event_key     TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	external_id   TEXT,
	status        TEXT NOT NULL,
	outcome_type  TEXT,
	outcome_id    TEXT,
	error         TEXT,
	received_at   TIMESTAMPTZ,
	processed_at  TIMESTAMPTZ
)`

const upsertStmt = `
INSERT INTO event_outcomes
	(event_key, source, event_type, external_id, status, outcome_type, outcome_id, error, received_at, processed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (event_key) DO UPDATE SET
	status = $5, outcome_type = $6, outcome_id = $7, error = $8, processed_at = $10`

// PostgresMirror copies webhook event outcomes into a Postgres table for
// downstream reporting. The mirror is best effort: write failures are
// logged and never fail the event pipeline.
type PostgresMirror struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEventMirror returns a disabled mirror when no DSN is configured.
func NewEventMirror(cfg *config.Config, logger *zap.Logger) (events.EventMirror, error) {
	if cfg.MirrorPostgresDSN == "" {
		logger.Info("event mirror disabled, no postgres dsn configured")
		return &PostgresMirror{logger: logger}, nil
	}

	db, err := sql.Open("postgres", cfg.MirrorPostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping mirror postgres: %w", err)
	}
	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, fmt.Errorf("failed to ensure event_outcomes table: %w", err)
	}

	logger.Info("event mirror enabled")
	return &PostgresMirror{db: db, logger: logger}, nil
}

func (m *PostgresMirror) MirrorEvent(ctx context.Context, record *events.EventRecord) {
	if m.db == nil {
		return
	}

	var outcomeType, outcomeID string
	if record.Outcome != nil {
		outcomeType = string(record.Outcome.Type)
		outcomeID = record.Outcome.ID
	}

	_, err := m.db.ExecContext(ctx, upsertStmt,
		record.Key,
		string(record.Source),
		record.EventType,
		record.ExternalID,
		string(record.Status),
		outcomeType,
		outcomeID,
		record.Error,
		record.ReceivedAt,
		record.ProcessedAt,
	)
	if err != nil {
		m.logger.Error("event mirror write failed",
			zap.String("event_key", record.Key),
			zap.Error(err))
	}
}

func (m *PostgresMirror) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
