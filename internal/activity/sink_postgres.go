// Copyright (c) 2026 RepSet. All rights reserved.

// PostgreSQL implementation of the activity [Sink].
package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/repset/edge/internal/platform/database/schema"
)

// PostgresSink appends events to the system.activitylog table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a new PostgreSQL implementation of the Sink.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

/*
Insert appends a single event row.

Description: Insert-only append; no read path exists for this table in the
gateway. Metadata is stored as JSONB.

Parameters:
  - context: context.Context
  - event: *Event

Returns:
  - error: Encoding or persistence failures
*/
func (sink *PostgresSink) Insert(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.SystemActivityLog.Table,
		schema.SystemActivityLog.ID,
		schema.SystemActivityLog.UserID,
		schema.SystemActivityLog.Action,
		schema.SystemActivityLog.ResourceType,
		schema.SystemActivityLog.ResourceID,
		schema.SystemActivityLog.IPAddress,
		schema.SystemActivityLog.UserAgent,
		schema.SystemActivityLog.Metadata,
		schema.SystemActivityLog.CreatedAt,
	)

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("postgres_activity_sink_encode_failed: %w", err)
	}

	// UserID column is nullable; anonymous events store NULL, not "".
	var userID any
	if event.UserID != "" {
		userID = event.UserID
	}

	_, err = sink.pool.Exec(context, query,
		event.ID,
		userID,
		event.Action,
		event.ResourceType,
		event.ResourceID,
		event.IPAddress,
		event.UserAgent,
		metadata,
		event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_activity_sink_insert_failed: %w", err)
	}

	return nil
}
