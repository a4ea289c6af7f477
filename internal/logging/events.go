package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-event
// LogEvent appends a lifecycle event to the field_events table.
func LogEvent(ctx context.Context, db *sql.DB, ev FieldEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO field_events (field_id, user_id, event_type, payload_json, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.FieldID,
		nullIfEmpty(ev.UserID),
		string(ev.EventType),
		nullIfEmpty(ev.PayloadJSON),
		nullIfEmpty(ev.Reason),
		ev.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// Payload marshals v for FieldEvent.PayloadJSON. Marshal failures yield "".
func Payload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// #endregion log-event

// #region list-events
// ListEvents returns a field's events in the order they were recorded.
func ListEvents(ctx context.Context, db *sql.DB, fieldID string) ([]FieldEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT field_id, user_id, event_type, payload_json, reason, created_at
		 FROM field_events WHERE field_id = ? ORDER BY id`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []FieldEvent
	for rows.Next() {
		var ev FieldEvent
		var userID, payload, reason sql.NullString
		var eventType, created string
		if err := rows.Scan(&ev.FieldID, &userID, &eventType, &payload, &reason, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.UserID = userID.String
		ev.EventType = EventType(eventType)
		ev.PayloadJSON = payload.String
		ev.Reason = reason.String
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// #endregion list-events

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
