package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "quoteguard/pkg/platform/audit"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by an
// outbox worker; Kafka is the source of truth for downstream consumers.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema is the DDL for the outbox and the materialized audit_events
// table. Applied by deployment tooling and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS outbox (
	id             UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS audit_events (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	report_id    TEXT,
	action       TEXT NOT NULL,
	decision     TEXT,
	reason       TEXT,
	licence_hash TEXT,
	request_id   TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// outboxPayload is the JSON structure published to Kafka. Field names
// match audit.Event for deserialization by the consumer.
type outboxPayload struct {
	ID          string `json:"ID"`
	Category    string `json:"Category"`
	Timestamp   string `json:"Timestamp"`
	ReportID    string `json:"ReportID,omitempty"`
	Action      string `json:"Action"`
	Decision    string `json:"Decision,omitempty"`
	Reason      string `json:"Reason,omitempty"`
	LicenceHash string `json:"LicenceHash,omitempty"`
	RequestID   string `json:"RequestID,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	payload := outboxPayload{
		ID:          eventID.String(),
		Category:    string(event.Action.Category()),
		Timestamp:   event.Timestamp.Format(time.RFC3339Nano),
		Action:      string(event.Action),
		Decision:    event.Decision,
		Reason:      event.Reason,
		LicenceHash: event.LicenceHash,
		RequestID:   event.RequestID,
	}
	if event.ReportID != uuid.Nil {
		payload.ReportID = event.ReportID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if event.ReportID != uuid.Nil {
		aggregateType = "report"
		aggregateID = event.ReportID.String()
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.New(), // outbox entry ID
		aggregateType,
		aggregateID,
		string(event.Action),
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListRecent returns the most recent events from the materialized
// audit_events table.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT report_id, action, decision, reason, licence_hash, request_id, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var reportID sql.NullString
		var decision, reason, licenceHash, requestID sql.NullString
		if err := rows.Scan(&reportID, &e.Action, &decision, &reason, &licenceHash, &requestID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if reportID.Valid {
			if id, parseErr := uuid.Parse(reportID.String); parseErr == nil {
				e.ReportID = id
			}
		}
		e.Decision = decision.String
		e.Reason = reason.String
		e.LicenceHash = licenceHash.String
		e.RequestID = requestID.String
		events = append(events, e)
	}
	return events, rows.Err()
}
