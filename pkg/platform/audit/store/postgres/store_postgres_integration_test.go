//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"quoteguard/pkg/platform/audit"
	"quoteguard/pkg/platform/audit/store/postgres"
	"quoteguard/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.Apply(context.Background(), postgres.Schema))
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "outbox", "audit_events"))
}

func (s *AuditStoreSuite) TestAppendWritesOutboxEntry() {
	ctx := context.Background()
	reportID := uuid.New()

	err := s.store.Append(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		ReportID:  reportID,
		Action:    audit.ActionDriverFlagged,
		Decision:  "FAIL",
		Reason:    "Undisclosed conviction",
	})
	s.Require().NoError(err)

	var aggregateType, aggregateID, eventType string
	row := s.postgres.Pool.QueryRow(ctx,
		`SELECT aggregate_type, aggregate_id, event_type FROM outbox`)
	s.Require().NoError(row.Scan(&aggregateType, &aggregateID, &eventType))
	s.Equal("report", aggregateType)
	s.Equal(reportID.String(), aggregateID)
	s.Equal(string(audit.ActionDriverFlagged), eventType)
}

func (s *AuditStoreSuite) TestListRecentReadsMaterializedEvents() {
	ctx := context.Background()
	reportID := uuid.New()

	_, err := s.postgres.Pool.Exec(ctx, `
		INSERT INTO audit_events (report_id, action, decision, reason, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		reportID.String(), string(audit.ActionSubmissionValidated), "PASS", "all drivers validated clean")
	s.Require().NoError(err)

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(reportID, events[0].ReportID)
	s.Equal(audit.ActionSubmissionValidated, events[0].Action)
	s.Equal("PASS", events[0].Decision)
}
