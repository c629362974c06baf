//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"quoteguard/internal/report/store/postgres"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/pkg/platform/sentinel"
	"quoteguard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.Apply(context.Background(), postgres.Schema))
	s.store = postgres.New(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "validation_reports"))
}

func newTestReport() *models.SubmissionReport {
	return &models.SubmissionReport{
		ID:     uuid.New(),
		Status: findings.StatusWarning,
		Summary: models.Summary{
			TotalDrivers:     2,
			ValidatedDrivers: 2,
			IssuesFound:      3,
			CriticalErrors:   1,
			Warnings:         2,
		},
		Drivers: []models.DriverResult{{
			DriverName:     "John Smith",
			DriverLicence:  "S1234-56789-01234",
			Status:         findings.StatusWarning,
			Warnings:       []string{"Gender differs between quote and motor vehicle record"},
			MVRValidation:  findings.CheckWarning,
			DASHValidation: findings.CheckSkipped,
		}},
		GeneratedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestSaveAndGetRoundTrip() {
	ctx := context.Background()
	report := newTestReport()

	s.Require().NoError(s.store.Save(ctx, report))

	got, err := s.store.Get(ctx, report.ID)
	s.Require().NoError(err)
	s.Equal(report.ID, got.ID)
	s.Equal(report.Status, got.Status)
	s.Equal(report.Summary, got.Summary)
	s.Require().Len(got.Drivers, 1)
	s.Equal(report.Drivers[0].DriverLicence, got.Drivers[0].DriverLicence)
	s.Equal(report.Drivers[0].Warnings, got.Drivers[0].Warnings)
}

func (s *PostgresStoreSuite) TestSaveDuplicateIsConflict() {
	ctx := context.Background()
	report := newTestReport()

	s.Require().NoError(s.store.Save(ctx, report))

	err := s.store.Save(ctx, report)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
}

func (s *PostgresStoreSuite) TestGetUnknownIDIsNotFound() {
	_, err := s.store.Get(context.Background(), uuid.New())
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}
