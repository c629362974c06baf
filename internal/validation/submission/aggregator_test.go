package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteguard/internal/platform/config"
	"quoteguard/internal/validation/driver"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/pkg/requestcontext"
)

func fixedCtx() context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
}

func strPtr(s string) *string { return &s }

func testSubmission() *models.Submission {
	return &models.Submission{
		EffectiveDate: "06/01/2025",
		Drivers: []models.QuoteDriver{
			{
				Name:                "John Smith",
				LicenceNumber:       "S1234-56789-01234",
				BirthDate:           "08/04/1965",
				Gender:              "M",
				Address:             "123 Main St, Toronto, M5V 2T6",
				G1Date:              strPtr("07/08/2004"),
				G2Date:              strPtr("07/08/2005"),
				GDate:               strPtr("07/08/2006"),
				TrainingCertificate: true,
			},
			{
				Name:          "Alice Jones",
				LicenceNumber: "J9876-54321-09876",
				BirthDate:     "02/14/1990",
			},
		},
		MotorVehicleRecords: []models.MotorVehicleRecord{{
			Name:          "SMITH,JOHN",
			LicenceNumber: "S123456789-01234",
			BirthDate:     "04/08/1965",
			Gender:        "M",
			Address:       "123 Main St Toronto M5V 2T6",
			Status:        "LICENCED",
			ExpiryDate:    "04/08/2025",
			IssueDate:     strPtr("08/07/2004"),
			ReleaseDate:   "20/05/2025",
		}},
	}
}

func newAggregator(opts ...Option) *Aggregator {
	return New(driver.New(config.DefaultValidation()), opts...)
}

func TestEvaluate(t *testing.T) {
	t.Run("mixed submission rolls up counts and status", func(t *testing.T) {
		report := newAggregator().Evaluate(fixedCtx(), testSubmission())

		assert.Equal(t, 2, report.Summary.TotalDrivers)
		assert.Equal(t, 2, report.Summary.ValidatedDrivers)
		assert.Zero(t, report.Summary.CriticalErrors)
		assert.Positive(t, report.Summary.Warnings)
		assert.Equal(t, report.Summary.Warnings, report.Summary.IssuesFound)

		// John passes, Alice has no MVR and warns; the submission warns.
		assert.Equal(t, findings.StatusWarning, report.Status)
		require.Len(t, report.Drivers, 2)
		assert.Equal(t, findings.StatusWarning, report.Drivers[1].Status)
	})

	t.Run("single clean driver passes end to end", func(t *testing.T) {
		sub := testSubmission()
		sub.Drivers = sub.Drivers[:1]

		report := newAggregator().Evaluate(fixedCtx(), sub)

		assert.Equal(t, findings.StatusPass, report.Status)
		assert.Zero(t, report.Summary.CriticalErrors)
	})

	t.Run("evaluation is idempotent apart from identifiers", func(t *testing.T) {
		sub := testSubmission()
		agg := newAggregator()

		first := agg.Evaluate(fixedCtx(), sub)
		second := agg.Evaluate(fixedCtx(), sub)

		assert.Equal(t, first.Summary, second.Summary)
		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, first.Drivers, second.Drivers)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("parallel evaluation matches sequential", func(t *testing.T) {
		sub := testSubmission()

		seq := newAggregator().Evaluate(fixedCtx(), sub)
		par := newAggregator(WithParallelism(4)).Evaluate(fixedCtx(), sub)

		assert.Equal(t, seq.Drivers, par.Drivers)
		assert.Equal(t, seq.Status, par.Status)
	})

	t.Run("empty submission fails rather than vacuously passing", func(t *testing.T) {
		report := newAggregator().Evaluate(fixedCtx(), &models.Submission{})
		assert.Equal(t, findings.StatusFail, report.Status)
	})
}

func TestBuildAnalytics(t *testing.T) {
	report := newAggregator().Evaluate(fixedCtx(), testSubmission())

	t.Run("tallies categories and rates", func(t *testing.T) {
		a := BuildAnalytics(report)

		assert.Equal(t, 2, a.TotalDrivers)
		assert.Equal(t, 1, a.Categories["mvr"].Pass)
		assert.Equal(t, 1, a.Categories["mvr"].Warning)
		assert.Equal(t, 1, a.Categories["license_progression"].Skipped)
		assert.InDelta(t, 0.5, a.PassRate, 1e-9)
		assert.InDelta(t, 0.0, a.FailRate, 1e-9)
	})

	t.Run("insights name missing MVRs", func(t *testing.T) {
		a := BuildAnalytics(report)

		require.NotEmpty(t, a.Insights)
		assert.Contains(t, a.Insights, "1 driver(s) missing a motor vehicle record; order the missing abstracts")
	})

	t.Run("rebuilding yields an identical view", func(t *testing.T) {
		assert.Equal(t, BuildAnalytics(report), BuildAnalytics(report))
	})
}
