package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"quoteguard/internal/platform/config"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/pkg/requestcontext"
)

// =============================================================================
// Driver Validator Test Suite
// =============================================================================
// Justification for unit tests: the per-driver orchestration carries the
// short-circuit, severity, and category rules that the end-to-end report
// shape depends on; they are cheaper to pin down here than through the
// aggregator.

type ValidatorSuite struct {
	suite.Suite
	validator *Validator
	ctx       context.Context
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.validator = New(config.DefaultValidation())
	// Pin the evaluation clock so claim-window behavior is deterministic.
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
}

func strPtr(s string) *string { return &s }

// cleanSubmission returns a driver whose quote agrees with the MVR on
// every field.
func cleanSubmission() *models.Submission {
	return &models.Submission{
		EffectiveDate: "06/01/2025",
		Drivers: []models.QuoteDriver{{
			Name:                "John Smith",
			LicenceNumber:       "S1234-56789-01234",
			BirthDate:           "08/04/1965",
			Gender:              "M",
			Address:             "123 Main St, Toronto, M5V 2T6",
			G1Date:              strPtr("07/08/2004"),
			G2Date:              strPtr("07/08/2005"),
			GDate:               strPtr("07/08/2006"),
			TrainingCertificate: true,
		}},
		MotorVehicleRecords: []models.MotorVehicleRecord{{
			Name:          "SMITH,JOHN",
			LicenceNumber: "S123456789 01234",
			BirthDate:     "04/08/1965",
			Gender:        "M",
			Address:       "123 Main St Toronto M5V 2T6",
			Status:        "LICENCED",
			ExpiryDate:    "04/08/2025",
			IssueDate:     strPtr("08/07/2004"),
			ReleaseDate:   "20/05/2025",
		}},
		DASHExpected: false,
	}
}

func (s *ValidatorSuite) TestCleanDriverPasses() {
	sub := cleanSubmission()
	res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])

	s.Empty(res.CriticalErrors)
	s.Equal(findings.CheckPass, res.MVRValidation)
	s.Equal(findings.CheckPass, res.LicenseProgressionValidation)
	s.Equal(findings.CheckPass, res.ReportAgeValidation)
	s.Equal(findings.CheckPass, res.DriverTrainingValidation)
	s.Equal(findings.CheckSkipped, res.DASHValidation)
	s.Equal(findings.StatusPass, res.Status)
}

func (s *ValidatorSuite) TestMissingMVRShortCircuits() {
	sub := cleanSubmission()
	sub.MotorVehicleRecords = nil

	res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])

	s.Equal(findings.StatusWarning, res.Status)
	s.Require().Len(res.Warnings, 1)
	s.Contains(res.Warnings[0], "No motor vehicle record found")

	// No report-age or progression checks may have run.
	s.Equal(findings.CheckSkipped, res.ReportAgeValidation)
	s.Equal(findings.CheckSkipped, res.LicenseProgressionValidation)
	s.Equal(findings.CheckSkipped, res.ConvictionsValidation)
}

func (s *ValidatorSuite) TestIdentityMismatches() {
	s.Run("dob mismatch is critical", func() {
		sub := cleanSubmission()
		sub.MotorVehicleRecords[0].BirthDate = "05/08/1965"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.StatusFail, res.Status)
		s.Equal(findings.CheckFail, res.MVRValidation)
	})

	s.Run("suspended licence is critical", func() {
		sub := cleanSubmission()
		sub.MotorVehicleRecords[0].Status = "SUSPENDED"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.StatusFail, res.Status)
	})

	s.Run("reordered name downgrades to warning", func() {
		sub := cleanSubmission()
		sub.Drivers[0].Name = "Smith John"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Empty(res.CriticalErrors)
		s.Equal(findings.CheckWarning, res.MVRValidation)
	})

	s.Run("address street mismatch warns", func() {
		sub := cleanSubmission()
		sub.Drivers[0].Address = "9 Elsewhere Ave, Ottawa, K1A 0A1"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Empty(res.CriticalErrors)
		s.Equal(findings.CheckWarning, res.MVRValidation)
	})
}

func (s *ValidatorSuite) TestLicenseProgression() {
	s.Run("wrong declared G1 is critical", func() {
		sub := cleanSubmission()
		sub.Drivers[0].G1Date = strPtr("07/08/2010")

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.CheckFail, res.LicenseProgressionValidation)
		s.Equal(findings.StatusFail, res.Status)
	})

	s.Run("inferred issue date is the one reported in the warning", func() {
		sub := cleanSubmission()
		sub.MotorVehicleRecords[0].IssueDate = nil
		sub.MotorVehicleRecords[0].ExpiryDate = "15/12/2025"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		// Only the expiry is available, so it is the inferred issue date;
		// the derived G1 (expiry minus five years) must not leak into the
		// message.
		s.Contains(res.Warnings, "Issue date missing from the motor vehicle record; inferred 2025-12-15 from the earliest record date")
	})

	s.Run("pre-cutoff licence tolerates declared stages as a warning", func() {
		sub := cleanSubmission()
		sub.MotorVehicleRecords[0].IssueDate = strPtr("10/03/1988")
		sub.Drivers[0].G1Date = strPtr("07/08/1986")
		sub.Drivers[0].G2Date = strPtr("07/08/1987")
		sub.Drivers[0].GDate = strPtr("03/10/1988")

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Empty(res.CriticalErrors)
		s.Equal(findings.CheckWarning, res.LicenseProgressionValidation)
		s.Require().NotEmpty(res.Warnings)
		s.Contains(res.Warnings[0], "predates the graduated licensing program")
	})
}

func (s *ValidatorSuite) TestReportAge() {
	s.Run("stale MVR is critical with age in days", func() {
		sub := cleanSubmission()
		sub.MotorVehicleRecords[0].ReleaseDate = "01/01/2025"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.CheckFail, res.ReportAgeValidation)
		s.Require().NotEmpty(res.CriticalErrors)
		s.Contains(res.CriticalErrors[0], "151 days old")
	})

	s.Run("future-dated MVR is accepted", func() {
		sub := cleanSubmission()
		sub.MotorVehicleRecords[0].ReleaseDate = "05/06/2025"

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.CheckPass, res.ReportAgeValidation)
	})
}

func (s *ValidatorSuite) TestClaimsReportHandling() {
	withDASH := func() *models.Submission {
		sub := cleanSubmission()
		sub.DASHExpected = true
		sub.ClaimsRecords = []models.ClaimsHistoryRecord{{
			Name:          "SMITH,JOHN",
			LicenceNumber: "S1234 56789 01234",
			GeneratedDate: "2025/05/20",
			Claims:        []models.Claim{{Date: "2020/03/01", AtFaultPercent: 0}},
		}}
		return sub
	}

	s.Run("undisclosed zero percent claim fails the driver", func() {
		sub := withDASH()

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.CheckFail, res.DASHValidation)
		s.Equal(findings.StatusFail, res.Status)
	})

	s.Run("disclosed claim passes", func() {
		sub := withDASH()
		sub.Drivers[0].Claims = []models.Claim{{Date: "03/01/2020", AtFaultPercent: 0}}

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Empty(res.CriticalErrors)
		s.Equal(findings.CheckPass, res.DASHValidation)
	})

	s.Run("missing expected claims report warns", func() {
		sub := withDASH()
		sub.ClaimsRecords = nil

		res := s.validator.Validate(s.ctx, sub, sub.Drivers[0])
		s.Equal(findings.CheckWarning, res.DASHValidation)
	})
}
