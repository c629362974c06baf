package models

import (
	"time"

	"github.com/google/uuid"

	"quoteguard/internal/validation/findings"
)

// DriverResult is the validation outcome for one driver. Findings are
// append-only during the run; the serialized shape groups them by severity
// and exposes per-category statuses.
type DriverResult struct {
	DriverName    string          `json:"driver_name"`
	DriverLicence string          `json:"driver_license"`
	Status        findings.Status `json:"validation_status"`

	CriticalErrors []string `json:"critical_errors"`
	Warnings       []string `json:"warnings"`
	Matches        []string `json:"matches"`

	MVRValidation                findings.CheckStatus `json:"mvr_validation"`
	LicenseProgressionValidation findings.CheckStatus `json:"license_progression_validation"`
	ConvictionsValidation        findings.CheckStatus `json:"convictions_validation"`
	DASHValidation               findings.CheckStatus `json:"dash_validation"`
	ReportAgeValidation          findings.CheckStatus `json:"report_age_validation"`
	DriverTrainingValidation     findings.CheckStatus `json:"driver_training_validation"`

	// Findings is the full ordered audit trail backing the fields above.
	Findings []findings.Finding `json:"-"`
}

// BuildDriverResult derives the serialized result from the raw finding list.
func BuildDriverResult(name, licence string, list []findings.Finding) DriverResult {
	return DriverResult{
		DriverName:     name,
		DriverLicence:  licence,
		Status:         findings.StatusOf(list),
		CriticalErrors: findings.Messages(list, findings.SeverityCritical),
		Warnings:       findings.Messages(list, findings.SeverityWarning),
		Matches:        findings.Messages(list, findings.SeverityMatch),

		MVRValidation:                findings.CheckStatusOf(list, findings.CategoryIdentity),
		LicenseProgressionValidation: findings.CheckStatusOf(list, findings.CategoryLicenseProgression),
		ConvictionsValidation:        findings.CheckStatusOf(list, findings.CategoryConvictions),
		DASHValidation:               findings.CheckStatusOf(list, findings.CategoryClaims),
		ReportAgeValidation:          findings.CheckStatusOf(list, findings.CategoryReportAge),
		DriverTrainingValidation:     findings.CheckStatusOf(list, findings.CategoryTraining),

		Findings: list,
	}
}

// Summary is the submission-level rollup.
type Summary struct {
	TotalDrivers     int `json:"total_drivers"`
	ValidatedDrivers int `json:"validated_drivers"`
	IssuesFound      int `json:"issues_found"`
	CriticalErrors   int `json:"critical_errors"`
	Warnings         int `json:"warnings"`
}

// SubmissionReport is the terminal, externally exposed artifact: built once
// per request, never updated incrementally.
type SubmissionReport struct {
	ID          uuid.UUID       `json:"id"`
	Status      findings.Status `json:"overall_status"`
	Summary     Summary         `json:"summary"`
	Drivers     []DriverResult  `json:"drivers"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// CategoryTally counts per-category outcomes across all drivers.
type CategoryTally struct {
	Pass    int `json:"pass"`
	Warning int `json:"warning"`
	Fail    int `json:"fail"`
	Skipped int `json:"skipped"`
}

// Analytics is the compact aggregate view derived from a report. It is a
// pure function of the report: rebuilding it never changes it.
type Analytics struct {
	TotalDrivers int                      `json:"total_drivers"`
	Categories   map[string]CategoryTally `json:"categories"`
	PassRate     float64                  `json:"pass_rate"`
	FailRate     float64                  `json:"fail_rate"`
	Insights     []string                 `json:"insights"`
}
