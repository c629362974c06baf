// Package findings defines the atomic output unit of the reconciliation
// engine. Every comparison a validator performs produces exactly one
// Finding; diagnostics are first-class data values attached to the result,
// never log side effects.
package findings

import "fmt"

// Severity classifies a finding.
type Severity string

const (
	SeverityMatch    Severity = "match"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical_error"
)

// Category identifies which validation area produced a finding.
type Category string

const (
	CategoryIdentity           Category = "identity"
	CategoryLicenseProgression Category = "license_progression"
	CategoryConvictions        Category = "convictions"
	CategoryClaims             Category = "claims"
	CategoryReportAge          Category = "report_age"
	CategoryTraining           Category = "training"
)

// Finding records one comparison outcome. Immutable once appended.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Match records a successful comparison.
func Match(cat Category, format string, args ...any) Finding {
	return Finding{Severity: SeverityMatch, Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Warning records a soft mismatch or an input defect that prevented a
// comparison. Warnings never drive a FAIL on their own.
func Warning(cat Category, format string, args ...any) Finding {
	return Finding{Severity: SeverityWarning, Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Critical records a genuine business-rule violation between sources.
func Critical(cat Category, format string, args ...any) Finding {
	return Finding{Severity: SeverityCritical, Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Status is the rolled-up validation status of a driver or submission.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// CheckStatus is the status of one validation category for a driver.
// SKIPPED marks a check that was never attempted (missing source record or
// claims report not expected), which is distinct from failing it.
type CheckStatus string

const (
	CheckPass    CheckStatus = "PASS"
	CheckWarning CheckStatus = "WARNING"
	CheckFail    CheckStatus = "FAIL"
	CheckSkipped CheckStatus = "SKIPPED"
)

// StatusOf derives the overall status from a finding list. Precedence:
// any critical fails, else any warning warns, else at least one match
// passes. No findings at all means no validation could be performed,
// which is itself a failure rather than a vacuous pass.
func StatusOf(list []Finding) Status {
	var warnings, matches int
	for _, f := range list {
		switch f.Severity {
		case SeverityCritical:
			return StatusFail
		case SeverityWarning:
			warnings++
		case SeverityMatch:
			matches++
		}
	}
	if warnings > 0 {
		return StatusWarning
	}
	if matches > 0 {
		return StatusPass
	}
	return StatusFail
}

// CheckStatusOf derives a per-category status from the category's findings.
func CheckStatusOf(list []Finding, cat Category) CheckStatus {
	var matches, warnings, criticals int
	for _, f := range list {
		if f.Category != cat {
			continue
		}
		switch f.Severity {
		case SeverityCritical:
			criticals++
		case SeverityWarning:
			warnings++
		case SeverityMatch:
			matches++
		}
	}
	switch {
	case criticals > 0:
		return CheckFail
	case warnings > 0:
		return CheckWarning
	case matches > 0:
		return CheckPass
	default:
		return CheckSkipped
	}
}

// Messages returns the messages of findings with the given severity,
// preserving order.
func Messages(list []Finding, sev Severity) []string {
	out := []string{}
	for _, f := range list {
		if f.Severity == sev {
			out = append(out, f.Message)
		}
	}
	return out
}
