package driver

import (
	"quoteguard/internal/validation/dates"
	"quoteguard/internal/validation/findings"
)

// mvrAgeFindings checks that the motor vehicle record was released within
// the configured window of the quote effective date.
func (v *Validator) mvrAgeFindings(effectiveDate, releaseDate string) []findings.Finding {
	return v.reportAge("Motor vehicle record", effectiveDate, releaseDate, dates.ConventionMVR, v.cfg.MVRMaxAgeDays)
}

// dashAgeFindings checks the claims history report generation date the
// same way against its own window.
func (v *Validator) dashAgeFindings(effectiveDate, generatedDate string) []findings.Finding {
	return v.reportAge("Claims history report", effectiveDate, generatedDate, dates.ConventionDASH, v.cfg.DASHMaxAgeDays)
}

func (v *Validator) reportAge(label, effectiveDate, reportDate string, reportConv dates.Convention, maxAgeDays int) []findings.Finding {
	effective, okE := dates.Normalize(effectiveDate, dates.ConventionQuote)
	report, okR := dates.Normalize(reportDate, reportConv)

	if !okE || !okR {
		return []findings.Finding{findings.Warning(findings.CategoryReportAge,
			"%s age cannot be verified: effective date %q, report date %q", label, effectiveDate, reportDate)}
	}

	ageDays := int(effective.Time().Sub(report.Time()).Hours() / 24)

	switch {
	case ageDays < 0:
		// Report dated after the quote effective date. The original
		// system accepts these (clock-skew tolerance); the toggle exists
		// so the leniency direction can change with domain sign-off.
		if v.cfg.AcceptFutureReports {
			return []findings.Finding{findings.Match(findings.CategoryReportAge,
				"%s is dated %d day(s) after the quote effective date; accepted", label, -ageDays)}
		}
		return []findings.Finding{findings.Warning(findings.CategoryReportAge,
			"%s is dated %d day(s) after the quote effective date", label, -ageDays)}
	case ageDays > maxAgeDays:
		return []findings.Finding{findings.Critical(findings.CategoryReportAge,
			"%s is %d days old at the quote effective date; maximum allowed is %d", label, ageDays, maxAgeDays)}
	default:
		return []findings.Finding{findings.Match(findings.CategoryReportAge,
			"%s is %d day(s) old at the quote effective date", label, ageDays)}
	}
}
