package driver

import (
	"quoteguard/internal/validation/dates"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/license"
	"quoteguard/internal/validation/models"
)

// progressionFindings derives the expected graduated licensing dates from
// the MVR and compares them with what the quote declares.
func (v *Validator) progressionFindings(q models.QuoteDriver, mvr *models.MotorVehicleRecord) []findings.Finding {
	var out []findings.Finding

	// The internal ordering of the submitted dates is checked regardless
	// of whether derivation succeeds.
	for _, violation := range license.CheckSubmittedOrder(q.G1Date, q.G2Date, q.GDate, dates.ConventionQuote) {
		out = append(out, findings.Critical(findings.CategoryLicenseProgression,
			"Submitted licence dates out of order: %s", violation))
	}

	in := license.Input{
		Expiry:     mvr.ExpiryDate,
		Birth:      mvr.BirthDate,
		Convention: dates.ConventionMVR,
	}
	if mvr.IssueDate != nil {
		in.Issue = *mvr.IssueDate
	}
	for _, c := range mvr.Convictions {
		in.Extra = append(in.Extra, c.Date)
	}

	derived, err := license.Derive(in, v.cfg.GraduatedCutoff)
	if err != nil {
		out = append(out, findings.Critical(findings.CategoryLicenseProgression, "%s", err.Error()))
		return out
	}

	if derived.IssueInferred {
		out = append(out, findings.Warning(findings.CategoryLicenseProgression,
			"Issue date missing from the motor vehicle record; inferred %s from the earliest record date", derived.Issue))
	}

	if derived.PreCutoff {
		// Licence predates graduated licensing: only the terminal stage
		// applies, and declaring G1/G2 anyway is a warning, not an error.
		if q.G1Date != nil || q.G2Date != nil {
			out = append(out, findings.Warning(findings.CategoryLicenseProgression,
				"Quote declares G1/G2 dates but the licence predates the graduated licensing program"))
		}
		out = append(out, v.compareStage("G", q.GDate, derived.G))
		return out
	}

	out = append(out, v.compareStage("G1", q.G1Date, derived.G1))
	out = append(out, v.compareStage("G2", q.G2Date, derived.G2))
	out = append(out, v.compareStage("G", q.GDate, derived.G))

	return out
}

func (v *Validator) compareStage(label string, declared *string, expected dates.Date) findings.Finding {
	if declared == nil {
		return findings.Warning(findings.CategoryLicenseProgression,
			"Quote does not declare a %s date; expected %s", label, expected.Format(dates.ConventionQuote))
	}

	got, ok := dates.Normalize(*declared, dates.ConventionQuote)
	if !ok {
		return findings.Warning(findings.CategoryLicenseProgression,
			"Declared %s date %q is unparseable; expected %s", label, *declared, expected.Format(dates.ConventionQuote))
	}

	if got == expected {
		return findings.Match(findings.CategoryLicenseProgression,
			"%s date %s matches the derived licence progression", label, got)
	}

	return findings.Critical(findings.CategoryLicenseProgression,
		"%s date mismatch: quote declares %s, derived from the motor vehicle record %s", label, got, expected)
}
