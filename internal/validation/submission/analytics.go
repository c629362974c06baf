package submission

import (
	"fmt"
	"strings"

	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	pstrings "quoteguard/pkg/platform/strings"
)

// BuildAnalytics condenses a report into per-category tallies, rates, and
// generated insights. It reads only the report, so rebuilding it for the
// same report always yields the same view.
func BuildAnalytics(report *models.SubmissionReport) models.Analytics {
	a := models.Analytics{
		TotalDrivers: report.Summary.TotalDrivers,
		Categories:   make(map[string]models.CategoryTally),
	}

	tally := func(name string, status findings.CheckStatus) {
		t := a.Categories[name]
		switch status {
		case findings.CheckPass:
			t.Pass++
		case findings.CheckWarning:
			t.Warning++
		case findings.CheckFail:
			t.Fail++
		case findings.CheckSkipped:
			t.Skipped++
		}
		a.Categories[name] = t
	}

	passed, failed, missingMVR, staleReports, undisclosed := 0, 0, 0, 0, 0

	for _, d := range report.Drivers {
		tally("mvr", d.MVRValidation)
		tally("license_progression", d.LicenseProgressionValidation)
		tally("convictions", d.ConvictionsValidation)
		tally("dash", d.DASHValidation)
		tally("report_age", d.ReportAgeValidation)
		tally("driver_training", d.DriverTrainingValidation)

		switch d.Status {
		case findings.StatusPass:
			passed++
		case findings.StatusFail:
			failed++
		}

		for _, w := range d.Warnings {
			if strings.Contains(w, "No motor vehicle record found") {
				missingMVR++
			}
		}
		if d.ReportAgeValidation == findings.CheckFail {
			staleReports++
		}
		for _, c := range d.CriticalErrors {
			if strings.Contains(c, "Undisclosed") {
				undisclosed++
			}
		}
	}

	if report.Summary.TotalDrivers > 0 {
		a.PassRate = float64(passed) / float64(report.Summary.TotalDrivers)
		a.FailRate = float64(failed) / float64(report.Summary.TotalDrivers)
	}

	a.Insights = buildInsights(report, missingMVR, staleReports, undisclosed)
	return a
}

func buildInsights(report *models.SubmissionReport, missingMVR, staleReports, undisclosed int) []string {
	var insights []string

	switch report.Status {
	case findings.StatusPass:
		insights = append(insights, "All drivers validated cleanly; submission is ready to bind")
	case findings.StatusWarning:
		insights = append(insights, "Submission has warnings; review before binding")
	case findings.StatusFail:
		insights = append(insights, "Submission has critical discrepancies and cannot bind as declared")
	}

	if missingMVR > 0 {
		insights = append(insights, fmt.Sprintf("%d driver(s) missing a motor vehicle record; order the missing abstracts", missingMVR))
	}
	if staleReports > 0 {
		insights = append(insights, fmt.Sprintf("%d driver(s) have supporting reports older than the allowed window; order fresh reports", staleReports))
	}
	if undisclosed > 0 {
		insights = append(insights, fmt.Sprintf("%d undisclosed conviction(s) or claim(s) found; confirm history with the applicant", undisclosed))
	}

	return pstrings.DedupeAndTrim(insights)
}
