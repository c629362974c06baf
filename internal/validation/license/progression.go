// Package license derives the expected graduated licensing stage dates
// (G1/G2/G) from a motor vehicle record. The quote declares these dates;
// the MVR does not carry them directly, so they must be reconstructed from
// the expiry, birth, and issue dates.
package license

import (
	"fmt"
	"strings"
	"time"

	"quoteguard/internal/validation/dates"
)

// Input carries the MVR dates feeding the derivation. All strings are in
// the same convention (the MVR's). Extra lists any additional dates on the
// record usable for issue-date inference when the issue date is absent.
type Input struct {
	Expiry     string
	Birth      string
	Issue      string
	Extra      []string
	Convention dates.Convention
}

// Derived holds the expected stage dates. When PreCutoff is true the
// licence predates the graduated licensing program: only G applies and it
// equals the issue date.
type Derived struct {
	G1        dates.Date
	G2        dates.Date
	G         dates.Date
	PreCutoff bool

	// Issue is the issue date the derivation used, whether read from the
	// record or reconstructed. IssueInferred is set in the latter case.
	Issue         dates.Date
	IssueInferred bool
}

// Derive computes the expected stage dates.
//
// Anniversary rule: when expiry and birth share day and month, the licence
// renews on the driver's birthday and the issue date is the true G1 date;
// G2 and G follow at one-year intervals. Otherwise G1 is reconstructed as
// expiry minus five years.
//
// Cutoff rule: licences issued before the graduated licensing program
// start never had G1/G2 stages; the issue date is the expected terminal
// stage date.
//
// A nil result with a non-nil error names exactly which inputs were
// missing or unparseable; diagnosability matters more than silent
// degradation here.
func Derive(in Input, cutoff time.Time) (*Derived, error) {
	expiry, expiryOK := dates.Normalize(in.Expiry, in.Convention)
	birth, birthOK := dates.Normalize(in.Birth, in.Convention)

	issue, issueOK := dates.Normalize(in.Issue, in.Convention)
	issueInferred := false
	if !issueOK {
		issue, issueOK = inferIssue(in)
		issueInferred = issueOK
	}

	if missing := missingInputs(expiryOK, birthOK, issueOK); len(missing) > 0 {
		return nil, fmt.Errorf("cannot derive licence progression: missing or unparseable %s", strings.Join(missing, ", "))
	}

	if issue.Time().Before(cutoff) {
		return &Derived{G: issue, PreCutoff: true, Issue: issue, IssueInferred: issueInferred}, nil
	}

	var g1 dates.Date
	if expiry.SameDayMonth(birth) {
		// licence anniversary coincides with the birthday
		g1 = issue
	} else {
		g1 = expiry.AddYears(-5)
	}

	return &Derived{
		G1:            g1,
		G2:            g1.AddYears(1),
		G:             g1.AddYears(2),
		Issue:         issue,
		IssueInferred: issueInferred,
	}, nil
}

// CheckSubmittedOrder validates the g1 < g2 < g invariant on the dates the
// quote declared, independent of whether derivation succeeded. It returns
// a violation description per broken pair; an empty slice means the
// submitted dates are internally consistent. Absent dates constrain
// nothing.
func CheckSubmittedOrder(g1, g2, g *string, conv dates.Convention) []string {
	var violations []string

	pair := func(earlier, later *string, labelA, labelB string) {
		if earlier == nil || later == nil {
			return
		}
		da, okA := dates.Normalize(*earlier, conv)
		db, okB := dates.Normalize(*later, conv)
		if !okA || !okB {
			return
		}
		if !da.Time().Before(db.Time()) {
			violations = append(violations, fmt.Sprintf("%s date %s is not before %s date %s", labelA, da, labelB, db))
		}
	}

	pair(g1, g2, "G1", "G2")
	pair(g2, g, "G2", "G")
	pair(g1, g, "G1", "G")

	return violations
}

// inferIssue reconstructs a missing issue date as the earliest of the
// record's other licence dates. The birth date never participates; it is
// not a licence event.
func inferIssue(in Input) (dates.Date, bool) {
	candidates := append([]string{in.Expiry}, in.Extra...)

	var best dates.Date
	found := false
	for _, c := range candidates {
		d, ok := dates.Normalize(c, in.Convention)
		if !ok {
			continue
		}
		if !found || d.Time().Before(best.Time()) {
			best = d
			found = true
		}
	}
	return best, found
}

func missingInputs(expiryOK, birthOK, issueOK bool) []string {
	var missing []string
	if !expiryOK {
		missing = append(missing, "expiry date")
	}
	if !birthOK {
		missing = append(missing, "birth date")
	}
	if !issueOK {
		missing = append(missing, "issue date")
	}
	return missing
}
