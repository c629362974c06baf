// Package history reconciles list-valued history entries (convictions,
// claims, policy terms) between the authoritative reports and the quote.
// Matching is fuzzy and keyword-aware: descriptions of the same offence
// arrive in different abbreviations from different authorities, and decoy
// or missing entries must not derail the rest of the reconciliation.
package history

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"quoteguard/internal/validation/dates"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/internal/validation/names"
)

// Reconciler holds the matching thresholds. Zero value is unusable; use New.
type Reconciler struct {
	// FuzzyThreshold is the minimum normalized similarity between two
	// conviction descriptions to count as the same offence.
	FuzzyThreshold float64

	// ClaimWindowYears bounds reportable claims, measured from evaluation
	// time. Older claims are outside the reporting window entirely:
	// neither matched nor flagged.
	ClaimWindowYears int
}

// New returns a reconciler with the given thresholds.
func New(fuzzyThreshold float64, claimWindowYears int) *Reconciler {
	return &Reconciler{FuzzyThreshold: fuzzyThreshold, ClaimWindowYears: claimWindowYears}
}

// abbreviations expands the short forms the extractors hand over so that
// normalized descriptions compare equal across sources.
var abbreviations = map[string]string{
	"spd":      "speeding",
	"speed":    "speeding",
	"hwy":      "highway",
	"sec":      "section",
	"veh":      "vehicle",
	"lic":      "licence",
	"license":  "licence",
	"prohib":   "prohibited",
	"comm":     "communication",
	"dev":      "device",
	"disobey":  "disobeying",
	"fail":     "failing",
	"improper": "improperly",
}

// keywordGroups is the offence taxonomy: two descriptions sharing a group
// describe the same conviction even when the wording diverges entirely.
var keywordGroups = [][]string{
	{"handheld", "hand held", "cell phone", "mobile", "communication device", "distracted"},
	{"speeding", "speed limit", "rate of speed"},
	{"red light", "traffic signal", "amber light", "disobeying signal"},
	{"seatbelt", "seat belt", "restraint"},
	{"impaired", "alcohol", "over 80", "blood alcohol", "dui"},
	{"careless", "without due care"},
	{"stop sign", "failing to stop"},
	{"insurance", "uninsured"},
}

// ReconcileConvictions searches the candidate list for each reference
// entry. An unmatched reference conviction is undisclosed history and
// therefore critical; a date-only match with a divergent description is a
// warning.
func (r *Reconciler) ReconcileConvictions(reference, candidates []models.Conviction, refConv, candConv dates.Convention) []findings.Finding {
	var out []findings.Finding

	// Candidates whose dates cannot be parsed are invisible to date
	// matching; while any exist, a missing match is unverifiable rather
	// than proof of non-disclosure.
	undatable := 0
	for _, cand := range candidates {
		if _, ok := dates.Normalize(cand.Date, candConv); !ok {
			undatable++
		}
	}

	for _, ref := range reference {
		refDate, dateOK := dates.Normalize(ref.Date, refConv)
		if !dateOK {
			out = append(out, findings.Warning(findings.CategoryConvictions,
				"Conviction %q has an unparseable date %q; cannot verify disclosure", ref.Description, ref.Date))
			continue
		}

		matched := false
		dateOnly := false
		for _, cand := range candidates {
			candDate, ok := dates.Normalize(cand.Date, candConv)
			if !ok || candDate != refDate {
				continue
			}
			if r.descriptionsMatch(ref.Description, cand.Description) {
				matched = true
				break
			}
			dateOnly = true
		}

		switch {
		case matched:
			out = append(out, findings.Match(findings.CategoryConvictions,
				"Conviction %q on %s is disclosed on the quote", ref.Description, refDate))
		case dateOnly:
			out = append(out, findings.Warning(findings.CategoryConvictions,
				"Conviction on %s disclosed with a different description than %q", refDate, ref.Description))
		case undatable > 0:
			out = append(out, findings.Warning(findings.CategoryConvictions,
				"Conviction %q on %s has no dated match; %d quote conviction(s) with unparseable dates could not be checked", ref.Description, refDate, undatable))
		default:
			out = append(out, findings.Critical(findings.CategoryConvictions,
				"Undisclosed conviction: %q on %s is on the MVR but not the quote", ref.Description, refDate))
		}
	}

	return out
}

// descriptionsMatch applies the three matching tiers in order: normalized
// equality, fuzzy similarity, shared keyword group.
func (r *Reconciler) descriptionsMatch(a, b string) bool {
	na, nb := normalizeDescription(a), normalizeDescription(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if similarity(na, nb) >= r.FuzzyThreshold {
		return true
	}
	return sharedKeywordGroup(na, nb)
}

// ReconcileClaims validates every reference claim inside the recency
// window regardless of at-fault percentage: an undisclosed 0% claim is as
// critical as an at-fault one. Claims attributed to someone other than the
// policyholder downgrade to warnings.
func (r *Reconciler) ReconcileClaims(reference, declared []models.Claim, policyholder string, asOf dates.Date, refConv, declConv dates.Convention) []findings.Finding {
	var out []findings.Finding

	windowStart := asOf.AddYears(-r.ClaimWindowYears)

	// Same rule as convictions: declared claims with unparseable dates
	// keep a missing match from escalating past a warning.
	undatable := 0
	for _, d := range declared {
		if _, ok := dates.Normalize(d.Date, declConv); !ok {
			undatable++
		}
	}

	for _, ref := range reference {
		refDate, ok := dates.Normalize(ref.Date, refConv)
		if !ok {
			out = append(out, findings.Warning(findings.CategoryClaims,
				"Claim with unparseable date %q; cannot verify disclosure", ref.Date))
			continue
		}

		// Outside the reporting window: not comparable at all.
		if refDate.Time().Before(windowStart.Time()) {
			continue
		}

		disclosed := false
		for _, d := range declared {
			dDate, okD := dates.Normalize(d.Date, declConv)
			if okD && dDate == refDate {
				disclosed = true
				break
			}
		}

		if disclosed {
			out = append(out, findings.Match(findings.CategoryClaims,
				"Claim on %s (%d%% at fault) is disclosed on the quote", refDate, ref.AtFaultPercent))
			continue
		}

		if ref.DriverName != "" && !names.PlausiblySamePerson(ref.DriverName, policyholder) {
			out = append(out, findings.Warning(findings.CategoryClaims,
				"Third-party claim on %s involving %q is not disclosed; not attributable to %q", refDate, ref.DriverName, policyholder))
			continue
		}

		if undatable > 0 {
			out = append(out, findings.Warning(findings.CategoryClaims,
				"Claim on %s has no dated match; %d declared claim(s) with unparseable dates could not be checked", refDate, undatable))
			continue
		}

		out = append(out, findings.Critical(findings.CategoryClaims,
			"Undisclosed claim on %s (%d%% at fault) is on the claims report but not the quote", refDate, ref.AtFaultPercent))
	}

	return out
}

// DetectPolicyGaps reports coverage gaps between adjacent policy terms.
// Gaps are informational warnings, never fatal: a lapse may be explainable
// and the recorded cancellation reason travels with the finding.
func (r *Reconciler) DetectPolicyGaps(policies []models.Policy, conv dates.Convention) []findings.Finding {
	type term struct {
		start, end dates.Date
		policy     models.Policy
	}

	terms := make([]term, 0, len(policies))
	for _, p := range policies {
		start, okS := dates.Normalize(p.StartDate, conv)
		end, okE := dates.Normalize(p.EndDate, conv)
		if !okS || !okE {
			continue
		}
		terms = append(terms, term{start: start, end: end, policy: p})
	}

	sort.Slice(terms, func(i, j int) bool {
		return terms[i].start.Time().Before(terms[j].start.Time())
	})

	var out []findings.Finding
	for i := 1; i < len(terms); i++ {
		prev, next := terms[i-1], terms[i]
		gap := int(next.start.Time().Sub(prev.end.Time()).Hours() / 24)
		if gap <= 1 {
			continue
		}

		msg := []string{}
		if prev.policy.CancelReason != nil {
			msg = append(msg, "cancellation reason: "+*prev.policy.CancelReason)
		}
		suffix := ""
		if len(msg) > 0 {
			suffix = " (" + strings.Join(msg, "; ") + ")"
		}
		out = append(out, findings.Warning(findings.CategoryClaims,
			"Coverage gap of %d days between %s policy ending %s and %s policy starting %s%s",
			gap, prev.policy.Carrier, prev.end, next.policy.Carrier, next.start, suffix))
	}

	return out
}

func normalizeDescription(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r == '-', r == '/', r == '.':
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for i, t := range tokens {
		if full, ok := abbreviations[t]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}

func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func sharedKeywordGroup(a, b string) bool {
	for _, group := range keywordGroups {
		if containsAny(a, group) && containsAny(b, group) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
