package driver

import (
	"regexp"
	"strings"

	"quoteguard/internal/validation/dates"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/internal/validation/names"
)

// genderSynonyms folds the gender encodings the three authorities use onto
// a canonical value.
var genderSynonyms = map[string]string{
	"m": "m", "male": "m", "homme": "m",
	"f": "f", "female": "f", "femme": "f",
	"x": "x", "other": "x", "non-binary": "x",
}

var postalCodeRe = regexp.MustCompile(`(?i)[a-z]\d[a-z]\s?\d[a-z]\d`)

// identityFindings compares the quote's identity fields against the MVR.
// Name and address disagreements are soft by policy: the record was joined
// by licence number, so a divergent rendering most likely still denotes
// the same person.
func (v *Validator) identityFindings(q models.QuoteDriver, mvr *models.MotorVehicleRecord) []findings.Finding {
	var out []findings.Finding

	// Licence number: the join key itself, recorded for the audit trail.
	out = append(out, findings.Match(findings.CategoryIdentity,
		"Licence number %s matches the motor vehicle record", models.NormalizeLicence(q.LicenceNumber)))

	out = append(out, v.nameFindings(q.Name, mvr.Name)...)
	out = append(out, v.dobFinding(q.BirthDate, mvr.BirthDate))
	out = append(out, v.genderFinding(q.Gender, mvr.Gender))
	out = append(out, v.addressFinding(q.Address, mvr.Address))
	out = append(out, v.statusFinding(mvr.Status))

	return out
}

func (v *Validator) nameFindings(quoteName, mvrName string) []findings.Finding {
	var out []findings.Finding

	switch {
	case quoteName == "" || mvrName == "":
		out = append(out, findings.Warning(findings.CategoryIdentity,
			"Name missing from %s; cannot compare", missingSide(quoteName, "quote", "motor vehicle record")))
		return out
	case names.SameParts(quoteName, mvrName):
		out = append(out, findings.Match(findings.CategoryIdentity,
			"Name %q matches MVR name %q", quoteName, mvrName))
	case names.PlausiblySamePerson(quoteName, mvrName):
		out = append(out, findings.Warning(findings.CategoryIdentity,
			"Name %q differs in formatting from MVR name %q but plausibly denotes the same person", quoteName, mvrName))
	default:
		// Downgraded to warning by design: a false mismatch on a record
		// already joined by licence number is costlier than a false match.
		out = append(out, findings.Warning(findings.CategoryIdentity,
			"Name %q does not match MVR name %q", quoteName, mvrName))
	}

	// Order check against the LASTNAME,FIRSTNAME reference, independent of
	// the leniency tiers above.
	if strings.Contains(mvrName, ",") {
		if ok, reason := names.ValidateOrder(quoteName, mvrName); !ok {
			out = append(out, findings.Warning(findings.CategoryIdentity,
				"Name order differs from MVR reference: %s", reason))
		}
	}

	return out
}

func (v *Validator) dobFinding(quoteDOB, mvrDOB string) findings.Finding {
	qd, okQ := dates.Normalize(quoteDOB, dates.ConventionQuote)
	md, okM := dates.Normalize(mvrDOB, dates.ConventionMVR)

	switch {
	case !okQ || !okM:
		return findings.Warning(findings.CategoryIdentity,
			"Date of birth unparseable (quote %q, MVR %q); cannot compare", quoteDOB, mvrDOB)
	case qd == md:
		return findings.Match(findings.CategoryIdentity, "Date of birth %s matches the motor vehicle record", qd)
	default:
		return findings.Critical(findings.CategoryIdentity,
			"Date of birth mismatch: quote has %s, motor vehicle record has %s", qd, md)
	}
}

func (v *Validator) genderFinding(quoteGender, mvrGender string) findings.Finding {
	qg := genderSynonyms[strings.ToLower(strings.TrimSpace(quoteGender))]
	mg := genderSynonyms[strings.ToLower(strings.TrimSpace(mvrGender))]

	switch {
	case qg == "" || mg == "":
		return findings.Warning(findings.CategoryIdentity,
			"Gender missing or unrecognized (quote %q, MVR %q); cannot compare", quoteGender, mvrGender)
	case qg == mg:
		return findings.Match(findings.CategoryIdentity, "Gender matches the motor vehicle record")
	default:
		return findings.Warning(findings.CategoryIdentity,
			"Gender differs: quote has %q, motor vehicle record has %q", quoteGender, mvrGender)
	}
}

// addressFinding applies graduated match tiers: full token agreement, then
// postal code plus majority token overlap, then city-level overlap. All
// disagreements stay warnings; addresses legitimately drift between
// sources.
func (v *Validator) addressFinding(quoteAddr, mvrAddr string) findings.Finding {
	if quoteAddr == "" || mvrAddr == "" {
		return findings.Warning(findings.CategoryIdentity,
			"Address missing from %s; cannot compare", missingSide(quoteAddr, "quote", "motor vehicle record"))
	}

	qTokens := addressTokens(quoteAddr)
	mTokens := addressTokens(mvrAddr)
	overlap := tokenOverlap(qTokens, mTokens)

	qPostal := normalizePostal(postalCodeRe.FindString(quoteAddr))
	mPostal := normalizePostal(postalCodeRe.FindString(mvrAddr))

	switch {
	case overlap == 1:
		return findings.Match(findings.CategoryIdentity, "Address matches the motor vehicle record")
	case qPostal != "" && qPostal == mPostal && overlap >= 0.5:
		return findings.Match(findings.CategoryIdentity,
			"Address matches the motor vehicle record (postal code %s)", qPostal)
	case overlap >= 0.5:
		return findings.Warning(findings.CategoryIdentity,
			"Address partially matches the motor vehicle record: %q vs %q", quoteAddr, mvrAddr)
	default:
		return findings.Warning(findings.CategoryIdentity,
			"Address differs from the motor vehicle record: %q vs %q", quoteAddr, mvrAddr)
	}
}

func (v *Validator) statusFinding(status string) findings.Finding {
	if strings.EqualFold(strings.TrimSpace(status), v.cfg.ActiveLicenceStatus) {
		return findings.Match(findings.CategoryIdentity, "Licence status is %s", v.cfg.ActiveLicenceStatus)
	}
	return findings.Critical(findings.CategoryIdentity,
		"Licence status is %q, expected %q", status, v.cfg.ActiveLicenceStatus)
}

func addressTokens(addr string) []string {
	f := strings.FieldsFunc(strings.ToLower(addr), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '-' || r == '#'
	})
	out := f[:0]
	for _, t := range f {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// tokenOverlap is the share of the smaller token set present in the other.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	hits := 0
	uniq := make(map[string]struct{}, len(a))
	for _, t := range a {
		uniq[t] = struct{}{}
	}
	for t := range uniq {
		if _, ok := set[t]; ok {
			hits++
		}
	}
	smaller := len(uniq)
	if len(set) < smaller {
		smaller = len(set)
	}
	return float64(hits) / float64(smaller)
}

func normalizePostal(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

func missingSide(firstValue, firstLabel, secondLabel string) string {
	if firstValue == "" {
		return firstLabel
	}
	return secondLabel
}
