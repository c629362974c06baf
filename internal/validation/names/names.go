// Package names decides whether free-form person names from different
// authorities plausibly denote the same individual. Sources render names
// in incompatible conventions (LASTNAME,FIRSTNAME references, hyphenated
// compound surnames, reordered given/family names, abbreviated middle
// names), and for identity fields a false mismatch is costlier than a
// false match: name disagreements downgrade to warnings, never critical
// errors.
package names

import (
	"fmt"
	"strings"
)

// Tokenize splits a name on whitespace, commas, and hyphens, lowercasing
// each token. Order is preserved.
func Tokenize(name string) []string {
	f := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == '\t'
	})
	out := make([]string, 0, len(f))
	for _, t := range f {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SameParts reports whether two names contain the same tokens regardless
// of order. A single-letter token matches any token it prefixes, so
// "John Q Smith" and "SMITH,JOHN,QUINCY" agree.
func SameParts(a, b string) bool {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	return coveredBy(ta, tb) && coveredBy(tb, ta)
}

// PlausiblySamePerson is the lenient superset of SameParts used when exact
// part matching fails. It accepts a Jaccard token overlap of at least 0.6,
// or a substantial token of one name appearing inside a token of the other
// with at least half of the remaining tokens overlapping.
func PlausiblySamePerson(a, b string) bool {
	if SameParts(a, b) {
		return true
	}

	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}

	if jaccard(ta, tb) >= 0.6 {
		return true
	}

	return substringTier(ta, tb) || substringTier(tb, ta)
}

// ValidateOrder checks a free-form name against a reference in
// LASTNAME,FIRSTNAME[,MIDDLENAME] form: the free-form rendering must begin
// with the reference first name and end with the reference last name. The
// returned reason explains a failed check for the finding message.
func ValidateOrder(freeform, reference string) (bool, string) {
	refParts := strings.Split(reference, ",")
	if len(refParts) < 2 {
		return false, fmt.Sprintf("reference name %q is not in LASTNAME,FIRSTNAME form", reference)
	}
	last := strings.ToLower(strings.TrimSpace(refParts[0]))
	first := strings.ToLower(strings.TrimSpace(refParts[1]))

	ft := Tokenize(freeform)
	if len(ft) == 0 {
		return false, "name is empty"
	}

	// Compound surnames tokenize into several parts; compare against the
	// reference surname's own token list.
	lastTokens := Tokenize(last)

	if ft[0] != first {
		return false, fmt.Sprintf("expected name to begin with first name %q, got %q", first, ft[0])
	}
	if len(lastTokens) > len(ft) {
		return false, fmt.Sprintf("expected name to end with last name %q", last)
	}
	tail := ft[len(ft)-len(lastTokens):]
	for i, lt := range lastTokens {
		if tail[i] != lt {
			return false, fmt.Sprintf("expected name to end with last name %q", last)
		}
	}
	return true, ""
}

// coveredBy reports whether every token of a is matched by some token of
// b, where an initial matches any token it prefixes.
func coveredBy(a, b []string) bool {
	for _, t := range a {
		if !anyTokenMatches(t, b) {
			return false
		}
	}
	return true
}

func anyTokenMatches(t string, pool []string) bool {
	for _, p := range pool {
		if t == p {
			return true
		}
		if len(t) == 1 && strings.HasPrefix(p, t) {
			return true
		}
		if len(p) == 1 && strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

func tokenSet(name string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(name) {
		set[t] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// substringTier accepts when a substantial token of a is a substring of a
// token in b and the remaining tokens still mostly overlap.
func substringTier(a, b map[string]struct{}) bool {
	for t := range a {
		if len(t) <= 3 {
			continue
		}
		host := ""
		for u := range b {
			if u != t && strings.Contains(u, t) {
				host = u
				break
			}
		}
		if host == "" {
			continue
		}

		restA := copySetWithout(a, t)
		restB := copySetWithout(b, host)
		if len(restA) == 0 || len(restB) == 0 {
			return true
		}
		if jaccard(restA, restB) >= 0.5 {
			return true
		}
	}
	return false
}

func copySetWithout(s map[string]struct{}, drop string) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for t := range s {
		if t != drop {
			out[t] = struct{}{}
		}
	}
	return out
}
