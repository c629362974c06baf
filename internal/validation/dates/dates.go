// Package dates normalizes date strings across the three source
// conventions. Each upstream authority encodes dates differently and the
// extracts carry no format tags, so comparisons must go through a canonical
// year-month-day triple; raw string comparison is never correct here.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Convention is the day/month ordering used by a source document.
type Convention string

const (
	// ConventionMVR is day/month/year, used by motor vehicle records.
	ConventionMVR Convention = "dmy"
	// ConventionDASH is year/month/day, used by claims history reports.
	ConventionDASH Convention = "ymd"
	// ConventionQuote is month/day/year, used by rate quotes.
	ConventionQuote Convention = "mdy"
	// ConventionUnknown asks the normalizer to infer the ordering from
	// the value's shape.
	ConventionUnknown Convention = ""
)

// Date is a canonical calendar date. The zero value is not a valid date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Normalize parses a date string in the given convention into a canonical
// date. With ConventionUnknown the ordering is inferred: a 4-digit leading
// token implies year-first, a second token over 12 implies day-first,
// otherwise month-first is assumed with day-first and year-first as
// fallbacks. Strings that cannot be validated as real calendar dates
// return ok=false; callers must treat that as "cannot compare", never as
// a business failure.
func Normalize(s string, hint Convention) (Date, bool) {
	parts := splitTokens(s)
	if len(parts) != 3 {
		return Date{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, false
		}
		nums[i] = n
	}

	if hint == ConventionUnknown {
		hint = infer(parts, nums)
	}

	if d, ok := assemble(nums, hint); ok {
		return d, true
	}

	// The hinted ordering produced an impossible date; fall back through
	// the remaining conventions before giving up. Extraction sometimes
	// mislabels a source.
	for _, c := range []Convention{ConventionQuote, ConventionMVR, ConventionDASH} {
		if c == hint {
			continue
		}
		if d, ok := assemble(nums, c); ok {
			return d, true
		}
	}
	return Date{}, false
}

// Equal reports whether two date strings in (possibly different)
// conventions denote the same calendar date. Unparseable operands are
// never equal to anything.
func Equal(a string, ca Convention, b string, cb Convention) bool {
	da, okA := Normalize(a, ca)
	db, okB := Normalize(b, cb)
	return okA && okB && da == db
}

// Before reports whether date a strictly precedes date b. Unparseable
// operands order nothing.
func Before(a string, ca Convention, b string, cb Convention) bool {
	da, okA := Normalize(a, ca)
	db, okB := Normalize(b, cb)
	return okA && okB && da.Time().Before(db.Time())
}

// FromTime converts a time.Time to a canonical date, dropping the clock.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddYears shifts the date by whole years, normalizing Feb 29 in the
// usual Go manner.
func (d Date) AddYears(n int) Date {
	return FromTime(d.Time().AddDate(n, 0, 0))
}

// SameDayMonth reports whether two dates share day and month, ignoring
// year. The licence anniversary rule hinges on this.
func (d Date) SameDayMonth(o Date) bool {
	return d.Day == o.Day && d.Month == o.Month
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Format renders the date in the given source convention with zero-padded
// fields and slash separators.
func (d Date) Format(c Convention) string {
	switch c {
	case ConventionDASH:
		return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
	case ConventionQuote:
		return fmt.Sprintf("%02d/%02d/%04d", d.Month, d.Day, d.Year)
	default:
		return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
	}
}

// String renders ISO-style for logs and messages.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func splitTokens(s string) []string {
	f := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '/' || r == '-' || r == '.' || r == ' '
	})
	return f
}

func infer(parts []string, nums []int) Convention {
	if len(parts[0]) == 4 {
		return ConventionDASH
	}
	if nums[1] > 12 {
		return ConventionMVR
	}
	return ConventionQuote
}

func assemble(nums []int, c Convention) (Date, bool) {
	var d Date
	switch c {
	case ConventionDASH:
		d = Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	case ConventionMVR:
		d = Date{Year: nums[2], Month: nums[1], Day: nums[0]}
	case ConventionQuote:
		d = Date{Year: nums[2], Month: nums[0], Day: nums[1]}
	default:
		return Date{}, false
	}
	d.Year = expandYear(d.Year)
	if !valid(d) {
		return Date{}, false
	}
	return d, true
}

// expandYear widens two-digit years with a fixed pivot. Driver birth dates
// reach back into the 1900s; licence expiries sit within a few years of
// today, so the pivot stays low.
func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y <= 30 {
		return 2000 + y
	}
	return 1900 + y
}

func valid(d Date) bool {
	if d.Year < 1900 || d.Year > 2100 || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return d.Day <= daysIn(d.Year, d.Month)
}

func daysIn(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
