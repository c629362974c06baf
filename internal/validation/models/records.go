// Package models defines the structured input records handed over by the
// document extractors and the report types returned to callers. The record
// schema is the hard boundary of the engine: all extraction fuzziness stays
// on the other side of it, and all matching fuzziness stays inside the
// validation packages. Optional fields are pointers, never "N/A" sentinels.
package models

import "strings"

// Submission is the full input contract for one reconciliation run: the
// quote plus the independently sourced histories, joined by normalized
// licence number.
type Submission struct {
	// EffectiveDate is the quote's effective date in quote convention
	// (month/day/year). Report-age checks measure against it.
	EffectiveDate string `json:"effective_date"`

	Drivers             []QuoteDriver        `json:"drivers"`
	MotorVehicleRecords []MotorVehicleRecord `json:"mvr_records"`
	ClaimsRecords       []ClaimsHistoryRecord `json:"dash_records"`

	// DASHExpected indicates whether a claims history report accompanies
	// this submission at all. When false, claims and DASH report-age
	// checks are skipped, not failed.
	DASHExpected bool `json:"dash_expected"`
}

// QuoteDriver is one driver as declared on the rate quote. Dates are in
// quote convention (month/day/year).
type QuoteDriver struct {
	Name          string `json:"name"`
	LicenceNumber string `json:"licence_number"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`

	// Declared graduated licensing stage dates. Absent when the quote
	// left them blank.
	G1Date *string `json:"g1_date,omitempty"`
	G2Date *string `json:"g2_date,omitempty"`
	GDate  *string `json:"g_date,omitempty"`

	// TrainingCertificate is true when a driver training certificate is
	// declared on the quote.
	TrainingCertificate bool `json:"training_certificate"`

	// CurrentCarrier and VehicleUsage are declared history fields carried
	// through to the report for underwriter context.
	CurrentCarrier string `json:"current_carrier,omitempty"`
	VehicleUsage   string `json:"vehicle_usage,omitempty"`

	Convictions []Conviction `json:"convictions,omitempty"`
	Claims      []Claim      `json:"claims,omitempty"`
}

// MotorVehicleRecord is the government driving-history report for one
// licence. Dates are in MVR convention (day/month/year). Names arrive in
// LASTNAME,FIRSTNAME[,MIDDLENAME] form.
type MotorVehicleRecord struct {
	Name          string `json:"name"`
	LicenceNumber string `json:"licence_number"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`

	Status     string  `json:"status"`
	ExpiryDate string  `json:"expiry_date"`
	IssueDate  *string `json:"issue_date,omitempty"`

	// ReleaseDate is when the ministry produced this report.
	ReleaseDate string `json:"release_date"`

	Convictions []Conviction `json:"convictions,omitempty"`
}

// ClaimsHistoryRecord is the industry database report of past policies and
// claims. Dates are in DASH convention (year/month/day).
type ClaimsHistoryRecord struct {
	Name          string `json:"name"`
	LicenceNumber string `json:"licence_number"`
	BirthDate     string `json:"birth_date"`

	// GeneratedDate is when the report was produced.
	GeneratedDate string `json:"generated_date"`

	Policies []Policy `json:"policies,omitempty"`
	Claims   []Claim  `json:"claims,omitempty"`
}

// Conviction is one driving conviction entry. Immutable once extracted.
type Conviction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Fine        *string `json:"fine,omitempty"`
}

// Claim is one claim entry. DriverName is the involved party as recorded;
// when absent the claim is attributed to the policyholder.
type Claim struct {
	Date           string   `json:"date"`
	AtFaultPercent int      `json:"at_fault_percent"`
	DriverName     string   `json:"driver_name,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// Policy is one policy term from the claims history report.
type Policy struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Carrier      string  `json:"carrier"`
	Status       string  `json:"status"`
	CancelReason *string `json:"cancel_reason,omitempty"`
}

// NormalizeLicence strips separator punctuation and whitespace from a
// licence number and uppercases it. This normalized form is the join key
// linking records across sources.
func NormalizeLicence(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 32)
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FindMVR returns the motor vehicle record matching the licence number, if any.
func (s *Submission) FindMVR(licence string) *MotorVehicleRecord {
	key := NormalizeLicence(licence)
	if key == "" {
		return nil
	}
	for i := range s.MotorVehicleRecords {
		if NormalizeLicence(s.MotorVehicleRecords[i].LicenceNumber) == key {
			return &s.MotorVehicleRecords[i]
		}
	}
	return nil
}

// FindClaimsRecord returns the claims history record matching the licence
// number, if any.
func (s *Submission) FindClaimsRecord(licence string) *ClaimsHistoryRecord {
	key := NormalizeLicence(licence)
	if key == "" {
		return nil
	}
	for i := range s.ClaimsRecords {
		if NormalizeLicence(s.ClaimsRecords[i].LicenceNumber) == key {
			return &s.ClaimsRecords[i]
		}
	}
	return nil
}
