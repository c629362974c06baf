// Package audit captures key validation actions as events. Findings inside
// a report are the per-comparison audit trail; these events are the
// operational trail above it: who validated what, when, with what outcome.
// Keep events transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// validation outcomes that drive underwriting decisions.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and
	// operational visibility.
	CategoryOperations EventCategory = "operations"
)

// Action identifies what happened.
type Action string

const (
	ActionSubmissionValidated Action = "submission_validated"
	ActionDriverFlagged       Action = "driver_flagged"
	ActionReportStored        Action = "report_stored"
)

// actionCategories is the source of truth mapping actions to categories.
var actionCategories = map[Action]EventCategory{
	ActionSubmissionValidated: CategoryCompliance,
	ActionDriverFlagged:       CategoryCompliance,
	ActionReportStored:        CategoryOperations,
}

// Category returns the category for an action, defaulting to operations.
func (a Action) Category() EventCategory {
	if c, ok := actionCategories[a]; ok {
		return c
	}
	return CategoryOperations
}

// Event is emitted from the validation service. LicenceHash carries a
// SHA-256 of the driver licence for traceability without storing raw PII.
type Event struct {
	Timestamp   time.Time
	ReportID    uuid.UUID
	Action      Action
	Decision    string
	Reason      string
	LicenceHash string
	RequestID   string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher emits audit events to an external sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
