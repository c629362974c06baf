package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation findings:
// - ErrNotFound: report does not exist in store
// - ErrConflict: report with the same ID already stored (reports are immutable)
// - ErrUnavailable: backing store temporarily unreachable
//
// For bad input, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
