// Package report persists submission reports. Reports are immutable:
// a store accepts each ID exactly once and never updates in place.
package report

import (
	"context"

	"github.com/google/uuid"

	"quoteguard/internal/validation/models"
)

// Store persists and retrieves submission reports. Implementations return
// sentinel.ErrNotFound for unknown IDs and sentinel.ErrConflict for
// duplicate saves. Swap with concrete storage without touching the service.
type Store interface {
	Save(ctx context.Context, report *models.SubmissionReport) error
	Get(ctx context.Context, id uuid.UUID) (*models.SubmissionReport, error)
}
