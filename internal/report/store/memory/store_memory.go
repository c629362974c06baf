package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"quoteguard/internal/validation/models"
	"quoteguard/pkg/platform/sentinel"
)

// InMemoryStore keeps reports in process. The default when Postgres is
// not configured, and the test double everywhere else.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*models.SubmissionReport
}

func New() *InMemoryStore {
	return &InMemoryStore{reports: make(map[uuid.UUID]*models.SubmissionReport)}
}

func (s *InMemoryStore) Save(_ context.Context, report *models.SubmissionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; exists {
		return sentinel.ErrConflict
	}
	s.reports[report.ID] = report
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*models.SubmissionReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return report, nil
}

// Clear removes all reports. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = make(map[uuid.UUID]*models.SubmissionReport)
}

// Len reports how many reports are stored. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
