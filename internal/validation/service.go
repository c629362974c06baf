// Package validation orchestrates the reconciliation engine behind a
// single service façade: evaluate a submission, persist the report, and
// emit the audit trail. Transport concerns stay in the handler; business
// rules stay in the driver and submission packages.
package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/metrics"
	"quoteguard/internal/validation/models"
	"quoteguard/internal/validation/submission"
	derrors "quoteguard/pkg/domain-errors"
	"quoteguard/pkg/platform/audit"
	"quoteguard/pkg/platform/sentinel"
	"quoteguard/pkg/requestcontext"
)

// Store persists submission reports.
type Store interface {
	Save(ctx context.Context, report *models.SubmissionReport) error
	Get(ctx context.Context, id uuid.UUID) (*models.SubmissionReport, error)
}

// Service wires the aggregator to its supporting surfaces.
type Service struct {
	aggregator *submission.Aggregator
	store      Store
	auditSink  audit.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches validation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditPublisher attaches an audit event sink. Audit emission is
// fail-open: a sink error is logged, never surfaced to the caller.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		s.auditSink = p
	}
}

// New constructs the validation service.
func New(aggregator *submission.Aggregator, store Store, opts ...Option) (*Service, error) {
	if aggregator == nil {
		return nil, errors.New("aggregator is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	s := &Service{
		aggregator: aggregator,
		store:      store,
		tracer:     otel.Tracer("quoteguard/validation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate validates every driver in the submission, persists the report,
// and emits audit events. The report is returned even when persistence of
// the audit trail degrades; only input and store errors abort.
func (s *Service) Evaluate(ctx context.Context, sub *models.Submission) (*models.SubmissionReport, error) {
	ctx, span := s.tracer.Start(ctx, "validation.Evaluate")
	defer span.End()

	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.aggregator.Evaluate(ctx, sub)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	s.metrics.ObserveDriverCount(len(sub.Drivers))
	s.metrics.IncrementOutcome(string(report.Status))
	s.recordFindings(report)

	if err := s.store.Save(ctx, report); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to persist report", "report_id", report.ID, "error", err)
		}
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to persist report")
	}

	s.emitAudit(ctx, report, sub)
	return report, nil
}

// Analyze evaluates a submission and derives the analytics view without
// persisting anything. Use it for what-if runs against draft quotes.
func (s *Service) Analyze(ctx context.Context, sub *models.Submission) (*models.SubmissionReport, models.Analytics, error) {
	ctx, span := s.tracer.Start(ctx, "validation.Analyze")
	defer span.End()

	if err := validateSubmission(sub); err != nil {
		return nil, models.Analytics{}, err
	}

	report := s.aggregator.Evaluate(ctx, sub)
	return report, submission.BuildAnalytics(report), nil
}

// GetReport fetches a previously persisted report.
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*models.SubmissionReport, error) {
	ctx, span := s.tracer.Start(ctx, "validation.GetReport")
	defer span.End()

	report, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeNotFound, "report not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load report")
	}
	return report, nil
}

func validateSubmission(sub *models.Submission) error {
	if sub == nil {
		return derrors.New(derrors.CodeBadRequest, "submission is required")
	}
	if len(sub.Drivers) == 0 {
		return derrors.New(derrors.CodeBadRequest, "submission must contain at least one driver")
	}
	if sub.EffectiveDate == "" {
		return derrors.New(derrors.CodeBadRequest, "effective_date is required")
	}
	for i, d := range sub.Drivers {
		if models.NormalizeLicence(d.LicenceNumber) == "" {
			return derrors.Newf(derrors.CodeBadRequest, "driver %d is missing a licence number", i)
		}
	}
	return nil
}

func (s *Service) recordFindings(report *models.SubmissionReport) {
	for _, d := range report.Drivers {
		for _, f := range d.Findings {
			s.metrics.IncrementFinding(string(f.Severity), string(f.Category))
		}
	}
}

func (s *Service) emitAudit(ctx context.Context, report *models.SubmissionReport, sub *models.Submission) {
	if s.auditSink == nil {
		return
	}
	now := requestcontext.Now(ctx).UTC()
	requestID := requestcontext.RequestID(ctx)

	events := []audit.Event{{
		Timestamp: now,
		ReportID:  report.ID,
		Action:    audit.ActionSubmissionValidated,
		Decision:  string(report.Status),
		Reason:    reasonFor(report),
		RequestID: requestID,
	}}
	for _, d := range report.Drivers {
		if d.Status != findings.StatusFail {
			continue
		}
		reason := "critical errors found"
		if len(d.CriticalErrors) > 0 {
			reason = d.CriticalErrors[0]
		}
		events = append(events, audit.Event{
			Timestamp:   now,
			ReportID:    report.ID,
			Action:      audit.ActionDriverFlagged,
			Decision:    string(d.Status),
			Reason:      reason,
			LicenceHash: HashLicence(d.DriverLicence),
			RequestID:   requestID,
		})
	}
	events = append(events, audit.Event{
		Timestamp: now,
		ReportID:  report.ID,
		Action:    audit.ActionReportStored,
		Decision:  string(report.Status),
		RequestID: requestID,
	})

	for _, e := range events {
		if err := s.auditSink.Emit(ctx, e); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to emit audit event",
				"report_id", report.ID, "action", e.Action, "error", err)
		}
	}
}

func reasonFor(report *models.SubmissionReport) string {
	switch report.Status {
	case findings.StatusPass:
		return "all drivers validated clean"
	case findings.StatusWarning:
		return "warnings require underwriter review"
	default:
		return "critical discrepancies between submitted and reported records"
	}
}

// HashLicence returns a hex SHA-256 of the normalized licence number.
// Audit events carry this instead of the raw licence.
func HashLicence(licence string) string {
	sum := sha256.Sum256([]byte(models.NormalizeLicence(licence)))
	return hex.EncodeToString(sum[:])
}
