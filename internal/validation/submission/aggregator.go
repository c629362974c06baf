// Package submission rolls per-driver validation results into the final
// SubmissionReport. Aggregation is pure given the validator's outputs:
// rerunning it over the same submission produces the same report apart
// from the generated ID and timestamp.
package submission

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quoteguard/internal/validation/driver"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/pkg/requestcontext"
)

// Aggregator evaluates every driver in a submission.
type Aggregator struct {
	validator *driver.Validator
	logger    *slog.Logger

	// Parallelism bounds concurrent driver evaluations. Zero or one means
	// sequential. Driver validations are mutually independent reads of the
	// same immutable input records, so no locking is needed either way.
	Parallelism int
}

// Option configures the Aggregator.
type Option func(*Aggregator)

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithParallelism enables bounded per-driver parallel evaluation.
func WithParallelism(n int) Option {
	return func(a *Aggregator) {
		a.Parallelism = n
	}
}

// New constructs an Aggregator around a driver validator.
func New(validator *driver.Validator, opts ...Option) *Aggregator {
	a := &Aggregator{validator: validator}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Evaluate validates all drivers and builds the submission report. The
// caller always receives a complete report: per-driver failures are
// findings, never aborts.
func (a *Aggregator) Evaluate(ctx context.Context, sub *models.Submission) *models.SubmissionReport {
	results := make([]models.DriverResult, len(sub.Drivers))

	if a.Parallelism > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.Parallelism)
		for i := range sub.Drivers {
			g.Go(func() error {
				results[i] = a.validator.Validate(gctx, sub, sub.Drivers[i])
				return nil
			})
		}
		// Validate never returns an error; findings carry all failures.
		_ = g.Wait()
	} else {
		for i := range sub.Drivers {
			results[i] = a.validator.Validate(ctx, sub, sub.Drivers[i])
		}
	}

	report := &models.SubmissionReport{
		ID:          uuid.New(),
		Drivers:     results,
		Summary:     summarize(results),
		GeneratedAt: requestcontext.Now(ctx).UTC(),
	}
	report.Status = overallStatus(results)

	if a.logger != nil {
		a.logger.InfoContext(ctx, "submission evaluated",
			"report_id", report.ID,
			"status", report.Status,
			"drivers", report.Summary.TotalDrivers,
			"critical_errors", report.Summary.CriticalErrors,
		)
	}

	return report
}

func summarize(results []models.DriverResult) models.Summary {
	s := models.Summary{TotalDrivers: len(results)}
	for _, r := range results {
		if len(r.Findings) > 0 {
			s.ValidatedDrivers++
		}
		s.CriticalErrors += len(r.CriticalErrors)
		s.Warnings += len(r.Warnings)
	}
	s.IssuesFound = s.CriticalErrors + s.Warnings
	return s
}

// overallStatus applies the same precedence as per-driver status: any
// failing driver fails the submission, any warning driver downgrades it,
// and an empty submission cannot pass.
func overallStatus(results []models.DriverResult) findings.Status {
	if len(results) == 0 {
		return findings.StatusFail
	}
	status := findings.StatusPass
	for _, r := range results {
		switch r.Status {
		case findings.StatusFail:
			return findings.StatusFail
		case findings.StatusWarning:
			status = findings.StatusWarning
		}
	}
	return status
}
