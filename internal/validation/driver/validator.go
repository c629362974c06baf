// Package driver validates one quote driver against the motor vehicle
// record and claims history report matching their licence number. Every
// comparison that can be performed produces exactly one finding; checks
// never mutate shared state, and an unexpected failure inside one driver's
// evaluation is contained at this boundary.
package driver

import (
	"context"
	"log/slog"

	"quoteguard/internal/platform/config"
	"quoteguard/internal/validation/dates"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/history"
	"quoteguard/internal/validation/models"
	"quoteguard/pkg/requestcontext"
)

// Validator runs all per-driver checks. Safe for concurrent use: it holds
// only configuration and stateless collaborators.
type Validator struct {
	cfg    config.Validation
	recon  *history.Reconciler
	logger *slog.Logger
}

// Option configures the Validator.
type Option func(*Validator)

// WithLogger sets a logger for diagnostics. Findings remain the sole
// validation output; the logger never substitutes for them.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New constructs a driver validator from the validation rule constants.
func New(cfg config.Validation, opts ...Option) *Validator {
	v := &Validator{
		cfg:   cfg,
		recon: history.New(cfg.FuzzyThreshold, cfg.ClaimWindowYears),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate evaluates one driver against the submission's source records
// and returns a complete result. It never panics: unexpected failures
// surface as a single critical finding so one driver's defect cannot
// abort the submission run.
func (v *Validator) Validate(ctx context.Context, sub *models.Submission, q models.QuoteDriver) (result models.DriverResult) {
	defer func() {
		if r := recover(); r != nil {
			if v.logger != nil {
				v.logger.ErrorContext(ctx, "driver validation panicked",
					"driver", q.Name,
					"panic", r,
				)
			}
			result = models.BuildDriverResult(q.Name, q.LicenceNumber, []findings.Finding{
				findings.Critical(findings.CategoryIdentity, "Validation error: %v", r),
			})
		}
	}()

	var list []findings.Finding

	mvr := sub.FindMVR(q.LicenceNumber)
	if mvr == nil {
		// Short-circuit: without an MVR only the quote's own identity
		// declaration can be recorded. No report-age or progression
		// findings may appear for this driver.
		list = append(list, findings.Warning(findings.CategoryIdentity,
			"No motor vehicle record found for licence %q (driver %q, DOB %s); validation could not be performed",
			q.LicenceNumber, q.Name, q.BirthDate))
		return models.BuildDriverResult(q.Name, q.LicenceNumber, list)
	}

	asOf := dates.FromTime(requestcontext.Now(ctx))

	list = append(list, v.identityFindings(q, mvr)...)
	list = append(list, v.progressionFindings(q, mvr)...)
	list = append(list, v.recon.ReconcileConvictions(mvr.Convictions, q.Convictions, dates.ConventionMVR, dates.ConventionQuote)...)
	list = append(list, v.mvrAgeFindings(sub.EffectiveDate, mvr.ReleaseDate)...)
	list = append(list, v.trainingFindings(q)...)

	if sub.DASHExpected {
		dash := sub.FindClaimsRecord(q.LicenceNumber)
		if dash == nil {
			list = append(list, findings.Warning(findings.CategoryClaims,
				"Claims history report expected but none found for licence %q", q.LicenceNumber))
		} else {
			list = append(list, v.recon.ReconcileClaims(dash.Claims, q.Claims, q.Name, asOf, dates.ConventionDASH, dates.ConventionQuote)...)
			list = append(list, v.recon.DetectPolicyGaps(dash.Policies, dates.ConventionDASH)...)
			list = append(list, v.dashAgeFindings(sub.EffectiveDate, dash.GeneratedDate)...)
		}
	}

	return models.BuildDriverResult(q.Name, q.LicenceNumber, list)
}

func (v *Validator) trainingFindings(q models.QuoteDriver) []findings.Finding {
	if q.TrainingCertificate {
		return []findings.Finding{findings.Match(findings.CategoryTraining,
			"Driver training certificate declared for %q", q.Name)}
	}
	return []findings.Finding{findings.Warning(findings.CategoryTraining,
		"No driver training certificate declared for %q", q.Name)}
}
