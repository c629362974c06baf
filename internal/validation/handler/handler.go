// Package handler exposes the validation service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quoteguard/internal/validation/models"
	dErrors "quoteguard/pkg/domain-errors"
	"quoteguard/pkg/platform/httputil"
	"quoteguard/pkg/platform/middleware"
	"quoteguard/pkg/requestcontext"
)

// Service defines the validation operations the handler exposes.
type Service interface {
	Evaluate(ctx context.Context, sub *models.Submission) (*models.SubmissionReport, error)
	Analyze(ctx context.Context, sub *models.Submission) (*models.SubmissionReport, models.Analytics, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.SubmissionReport, error)
}

// Handler handles validation endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a validation Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the validation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Post("/validation/submission", h.handleValidateSubmission)
	router.Post("/validation/analytics", h.handleAnalyzeSubmission)
	router.Get("/validation/reports/{id}", h.handleGetReport)

	r.Mount("/", router)
}

// handleValidateSubmission runs the full reconciliation for a submission,
// persists the report, and returns it.
func (h *Handler) handleValidateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sub, ok := httputil.DecodeAndPrepare[*models.Submission](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.Evaluate(ctx, sub)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeBadRequest {
			h.logger.WarnContext(ctx, "invalid submission",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "submission validation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

// handleAnalyzeSubmission evaluates a submission and returns the analytics
// roll-up without persisting anything.
func (h *Handler) handleAnalyzeSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sub, ok := httputil.DecodeAndPrepare[*models.Submission](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, analytics, err := h.service.Analyze(ctx, sub)
	if err != nil {
		h.logger.WarnContext(ctx, "analytics request failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, analyticsResponse{
		ReportID:  report.ID,
		Status:    string(report.Status),
		Analytics: analytics,
	})
}

// handleGetReport fetches a persisted report by ID.
func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "report id must be a UUID"))
		return
	}

	report, err := h.service.GetReport(ctx, id)
	if err != nil {
		if dErrors.CodeOf(err) != dErrors.CodeNotFound {
			h.logger.ErrorContext(ctx, "failed to load report",
				"request_id", requestID,
				"report_id", id,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
