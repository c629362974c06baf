package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"quoteguard/internal/platform/config"
	"quoteguard/internal/report/store/memory"
	"quoteguard/internal/validation"
	"quoteguard/internal/validation/driver"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/internal/validation/submission"
	"quoteguard/pkg/testutil"
)

// ============================================================================
// Validation Handler Tests
// ============================================================================
//
// Justification for unit tests:
// The handler owns the HTTP contract: routes, status codes, and the JSON
// report shape clients parse. These tests exercise the full middleware
// chain against the real service over an in-memory store.

type HandlerSuite struct {
	suite.Suite
	router chi.Router
	store  *memory.InMemoryStore
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.store = memory.New()

	agg := submission.New(driver.New(config.DefaultValidation()))
	svc, err := validation.New(agg, s.store)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	New(svc, slog.Default()).Register(s.router)
}

func strPtr(v string) *string { return &v }

func validSubmission() *models.Submission {
	return &models.Submission{
		EffectiveDate: "06/01/2025",
		Drivers: []models.QuoteDriver{{
			Name:                "John Smith",
			LicenceNumber:       "S1234-56789-01234",
			BirthDate:           "08/04/1965",
			Gender:              "M",
			Address:             "123 Main St, Toronto, M5V 2T6",
			G1Date:              strPtr("07/08/2004"),
			G2Date:              strPtr("07/08/2005"),
			GDate:               strPtr("07/08/2006"),
			TrainingCertificate: true,
		}},
		MotorVehicleRecords: []models.MotorVehicleRecord{{
			Name:          "SMITH,JOHN",
			LicenceNumber: "S123456789 01234",
			BirthDate:     "04/08/1965",
			Gender:        "M",
			Address:       "123 Main St Toronto M5V 2T6",
			Status:        "LICENCED",
			ExpiryDate:    "04/08/2025",
			IssueDate:     strPtr("08/07/2004"),
			ReleaseDate:   "20/05/2025",
		}},
	}
}

func (s *HandlerSuite) TestValidateSubmission() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/validation/submission", validSubmission())
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	report := testutil.UnmarshalResponse[models.SubmissionReport](s.T(), rr)
	s.NotEqual("", report.ID.String())
	s.Equal(1, report.Summary.TotalDrivers)
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
}

func (s *HandlerSuite) TestValidateSubmissionRejectsEmptyDrivers() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/validation/submission",
		&models.Submission{EffectiveDate: "06/01/2025"})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestValidateSubmissionRejectsMalformedJSON() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/validation/submission", "{not json")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestValidateSubmissionRejectsNonJSONContentType() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/validation/submission", "effective_date=x")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusUnsupportedMediaType)
}

func (s *HandlerSuite) TestAnalyticsDoesNotPersist() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/validation/analytics", validSubmission())
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[struct {
		Status    string           `json:"status"`
		Analytics models.Analytics `json:"analytics"`
	}](s.T(), rr)
	s.Equal(string(findings.StatusPass), resp.Status)
	s.Equal(1, resp.Analytics.TotalDrivers)

	s.Zero(s.store.Len())
}

func (s *HandlerSuite) TestGetReportRoundTrip() {
	post := testutil.NewJSONRequest(s.T(), http.MethodPost, "/validation/submission", validSubmission())
	posted := testutil.UnmarshalResponse[models.SubmissionReport](s.T(), testutil.DoRequest(s.router, post))

	get := testutil.NewJSONRequest(s.T(), http.MethodGet, "/validation/reports/"+posted.ID.String(), nil)
	rr := testutil.DoRequest(s.router, get)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	fetched := testutil.UnmarshalResponse[models.SubmissionReport](s.T(), rr)
	s.Equal(posted.ID, fetched.ID)
	s.Equal(posted.Status, fetched.Status)
}

func (s *HandlerSuite) TestGetReportErrors() {
	s.Run("not a uuid", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/validation/reports/abc", nil)
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest)
	})
	s.Run("unknown id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet,
			"/validation/reports/6f1f9a2e-0000-4000-8000-000000000000", nil)
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusNotFound)
	})
}
