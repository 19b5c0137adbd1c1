// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"
	"readiness-workers/internal/report"
	"readiness-workers/internal/store"
)

// ==========================
// Fakes
// ==========================

type fakeRepo struct {
	byID          map[string]*models.Submission
	appended      []*models.Submission
	appendErr     error
	listItems     []models.SubmissionSummary
	csv           []byte
	statusUpdates map[string]string
}

func (f *fakeRepo) Append(_ context.Context, sub *models.Submission) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, sub)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (f *fakeRepo) List(context.Context, int, int) ([]models.SubmissionSummary, error) {
	return f.listItems, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id, status string) error {
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]string{}
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeRepo) ExportCSV(context.Context) ([]byte, error) { return f.csv, nil }

type fakeThrottle struct {
	reserved  []string
	released  []string
	throttled bool
}

func (f *fakeThrottle) ReserveSubmit(_ context.Context, email string) error {
	if f.throttled {
		return store.ErrThrottled
	}
	f.reserved = append(f.reserved, email)
	return nil
}

func (f *fakeThrottle) ReleaseSubmit(_ context.Context, email string) error {
	f.released = append(f.released, email)
	return nil
}

type fakeCache struct {
	reports map[string][]byte
}

func (f *fakeCache) GetReport(_ context.Context, id string) ([]byte, error) {
	return f.reports[id], nil
}

func (f *fakeCache) PutReport(_ context.Context, id string, html []byte) error {
	if f.reports == nil {
		f.reports = make(map[string][]byte)
	}
	f.reports[id] = html
	return nil
}

type fakeSearch struct {
	items []models.SubmissionSummary
	err   error
}

func (f *fakeSearch) Search(_ context.Context, _ string, _ int) ([]models.SubmissionSummary, error) {
	return f.items, f.err
}

type startedProcess struct {
	processID string
	variables map[string]interface{}
}

type fakeStarter struct {
	started []startedProcess
	err     error
}

func (f *fakeStarter) StartProcessInstance(_ context.Context, processID string, variables map[string]interface{}) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.started = append(f.started, startedProcess{processID: processID, variables: variables})
	return 4001, nil
}

type testEnv struct {
	repo     *fakeRepo
	throttle *fakeThrottle
	cache    *fakeCache
	search   *fakeSearch
	starter  *fakeStarter
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	renderer, err := report.NewRenderer("XplainIQ lite")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Assessment.AdvisorSLAPhrase = "2-3 business days"

	env := &testEnv{
		repo:     &fakeRepo{byID: map[string]*models.Submission{}},
		throttle: &fakeThrottle{},
		cache:    &fakeCache{},
		search:   &fakeSearch{},
		starter:  &fakeStarter{},
	}
	srv := New(cfg, env.repo, env.throttle, env.cache, env.search, env.starter, renderer, logger.NewNoOpLogger())
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func surveyRequest() models.SurveyRequest {
	return models.SurveyRequest{
		Company:     "Acme Distribution",
		ContactName: "Jordan Reyes",
		Email:       "Jordan@Acme.example",
		Role:        "VP Channel",
		Answers: map[string]int{
			"A1": 5, "A2": 5,
			"B1": 3, "B2": 3,
			"C1": 1, "C2": 1,
			"D1": 3, "D2": 3,
			"E1": 5, "E2": 5,
		},
	}
}

func storedSubmission() *models.Submission {
	return &models.Submission{
		ID:          "sub-001",
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Company:     "Acme Distribution",
		ContactName: "Jordan Reyes",
		Email:       "jordan@acme.example",
		Answers:     map[string]int{"A1": 5, "A2": 5},
		PillarScores: []models.PillarResult{
			{Name: "A. Channel Strategy & Alignment", Score: 100},
			{Name: "B. Partner Program Design", Score: 60},
			{Name: "C. Partner Enablement & Engagement", Score: 20},
			{Name: "D. Sales & Operations Integration", Score: 60},
			{Name: "E. Growth Readiness", Score: 100},
		},
		OverallScore: 68,
		Tier:         "Established",
		Status:       models.StatusPendingReview,
	}
}

// ==========================
// Intake
// ==========================

func TestHandleSubmit_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/submissions", surveyRequest())
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SubmissionID)
	assert.Equal(t, float64(68), resp.OverallScore)
	assert.Equal(t, "Established", resp.Tier)
	assert.Equal(t, models.StatusPendingReview, resp.Status)
	assert.True(t, resp.WorkflowStarted)
	assert.Contains(t, resp.Message, "2-3 business days")

	require.Len(t, env.repo.appended, 1)
	stored := env.repo.appended[0]
	assert.Equal(t, "jordan@acme.example", stored.Email)
	assert.Len(t, stored.PillarScores, 5)

	require.Len(t, env.starter.started, 1)
	assert.Equal(t, "assessment-intake", env.starter.started[0].processID)
	assert.Equal(t, stored.ID, env.starter.started[0].variables["submissionId"])

	assert.Equal(t, []string{"jordan@acme.example"}, env.throttle.reserved)
}

func TestHandleSubmit_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SurveyRequest)
	}{
		{"missing company", func(r *models.SurveyRequest) { r.Company = "" }},
		{"missing contact name", func(r *models.SurveyRequest) { r.ContactName = "  " }},
		{"missing email", func(r *models.SurveyRequest) { r.Email = "" }},
		{"email without at sign", func(r *models.SurveyRequest) { r.Email = "jordan.acme.example" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := surveyRequest()
			tt.mutate(&req)

			rec := env.do(t, http.MethodPost, "/api/v1/submissions", req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "SUBMISSION_VALIDATION_FAILED")
			assert.Empty(t, env.repo.appended)
		})
	}
}

func TestHandleSubmit_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmit_Throttled(t *testing.T) {
	env := newTestEnv(t)
	env.throttle.throttled = true

	rec := env.do(t, http.MethodPost, "/api/v1/submissions", surveyRequest())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUBMISSION_THROTTLED")
	assert.Empty(t, env.repo.appended)
}

func TestHandleSubmit_PersistFailureReleasesThrottle(t *testing.T) {
	env := newTestEnv(t)
	env.repo.appendErr = errors.New("connection refused")

	rec := env.do(t, http.MethodPost, "/api/v1/submissions", surveyRequest())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUBMISSION_PERSIST_FAILED")
	assert.Equal(t, []string{"jordan@acme.example"}, env.throttle.released)
}

func TestHandleSubmit_WorkflowStartFailureStillAccepts(t *testing.T) {
	env := newTestEnv(t)
	env.starter.err = errors.New("zeebe unavailable")

	rec := env.do(t, http.MethodPost, "/api/v1/submissions", surveyRequest())
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.WorkflowStarted)
	assert.Len(t, env.repo.appended, 1)
}

func TestHandleSubmit_DropsUnknownAnswerCodes(t *testing.T) {
	env := newTestEnv(t)
	req := surveyRequest()
	req.Answers["Z9"] = 5

	rec := env.do(t, http.MethodPost, "/api/v1/submissions", req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, env.repo.appended, 1)
	_, ok := env.repo.appended[0].Answers["Z9"]
	assert.False(t, ok)
}

// ==========================
// Catalog
// ==========================

func TestHandleCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Pillars, 5)
	assert.Equal(t, "A. Channel Strategy & Alignment", resp.Pillars[0].Name)
	require.Len(t, resp.Pillars[0].Questions, 2)
	assert.Equal(t, "A1", resp.Pillars[0].Questions[0].Code)
	assert.NotEmpty(t, resp.Pillars[0].Questions[0].Prompt)
	assert.Len(t, resp.TierBands, 4)
	assert.Nil(t, resp.Prefill)
}

func TestHandleCatalog_Prefill(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog?company=Acme&email=j%40acme.example", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Prefill["company"])
	assert.Equal(t, "j@acme.example", resp.Prefill["email"])
}

// ==========================
// Admin
// ==========================

func TestHandleList(t *testing.T) {
	env := newTestEnv(t)
	env.repo.listItems = []models.SubmissionSummary{
		{ID: "sub-002", Company: "Beta Corp", Tier: "Developing"},
		{ID: "sub-001", Company: "Acme Distribution", Tier: "Established"},
	}

	rec := env.do(t, http.MethodGet, "/api/v1/admin/submissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Beta Corp")
	assert.Contains(t, rec.Body.String(), `"limit":50`)
}

func TestHandleGetSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.repo.byID["sub-001"] = storedSubmission()

	rec := env.do(t, http.MethodGet, "/api/v1/admin/submissions/sub-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Distribution")

	rec = env.do(t, http.MethodGet, "/api/v1/admin/submissions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUBMISSION_NOT_FOUND")
}

func TestHandleGetReport_CacheHit(t *testing.T) {
	env := newTestEnv(t)
	env.cache.reports = map[string][]byte{"sub-001": []byte("<html>cached</html>")}

	rec := env.do(t, http.MethodGet, "/api/v1/admin/submissions/sub-001/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>cached</html>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandleGetReport_RendersAndCachesOnMiss(t *testing.T) {
	env := newTestEnv(t)
	env.repo.byID["sub-001"] = storedSubmission()

	rec := env.do(t, http.MethodGet, "/api/v1/admin/submissions/sub-001/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Distribution")
	assert.Contains(t, string(env.cache.reports["sub-001"]), "Acme Distribution")
}

func TestHandleDeliver(t *testing.T) {
	env := newTestEnv(t)
	env.repo.byID["sub-001"] = storedSubmission()

	rec := env.do(t, http.MethodPost, "/api/v1/admin/submissions/sub-001/deliver", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "4001")

	require.Len(t, env.starter.started, 1)
	assert.Equal(t, "report-delivery", env.starter.started[0].processID)
	assert.Equal(t, "sub-001", env.starter.started[0].variables["submissionId"])
}

func TestHandleDeliver_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/submissions/missing/deliver", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	env.repo.byID["sub-001"] = storedSubmission()

	rec := env.do(t, http.MethodPatch, "/api/v1/admin/submissions/sub-001/status",
		map[string]string{"status": models.StatusReportSent})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusReportSent, env.repo.statusUpdates["sub-001"])
}

func TestHandleUpdateStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	env.repo.byID["sub-001"] = storedSubmission()

	rec := env.do(t, http.MethodPatch, "/api/v1/admin/submissions/sub-001/status",
		map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.repo.statusUpdates)
}

func TestHandleUpdateStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/v1/admin/submissions/missing/status",
		map[string]string{"status": models.StatusPendingReview})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.repo.csv = []byte("id,timestamp,company\n")

	rec := env.do(t, http.MethodGet, "/api/v1/admin/submissions/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "submissions.csv")
	assert.Equal(t, "id,timestamp,company\n", rec.Body.String())
}

func TestHandleSearch(t *testing.T) {
	env := newTestEnv(t)
	env.search.items = []models.SubmissionSummary{{ID: "sub-001", Company: "Acme Distribution"}}

	rec := env.do(t, http.MethodGet, "/api/v1/admin/search?q=acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Distribution")
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"UP"`)
}
