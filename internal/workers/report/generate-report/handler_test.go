// internal/workers/report/generate-report/handler_test.go
package generatereport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"
	"readiness-workers/internal/report"
	"readiness-workers/internal/store"
)

// ==========================
// Fakes
// ==========================

type fakeRepo struct {
	byID      map[string]*models.Submission
	statuses  map[string]string
	updateErr error
}

func (f *fakeRepo) Append(context.Context, *models.Submission) error { return nil }

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (f *fakeRepo) List(context.Context, int, int) ([]models.SubmissionSummary, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.statuses == nil {
		f.statuses = make(map[string]string)
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeRepo) ExportCSV(context.Context) ([]byte, error) { return nil, nil }

type fakeCache struct {
	reports map[string][]byte
	err     error
}

func (f *fakeCache) PutReport(_ context.Context, id string, html []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.reports == nil {
		f.reports = make(map[string][]byte)
	}
	f.reports[id] = html
	return nil
}

func testSubmission() *models.Submission {
	return &models.Submission{
		ID:          "sub-001",
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Company:     "Acme Distribution",
		ContactName: "Jordan Reyes",
		Email:       "jordan@acme.example",
		Role:        "VP Channel",
		Answers:     map[string]int{"A1": 5, "A2": 5},
		PillarScores: []models.PillarResult{
			{Name: "A. Channel Strategy & Alignment", Score: 100},
			{Name: "B. Partner Recruitment & Onboarding", Score: 60},
			{Name: "C. Partner Enablement & Training", Score: 20},
			{Name: "D. Channel Operations & Management", Score: 60},
			{Name: "E. Growth Readiness", Score: 100},
		},
		OverallScore: 68,
		Tier:         "Established",
		Status:       models.StatusPendingReview,
	}
}

func newTestHandler(t *testing.T, repo *fakeRepo, cache *fakeCache) *Handler {
	t.Helper()
	renderer, err := report.NewRenderer("XplainIQ lite")
	require.NoError(t, err)
	return NewHandler(&Config{}, repo, renderer, cache, logger.NewNoOpLogger())
}

// ==========================
// Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	repo := &fakeRepo{byID: map[string]*models.Submission{"sub-001": testSubmission()}}
	cache := &fakeCache{}
	h := newTestHandler(t, repo, cache)

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-001"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusReportGenerated, out.SubmissionStatus)
	assert.True(t, out.Cached)
	assert.Greater(t, out.ReportBytes, 0)

	assert.Equal(t, models.StatusReportGenerated, repo.statuses["sub-001"])
	assert.Contains(t, string(cache.reports["sub-001"]), "Acme Distribution")
}

func TestHandler_Execute_NotFound(t *testing.T) {
	h := newTestHandler(t, &fakeRepo{byID: map[string]*models.Submission{}}, &fakeCache{})

	_, err := h.Execute(context.Background(), &Input{SubmissionID: "missing"})
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestHandler_Execute_CacheFailureIsNonFatal(t *testing.T) {
	repo := &fakeRepo{byID: map[string]*models.Submission{"sub-001": testSubmission()}}
	cache := &fakeCache{err: errors.New("redis down")}
	h := newTestHandler(t, repo, cache)

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-001"})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, models.StatusReportGenerated, repo.statuses["sub-001"])
}

func TestHandler_Execute_StatusUpdateFailure(t *testing.T) {
	repo := &fakeRepo{
		byID:      map[string]*models.Submission{"sub-001": testSubmission()},
		updateErr: errors.New("connection reset"),
	}
	h := newTestHandler(t, repo, &fakeCache{})

	_, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-001"})
	assert.ErrorIs(t, err, ErrRenderFailed)
}
