// internal/workers/assessment/persist-submission/handler_test.go
package persistsubmission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"
	"readiness-workers/internal/store"
)

// ==========================
// Fake Repository
// ==========================

type fakeRepo struct {
	appended  []*models.Submission
	appendErr error
}

func (f *fakeRepo) Append(_ context.Context, sub *models.Submission) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, sub)
	return nil
}

func (f *fakeRepo) GetByID(context.Context, string) (*models.Submission, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepo) List(context.Context, int, int) ([]models.SubmissionSummary, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(context.Context, string, string) error { return nil }

func (f *fakeRepo) ExportCSV(context.Context) ([]byte, error) { return nil, nil }

func createTestInput() *Input {
	return &Input{
		Company:     "Acme Distribution",
		ContactName: "Jordan Reyes",
		Email:       "jordan@acme.example",
		Role:        "VP Channel",
		Answers:     map[string]int{"A1": 5, "A2": 5},
		PillarScores: []models.PillarResult{
			{Name: "A. Channel Strategy & Alignment", Score: 100},
			{Name: "B. Partner Recruitment & Onboarding", Score: 0},
			{Name: "C. Partner Enablement & Training", Score: 0},
			{Name: "D. Channel Operations & Management", Score: 0},
			{Name: "E. Growth Readiness", Score: 0},
		},
		OverallScore: 20,
		Tier:         "Emerging",
	}
}

// ==========================
// Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(&Config{}, repo, nil, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.SubmissionID)
	assert.Equal(t, models.StatusPendingReview, out.SubmissionStatus)
	assert.NotEmpty(t, out.CreatedAt)

	require.Len(t, repo.appended, 1)
	saved := repo.appended[0]
	assert.Equal(t, out.SubmissionID, saved.ID)
	assert.Equal(t, "Acme Distribution", saved.Company)
	assert.Equal(t, models.StatusPendingReview, saved.Status)
	assert.Equal(t, 20.0, saved.OverallScore)
}

func TestHandler_Execute_KeepsProvidedID(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(&Config{}, repo, nil, logger.NewNoOpLogger())

	input := createTestInput()
	input.SubmissionID = "sub-preassigned"

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "sub-preassigned", out.SubmissionID)
}

func TestHandler_Execute_RepositoryError(t *testing.T) {
	repo := &fakeRepo{appendErr: errors.New("connection refused")}
	h := NewHandler(&Config{}, repo, nil, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), createTestInput())
	assert.ErrorIs(t, err, ErrPersistFailed)
}

type fakeThrottle struct {
	reserved []string
	err      error
}

func (f *fakeThrottle) ReserveSubmit(_ context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	f.reserved = append(f.reserved, email)
	return nil
}

func TestHandler_Execute_ReservesThrottleSlot(t *testing.T) {
	repo := &fakeRepo{}
	throttle := &fakeThrottle{}
	h := NewHandler(&Config{}, repo, throttle, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"jordan@acme.example"}, throttle.reserved)
}

func TestHandler_Execute_DuplicateWithinWindow(t *testing.T) {
	repo := &fakeRepo{}
	throttle := &fakeThrottle{err: store.ErrThrottled}
	h := NewHandler(&Config{}, repo, throttle, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), createTestInput())
	assert.ErrorIs(t, err, ErrDuplicateSubmission)
	assert.Empty(t, repo.appended)
}

func TestHandler_Execute_ThrottleOutageDoesNotBlock(t *testing.T) {
	repo := &fakeRepo{}
	throttle := &fakeThrottle{err: errors.New("redis down")}
	h := NewHandler(&Config{}, repo, throttle, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.SubmissionID)
	require.Len(t, repo.appended, 1)
}

func TestHandler_Execute_PreassignedIDSkipsThrottle(t *testing.T) {
	repo := &fakeRepo{}
	throttle := &fakeThrottle{err: store.ErrThrottled}
	h := NewHandler(&Config{}, repo, throttle, logger.NewNoOpLogger())

	input := createTestInput()
	input.SubmissionID = "sub-preassigned"

	_, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, repo.appended, 1)
}

func TestHandler_Execute_UniqueIDs(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(&Config{}, repo, nil, logger.NewNoOpLogger())

	out1, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	out2, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.NotEqual(t, out1.SubmissionID, out2.SubmissionID)
}
