// internal/workers/data-access/fetch-submission/handler_test.go
package fetchsubmission

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

type fakeRepo struct {
	byID   map[string]*models.Submission
	getErr error
}

func (f *fakeRepo) Append(context.Context, *models.Submission) error { return nil }

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (f *fakeRepo) List(context.Context, int, int) ([]models.SubmissionSummary, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(context.Context, string, string) error { return nil }

func (f *fakeRepo) ExportCSV(context.Context) ([]byte, error) { return nil, nil }

func TestHandler_Execute_Found(t *testing.T) {
	repo := &fakeRepo{byID: map[string]*models.Submission{
		"sub-001": {ID: "sub-001", Company: "Acme Distribution", Status: models.StatusPendingReview},
	}}
	h := NewHandler(&Config{}, repo, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-001"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, "Acme Distribution", out.Submission.Company)
}

func TestHandler_Execute_NotFound(t *testing.T) {
	h := NewHandler(&Config{}, &fakeRepo{byID: map[string]*models.Submission{}}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{SubmissionID: "missing"})
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestHandler_Execute_EmptyID(t *testing.T) {
	h := NewHandler(&Config{}, &fakeRepo{}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestHandler_Execute_QueryError(t *testing.T) {
	repo := &fakeRepo{getErr: errors.New("connection reset")}
	h := NewHandler(&Config{}, repo, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-001"})
	assert.ErrorIs(t, err, ErrQueryFailed)
}
