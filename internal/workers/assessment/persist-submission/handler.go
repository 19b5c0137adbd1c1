// internal/workers/assessment/persist-submission/handler.go
package persistsubmission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/models"
	"readiness-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "persist-submission"
)

var (
	ErrPersistFailed       = errors.New("SUBMISSION_PERSIST_FAILED")
	ErrDuplicateSubmission = errors.New("DUPLICATE_SUBMISSION")
)

// Throttle guards against repeat intake for the same email within the
// resubmission window. A nil throttle disables the guard.
type Throttle interface {
	ReserveSubmit(ctx context.Context, email string) error
}

type Handler struct {
	config   *Config
	repo     store.Repository
	throttle Throttle
	logger   logger.Logger
}

func NewHandler(config *Config, repo store.Repository, throttle Throttle, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		repo:     repo,
		throttle: throttle,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		switch {
		case errors.Is(err, ErrPersistFailed):
			errorCode = "SUBMISSION_PERSIST_FAILED"
			retries = 3
		case errors.Is(err, ErrDuplicateSubmission):
			errorCode = "DUPLICATE_SUBMISSION"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	submissionID := input.SubmissionID
	if submissionID == "" {
		submissionID = uuid.New().String()

		// fresh intake only; pre-assigned ids come from the HTTP server,
		// which already reserved the throttle slot
		if h.throttle != nil {
			if err := h.throttle.ReserveSubmit(ctx, input.Email); err != nil {
				if errors.Is(err, store.ErrThrottled) {
					return nil, fmt.Errorf("%w: window active for %s", ErrDuplicateSubmission, input.Email)
				}
				h.logger.Warn("throttle check unavailable", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	now := time.Now().UTC()

	sub := &models.Submission{
		ID:             submissionID,
		Timestamp:      now,
		Company:        input.Company,
		ContactName:    input.ContactName,
		Email:          input.Email,
		Role:           input.Role,
		Phone:          input.Phone,
		DistributorIDs: input.DistributorIDs,
		Answers:        input.Answers,
		PillarScores:   input.PillarScores,
		OverallScore:   input.OverallScore,
		Tier:           input.Tier,
		Status:         models.StatusPendingReview,
	}

	if err := h.repo.Append(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	metrics.SubmissionsReceived.WithLabelValues(sub.Tier).Inc()

	h.logger.Info("submission persisted", map[string]interface{}{
		"submissionId": submissionID,
		"company":      input.Company,
		"overallScore": input.OverallScore,
		"tier":         input.Tier,
	})

	return &Output{
		SubmissionID:     submissionID,
		SubmissionStatus: models.StatusPendingReview,
		CreatedAt:        now.Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
