// internal/workers/leads/index-submission/handler.go
package indexsubmission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "index-submission"
)

var (
	ErrIndexFailed = errors.New("SEARCH_INDEX_FAILED")
)

// Indexer is satisfied by store.SearchIndex.
type Indexer interface {
	Index(ctx context.Context, sub *models.Submission) error
}

type Handler struct {
	config *Config
	index  Indexer
	logger logger.Logger
}

func NewHandler(config *Config, index Indexer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.timeout())
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "SEARCH_INDEX_FAILED", err.Error(), 3)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Submission == nil || input.Submission.ID == "" {
		return nil, fmt.Errorf("%w: submission payload is empty", ErrIndexFailed)
	}

	if err := h.index.Index(ctx, input.Submission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}

	h.logger.Info("submission indexed", map[string]interface{}{
		"submissionId": input.Submission.ID,
		"company":      input.Submission.Company,
	})

	return &Output{Indexed: true, IndexName: h.config.IndexName}, nil
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
