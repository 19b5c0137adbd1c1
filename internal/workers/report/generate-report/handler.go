// internal/workers/report/generate-report/handler.go
package generatereport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/models"
	"readiness-workers/internal/report"
	"readiness-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-report"
)

var (
	ErrSubmissionNotFound = errors.New("SUBMISSION_NOT_FOUND")
	ErrRenderFailed       = errors.New("REPORT_RENDER_FAILED")
)

// ReportCache is satisfied by store.ArtifactCache.
type ReportCache interface {
	PutReport(ctx context.Context, submissionID string, html []byte) error
}

type Handler struct {
	config   *Config
	repo     store.Repository
	renderer *report.Renderer
	cache    ReportCache
	logger   logger.Logger
}

func NewHandler(config *Config, repo store.Repository, renderer *report.Renderer, cache ReportCache, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		repo:     repo,
		renderer: renderer,
		cache:    cache,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.timeout())
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "REPORT_RENDER_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrSubmissionNotFound) {
			errorCode = "SUBMISSION_NOT_FOUND"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sub, err := h.repo.GetByID(ctx, input.SubmissionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, input.SubmissionID)
		}
		return nil, fmt.Errorf("%w: load submission: %v", ErrRenderFailed, err)
	}

	html, err := h.renderer.Render(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	cached := false
	if h.cache != nil {
		if err := h.cache.PutReport(ctx, sub.ID, html); err != nil {
			// the report can be re-rendered on demand, so a cache miss is not fatal
			h.logger.Warn("report cache write failed", map[string]interface{}{
				"submissionId": sub.ID,
				"error":        err,
			})
		} else {
			cached = true
		}
	}

	if err := h.repo.UpdateStatus(ctx, sub.ID, models.StatusReportGenerated); err != nil {
		return nil, fmt.Errorf("%w: update status: %v", ErrRenderFailed, err)
	}

	metrics.ReportsGenerated.Inc()

	h.logger.Info("report generated", map[string]interface{}{
		"submissionId": sub.ID,
		"reportBytes":  len(html),
		"cached":       cached,
	})

	return &Output{
		SubmissionID:     sub.ID,
		SubmissionStatus: models.StatusReportGenerated,
		ReportBytes:      len(html),
		Cached:           cached,
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
