// internal/workers/assessment/score-submission/handler.go
package scoresubmission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"readiness-workers/internal/assessment"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-submission"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "SCORING_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	// nil answers score to zero across the board, same as an empty survey
	answers := input.Answers
	if answers == nil {
		answers = map[string]int{}
	}

	pillarScores, overall := assessment.ComputeScores(answers)
	tier := assessment.TierFor(overall)
	strengths, gaps := assessment.DeriveStrengthsGaps(pillarScores)
	recommendations := assessment.RecommendActions(pillarScores)

	results := make([]models.PillarResult, len(pillarScores))
	for i, ps := range pillarScores {
		results[i] = models.PillarResult{Name: ps.Name, Score: ps.Score, Detail: ps.Detail}
	}

	h.logger.Info("submission scored", map[string]interface{}{
		"overallScore": overall,
		"tier":         tier,
		"answered":     len(answers),
	})

	return &Output{
		PillarScores:    results,
		OverallScore:    overall,
		Tier:            tier,
		Strengths:       strengths,
		Gaps:            gaps,
		Recommendations: recommendations,
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
