// internal/workers/assessment/validate-submission/handler.go
package validatesubmission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"readiness-workers/internal/assessment"
	"readiness-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-submission"
)

var (
	ErrValidationFailed = errors.New("SUBMISSION_VALIDATION_FAILED")
)

// submissionSchema enforces required contact fields. Answer ratings are NOT
// range-checked here: missing or out-of-range values score as zero later
// instead of bouncing the submission.
var submissionSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"company", "contactName", "email", "role"},
	"properties": map[string]interface{}{
		"company":     map[string]interface{}{"type": "string", "minLength": 1},
		"contactName": map[string]interface{}{"type": "string", "minLength": 1},
		"email":       map[string]interface{}{"type": "string", "pattern": `^[^@\s]+@[^@\s]+$`},
		"role":        map[string]interface{}{"type": "string", "minLength": 1},
		"phone":       map[string]interface{}{"type": "string"},
		"answers": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": map[string]interface{}{"type": "integer"},
		},
	},
}

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

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout())
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "SUBMISSION_VALIDATION_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) timeout() time.Duration {
	if h.config != nil && h.config.Timeout > 0 {
		return h.config.Timeout
	}
	return 5 * time.Second
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	normalized := normalize(input)

	doc := map[string]interface{}{
		"company":     normalized.Company,
		"contactName": normalized.ContactName,
		"email":       normalized.Email,
		"role":        normalized.Role,
		"phone":       normalized.Phone,
	}
	answersDoc := make(map[string]interface{}, len(normalized.Answers))
	for k, v := range normalized.Answers {
		answersDoc[k] = v
	}
	doc["answers"] = answersDoc

	schemaLoader := gojsonschema.NewGoLoader(submissionSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		h.logger.Warn("submission rejected", map[string]interface{}{
			"errors": errs,
		})
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}

	h.logger.Info("submission validated", map[string]interface{}{
		"company":  normalized.Company,
		"email":    normalized.Email,
		"answered": len(normalized.Answers),
	})

	return &Output{
		Valid:          true,
		Company:        normalized.Company,
		ContactName:    normalized.ContactName,
		Email:          normalized.Email,
		Role:           normalized.Role,
		Phone:          normalized.Phone,
		DistributorIDs: normalized.DistributorIDs,
		Answers:        normalized.Answers,
	}, nil
}

// normalize trims contact fields, lowercases the email, and drops answer
// codes that are not part of the question catalog.
func normalize(input *Input) *Input {
	out := &Input{
		Company:        strings.TrimSpace(input.Company),
		ContactName:    strings.TrimSpace(input.ContactName),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Role:           strings.TrimSpace(input.Role),
		Phone:          strings.TrimSpace(input.Phone),
		DistributorIDs: strings.TrimSpace(input.DistributorIDs),
		Answers:        make(map[string]int),
	}
	for code, rating := range input.Answers {
		if _, known := assessment.Questions[code]; known {
			out.Answers[code] = rating
		}
	}
	return out
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
