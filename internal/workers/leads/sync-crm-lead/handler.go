// internal/workers/leads/sync-crm-lead/handler.go
package synccrmlead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"readiness-workers/internal/common/crm"
	"readiness-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "sync-crm-lead"
)

var (
	ErrCRMSyncFailed = errors.New("CRM_SYNC_FAILED")
)

// CRMService is satisfied by crm.Client, declared here for mocking.
type CRMService interface {
	SearchLeads(ctx context.Context, email string) ([]crm.Lead, error)
	CreateLead(ctx context.Context, lead *crm.Lead) (string, error)
	UpdateLead(ctx context.Context, leadID string, lead *crm.Lead) error
}

type Handler struct {
	config *Config
	crm    CRMService
	logger logger.Logger
}

func NewHandler(config *Config, crmClient CRMService, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		crm:    crmClient,
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
		h.failJob(client, job, "CRM_SYNC_FAILED", err.Error(), 3)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrCRMSyncFailed)
	}

	first, last := splitName(input.ContactName)
	lead := &crm.Lead{
		Email:          input.Email,
		FirstName:      first,
		LastName:       last,
		Company:        input.Company,
		Phone:          input.Phone,
		Source:         h.config.leadSource(),
		ReadinessScore: input.OverallScore,
		ReadinessTier:  input.Tier,
		DistributorIDs: input.DistributorIDs,
	}

	// repeat assessments update the existing lead instead of duplicating
	existing, err := h.crm.SearchLeads(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrCRMSyncFailed, err)
	}

	if len(existing) > 0 {
		leadID := existing[0].ID
		if err := h.crm.UpdateLead(ctx, leadID, lead); err != nil {
			return nil, fmt.Errorf("%w: update: %v", ErrCRMSyncFailed, err)
		}
		h.logger.Info("crm lead updated", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"leadId":       leadID,
		})
		return &Output{LeadID: leadID, Updated: true}, nil
	}

	leadID, err := h.crm.CreateLead(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("%w: create: %v", ErrCRMSyncFailed, err)
	}

	h.logger.Info("crm lead created", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"leadId":       leadID,
		"tier":         input.Tier,
	})

	return &Output{LeadID: leadID, Created: true}, nil
}

// splitName breaks a full name into CRM first/last fields.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
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
