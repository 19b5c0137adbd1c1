// internal/workers/report/send-report-email/handler.go
package sendreportemail

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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-report-email"
)

var (
	ErrSubmissionNotFound = errors.New("SUBMISSION_NOT_FOUND")
	ErrEmailSendFailed    = errors.New("REPORT_EMAIL_FAILED")
)

// SESService is the subset of the SES client used here, declared for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// ReportCache is satisfied by store.ArtifactCache.
type ReportCache interface {
	GetReport(ctx context.Context, submissionID string) ([]byte, error)
}

type Handler struct {
	config   *Config
	repo     store.Repository
	cache    ReportCache
	renderer *report.Renderer
	ses      SESService
	logger   logger.Logger
}

func NewHandler(config *Config, repo store.Repository, cache ReportCache, renderer *report.Renderer, sesClient SESService, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		repo:     repo,
		cache:    cache,
		renderer: renderer,
		ses:      sesClient,
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
		errorCode := "REPORT_EMAIL_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrSubmissionNotFound) {
			errorCode = "SUBMISSION_NOT_FOUND"
			retries = 0
		}
		metrics.ReportsSent.WithLabelValues("failed").Inc()
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
		return nil, fmt.Errorf("%w: load submission: %v", ErrEmailSendFailed, err)
	}

	reportHTML, err := h.loadReport(ctx, sub)
	if err != nil {
		return nil, err
	}

	email, err := report.BuildEmail(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	// the full report rides inline below the summary body
	htmlBody := email.HTMLBody + "\n<hr>\n" + string(reportHTML)

	sesInput := &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{sub.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(email.TextBody)},
			},
		},
	}
	if h.config.ReplyTo != "" {
		sesInput.ReplyToAddresses = []string{h.config.ReplyTo}
	}

	out, err := h.ses.SendEmail(ctx, sesInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	if err := h.repo.UpdateStatus(ctx, sub.ID, models.StatusReportSent); err != nil {
		return nil, fmt.Errorf("%w: update status: %v", ErrEmailSendFailed, err)
	}

	metrics.ReportsSent.WithLabelValues("sent").Inc()

	h.logger.Info("report email sent", map[string]interface{}{
		"submissionId": sub.ID,
		"recipient":    sub.Email,
		"messageId":    aws.ToString(out.MessageId),
	})

	return &Output{
		SubmissionID:     sub.ID,
		SubmissionStatus: models.StatusReportSent,
		MessageID:        aws.ToString(out.MessageId),
		Recipient:        sub.Email,
	}, nil
}

// loadReport prefers the cached artifact, falling back to a fresh render when
// the cache entry has expired.
func (h *Handler) loadReport(ctx context.Context, sub *models.Submission) ([]byte, error) {
	if h.cache != nil {
		cached, err := h.cache.GetReport(ctx, sub.ID)
		if err != nil {
			h.logger.Warn("report cache read failed", map[string]interface{}{
				"submissionId": sub.ID,
				"error":        err,
			})
		} else if cached != nil {
			return cached, nil
		}
	}

	html, err := h.renderer.Render(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrEmailSendFailed, err)
	}
	return html, nil
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
