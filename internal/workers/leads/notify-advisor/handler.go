// internal/workers/leads/notify-advisor/handler.go
package notifyadvisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"readiness-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "notify-advisor"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// SNSService is the subset of the SNS client used here, declared for mocking.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	sns    SNSService
	logger logger.Logger
}

func NewHandler(config *Config, snsClient SNSService, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		sns:    snsClient,
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
		h.failJob(client, job, "NOTIFICATION_SEND_FAILED", err.Error(), 3)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.TopicARN == "" {
		// advisor notifications disabled, treat as a no-op so the process continues
		h.logger.Warn("advisor topic not configured, skipping notification", map[string]interface{}{
			"submissionId": input.SubmissionID,
		})
		return &Output{Sent: false}, nil
	}

	message := fmt.Sprintf(
		"New %s-priority Channel Readiness lead: %s (%s, %s) scored %.0f, %s tier. Submission %s is awaiting review.",
		input.Priority, input.Company, input.ContactName, input.Email,
		math.Round(input.OverallScore), input.Tier, input.SubmissionID,
	)

	out, err := h.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String(fmt.Sprintf("Channel Readiness lead: %s (%.0f)", input.Company, math.Round(input.OverallScore))),
		Message:  aws.String(message),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
	}

	h.logger.Info("advisor notified", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"messageId":    aws.ToString(out.MessageId),
		"priority":     input.Priority,
	})

	return &Output{NotificationID: aws.ToString(out.MessageId), Sent: true}, nil
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
