// internal/workers/leads/notify-advisor/handler_test.go
package notifyadvisor

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readiness-workers/internal/common/logger"
)

type fakeSNS struct {
	published []*sns.PublishInput
	err       error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.published = append(f.published, params)
	return &sns.PublishOutput{MessageId: aws.String("msg-001")}, nil
}

func createTestInput() *Input {
	return &Input{
		SubmissionID: "sub-001",
		Company:      "Acme Distribution",
		ContactName:  "Jordan Reyes",
		Email:        "jordan@acme.example",
		OverallScore: 92,
		Tier:         "Optimized",
		Priority:     "high",
	}
}

func TestHandler_Execute_Publishes(t *testing.T) {
	fs := &fakeSNS{}
	h := NewHandler(&Config{TopicARN: "arn:aws:sns:us-east-1:123456789012:advisors"}, fs, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.True(t, out.Sent)
	assert.Equal(t, "msg-001", out.NotificationID)

	require.Len(t, fs.published, 1)
	msg := aws.ToString(fs.published[0].Message)
	assert.Contains(t, msg, "Acme Distribution")
	assert.Contains(t, msg, "92")
	assert.Contains(t, msg, "Optimized")
	assert.Contains(t, msg, "sub-001")
}

func TestHandler_Execute_NoTopicConfigured(t *testing.T) {
	fs := &fakeSNS{}
	h := NewHandler(&Config{}, fs, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.False(t, out.Sent)
	assert.Empty(t, fs.published)
}

func TestHandler_Execute_PublishError(t *testing.T) {
	fs := &fakeSNS{err: errors.New("throttled")}
	h := NewHandler(&Config{TopicARN: "arn:aws:sns:us-east-1:123456789012:advisors"}, fs, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), createTestInput())
	assert.ErrorIs(t, err, ErrNotificationSendFailed)
}
