// internal/workers/report/send-report-email/models.go
package sendreportemail

type Input struct {
	SubmissionID string `json:"submissionId"`
}

type Output struct {
	SubmissionID     string `json:"submissionId"`
	SubmissionStatus string `json:"submissionStatus"`
	MessageID        string `json:"messageId"`
	Recipient        string `json:"recipient"`
}
