// internal/workers/report/generate-report/models.go
package generatereport

type Input struct {
	SubmissionID string `json:"submissionId"`
}

type Output struct {
	SubmissionID     string `json:"submissionId"`
	SubmissionStatus string `json:"submissionStatus"`
	ReportBytes      int    `json:"reportBytes"`
	Cached           bool   `json:"cached"`
}
