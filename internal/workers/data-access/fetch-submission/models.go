// internal/workers/data-access/fetch-submission/models.go
package fetchsubmission

import "readiness-workers/internal/models"

type Input struct {
	SubmissionID string `json:"submissionId"`
}

type Output struct {
	Submission *models.Submission `json:"submission"`
	Found      bool               `json:"found"`
}
