// internal/workers/assessment/persist-submission/models.go
package persistsubmission

import "readiness-workers/internal/models"

type Input struct {
	SubmissionID   string                `json:"submissionId,omitempty"`
	Company        string                `json:"company"`
	ContactName    string                `json:"contactName"`
	Email          string                `json:"email"`
	Role           string                `json:"role,omitempty"`
	Phone          string                `json:"phone,omitempty"`
	DistributorIDs string                `json:"distributorIds,omitempty"`
	Answers        map[string]int        `json:"answers"`
	PillarScores   []models.PillarResult `json:"pillarScores"`
	OverallScore   float64               `json:"overallScore"`
	Tier           string                `json:"tier"`
}

type Output struct {
	SubmissionID     string `json:"submissionId"`
	SubmissionStatus string `json:"submissionStatus"`
	CreatedAt        string `json:"createdAt"`
}
