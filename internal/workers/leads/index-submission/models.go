// internal/workers/leads/index-submission/models.go
package indexsubmission

import "readiness-workers/internal/models"

type Input struct {
	Submission *models.Submission `json:"submission"`
}

type Output struct {
	Indexed   bool   `json:"indexed"`
	IndexName string `json:"indexName"`
}
