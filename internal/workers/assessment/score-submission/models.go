// internal/workers/assessment/score-submission/models.go
package scoresubmission

import "readiness-workers/internal/models"

type Input struct {
	Answers map[string]int `json:"answers"`
}

type Output struct {
	PillarScores    []models.PillarResult `json:"pillarScores"`
	OverallScore    float64               `json:"overallScore"`
	Tier            string                `json:"tier"`
	Strengths       []string              `json:"strengths"`
	Gaps            []string              `json:"gaps"`
	Recommendations []string              `json:"recommendations"`
}
