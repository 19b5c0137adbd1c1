// internal/models/submission.go
package models

import "time"

// Submission statuses follow the report pipeline lifecycle.
const (
	StatusPendingReview   = "pending_review"
	StatusReportGenerated = "report_generated"
	StatusReportSent      = "report_sent"
)

// Submission is one completed Channel Readiness survey plus its computed scores.
type Submission struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Company        string         `json:"company"`
	ContactName    string         `json:"contactName"`
	Email          string         `json:"email"`
	Role           string         `json:"role,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	DistributorIDs string         `json:"distributorIds,omitempty"`
	Answers        map[string]int `json:"answers"`
	PillarScores   []PillarResult `json:"pillarScores"`
	OverallScore   float64        `json:"overallScore"`
	Tier           string         `json:"tier"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// PillarResult mirrors one scored pillar as stored and rendered.
type PillarResult struct {
	Name   string         `json:"name"`
	Score  float64        `json:"score"`
	Detail map[string]int `json:"detail,omitempty"`
}

// SurveyRequest is the intake API payload before scoring.
type SurveyRequest struct {
	Company        string         `json:"company"`
	ContactName    string         `json:"contactName"`
	Email          string         `json:"email"`
	Role           string         `json:"role,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	DistributorIDs string         `json:"distributorIds,omitempty"`
	Answers        map[string]int `json:"answers"`
}

// SubmissionSummary is the admin list view row.
type SubmissionSummary struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Company      string    `json:"company"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email"`
	OverallScore float64   `json:"overallScore"`
	Tier         string    `json:"tier"`
	Status       string    `json:"status"`
}
