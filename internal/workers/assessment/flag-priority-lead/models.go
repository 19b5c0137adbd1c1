// internal/workers/assessment/flag-priority-lead/models.go
package flagprioritylead

const (
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityStandard = "standard"
)

type Input struct {
	SubmissionID string  `json:"submissionId"`
	OverallScore float64 `json:"overallScore"`
	Tier         string  `json:"tier"`
	Company      string  `json:"company,omitempty"`
}

type Output struct {
	Priority     string `json:"priority"`
	HighPriority bool   `json:"highPriority"`
	NotifyReason string `json:"notifyReason,omitempty"`
}
