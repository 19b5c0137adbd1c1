// internal/workers/leads/sync-crm-lead/models.go
package synccrmlead

type Input struct {
	SubmissionID   string  `json:"submissionId"`
	Company        string  `json:"company"`
	ContactName    string  `json:"contactName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone,omitempty"`
	DistributorIDs string  `json:"distributorIds,omitempty"`
	OverallScore   float64 `json:"overallScore"`
	Tier           string  `json:"tier"`
}

type Output struct {
	LeadID  string `json:"leadId"`
	Created bool   `json:"created"`
	Updated bool   `json:"updated"`
}
