// internal/workers/leads/notify-advisor/models.go
package notifyadvisor

type Input struct {
	SubmissionID string  `json:"submissionId"`
	Company      string  `json:"company"`
	ContactName  string  `json:"contactName"`
	Email        string  `json:"email"`
	OverallScore float64 `json:"overallScore"`
	Tier         string  `json:"tier"`
	Priority     string  `json:"priority"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Sent           bool   `json:"sent"`
}
