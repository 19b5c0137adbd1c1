// internal/workers/assessment/validate-submission/models.go
package validatesubmission

type Input struct {
	Company        string         `json:"company"`
	ContactName    string         `json:"contactName"`
	Email          string         `json:"email"`
	Role           string         `json:"role"`
	Phone          string         `json:"phone,omitempty"`
	DistributorIDs string         `json:"distributorIds,omitempty"`
	Answers        map[string]int `json:"answers"`
}

type Output struct {
	Valid            bool           `json:"valid"`
	Company          string         `json:"company"`
	ContactName      string         `json:"contactName"`
	Email            string         `json:"email"`
	Role             string         `json:"role"`
	Phone            string         `json:"phone,omitempty"`
	DistributorIDs   string         `json:"distributorIds,omitempty"`
	Answers          map[string]int `json:"answers"`
	ValidationErrors []string       `json:"validationErrors,omitempty"`
}
