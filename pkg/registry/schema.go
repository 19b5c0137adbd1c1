// pkg/registry/schema.go
package registry

// Worker categories used in configs/activity-registry.json.
const (
	CategoryAssessment = "assessment"
	CategoryDataAccess = "data-access"
	CategoryLeads      = "leads"
	CategoryReport     = "report"
)

// ActivityRegistry is the machine-readable catalog of Zeebe service tasks
// this module implements, one Activity per task type.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes a single worker: where it runs, what variables it reads
// and writes, and how jobs fail. Schemas map variable name to a JSON type
// name ("string", "number", "object", ...).
type Activity struct {
	ID                   string            `json:"id"`
	DisplayName          string            `json:"displayName"`
	Description          string            `json:"description"`
	Category             string            `json:"category"`
	Version              string            `json:"version"`
	TaskType             string            `json:"taskType"`
	ImplementationStatus string            `json:"implementationStatus"`
	InputSchema          map[string]string `json:"inputSchema"`
	OutputSchema         map[string]string `json:"outputSchema"`
	ErrorCodes           []string          `json:"errorCodes"`
	Timeout              string            `json:"timeout"`
	Retries              int               `json:"retries"`
	Workflows            []string          `json:"workflows"`
	Tags                 []string          `json:"tags"`
}
