// internal/workers/assessment/validate-submission/config.go
package validatesubmission

import "time"

type Config struct {
	Timeout time.Duration
}
