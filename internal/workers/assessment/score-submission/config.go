// internal/workers/assessment/score-submission/config.go
package scoresubmission

import "time"

type Config struct {
	Timeout time.Duration
}
