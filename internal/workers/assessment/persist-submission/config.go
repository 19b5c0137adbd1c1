// internal/workers/assessment/persist-submission/config.go
package persistsubmission

import "time"

type Config struct {
	Timeout time.Duration
}
