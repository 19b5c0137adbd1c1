// internal/workers/leads/index-submission/config.go
package indexsubmission

import "time"

type Config struct {
	IndexName string
	Timeout   time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.Timeout
}
