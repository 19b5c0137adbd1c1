// internal/workers/data-access/fetch-submission/config.go
package fetchsubmission

import "time"

type Config struct {
	Timeout time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.Timeout
}
