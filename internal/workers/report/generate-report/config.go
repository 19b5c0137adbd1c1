// internal/workers/report/generate-report/config.go
package generatereport

import "time"

type Config struct {
	Timeout time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}
