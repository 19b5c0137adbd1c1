// internal/workers/report/send-report-email/config.go
package sendreportemail

import "time"

type Config struct {
	FromEmail string
	ReplyTo   string
	Timeout   time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}
