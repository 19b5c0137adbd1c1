// internal/workers/leads/sync-crm-lead/config.go
package synccrmlead

import "time"

type Config struct {
	LeadSource string
	Timeout    time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}

func (c *Config) leadSource() string {
	if c == nil || c.LeadSource == "" {
		return "Channel Readiness Survey"
	}
	return c.LeadSource
}
