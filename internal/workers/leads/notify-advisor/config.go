// internal/workers/leads/notify-advisor/config.go
package notifyadvisor

import "time"

type Config struct {
	TopicARN string
	Timeout  time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}
