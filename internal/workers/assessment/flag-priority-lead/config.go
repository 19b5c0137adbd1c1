// internal/workers/assessment/flag-priority-lead/config.go
package flagprioritylead

// Config holds the score thresholds that drive lead routing.
type Config struct {
	HighPriorityFloor   float64
	MediumPriorityFloor float64
}

func (c *Config) highFloor() float64 {
	if c == nil || c.HighPriorityFloor <= 0 {
		return 80
	}
	return c.HighPriorityFloor
}

func (c *Config) mediumFloor() float64 {
	if c == nil || c.MediumPriorityFloor <= 0 {
		return 60
	}
	return c.MediumPriorityFloor
}
