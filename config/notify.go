package config

import "time"

// NotifyConfig controls the side-effect pipeline's per-recipient fan-out.
type NotifyConfig struct {
	// MaxConcurrent bounds how many recipients are processed at once.
	MaxConcurrent int `env:"MAX_CONCURRENT" envDefault:"8"`

	// DispatchTimeout bounds the whole fan-out for one event. A slow
	// email provider call cannot hold the pipeline past this.
	DispatchTimeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to notify configuration values.
func (n *NotifyConfig) Sanitize() {
	if n.MaxConcurrent < 1 {
		n.MaxConcurrent = 1
	}
	if n.DispatchTimeout <= 0 {
		n.DispatchTimeout = 30 * time.Second
	}
}
