package resilience

import "time"

// CircuitBreakerConfig tunes the breaker guarding an outbound dependency.
// Zero or negative tuning fields fall back to defaults via WithDefaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int           // consecutive failures before the circuit opens
	OpenTimeout      time.Duration // how long the circuit stays open before probing
	HalfOpenMaxReq   int           // probe requests allowed while half-open
}

// WithDefaults fills unset tuning fields; Enabled is left as configured.
func (cfg CircuitBreakerConfig) WithDefaults() CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = 2
	}
	return cfg
}
