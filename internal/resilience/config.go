package resilience

import (
	"time"
)

// FromStageConfig overlays configured values on StageRetryConfig. Zero values
// keep the stage defaults.
func FromStageConfig(maxAttempts, minBackoffMs, maxBackoffMs int, multiplier float64) RetryConfig {
	cfg := StageRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if minBackoffMs > 0 {
		cfg.MinBackoff = time.Duration(minBackoffMs) * time.Millisecond
		cfg.InitialBackoff = cfg.MinBackoff
	}
	if maxBackoffMs > 0 {
		cfg.MaxBackoff = time.Duration(maxBackoffMs) * time.Millisecond
	}
	if multiplier > 0 {
		cfg.Multiplier = multiplier
	}
	return cfg
}

// FromBreakerConfig converts config values to a BreakerConfig.
func FromBreakerConfig(failureThreshold, resetTimeoutSecs int) BreakerConfig {
	cfg := DefaultBreakerConfig()
	if failureThreshold > 0 {
		cfg.FailureThreshold = failureThreshold
	}
	if resetTimeoutSecs > 0 {
		cfg.ResetTimeout = time.Duration(resetTimeoutSecs) * time.Second
	}
	return cfg
}
