// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bridge

	if b.Source.TimeoutMs == 0 {
		b.Source.TimeoutMs = 1000
	}
	if b.Poll.IntervalMs == 0 {
		b.Poll.IntervalMs = 1000
	}
	if b.Trigger.TimeoutMs == 0 {
		b.Trigger.TimeoutMs = 2000
	}

	// Analog jitter gate. Matches the device default when unset.
	if b.Detector.Tolerance == 0 {
		b.Detector.Tolerance = 0.1
	}

	for i := range b.Channels {
		if b.Channels[i].Scale == 0 {
			b.Channels[i].Scale = 1.0
		}
	}
}
