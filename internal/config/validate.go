// internal/config/validate.go
package config

import (
	"fmt"
)

var validKinds = map[string]bool{
	"float": true,
	"enum":  true,
	"pair":  true,
}

var validEvents = map[string]bool{
	"after":  true,
	"before": true,
	"image":  true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	b := &cfg.Bridge

	// ------------------------------------------------------------
	// SOURCE + POLL
	// ------------------------------------------------------------

	if b.Source.Endpoint == "" {
		return fmt.Errorf("source: endpoint required")
	}
	if b.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// CHANNEL BINDINGS
	// ------------------------------------------------------------

	if len(b.Channels) == 0 {
		return fmt.Errorf("channels: at least one channel binding required")
	}

	byName := make(map[string]ChannelConfig)

	for _, ch := range b.Channels {
		if ch.Name == "" {
			return fmt.Errorf("channels: name required")
		}
		if _, exists := byName[ch.Name]; exists {
			return fmt.Errorf("channels: duplicate name %q", ch.Name)
		}
		if !validKinds[ch.Kind] {
			return fmt.Errorf("channel %q: unknown kind %q", ch.Name, ch.Kind)
		}
		if ch.Kind == "enum" && len(ch.Enum) == 0 {
			return fmt.Errorf("channel %q: enum kind requires an enum table", ch.Name)
		}
		if ch.Kind != "enum" && len(ch.Enum) > 0 {
			return fmt.Errorf("channel %q: enum table only valid for enum kind", ch.Name)
		}
		if ch.Scale < 0 {
			return fmt.Errorf("channel %q: scale must be >= 0", ch.Name)
		}
		byName[ch.Name] = ch
	}

	// ------------------------------------------------------------
	// DETECTOR
	// ------------------------------------------------------------

	d := &b.Detector

	// Every named detector channel must resolve to a declared binding.
	refs := map[string]string{
		"temperature":       d.Channels.Temperature,
		"humidity":          d.Channels.Humidity,
		"status":            d.Channels.Status,
		"roi_mode":          d.Channels.RoiMode,
		"frame_rate":        d.Channels.FrameRate,
		"actual_frame_rate": d.Channels.ActualFrameRate,
		"beam_xy":           d.Channels.BeamXY,
		"distance":          d.Distance.Channel,
	}
	for role, name := range refs {
		if name == "" {
			continue // not wired on this beamline
		}
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("detector: %s references undeclared channel %q", role, name)
		}
	}

	if d.Channels.RoiMode != "" {
		if len(d.RoiModes) == 0 {
			return fmt.Errorf("detector: roi_modes list required when roi_mode channel is wired")
		}
		if !byName[d.Channels.RoiMode].Writable {
			return fmt.Errorf("detector: roi_mode channel %q must be writable", d.Channels.RoiMode)
		}
	}

	if d.Tolerance < 0 {
		return fmt.Errorf("detector: tolerance must be >= 0")
	}
	if d.PixelMin < 0 || d.PixelMax < 0 || (d.PixelMax > 0 && d.PixelMin > d.PixelMax) {
		return fmt.Errorf("detector: invalid pixel limits %d..%d", d.PixelMin, d.PixelMax)
	}
	if d.Distance.Channel != "" && d.Distance.LimitLow > d.Distance.LimitHigh {
		return fmt.Errorf("detector: distance limit_low > limit_high")
	}

	// ------------------------------------------------------------
	// AUTOPROCESSING PROGRAMS
	// ------------------------------------------------------------

	seenEvent := make(map[string]bool)
	for _, p := range b.AutoProc.Programs {
		if !validEvents[p.Event] {
			return fmt.Errorf("autoprocessing: unknown event %q", p.Event)
		}
		if seenEvent[p.Event] {
			return fmt.Errorf("autoprocessing: duplicate program for event %q", p.Event)
		}
		if p.Executable == "" {
			return fmt.Errorf("autoprocessing: event %q: executable required", p.Event)
		}
		seenEvent[p.Event] = true
	}

	return nil
}
