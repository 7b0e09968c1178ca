// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	Source   SourceConfig    `yaml:"source"`
	Poll     PollConfig      `yaml:"poll"`
	Channels []ChannelConfig `yaml:"channels"`
	Detector DetectorConfig  `yaml:"detector"`
	AutoProc AutoProcConfig  `yaml:"autoprocessing"`
	Trigger  TriggerConfig   `yaml:"trigger"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- CHANNEL BINDING ----

// ChannelConfig binds one named device channel to register geometry
// plus the decode rule for its value.
type ChannelConfig struct {
	Name     string  `yaml:"name"`
	Address  uint16  `yaml:"address"`
	Kind     string  `yaml:"kind"` // float | enum | pair
	Scale    float64 `yaml:"scale"`
	Writable bool    `yaml:"writable"`

	// Enum maps raw register values to channel strings (kind=enum only).
	Enum map[uint16]string `yaml:"enum"`
}

// ---- DETECTOR ----

type DetectorConfig struct {
	CollectName       string   `yaml:"collect_name"`
	ShutterName       string   `yaml:"shutter_name"`
	Tolerance         float64  `yaml:"tolerance"`
	TempThreshold     float64  `yaml:"temp_threshold"`
	HumidityThreshold float64  `yaml:"humidity_threshold"`
	PixelMin          int      `yaml:"px_min"`
	PixelMax          int      `yaml:"px_max"`
	RoiModes          []string `yaml:"roi_modes"`
	HasShutterless    bool     `yaml:"has_shutterless"`

	Channels DetectorChannels `yaml:"channels"`
	Distance DistanceConfig   `yaml:"distance"`
}

// DetectorChannels names the channel bindings the detector subscribes to.
// An empty name means the channel is not wired on this beamline.
type DetectorChannels struct {
	Temperature     string `yaml:"temperature"`
	Humidity        string `yaml:"humidity"`
	Status          string `yaml:"status"`
	RoiMode         string `yaml:"roi_mode"`
	FrameRate       string `yaml:"frame_rate"`
	ActualFrameRate string `yaml:"actual_frame_rate"`
	BeamXY          string `yaml:"beam_xy"`
}

type DistanceConfig struct {
	Channel   string  `yaml:"channel"`
	LimitLow  float64 `yaml:"limit_low"`
	LimitHigh float64 `yaml:"limit_high"`
}

// ---- AUTOPROCESSING ----

type AutoProcConfig struct {
	Programs []ProgramConfig `yaml:"programs"`
}

// ProgramConfig binds one collection event kind to an external executable.
type ProgramConfig struct {
	Event      string `yaml:"event"` // after | before | image
	Executable string `yaml:"executable"`
}

// ---- TRIGGER ----

type TriggerConfig struct {
	Listen    string `yaml:"listen"`
	TimeoutMs int    `yaml:"timeout_ms"`
}
