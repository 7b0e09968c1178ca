// internal/detector/detector.go

// Package detector adapts the detector device channels into framework
// events. It caches the last-known readings, annotates analog values
// with threshold flags and composes the collection-readiness message.
package detector

import (
	"fmt"
	"log"
	"math"

	"github.com/mxberg/beamline-bridge/internal/channel"
	"github.com/mxberg/beamline-bridge/internal/event"
)

// MaxExposureTime is the fixed upper exposure-time limit in seconds.
const MaxExposureTime = 6000

// Motor is the distance-motor collaborator.
type Motor interface {
	Position() (float64, error)
	Limits() (low, high float64, err error)
}

// Channels names the provider channels the detector subscribes to.
// Empty names are tolerated: the feature stays at defaults.
type Channels struct {
	Temperature     string
	Humidity        string
	Status          string
	RoiMode         string
	FrameRate       string
	ActualFrameRate string
	BeamXY          string
}

// Config carries the static detector properties.
type Config struct {
	CollectName       string
	ShutterName       string
	Tolerance         float64
	TempThreshold     float64
	HumidityThreshold float64
	PixelMin          int
	PixelMax          int
	RoiModes          []string
	HasShutterless    bool
	Channels          Channels
}

// Detector is the device-status adapter. All mutable state is touched
// only from the provider's serial callback dispatch; getters that read
// cached fields are expected to run on that same dispatch path or
// between dispatches.
type Detector struct {
	cfg      Config
	provider channel.Provider
	motor    Motor
	emitter  event.Emitter

	temperature     float64
	humidity        float64
	lastStatus      string
	roiMode         int
	expTimeMin      float64
	expTimeMax      float64
	actualFrameRate float64

	unsubs []func()
}

// New creates a detector adapter. Call Attach to subscribe channels.
func New(cfg Config, provider channel.Provider, motor Motor, emitter event.Emitter) *Detector {
	return &Detector{
		cfg:        cfg,
		provider:   provider,
		motor:      motor,
		emitter:    emitter,
		lastStatus: event.StatusUninitialized,
		roiMode:    -1,
	}
}

// Attach subscribes the update channels. A missing or undeclared
// channel is reported once here; the dependent feature then reports
// defaults and never raises again.
func (d *Detector) Attach() {
	d.subscribe(d.cfg.Channels.Temperature, "Temperature", d.temperatureChanged)
	d.subscribe(d.cfg.Channels.Humidity, "Humidity", d.humidityChanged)
	d.subscribe(d.cfg.Channels.Status, "Status", d.statusChanged)
	d.subscribe(d.cfg.Channels.RoiMode, "ROI mode", d.roiModeChanged)
	d.subscribe(d.cfg.Channels.FrameRate, "Frame rate", d.frameRateChanged)
	d.subscribe(d.cfg.Channels.ActualFrameRate, "Actual frame rate", d.actualFrameRateChanged)
}

// Detach releases all channel subscriptions.
func (d *Detector) Detach() {
	for _, u := range d.unsubs {
		u()
	}
	d.unsubs = nil
}

func (d *Detector) subscribe(name, label string, fn func(channel.Value)) {
	if name == "" {
		log.Printf("detector: %s channel not defined", label)
		return
	}
	unsub, err := d.provider.Subscribe(name, fn)
	if err != nil {
		log.Printf("detector: %s channel not defined: %v", label, err)
		return
	}
	d.unsubs = append(d.unsubs, unsub)
}

// ---- channel reactions ----

func (d *Detector) temperatureChanged(v channel.Value) {
	if math.Abs(d.temperature-v.Float) < d.cfg.Tolerance {
		return
	}
	d.temperature = v.Float
	d.emitter.Emit(event.TemperatureChanged, v.Float, v.Float < d.cfg.TempThreshold)
	d.refreshStatus()
}

func (d *Detector) humidityChanged(v channel.Value) {
	if math.Abs(d.humidity-v.Float) < d.cfg.Tolerance {
		return
	}
	d.humidity = v.Float
	d.emitter.Emit(event.HumidityChanged, v.Float, v.Float < d.cfg.HumidityThreshold)
	d.refreshStatus()
}

func (d *Detector) statusChanged(v channel.Value) {
	d.lastStatus = v.Str
	d.refreshStatus()
}

// refreshStatus recomposes the readiness message from cached state and
// emits it. Priority order is fixed: temperature, humidity,
// calibrating, not ready.
func (d *Detector) refreshStatus() {
	message := ""

	if d.temperature > d.cfg.TempThreshold {
		log.Printf("detector: temperature %0.2f greater than allowed %0.2f",
			d.temperature, d.cfg.TempThreshold)
		message += event.MsgTemperatureExceeded
	}
	if d.humidity > d.cfg.HumidityThreshold {
		log.Printf("detector: humidity %0.2f greater than allowed %0.2f",
			d.humidity, d.cfg.HumidityThreshold)
		message += event.MsgHumidityExceeded
	}

	switch {
	case d.lastStatus == event.StatusCalibrating:
		message += event.MsgCalibrating
	case d.lastStatus != event.StatusReady:
		message += event.MsgNotReady
	}

	d.emitter.Emit(event.StatusChanged, d.lastStatus, message)
}

func (d *Detector) roiModeChanged(v channel.Value) {
	idx := indexOf(d.cfg.RoiModes, v.Str)
	if idx < 0 {
		log.Printf("detector: ROI mode %q not in configured list", v.Str)
		return
	}
	d.roiMode = idx
	d.emitter.Emit(event.DetectorModeChanged, idx)
}

func (d *Detector) frameRateChanged(v channel.Value) {
	if v.Float > 0 {
		d.expTimeMin = 1 / v.Float
		d.expTimeMax = MaxExposureTime
	}
	d.emitter.Emit(event.ExpTimeLimitsChanged, d.expTimeMin, d.expTimeMax)
}

func (d *Detector) actualFrameRateChanged(v channel.Value) {
	d.actualFrameRate = v.Float
	d.emitter.Emit(event.FrameRateChanged, v.Float)
}

// ---- device capability getters ----

// Distance returns the detector distance in mm.
func (d *Detector) Distance() (float64, error) {
	return d.motor.Position()
}

// DistanceLimits returns the detector distance limits in mm.
func (d *Detector) DistanceLimits() (float64, float64, error) {
	return d.motor.Limits()
}

// ExposureTimeLimits returns the current (min, max) exposure time.
func (d *Detector) ExposureTimeLimits() (float64, float64) {
	return d.expTimeMin, d.expTimeMax
}

// RoiMode returns the cached ROI mode index, -1 when unknown.
func (d *Detector) RoiMode() int {
	return d.roiMode
}

// RoiModes returns the configured ROI mode list.
func (d *Detector) RoiModes() []string {
	return d.cfg.RoiModes
}

// SetRoiMode selects a ROI mode by index into the configured list and
// writes it to the device.
func (d *Detector) SetRoiMode(index int) error {
	if index < 0 || index >= len(d.cfg.RoiModes) {
		return fmt.Errorf("detector: ROI mode index %d out of range 0..%d", index, len(d.cfg.RoiModes)-1)
	}
	return d.provider.Write(d.cfg.Channels.RoiMode, channel.EnumValue(d.cfg.RoiModes[index]))
}

// BeamCentre returns the beam centre coordinates, (0, 0) when the
// channel is not wired or has no value yet.
func (d *Detector) BeamCentre() (float64, float64) {
	if d.cfg.Channels.BeamXY == "" {
		return 0, 0
	}
	v, err := d.provider.Read(d.cfg.Channels.BeamXY)
	if err != nil {
		return 0, 0
	}
	return v.Pair[0], v.Pair[1]
}

// HasShutterless reports shutterless collection capability.
func (d *Detector) HasShutterless() bool {
	return d.cfg.HasShutterless
}

// CollectName returns the collection object name.
func (d *Detector) CollectName() string {
	return d.cfg.CollectName
}

// ShutterName returns the shutter object name.
func (d *Detector) ShutterName() string {
	return d.cfg.ShutterName
}

// PixelLimits returns the configured pixel count limits.
func (d *Detector) PixelLimits() (int, int) {
	return d.cfg.PixelMin, d.cfg.PixelMax
}

// UpdateValues re-emits every cached value without re-reading the
// device channels.
func (d *Detector) UpdateValues() {
	d.emitter.Emit(event.DetectorModeChanged, d.roiMode)
	d.emitter.Emit(event.TemperatureChanged, d.temperature, d.temperature < d.cfg.TempThreshold)
	d.emitter.Emit(event.HumidityChanged, d.humidity, d.humidity < d.cfg.HumidityThreshold)
	d.refreshStatus()
	d.emitter.Emit(event.ExpTimeLimitsChanged, d.expTimeMin, d.expTimeMax)
	d.emitter.Emit(event.FrameRateChanged, d.actualFrameRate)
}

// ---- helpers ----

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
